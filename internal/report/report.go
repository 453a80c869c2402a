// Package report filters and aggregates ledger rows. Everything here is pure:
// no storage access, no clocks.
package report

import (
	"slices"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"salesledger/internal/domain"
)

// DateRange is an inclusive [Start, End] range of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func NewDateRange(start, end time.Time) (*DateRange, error) {
	if day(start) > day(end) {
		return nil, domain.Invalid("date_range", "start date is after end date")
	}
	return &DateRange{Start: start, End: end}, nil
}

func (r DateRange) contains(saleDate string) bool {
	// ISO dates compare correctly as strings.
	if _, err := time.Parse(domain.DateLayout, saleDate); err != nil {
		return false
	}
	return saleDate >= day(r.Start) && saleDate <= day(r.End)
}

func day(t time.Time) string { return t.Format(domain.DateLayout) }

// Filter selects sales. An empty category places no restriction; categories
// combine with AND.
type Filter struct {
	ProductNames   []string               `json:"product_names,omitempty"`
	PaymentMethods []domain.PaymentMethod `json:"payment_methods,omitempty"`
	Range          *DateRange             `json:"range,omitempty"`
}

func (f Filter) Validate() error {
	for _, m := range f.PaymentMethods {
		if !slices.Contains(domain.PaymentMethods, m) {
			return domain.Invalid("payment_method", "unknown payment method "+string(m))
		}
	}
	if f.Range != nil && day(f.Range.Start) > day(f.Range.End) {
		return domain.Invalid("date_range", "start date is after end date")
	}
	return nil
}

func (f Filter) Match(s domain.Sale) bool {
	if len(f.ProductNames) > 0 && !slices.Contains(f.ProductNames, s.ProductName) {
		return false
	}
	if len(f.PaymentMethods) > 0 && !slices.Contains(f.PaymentMethods, s.PaymentMethod) {
		return false
	}
	if f.Range != nil && !f.Range.contains(s.SaleDate) {
		return false
	}
	return true
}

// Apply keeps the sales matching f, in input order.
func Apply(sales []domain.Sale, f Filter) ([]domain.Sale, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	out := make([]domain.Sale, 0, len(sales))
	for _, s := range sales {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	return out, nil
}

type Totals struct {
	Units      int             `json:"total_units"`
	Gross      decimal.Decimal `json:"total_gross"`
	Receivable decimal.Decimal `json:"total_receivable"`
}

// Summarize adds up units, gross value and the stored receivable amounts.
func Summarize(sales []domain.Sale) Totals {
	t := Totals{Gross: decimal.Zero, Receivable: decimal.Zero}
	for _, s := range sales {
		t.Units += s.Quantity
		t.Gross = t.Gross.Add(s.Gross())
		t.Receivable = t.Receivable.Add(s.AmountReceivable)
	}
	return t
}

type ProductUnits struct {
	ProductName string `json:"product_name"`
	Units       int    `json:"units"`
}

// GroupByProduct sums quantities per product name, sorted by name.
func GroupByProduct(sales []domain.Sale) []ProductUnits {
	byName := map[string]int{}
	for _, s := range sales {
		byName[s.ProductName] += s.Quantity
	}
	out := make([]ProductUnits, 0, len(byName))
	for name, units := range byName {
		out = append(out, ProductUnits{ProductName: name, Units: units})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductName < out[j].ProductName })
	return out
}

type Report struct {
	Filter    Filter         `json:"filter"`
	Rows      []domain.Sale  `json:"rows"`
	Totals    Totals         `json:"totals"`
	ByProduct []ProductUnits `json:"by_product"`
}

func Build(sales []domain.Sale, f Filter) (Report, error) {
	rows, err := Apply(sales, f)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Filter:    f,
		Rows:      rows,
		Totals:    Summarize(rows),
		ByProduct: GroupByProduct(rows),
	}, nil
}

// MaxUnits is the largest per-product bucket, used to scale chart bars.
func (r Report) MaxUnits() int {
	m := 0
	for _, p := range r.ByProduct {
		m = max(m, p.Units)
	}
	return m
}
