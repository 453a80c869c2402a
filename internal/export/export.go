// Package export serializes ledger rows into spreadsheet formats.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"salesledger/internal/domain"
)

type Column string

const (
	ColProductName       Column = "product_name"
	ColQuantity          Column = "quantity"
	ColUnitPrice         Column = "unit_price"
	ColCommissionPercent Column = "commission_percent"
	ColPaymentMethod     Column = "payment_method"
	ColInstallments      Column = "installments"
	ColAmountReceivable  Column = "amount_receivable"
	ColSaleDate          Column = "sale_date"
	ColID                Column = "id"
)

// DefaultColumns is the projection shown on the report table and exported.
var DefaultColumns = []Column{
	ColProductName,
	ColQuantity,
	ColUnitPrice,
	ColPaymentMethod,
	ColInstallments,
	ColAmountReceivable,
	ColSaleDate,
}

var headers = map[Column]string{
	ColID:                "ID",
	ColProductName:       "Product",
	ColQuantity:          "Quantity",
	ColUnitPrice:         "Unit price",
	ColCommissionPercent: "Commission (%)",
	ColPaymentMethod:     "Payment method",
	ColInstallments:      "Installments",
	ColAmountReceivable:  "Amount receivable",
	ColSaleDate:          "Date",
}

func (c Column) Header() string { return headers[c] }

// ParseColumns validates a comma separated or repeated column projection.
// An empty input yields DefaultColumns.
func ParseColumns(names []string) ([]Column, error) {
	var cols []Column
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			part = strings.TrimSpace(strings.ToLower(part))
			if part == "" {
				continue
			}
			c := Column(part)
			if _, ok := headers[c]; !ok {
				return nil, domain.Invalid("columns", "unknown column "+part)
			}
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return DefaultColumns, nil
	}
	return cols, nil
}

// value returns the cell for c: numbers as float64/int so spreadsheets can
// sum them, everything else as text.
func value(s domain.Sale, c Column) any {
	switch c {
	case ColID:
		return s.ID
	case ColProductName:
		return s.ProductName
	case ColQuantity:
		return s.Quantity
	case ColUnitPrice:
		return s.UnitPrice.InexactFloat64()
	case ColCommissionPercent:
		return s.CommissionPercent.InexactFloat64()
	case ColPaymentMethod:
		return s.PaymentMethod.Label()
	case ColInstallments:
		return s.Installments
	case ColAmountReceivable:
		return s.AmountReceivable.InexactFloat64()
	case ColSaleDate:
		return s.SaleDate
	}
	return ""
}

// text is the exact string form used by text formats.
func text(s domain.Sale, c Column) string {
	switch c {
	case ColID:
		return strconv.FormatInt(s.ID, 10)
	case ColQuantity:
		return strconv.Itoa(s.Quantity)
	case ColInstallments:
		return strconv.Itoa(s.Installments)
	case ColUnitPrice:
		return s.UnitPrice.StringFixed(2)
	case ColCommissionPercent:
		return s.CommissionPercent.String()
	case ColAmountReceivable:
		return s.AmountReceivable.StringFixed(2)
	}
	return fmt.Sprint(value(s, c))
}

type Exporter interface {
	Export(w io.Writer, rows []domain.Sale, cols []Column) error
	ContentType() string
	Extension() string
}

// ForFormat picks an exporter by short name; xlsx is the default.
func ForFormat(format string) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "xlsx", "excel":
		return XLSX{}, nil
	case "csv":
		return CSV{}, nil
	}
	return nil, domain.Invalid("format", "unsupported export format "+format)
}
