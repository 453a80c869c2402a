package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"salesledger/internal/domain"
	"salesledger/internal/report"
	"salesledger/internal/validate"
)

// saleForm holds the raw form fields so a rejected form can be redisplayed.
type saleForm struct {
	ProductName       string
	Quantity          string
	UnitPrice         string
	CommissionPercent string
	PaymentMethod     string
	Installments      string
	SaleDate          string
}

func readSaleForm(c *fiber.Ctx) saleForm {
	return saleForm{
		ProductName:       c.FormValue("product_name"),
		Quantity:          c.FormValue("quantity"),
		UnitPrice:         c.FormValue("unit_price"),
		CommissionPercent: c.FormValue("commission_percent"),
		PaymentMethod:     c.FormValue("payment_method"),
		Installments:      c.FormValue("installments"),
		SaleDate:          c.FormValue("sale_date"),
	}
}

func (f saleForm) input() (domain.SaleInput, error) {
	in := domain.SaleInput{ProductName: strings.TrimSpace(f.ProductName)}
	var ok bool
	if in.Quantity, ok = validate.Qty(f.Quantity); !ok {
		return in, domain.Invalid("quantity", "enter a whole number of at least 1")
	}
	if in.UnitPrice, ok = validate.Money(f.UnitPrice); !ok {
		return in, domain.Invalid("unit_price", "enter a non-negative amount such as 12.50")
	}
	if in.CommissionPercent, ok = validate.Percent(f.CommissionPercent); !ok {
		return in, domain.Invalid("commission_percent", "enter a non-negative percentage such as 10")
	}
	if in.PaymentMethod, ok = validate.PaymentMethod(f.PaymentMethod); !ok {
		return in, domain.Invalid("payment_method", "choose Pix or Card")
	}
	in.Installments = 1
	if in.PaymentMethod == domain.PaymentCard {
		if in.Installments, ok = validate.Installments(f.Installments); !ok {
			return in, domain.Invalid("installments", "enter between 1 and 360 installments")
		}
	}
	if in.SaleDate, ok = validate.Date(f.SaleDate); !ok {
		return in, domain.Invalid("sale_date", "use the YYYY-MM-DD format")
	}
	return in, nil
}

// saleRequest is the JSON body of the sales API. Decimals may be sent as
// strings or numbers.
type saleRequest struct {
	ProductName       string          `json:"product_name"`
	Quantity          int             `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
	PaymentMethod     string          `json:"payment_method"`
	Installments      int             `json:"installments"`
	SaleDate          string          `json:"sale_date"`
}

func (r saleRequest) input() (domain.SaleInput, error) {
	in := domain.SaleInput{
		ProductName:       r.ProductName,
		Quantity:          r.Quantity,
		UnitPrice:         r.UnitPrice,
		CommissionPercent: r.CommissionPercent,
		Installments:      r.Installments,
	}
	if in.Installments == 0 {
		in.Installments = 1
	}
	var ok bool
	if in.PaymentMethod, ok = validate.PaymentMethod(r.PaymentMethod); !ok {
		return in, domain.Invalid("payment_method", "choose Pix or Card")
	}
	if in.SaleDate, ok = validate.Date(r.SaleDate); !ok {
		return in, domain.Invalid("sale_date", "use the YYYY-MM-DD format")
	}
	return in, nil
}

var maxDay = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// parseFilter reads repeated product and method params plus from/to.
// A missing bound leaves that side of the range open.
func parseFilter(c *fiber.Ctx) (report.Filter, error) {
	var f report.Filter
	args := c.Context().QueryArgs()
	for _, v := range args.PeekMulti("product") {
		if name := strings.TrimSpace(string(v)); name != "" {
			f.ProductNames = append(f.ProductNames, name)
		}
	}
	for _, v := range args.PeekMulti("method") {
		raw := strings.TrimSpace(string(v))
		if raw == "" {
			continue
		}
		m, ok := validate.PaymentMethod(raw)
		if !ok {
			return f, domain.Invalid("method", "unknown payment method "+raw)
		}
		f.PaymentMethods = append(f.PaymentMethods, m)
	}

	from, ok := validate.Date(c.Query("from"))
	if !ok {
		return f, domain.Invalid("from", "use the YYYY-MM-DD format")
	}
	to, ok := validate.Date(c.Query("to"))
	if !ok {
		return f, domain.Invalid("to", "use the YYYY-MM-DD format")
	}
	if from.IsZero() && to.IsZero() {
		return f, nil
	}
	if to.IsZero() {
		to = maxDay
	}
	r, err := report.NewDateRange(from, to)
	if err != nil {
		return f, err
	}
	f.Range = r
	return f, nil
}
