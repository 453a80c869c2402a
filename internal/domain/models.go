package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	CreatedAt   string `db:"created_at" json:"created_at"`
}

type PaymentMethod string

const (
	PaymentPix  PaymentMethod = "PIX"
	PaymentCard PaymentMethod = "CARD"
)

var PaymentMethods = []PaymentMethod{PaymentPix, PaymentCard}

// ParsePaymentMethod accepts the labels shown on forms ("Pix", "Cartão") as
// well as the stored codes.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pix":
		return PaymentPix, true
	case "card", "cartão", "cartao", "credit":
		return PaymentCard, true
	}
	return "", false
}

func (m PaymentMethod) Label() string {
	switch m {
	case PaymentPix:
		return "Pix"
	case PaymentCard:
		return "Card"
	}
	return string(m)
}

// DateLayout is the on-disk and wire format of sale dates.
const DateLayout = time.DateOnly

type Sale struct {
	ID                int64           `db:"id" json:"id"`
	ProductName       string          `db:"product_name" json:"product_name"`
	Quantity          int             `db:"quantity" json:"quantity"`
	UnitPrice         decimal.Decimal `db:"unit_price" json:"unit_price"`
	CommissionPercent decimal.Decimal `db:"commission_percent" json:"commission_percent"`
	AmountReceivable  decimal.Decimal `db:"amount_receivable" json:"amount_receivable"`
	PaymentMethod     PaymentMethod   `db:"payment_method" json:"payment_method"`
	Installments      int             `db:"installments" json:"installments"`
	SaleDate          string          `db:"sale_date" json:"sale_date"` // YYYY-MM-DD
	CreatedAt         string          `db:"created_at" json:"created_at"`
}

// Gross is quantity × unit price.
func (s Sale) Gross() decimal.Decimal {
	return s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

// SaleInput is what a caller supplies to record a sale. A zero SaleDate means
// "today" according to the ledger clock.
type SaleInput struct {
	ProductName       string
	Quantity          int
	UnitPrice         decimal.Decimal
	CommissionPercent decimal.Decimal
	PaymentMethod     PaymentMethod
	Installments      int
	SaleDate          time.Time
}

var hundred = decimal.NewFromInt(100)

// AmountReceivable computes quantity × unit price × percent / 100.
func AmountReceivable(quantity int, unitPrice, percent decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(quantity)).Mul(unitPrice).Mul(percent).Div(hundred)
}
