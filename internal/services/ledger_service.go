package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"salesledger/internal/domain"
	"salesledger/internal/report"
	"salesledger/internal/repos"
)

type LedgerService struct {
	DB    *sqlx.DB
	Prods *repos.ProductRepo
	Sales *repos.SaleRepo
	Now   func() time.Time
}

func NewLedgerService(db *sqlx.DB, prods *repos.ProductRepo, sales *repos.SaleRepo) *LedgerService {
	return &LedgerService{DB: db, Prods: prods, Sales: sales, Now: time.Now}
}

// build validates in and returns the sale to store, amount receivable included.
func (s *LedgerService) build(in domain.SaleInput) (domain.Sale, error) {
	name := strings.TrimSpace(in.ProductName)
	if name == "" {
		return domain.Sale{}, domain.Invalid("product_name", "choose a product")
	}
	if in.Quantity < 1 {
		return domain.Sale{}, domain.Invalid("quantity", "must be at least 1")
	}
	if in.UnitPrice.IsNegative() {
		return domain.Sale{}, domain.Invalid("unit_price", "must not be negative")
	}
	if in.CommissionPercent.IsNegative() {
		return domain.Sale{}, domain.Invalid("commission_percent", "must not be negative")
	}

	installments := in.Installments
	switch in.PaymentMethod {
	case domain.PaymentPix:
		installments = 1
	case domain.PaymentCard:
		if installments < 1 {
			return domain.Sale{}, domain.Invalid("installments", "must be at least 1")
		}
	default:
		return domain.Sale{}, domain.Invalid("payment_method", fmt.Sprintf("unknown payment method %q", in.PaymentMethod))
	}

	when := in.SaleDate
	if when.IsZero() {
		when = s.Now()
	}

	return domain.Sale{
		ProductName:       name,
		Quantity:          in.Quantity,
		UnitPrice:         in.UnitPrice,
		CommissionPercent: in.CommissionPercent,
		AmountReceivable:  domain.AmountReceivable(in.Quantity, in.UnitPrice, in.CommissionPercent),
		PaymentMethod:     in.PaymentMethod,
		Installments:      installments,
		SaleDate:          when.Format(domain.DateLayout),
	}, nil
}

// Preview returns the amount receivable a sale would store, without saving.
func (s *LedgerService) Preview(in domain.SaleInput) (decimal.Decimal, error) {
	sale, err := s.build(in)
	if err != nil {
		return decimal.Zero, err
	}
	return sale.AmountReceivable, nil
}

// Record stores a sale. The product must exist in the catalog at the time of
// recording; the check and the insert share one transaction.
func (s *LedgerService) Record(ctx context.Context, in domain.SaleInput) (domain.Sale, error) {
	sale, err := s.build(in)
	if err != nil {
		return domain.Sale{}, err
	}

	var id int64
	err = repos.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		ok, err := s.Prods.WithTx(tx).ExistsByName(ctx, sale.ProductName)
		if err != nil {
			return err
		}
		if !ok {
			return domain.Invalid("product_name", fmt.Sprintf("product %q is not registered", sale.ProductName))
		}
		id, err = s.Sales.WithTx(tx).Insert(ctx, sale)
		return err
	})
	if err != nil {
		return domain.Sale{}, err
	}
	return s.Sales.Get(ctx, id)
}

func (s *LedgerService) Delete(ctx context.Context, id int64) error {
	return s.Sales.Delete(ctx, id)
}

func (s *LedgerService) List(ctx context.Context) ([]domain.Sale, error) {
	return s.Sales.List(ctx)
}

// Query lists the sales matching f, filtered by the database.
func (s *LedgerService) Query(ctx context.Context, f report.Filter) ([]domain.Sale, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return s.Sales.Query(ctx, f)
}
