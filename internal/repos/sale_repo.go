package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"salesledger/internal/domain"
	"salesledger/internal/report"
)

type SaleRepo struct{ db sqlx.ExtContext }

func NewSaleRepo(db sqlx.ExtContext) *SaleRepo { return &SaleRepo{db: db} }

func (r *SaleRepo) WithTx(tx *sqlx.Tx) *SaleRepo { return &SaleRepo{db: tx} }

var saleColumns = []string{
	"id", "product_name", "quantity", "unit_price", "commission_percent",
	"amount_receivable", "payment_method", "installments", "sale_date",
	"COALESCE(created_at,'') AS created_at",
}

// Insert stores s as given (amount_receivable included) and returns its id.
func (r *SaleRepo) Insert(ctx context.Context, s domain.Sale) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	  INSERT INTO sales
	    (product_name, quantity, unit_price, commission_percent, amount_receivable,
	     payment_method, installments, sale_date, created_at)
	  VALUES
	    (?,            ?,        ?,          ?,                  ?,
	     ?,              ?,            ?,         CURRENT_TIMESTAMP)
	`, s.ProductName, s.Quantity, s.UnitPrice, s.CommissionPercent, s.AmountReceivable,
		string(s.PaymentMethod), s.Installments, s.SaleDate)
	if err != nil {
		return 0, domain.Persistence("sales.insert", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, domain.Persistence("sales.insert", err)
	}
	return id, nil
}

func (r *SaleRepo) Get(ctx context.Context, id int64) (domain.Sale, error) {
	q, args, err := squirrel.Select(saleColumns...).From("sales").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return domain.Sale{}, err
	}
	var s domain.Sale
	err = sqlx.GetContext(ctx, r.db, &s, q, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Sale{}, domain.NotFound("sale", id)
	}
	if err != nil {
		return domain.Sale{}, domain.Persistence("sales.get", err)
	}
	return s, nil
}

func (r *SaleRepo) List(ctx context.Context) ([]domain.Sale, error) {
	return r.Query(ctx, report.Filter{})
}

// Query pushes f down to SQL. It selects the same rows report.Apply would.
func (r *SaleRepo) Query(ctx context.Context, f report.Filter) ([]domain.Sale, error) {
	b := squirrel.Select(saleColumns...).From("sales").OrderBy("id")
	if len(f.ProductNames) > 0 {
		b = b.Where(squirrel.Eq{"product_name": f.ProductNames})
	}
	if len(f.PaymentMethods) > 0 {
		methods := make([]string, len(f.PaymentMethods))
		for i, m := range f.PaymentMethods {
			methods[i] = string(m)
		}
		b = b.Where(squirrel.Eq{"payment_method": methods})
	}
	if f.Range != nil {
		b = b.Where(squirrel.GtOrEq{"sale_date": f.Range.Start.Format(domain.DateLayout)}).
			Where(squirrel.LtOrEq{"sale_date": f.Range.End.Format(domain.DateLayout)})
	}
	q, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	out := []domain.Sale{}
	if err := sqlx.SelectContext(ctx, r.db, &out, q, args...); err != nil {
		return nil, domain.Persistence("sales.query", err)
	}
	return out, nil
}

func (r *SaleRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sales WHERE id = ?`, id)
	if err != nil {
		return domain.Persistence("sales.delete", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.NotFound("sale", id)
	}
	return nil
}

func (r *SaleRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.db, &n, `SELECT COUNT(*) FROM sales`); err != nil {
		return 0, domain.Persistence("sales.count", err)
	}
	return n, nil
}
