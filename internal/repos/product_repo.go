package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"salesledger/internal/domain"
)

type ProductRepo struct{ db sqlx.ExtContext }

func NewProductRepo(db sqlx.ExtContext) *ProductRepo { return &ProductRepo{db: db} }

// WithTx returns a repo bound to tx.
func (r *ProductRepo) WithTx(tx *sqlx.Tx) *ProductRepo { return &ProductRepo{db: tx} }

const productColumns = `id, name, description, COALESCE(created_at,'') AS created_at`

func (r *ProductRepo) Create(ctx context.Context, name, description string) (domain.Product, error) {
	res, err := r.db.ExecContext(ctx, `
	  INSERT INTO products(name, description, created_at)
	  VALUES (?, ?, CURRENT_TIMESTAMP)
	`, name, description)
	if err != nil {
		return domain.Product{}, domain.Persistence("products.create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Product{}, domain.Persistence("products.create", err)
	}
	return r.Get(ctx, id)
}

func (r *ProductRepo) Get(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := sqlx.GetContext(ctx, r.db, &p, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.NotFound("product", id)
	}
	if err != nil {
		return domain.Product{}, domain.Persistence("products.get", err)
	}
	return p, nil
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	out := []domain.Product{}
	if err := sqlx.SelectContext(ctx, r.db, &out, `SELECT `+productColumns+` FROM products ORDER BY id`); err != nil {
		return nil, domain.Persistence("products.list", err)
	}
	return out, nil
}

// Names returns the distinct product names in catalog order.
func (r *ProductRepo) Names(ctx context.Context) ([]string, error) {
	out := []string{}
	err := sqlx.SelectContext(ctx, r.db, &out, `
	  SELECT name FROM products GROUP BY name ORDER BY MIN(id)
	`)
	if err != nil {
		return nil, domain.Persistence("products.names", err)
	}
	return out, nil
}

func (r *ProductRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.db, &n, `SELECT COUNT(*) FROM products WHERE name = ?`, name); err != nil {
		return false, domain.Persistence("products.exists", err)
	}
	return n > 0, nil
}

// Delete removes the product row only; sales keep their copied name.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return domain.Persistence("products.delete", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.NotFound("product", id)
	}
	return nil
}
