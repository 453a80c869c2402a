package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"salesledger/internal/domain"
	"salesledger/internal/repos"
)

const maxProductName = 120

type CatalogService struct {
	Prods *repos.ProductRepo
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods}
}

func (s *CatalogService) Register(ctx context.Context, name, description string) (domain.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Product{}, domain.Invalid("name", "product name is required")
	}
	if utf8.RuneCountInString(name) > maxProductName {
		return domain.Product{}, domain.Invalid("name", "product name is too long")
	}
	return s.Prods.Create(ctx, name, strings.TrimSpace(description))
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	return s.Prods.List(ctx)
}

func (s *CatalogService) Names(ctx context.Context) ([]string, error) {
	return s.Prods.Names(ctx)
}

func (s *CatalogService) Get(ctx context.Context, id int64) (domain.Product, error) {
	return s.Prods.Get(ctx, id)
}

// Delete removes a product. Recorded sales are left untouched.
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	return s.Prods.Delete(ctx, id)
}
