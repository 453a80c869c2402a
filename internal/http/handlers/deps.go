package handlers

import (
	"github.com/jmoiron/sqlx"

	"salesledger/internal/repos"
	"salesledger/internal/services"
)

type Deps struct {
	ProductHandler *ProductHandler
	SaleHandler    *SaleHandler
	ReportHandler  *ReportHandler
}

func NewDeps(db *sqlx.DB) *Deps {
	prodRepo := repos.NewProductRepo(db)
	saleRepo := repos.NewSaleRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo)
	ledgerSvc := services.NewLedgerService(db, prodRepo, saleRepo)
	reportSvc := services.NewReportService(saleRepo)

	return &Deps{
		ProductHandler: &ProductHandler{Catalog: catalogSvc},
		SaleHandler:    &SaleHandler{Catalog: catalogSvc, Ledger: ledgerSvc},
		ReportHandler:  &ReportHandler{Catalog: catalogSvc, Reports: reportSvc},
	}
}
