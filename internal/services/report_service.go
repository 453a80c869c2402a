package services

import (
	"context"
	"io"

	"salesledger/internal/export"
	"salesledger/internal/report"
	"salesledger/internal/repos"
)

type ReportService struct {
	Sales *repos.SaleRepo
}

func NewReportService(sales *repos.SaleRepo) *ReportService {
	return &ReportService{Sales: sales}
}

// Build runs the aggregator over the whole ledger.
func (s *ReportService) Build(ctx context.Context, f report.Filter) (report.Report, error) {
	if err := f.Validate(); err != nil {
		return report.Report{}, err
	}
	sales, err := s.Sales.List(ctx)
	if err != nil {
		return report.Report{}, err
	}
	return report.Build(sales, f)
}

// Export writes the rows of the filtered report with e.
func (s *ReportService) Export(ctx context.Context, w io.Writer, f report.Filter, e export.Exporter, cols []export.Column) error {
	rep, err := s.Build(ctx, f)
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		cols = export.DefaultColumns
	}
	return e.Export(w, rep.Rows, cols)
}
