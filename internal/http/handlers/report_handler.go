package handlers

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"salesledger/internal/domain"
	"salesledger/internal/export"
	"salesledger/internal/log"
	"salesledger/internal/report"
	"salesledger/internal/services"
)

const exportBaseName = "relatorio_vendas"

type ReportHandler struct {
	Catalog *services.CatalogService
	Reports *services.ReportService
}

type chartBar struct {
	Name  string
	Units int
	Width int // percent of the widest bar
}

func chart(rep report.Report) []chartBar {
	top := rep.MaxUnits()
	bars := make([]chartBar, 0, len(rep.ByProduct))
	for _, p := range rep.ByProduct {
		w := 0
		if top > 0 {
			w = p.Units * 100 / top
		}
		bars = append(bars, chartBar{Name: p.ProductName, Units: p.Units, Width: w})
	}
	return bars
}

func selection(f report.Filter) (map[string]bool, map[string]bool) {
	products := make(map[string]bool, len(f.ProductNames))
	for _, n := range f.ProductNames {
		products[n] = true
	}
	methods := make(map[string]bool, len(f.PaymentMethods))
	for _, m := range f.PaymentMethods {
		methods[string(m)] = true
	}
	return products, methods
}

func (h *ReportHandler) Page(c *fiber.Ctx) error {
	ctx := c.UserContext()
	names, err := h.Catalog.Names(ctx)
	if err != nil {
		log.Error(c, "report.load", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load the report"})
	}
	data := fiber.Map{
		"Names":   names,
		"Methods": domain.PaymentMethods,
		"From":    c.Query("from"),
		"To":      c.Query("to"),
	}
	data["SelProducts"], data["SelMethods"] = selection(report.Filter{})

	f, err := parseFilter(c)
	if err != nil {
		log.Security(c, "validation.fail", map[string]any{"field": "filter", "reason": err.Error()})
		data["Err"] = err.Error()
		c.Status(fiber.StatusBadRequest)
		return render(c, "report", data)
	}
	data["SelProducts"], data["SelMethods"] = selection(f)

	rep, err := h.Reports.Build(ctx, f)
	if err != nil {
		if domain.IsValidation(err) {
			data["Err"] = err.Error()
			c.Status(fiber.StatusBadRequest)
			return render(c, "report", data)
		}
		log.Error(c, "report.build.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load the report"})
	}
	data["Report"] = rep
	data["Chart"] = chart(rep)
	q := string(c.Request().URI().QueryString())
	if q != "" {
		q = "&" + q
	}
	data["ExportXLSX"] = "/reports/export?format=xlsx" + q
	data["ExportCSV"] = "/reports/export?format=csv" + q
	return render(c, "report", data)
}

// Export streams the filtered rows as a spreadsheet attachment.
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	exp, err := export.ForFormat(c.Query("format"))
	if err != nil {
		return apiError(c, "report.export", err)
	}
	cols, err := export.ParseColumns([]string{c.Query("columns")})
	if err != nil {
		return apiError(c, "report.export", err)
	}
	f, err := parseFilter(c)
	if err != nil {
		return apiError(c, "report.export", err)
	}

	var buf bytes.Buffer
	if err := h.Reports.Export(c.UserContext(), &buf, f, exp, cols); err != nil {
		return apiError(c, "report.export", err)
	}
	log.Audit(c, "report.export", map[string]any{"format": exp.Extension(), "bytes": buf.Len()})
	c.Set(fiber.HeaderContentType, exp.ContentType())
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.%s"`, exportBaseName, exp.Extension()))
	return c.Send(buf.Bytes())
}

func (h *ReportHandler) API(c *fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return apiError(c, "report.build", err)
	}
	rep, err := h.Reports.Build(c.UserContext(), f)
	if err != nil {
		return apiError(c, "report.build", err)
	}
	return c.JSON(rep)
}
