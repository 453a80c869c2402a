package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"salesledger/internal/domain"
	applog "salesledger/internal/log"
	"salesledger/internal/services"
	"salesledger/internal/validate"
)

type SaleHandler struct {
	Catalog *services.CatalogService
	Ledger  *services.LedgerService
}

func (h *SaleHandler) form(c *fiber.Ctx, status int, f saleForm, data fiber.Map) error {
	names, err := h.Catalog.Names(c.UserContext())
	if err != nil {
		applog.Error(c, "sale.form.load", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load the product list"})
	}
	if data == nil {
		data = fiber.Map{}
	}
	if len(names) == 0 {
		data["Warn"] = "Register products before recording sales."
	}
	if f.SaleDate == "" {
		f.SaleDate = h.Ledger.Now().Format(domain.DateLayout)
	}
	if f.PaymentMethod == "" {
		f.PaymentMethod = string(domain.PaymentPix)
	}
	data["Names"] = names
	data["Form"] = f
	data["Methods"] = domain.PaymentMethods
	c.Status(status)
	return render(c, "sale_form", data)
}

func (h *SaleHandler) New(c *fiber.Ctx) error {
	data := fiber.Map{}
	if c.Query("ok") == "1" {
		data["Msg"] = "Sale recorded"
	}
	return h.form(c, fiber.StatusOK, saleForm{}, data)
}

func (h *SaleHandler) Record(c *fiber.Ctx) error {
	f := readSaleForm(c)
	in, err := f.input()
	if err == nil {
		var sale domain.Sale
		sale, err = h.Ledger.Record(c.UserContext(), in)
		if err == nil {
			applog.Audit(c, "sale.record", map[string]any{
				"sale_id":           sale.ID,
				"product":           sale.ProductName,
				"amount_receivable": sale.AmountReceivable.String(),
			})
			return c.Redirect("/sales/new?ok=1")
		}
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		applog.Security(c, "validation.fail", map[string]any{"field": ve.Field})
		return h.form(c, fiber.StatusBadRequest, f, fiber.Map{"Err": ve.Error()})
	}
	applog.Error(c, "sale.record.fail", err, nil)
	return h.form(c, fiber.StatusInternalServerError, f, fiber.Map{"Err": friendlyError})
}

func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "sale"})
		return notFound(c, "Sale not found")
	}
	if err := h.Ledger.Delete(c.UserContext(), id); err != nil {
		if statusFor(err) == fiber.StatusNotFound {
			return notFound(c, "Sale not found")
		}
		applog.Error(c, "sale.delete.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": friendlyError})
	}
	applog.Audit(c, "sale.delete", map[string]any{"sale_id": id})
	back := c.Get(fiber.HeaderReferer)
	if back == "" {
		back = "/reports"
	}
	return c.Redirect(back)
}

func (h *SaleHandler) APIList(c *fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return apiError(c, "sale.query", err)
	}
	sales, err := h.Ledger.Query(c.UserContext(), f)
	if err != nil {
		return apiError(c, "sale.query", err)
	}
	if sales == nil {
		sales = []domain.Sale{}
	}
	return c.JSON(sales)
}

func (h *SaleHandler) parseRequest(c *fiber.Ctx) (domain.SaleInput, error) {
	var req saleRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.SaleInput{}, domain.Invalid("body", "malformed request body")
	}
	return req.input()
}

func (h *SaleHandler) APICreate(c *fiber.Ctx) error {
	in, err := h.parseRequest(c)
	if err != nil {
		return apiError(c, "sale.record", err)
	}
	sale, err := h.Ledger.Record(c.UserContext(), in)
	if err != nil {
		return apiError(c, "sale.record", err)
	}
	applog.Audit(c, "sale.record", map[string]any{
		"sale_id":           sale.ID,
		"product":           sale.ProductName,
		"amount_receivable": sale.AmountReceivable.String(),
	})
	return c.Status(fiber.StatusCreated).JSON(sale)
}

// APIPreview computes the amount receivable without storing anything.
func (h *SaleHandler) APIPreview(c *fiber.Ctx) error {
	in, err := h.parseRequest(c)
	if err != nil {
		return apiError(c, "sale.preview", err)
	}
	amount, err := h.Ledger.Preview(in)
	if err != nil {
		return apiError(c, "sale.preview", err)
	}
	return c.JSON(fiber.Map{"amount_receivable": amount})
}

func (h *SaleHandler) APIDelete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apiError(c, "sale.delete", domain.Invalid("id", "invalid sale id"))
	}
	if err := h.Ledger.Delete(c.UserContext(), id); err != nil {
		return apiError(c, "sale.delete", err)
	}
	applog.Audit(c, "sale.delete", map[string]any{"sale_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}
