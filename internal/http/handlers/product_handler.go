package handlers

import (
	"github.com/gofiber/fiber/v2"

	"salesledger/internal/domain"
	"salesledger/internal/log"
	"salesledger/internal/services"
	"salesledger/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

func (h *ProductHandler) page(c *fiber.Ctx, status int, data fiber.Map) error {
	products, err := h.Catalog.List(c.UserContext())
	if err != nil {
		log.Error(c, "product.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load products"})
	}
	if data == nil {
		data = fiber.Map{}
	}
	data["Products"] = products
	c.Status(status)
	return render(c, "products", data)
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	data := fiber.Map{}
	if c.Query("ok") == "1" {
		data["Msg"] = "Product registered"
	}
	return h.page(c, fiber.StatusOK, data)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	name := c.FormValue("name")
	desc := c.FormValue("description")
	p, err := h.Catalog.Register(c.UserContext(), name, desc)
	if err != nil {
		if domain.IsValidation(err) {
			log.Security(c, "validation.fail", map[string]any{"field": "name"})
			return h.page(c, fiber.StatusBadRequest, fiber.Map{"Err": err.Error(), "Name": name, "Description": desc})
		}
		log.Error(c, "product.register.fail", err, nil)
		return h.page(c, fiber.StatusInternalServerError, fiber.Map{"Err": friendlyError})
	}
	log.Audit(c, "product.register", map[string]any{"product_id": p.ID, "name": p.Name})
	return c.Redirect("/products?ok=1")
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return notFound(c, "Product not found")
	}
	if err := h.Catalog.Delete(c.UserContext(), id); err != nil {
		if statusFor(err) == fiber.StatusNotFound {
			return notFound(c, "Product not found")
		}
		log.Error(c, "product.delete.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": friendlyError})
	}
	log.Audit(c, "product.delete", map[string]any{"product_id": id})
	return c.Redirect("/products")
}

type productRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *ProductHandler) APIList(c *fiber.Ctx) error {
	products, err := h.Catalog.List(c.UserContext())
	if err != nil {
		return apiError(c, "product.list", err)
	}
	return c.JSON(products)
}

func (h *ProductHandler) APIGet(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apiError(c, "product.get", domain.Invalid("id", "invalid product id"))
	}
	p, err := h.Catalog.Get(c.UserContext(), id)
	if err != nil {
		return apiError(c, "product.get", err)
	}
	return c.JSON(p)
}

func (h *ProductHandler) APICreate(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return apiError(c, "product.register", domain.Invalid("body", "malformed request body"))
	}
	p, err := h.Catalog.Register(c.UserContext(), req.Name, req.Description)
	if err != nil {
		return apiError(c, "product.register", err)
	}
	log.Audit(c, "product.register", map[string]any{"product_id": p.ID, "name": p.Name})
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *ProductHandler) APIDelete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apiError(c, "product.delete", domain.Invalid("id", "invalid product id"))
	}
	if err := h.Catalog.Delete(c.UserContext(), id); err != nil {
		return apiError(c, "product.delete", err)
	}
	log.Audit(c, "product.delete", map[string]any{"product_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}
