package handlers

import (
	"bytes"
	"io"

	"foodgram/domain"
	"foodgram/internal/api/presenters"
	"foodgram/pkg/catalog"

	"github.com/gofiber/fiber/v2"
)

type (
	CatalogHandler interface {
		ListIngredients(c *fiber.Ctx) error
		GetIngredient(c *fiber.Ctx) error
		ListTags(c *fiber.Ctx) error
		GetTag(c *fiber.Ctx) error
		ImportIngredients(c *fiber.Ctx) error
	}

	catalogHandler struct {
		catalogService catalog.CatalogService
	}
)

func NewCatalogHandler(catalogService catalog.CatalogService) CatalogHandler {
	return &catalogHandler{
		catalogService: catalogService,
	}
}

func (h *catalogHandler) ListIngredients(c *fiber.Ctx) error {
	res, err := h.catalogService.ListIngredients(c.Context(), c.Query("name"))
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetIngredients, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetIngredients)
}

func (h *catalogHandler) GetIngredient(c *fiber.Ctx) error {
	res, err := h.catalogService.GetIngredient(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetIngredient, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetIngredient)
}

func (h *catalogHandler) ListTags(c *fiber.Ctx) error {
	res, err := h.catalogService.ListTags(c.Context())
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetTags, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetTags)
}

func (h *catalogHandler) GetTag(c *fiber.Ctx) error {
	res, err := h.catalogService.GetTag(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetTag, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetTag)
}

// ImportIngredients takes the CSV either as a multipart "file" field or as
// the raw request body.
func (h *catalogHandler) ImportIngredients(c *fiber.Ctx) error {
	var src io.Reader = bytes.NewReader(c.Body())
	if fileHeader, err := c.FormFile("file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
		}
		defer file.Close()
		src = file
	}

	res, err := h.catalogService.ImportIngredientsCSV(c.Context(), src)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedImportIngredients, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessImportIngredients)
}
