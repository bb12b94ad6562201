package handlers

import (
	"strings"

	"foodgram/domain"
	"foodgram/internal/api/presenters"
	"foodgram/internal/middleware"
	"foodgram/internal/utils"
	"foodgram/pkg/ledger"
	"foodgram/pkg/recipe"
	"foodgram/pkg/shoppinglist"

	"github.com/gofiber/fiber/v2"
)

type (
	RecipeHandler interface {
		ListRecipes(c *fiber.Ctx) error
		GetRecipe(c *fiber.Ctx) error
		CreateRecipe(c *fiber.Ctx) error
		UpdateRecipe(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
		AddFavorite(c *fiber.Ctx) error
		RemoveFavorite(c *fiber.Ctx) error
		AddToCart(c *fiber.Ctx) error
		RemoveFromCart(c *fiber.Ctx) error
		ListCart(c *fiber.Ctx) error
		DownloadShoppingList(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService       recipe.RecipeService
		ledgerService       ledger.LedgerService
		shoppingListService shoppinglist.ShoppingListService
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService, ledgerService ledger.LedgerService, shoppingListService shoppinglist.ShoppingListService) RecipeHandler {
	return &recipeHandler{
		recipeService:       recipeService,
		ledgerService:       ledgerService,
		shoppingListService: shoppingListService,
	}
}

func queryFlag(c *fiber.Ctx, key string) bool {
	switch strings.ToLower(c.Query(key)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func (h *recipeHandler) ListRecipes(c *fiber.Ctx) error {
	filter := domain.RecipeFilter{
		AuthorID:         c.Query("author"),
		IsFavorited:      queryFlag(c, "is_favorited"),
		IsInShoppingCart: queryFlag(c, "is_in_shopping_cart"),
	}
	for _, tag := range c.Context().QueryArgs().PeekMulti("tags") {
		if slug := strings.TrimSpace(string(tag)); slug != "" {
			filter.Tags = append(filter.Tags, slug)
		}
	}
	pagination := utils.ParsePagination(c)

	recipes, count, err := h.recipeService.ListRecipes(c.Context(), filter, pagination, middleware.UserID(c))
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetRecipes, err)
	}

	return presenters.SuccessResponse(c, pagination.Response(c, count, recipes), fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) GetRecipe(c *fiber.Ctx) error {
	res, err := h.recipeService.GetRecipe(c.Context(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetRecipeDetail, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipeDetail)
}

func (h *recipeHandler) CreateRecipe(c *fiber.Ctx) error {
	req := new(domain.CreateRecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.recipeService.CreateRecipe(c.Context(), *req, middleware.UserID(c))
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedCreateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateRecipe)
}

func (h *recipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	req := new(domain.UpdateRecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.recipeService.UpdateRecipe(c.Context(), c.Params("id"), *req, middleware.UserID(c))
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedUpdateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateRecipe)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	if err := h.recipeService.DeleteRecipe(c.Context(), c.Params("id"), middleware.UserID(c)); err != nil {
		return presenters.ServiceError(c, domain.MessageFailedDeleteRecipe, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *recipeHandler) AddFavorite(c *fiber.Ctx) error {
	res, err := h.ledgerService.AddFavorite(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedAddFavorite, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddFavorite)
}

func (h *recipeHandler) RemoveFavorite(c *fiber.Ctx) error {
	if err := h.ledgerService.RemoveFavorite(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return presenters.ServiceError(c, domain.MessageFailedRemoveFavorite, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *recipeHandler) AddToCart(c *fiber.Ctx) error {
	res, err := h.ledgerService.AddToCart(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedAddToCart, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddToCart)
}

func (h *recipeHandler) RemoveFromCart(c *fiber.Ctx) error {
	if err := h.ledgerService.RemoveFromCart(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return presenters.ServiceError(c, domain.MessageFailedRemoveFromCart, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *recipeHandler) ListCart(c *fiber.Ctx) error {
	res, err := h.ledgerService.ListCart(c.Context(), middleware.UserID(c))
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetCart, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetCart)
}

func (h *recipeHandler) DownloadShoppingList(c *fiber.Ctx) error {
	doc, err := h.shoppingListService.DownloadShoppingList(c.Context(), middleware.UserID(c))
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedDownloadShoppingList, err)
	}

	c.Attachment(shoppinglist.FileName)
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Status(fiber.StatusOK).Send(doc)
}
