package handlers

import (
	"foodgram/domain"
	"foodgram/internal/api/presenters"
	"foodgram/internal/middleware"
	"foodgram/internal/utils"
	"foodgram/pkg/ledger"
	"foodgram/pkg/user"

	"github.com/gofiber/fiber/v2"
)

type (
	UserHandler interface {
		Register(c *fiber.Ctx) error
		Login(c *fiber.Ctx) error
		ListUsers(c *fiber.Ctx) error
		Me(c *fiber.Ctx) error
		GetUser(c *fiber.Ctx) error
		SetPassword(c *fiber.Ctx) error
		UpdateAvatar(c *fiber.Ctx) error
		DeleteAvatar(c *fiber.Ctx) error
		Subscribe(c *fiber.Ctx) error
		Unsubscribe(c *fiber.Ctx) error
		ListSubscriptions(c *fiber.Ctx) error
	}

	userHandler struct {
		userService   user.UserService
		ledgerService ledger.LedgerService
	}
)

func NewUserHandler(userService user.UserService, ledgerService ledger.LedgerService) UserHandler {
	return &userHandler{
		userService:   userService,
		ledgerService: ledgerService,
	}
}

func recipesLimit(c *fiber.Ctx) int {
	limit := c.QueryInt("recipes_limit", -1)
	if limit < 0 {
		return -1
	}
	return limit
}

func (h *userHandler) Register(c *fiber.Ctx) error {
	req := new(domain.RegisterUserRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.userService.Register(c.Context(), *req)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedRegister, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessRegister)
}

func (h *userHandler) Login(c *fiber.Ctx) error {
	req := new(domain.LoginRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.userService.Login(c.Context(), *req)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedLogin, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessLogin)
}

func (h *userHandler) ListUsers(c *fiber.Ctx) error {
	pagination := utils.ParsePagination(c)
	users, count, err := h.userService.ListUsers(c.Context(), pagination, middleware.UserID(c))
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetUsers, err)
	}

	return presenters.SuccessResponse(c, pagination.Response(c, count, users), fiber.StatusOK, domain.MessageSuccessGetUsers)
}

func (h *userHandler) Me(c *fiber.Ctx) error {
	res, err := h.userService.Me(c.Context(), middleware.UserID(c))
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetUser, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetUser)
}

func (h *userHandler) GetUser(c *fiber.Ctx) error {
	res, err := h.userService.GetUser(c.Context(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetUser, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetUser)
}

func (h *userHandler) SetPassword(c *fiber.Ctx) error {
	req := new(domain.SetPasswordRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.userService.SetPassword(c.Context(), middleware.UserID(c), *req); err != nil {
		return presenters.ServiceError(c, domain.MessageFailedSetPassword, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *userHandler) UpdateAvatar(c *fiber.Ctx) error {
	req := new(domain.AvatarRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.userService.UpdateAvatar(c.Context(), middleware.UserID(c), *req)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedUpdateAvatar, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateAvatar)
}

func (h *userHandler) DeleteAvatar(c *fiber.Ctx) error {
	if err := h.userService.DeleteAvatar(c.Context(), middleware.UserID(c)); err != nil {
		return presenters.ServiceError(c, domain.MessageFailedDeleteAvatar, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *userHandler) Subscribe(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	authorID := c.Params("id")

	if err := h.ledgerService.Subscribe(c.Context(), userID, authorID); err != nil {
		return presenters.ServiceError(c, domain.MessageFailedSubscribe, err)
	}

	res, err := h.userService.GetSubscription(c.Context(), userID, authorID, recipesLimit(c))
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedSubscribe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSubscribe)
}

func (h *userHandler) Unsubscribe(c *fiber.Ctx) error {
	if err := h.ledgerService.Unsubscribe(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return presenters.ServiceError(c, domain.MessageFailedUnsubscribe, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *userHandler) ListSubscriptions(c *fiber.Ctx) error {
	pagination := utils.ParsePagination(c)
	res, count, err := h.userService.ListSubscriptions(c.Context(), middleware.UserID(c), pagination, recipesLimit(c))
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetSubs, err)
	}

	return presenters.SuccessResponse(c, pagination.Response(c, count, res), fiber.StatusOK, domain.MessageSuccessGetSubs)
}
