package presenters

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"foodgram/domain"
	"foodgram/internal/utils/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStatusFromError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, fiber.StatusOK},
		{domain.NewFieldError("name", "required"), fiber.StatusBadRequest},
		{domain.ErrParseUUID, fiber.StatusBadRequest},
		{domain.ErrTokenExpired, fiber.StatusUnauthorized},
		{domain.ErrUnauthorizedRecipeAccess, fiber.StatusForbidden},
		{domain.ErrRecipeNotFound, fiber.StatusNotFound},
		{fmt.Errorf("wrapped: %w", domain.ErrAlreadyFavorited), fiber.StatusConflict},
		{domain.StoreError(errors.New("disk full")), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFromError(tc.err), "%v", tc.err)
	}
}

func TestServiceError(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	SetLogger(&logger.Logger{SugaredLogger: zap.New(core).Sugar()})
	t.Cleanup(func() { SetLogger(nil) })

	errs := map[string]error{
		"/store":      domain.StoreError(errors.New(`pq: relation "recipes" does not exist`)),
		"/unexpected": errors.New("nil map write"),
		"/missing":    domain.ErrRecipeNotFound,
	}
	app := fiber.New()
	app.Get("/:case", func(c *fiber.Ctx) error {
		return ServiceError(c, "failed", errs["/"+c.Params("case")])
	})

	call := func(path string) (int, Response) {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		var res Response
		require.NoError(t, json.Unmarshal(body, &res))
		return resp.StatusCode, res
	}

	status, res := call("/store")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, internalError, res.Error)
	assert.Equal(t, "failed", res.Message)

	status, res = call("/unexpected")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, internalError, res.Error)

	status, res = call("/missing")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, domain.ErrRecipeNotFound.Error(), res.Error)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "/store", entries[0].ContextMap()["path"])
	assert.Contains(t, entries[0].ContextMap()["error"], `relation "recipes" does not exist`)
	assert.Equal(t, "nil map write", entries[1].ContextMap()["error"])
}
