package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"foodgram/domain"
	"foodgram/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T) (*fiber.App, jwt.JWTService) {
	t.Helper()
	jwtService := jwt.NewJWTServiceWithSecret("secret", time.Hour)
	m := NewMiddleware()

	app := fiber.New()
	echo := func(c *fiber.Ctx) error { return c.SendString("user=" + UserID(c)) }
	app.Get("/private", m.AuthMiddleware(jwtService), echo)
	app.Get("/public", m.OptionalAuthMiddleware(jwtService), echo)
	app.Get("/admin", m.AuthMiddleware(jwtService), m.OnlyAllow(domain.RoleAdmin), echo)
	return app, jwtService
}

func do(t *testing.T, app *fiber.App, path, auth string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthMiddleware(t *testing.T) {
	app, jwtService := newApp(t)
	token := jwtService.GenerateTokenUser("u1", domain.RoleUser)

	status, _ := do(t, app, "/private", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = do(t, app, "/private", "Bearer garbage")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body := do(t, app, "/private", "Bearer "+token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "user=u1", body)

	status, body = do(t, app, "/private", "Token "+token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "user=u1", body)
}

func TestOptionalAuthMiddleware(t *testing.T) {
	app, jwtService := newApp(t)

	status, body := do(t, app, "/public", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "user=", body)

	status, body = do(t, app, "/public", "Bearer "+jwtService.GenerateTokenUser("u2", domain.RoleUser))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "user=u2", body)

	status, _ = do(t, app, "/public", "Bearer garbage")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestOnlyAllow(t *testing.T) {
	app, jwtService := newApp(t)

	status, _ := do(t, app, "/admin", "Bearer "+jwtService.GenerateTokenUser("u1", domain.RoleUser))
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = do(t, app, "/admin", "Bearer "+jwtService.GenerateTokenUser("a1", domain.RoleAdmin))
	assert.Equal(t, fiber.StatusOK, status)
}
