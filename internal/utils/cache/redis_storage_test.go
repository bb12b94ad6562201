package cache

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorage(t *testing.T) (fiber.Storage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := NewRedisStorage(mr.Addr(), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestNewRedisStorage_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	store, err := NewRedisStorage(addr, "")
	require.Error(t, err)
	assert.Nil(t, store)
	assert.Contains(t, err.Error(), "redis ping")
}

func TestNewRedisStorage_Password(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("s3cret")

	_, err := NewRedisStorage(mr.Addr(), "wrong")
	require.Error(t, err)

	store, err := NewRedisStorage(mr.Addr(), "s3cret")
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestRedisStorage_SetGetDelete(t *testing.T) {
	store, mr := newStorage(t)

	require.NoError(t, store.Set("10.0.0.1", []byte("3"), 0))
	got, err := store.Get("10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), got)

	raw, err := mr.Get("foodgram:10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "3", raw)

	require.NoError(t, store.Delete("10.0.0.1"))
	got, err = store.Get("10.0.0.1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, mr.Exists("foodgram:10.0.0.1"))
}

func TestRedisStorage_EmptyKeyOrValue(t *testing.T) {
	store, mr := newStorage(t)

	require.NoError(t, store.Set("", []byte("x"), 0))
	require.NoError(t, store.Set("k", nil, 0))
	assert.Empty(t, mr.Keys())

	got, err := store.Get("")
	require.NoError(t, err)
	assert.Nil(t, got)
	require.NoError(t, store.Delete(""))
}

func TestRedisStorage_Expiry(t *testing.T) {
	store, mr := newStorage(t)

	require.NoError(t, store.Set("window", []byte("1"), time.Second))
	assert.Equal(t, time.Second, mr.TTL("foodgram:window"))

	mr.FastForward(2 * time.Second)
	got, err := store.Get("window")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStorage_ResetKeepsForeignKeys(t *testing.T) {
	store, mr := newStorage(t)

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, store.Set(k, []byte(k), 0))
	}
	require.NoError(t, mr.Set("session:other-app", "keep"))

	require.NoError(t, store.Reset())
	assert.Equal(t, []string{"session:other-app"}, mr.Keys())
}

func TestRedisStorage_BacksLimiter(t *testing.T) {
	store, mr := newStorage(t)

	app := fiber.New()
	app.Use(limiter.New(limiter.Config{
		Max:        1,
		Expiration: time.Minute,
		Storage:    store,
	}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

	keys := mr.Keys()
	require.NotEmpty(t, keys)
	for _, k := range keys {
		assert.True(t, strings.HasPrefix(k, keyPrefix), k)
	}
}
