package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	basehdl "github.com/AbdUllahO7/idigitek-server/internal/api/base/handler"
)

type okPinger struct{}

func (okPinger) Ping(context.Context, *readpref.ReadPref) error { return nil }

func TestSetupRoutesMountsUnderV1(t *testing.T) {
	app := fiber.New()
	var got *Router
	err := SetupRoutes(app, basehdl.NewSystemHandler(okPinger{}), func(v1 fiber.Router, r *Router) error {
		got = r
		v1.Get("/ping", func(c fiber.Ctx) error { return c.SendString("pong") })
		return nil
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Same(t, app, got.App())

	for _, path := range []string{"/health", "/api/v1/system/health", "/api/v1/ping"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestSetupRoutesStopsOnError(t *testing.T) {
	boom := errors.New("store unavailable")
	called := false
	err := SetupRoutes(fiber.New(), nil,
		func(fiber.Router, *Router) error { return boom },
		func(fiber.Router, *Router) error { called = true; return nil },
	)
	assert.ErrorIs(t, err, boom)
	assert.False(t, called)
}
