package basehdl

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/AbdUllahO7/idigitek-server/internal/common"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context, *readpref.ReadPref) error { return p.err }

type widgetInput struct {
	Name  string `json:"name" validate:"required,max=10"`
	Order int    `json:"order" validate:"gte=0"`
}

type envelope struct {
	Code    interface{}       `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Data    json.RawMessage   `json:"data"`
	Details []json.RawMessage `json:"details"`
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestParseRequestBody(t *testing.T) {
	h := NewBaseHandler()
	app := fiber.New()
	app.Post("/widgets", func(c fiber.Ctx) error {
		return h.SafeHandler(c, func() error {
			var in widgetInput
			if err := h.ParseRequestBody(c, &in); err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
			h.HandleCreated(c, in, nil)
			return nil
		})
	})

	status, env := call(t, app, http.MethodPost, "/widgets", `{"name":"gear","order":2}`)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "success", env.Status)
	assert.JSONEq(t, `{"name":"gear","order":2}`, string(env.Data))

	status, env = call(t, app, http.MethodPost, "/widgets", `{"order":-1}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VAL_001", env.Code)
	assert.Contains(t, env.Message, "name")
	assert.Contains(t, env.Message, "order")
	assert.Len(t, env.Details, 2)

	status, env = call(t, app, http.MethodPost, "/widgets", `not json`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VAL_002", env.Code)

	status, env = call(t, app, http.MethodPost, "/widgets", ``)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VAL_002", env.Code)
}

func TestHandleResponseHidesCauses(t *testing.T) {
	h := NewBaseHandler()
	app := fiber.New()
	app.Get("/tx", func(c fiber.Ctx) error {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeTransaction, common.MsgTransactionError,
			common.StatusInternalServerError, errors.New("write conflict on node 3")))
		return nil
	})
	app.Get("/raw", func(c fiber.Ctx) error {
		h.HandleResponse(c, nil, errors.New("socket closed"))
		return nil
	})
	app.Get("/panic", func(c fiber.Ctx) error {
		return h.SafeHandler(c, func() error { panic("boom") })
	})

	status, env := call(t, app, http.MethodGet, "/tx", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "DB_004", env.Code)
	assert.Empty(t, env.Details)

	status, env = call(t, app, http.MethodGet, "/raw", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, common.MsgInternalError, env.Message)

	status, env = call(t, app, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "SYS_001", env.Code)
}

func TestQueryHelpers(t *testing.T) {
	h := NewBaseHandler()
	app := fiber.New()
	app.Get("/q/:id", func(c fiber.Ctx) error {
		return h.SafeHandler(c, func() error {
			id, err := h.ParseID(c, "id")
			if err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
			hard, err := h.QueryBool(c, "hard", false)
			if err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
			page, limit := h.ParsePagination(c)
			h.HandleResponse(c, fiber.Map{"id": id.Hex(), "hard": hard, "page": page, "limit": limit}, nil)
			return nil
		})
	})

	status, env := call(t, app, http.MethodGet, "/q/64b7f0c2a1b2c3d4e5f60718?hard=true&page=3&limit=-2", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"id":"64b7f0c2a1b2c3d4e5f60718","hard":true,"page":3,"limit":10}`, string(env.Data))

	status, _ = call(t, app, http.MethodGet, "/q/xyz", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, app, http.MethodGet, "/q/64b7f0c2a1b2c3d4e5f60718?hard=sure", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHandleHealth(t *testing.T) {
	tests := []struct {
		name   string
		db     Pinger
		status int
		state  string
	}{
		{"healthy", stubPinger{}, http.StatusOK, "ok"},
		{"ping fails", stubPinger{err: errors.New("no reachable servers")}, http.StatusServiceUnavailable, "error"},
		{"no client", nil, http.StatusServiceUnavailable, "not_initialized"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/health", NewSystemHandler(tt.db).HandleHealth)
			status, env := call(t, app, http.MethodGet, "/health", "")
			assert.Equal(t, tt.status, status)
			var data struct {
				Services map[string]string `json:"services"`
			}
			require.NoError(t, json.Unmarshal(env.Data, &data))
			assert.Equal(t, tt.state, data.Services["database"])
		})
	}
}
