package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	basesvc "github.com/AbdUllahO7/idigitek-server/internal/api/base/service"
	contentrouter "github.com/AbdUllahO7/idigitek-server/internal/api/content/router"
	contentsvc "github.com/AbdUllahO7/idigitek-server/internal/api/content/service"
	"github.com/AbdUllahO7/idigitek-server/internal/api/events"
	"github.com/AbdUllahO7/idigitek-server/internal/api/middleware"
	apirouter "github.com/AbdUllahO7/idigitek-server/internal/api/router"
)

type envelope struct {
	Code    interface{}     `json:"code"`
	Message string          `json:"message"`
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
}

type testAPI struct {
	t   *testing.T
	app *fiber.App
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	events.Reset()
	t.Cleanup(events.Reset)

	store := contentsvc.NewMemoryContentStore(basesvc.NewMemoryDatabase())
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	require.NoError(t, apirouter.SetupRoutes(app, nil, contentrouter.Routes(store)))
	return &testAPI{t: t, app: app}
}

func (a *testAPI) do(method, path string, body interface{}) (int, envelope) {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(a.t, err)
			raw = string(b)
		}
		reader = bytes.NewBufferString(raw)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := a.app.Test(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(a.t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

// create posts body and returns the id of the created document.
func (a *testAPI) create(path string, body interface{}) string {
	a.t.Helper()
	status, env := a.do(http.MethodPost, path, body)
	require.Equal(a.t, http.StatusCreated, status, env.Message)
	var doc struct {
		ID string `json:"id"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &doc))
	require.NotEmpty(a.t, doc.ID)
	return doc.ID
}

func (a *testAPI) sectionOrders() map[string]int {
	a.t.Helper()
	status, env := a.do(http.MethodGet, "/sections?limit=100", nil)
	require.Equal(a.t, http.StatusOK, status)
	var page struct {
		Items []struct {
			ID    string `json:"id"`
			Order int    `json:"order"`
		} `json:"items"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &page))
	out := make(map[string]int, len(page.Items))
	for _, it := range page.Items {
		out[it.ID] = it.Order
	}
	return out
}

func TestSectionCRUD(t *testing.T) {
	api := newTestAPI(t)

	id := api.create("/sections", map[string]interface{}{"name": "Services", "order": 2})

	status, env := api.do(http.MethodGet, "/sections/"+id, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", env.Status)
	assert.Contains(t, string(env.Data), `"name":"Services"`)

	status, env = api.do(http.MethodPut, "/sections/"+id, map[string]interface{}{"description": "What we do"})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"description":"What we do"`)
	assert.Contains(t, string(env.Data), `"name":"Services"`)

	status, env = api.do(http.MethodPost, "/sections", map[string]interface{}{"name": "Services"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DB_003", env.Code)
	assert.Equal(t, "error", env.Status)
}

func TestRequestErrors(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		code   string
	}{
		{"missing name", http.MethodPost, "/sections", map[string]interface{}{"order": 1}, http.StatusBadRequest, "VAL_001"},
		{"negative order", http.MethodPost, "/sections", map[string]interface{}{"name": "A", "order": -1}, http.StatusBadRequest, "VAL_001"},
		{"script in name", http.MethodPost, "/sections", map[string]interface{}{"name": "<script>x</script>"}, http.StatusBadRequest, "VAL_001"},
		{"broken json", http.MethodPost, "/sections", `{"name":`, http.StatusBadRequest, "VAL_002"},
		{"malformed id", http.MethodGet, "/sections/nope", nil, http.StatusBadRequest, "VAL_001"},
		{"unknown id", http.MethodGet, "/sections/64b7f0c2a1b2c3d4e5f60718", nil, http.StatusNotFound, "DB_002"},
		{"bad parent type", http.MethodGet, "/content-elements?parentType=page&parentId=64b7f0c2a1b2c3d4e5f60718", nil, http.StatusBadRequest, "VAL_001"},
		{"bad hard flag", http.MethodDelete, "/sections/64b7f0c2a1b2c3d4e5f60718?hard=maybe", nil, http.StatusBadRequest, "VAL_001"},
		{"unknown order kind", http.MethodPut, "/order/pages", []interface{}{}, http.StatusBadRequest, "VAL_001"},
		{"translation without language", http.MethodGet, "/translations?elementId=64b7f0c2a1b2c3d4e5f60718", nil, http.StatusBadRequest, "VAL_001"},
		{"unknown route", http.MethodGet, "/pages", nil, http.StatusNotFound, "DB_002"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := api.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, env.Code)
			assert.Equal(t, "error", env.Status)
		})
	}
}

func TestUpdateOrderEndpoint(t *testing.T) {
	api := newTestAPI(t)
	a := api.create("/sections", map[string]interface{}{"name": "A", "order": 0})
	b := api.create("/sections", map[string]interface{}{"name": "B", "order": 1})
	c := api.create("/sections", map[string]interface{}{"name": "C", "order": 2})

	t.Run("non integer order rejects the batch", func(t *testing.T) {
		body := `[{"id":"` + a + `","order":1},{"id":"` + b + `","order":2},{"id":"` + c + `","order":"bad"}]`
		status, env := api.do(http.MethodPut, "/order/sections", body)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "VAL_001", env.Code)
		assert.Contains(t, env.Message, c)
		assert.Equal(t, map[string]int{a: 0, b: 1, c: 2}, api.sectionOrders())
	})

	t.Run("unknown id rejects the batch", func(t *testing.T) {
		body := []map[string]interface{}{{"id": a, "order": 5}, {"id": "64b7f0c2a1b2c3d4e5f60718", "order": 1}}
		status, _ := api.do(http.MethodPut, "/order/sections", body)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, map[string]int{a: 0, b: 1, c: 2}, api.sectionOrders())
	})

	t.Run("valid batch", func(t *testing.T) {
		body := []map[string]interface{}{{"id": a, "order": 2}, {"id": b, "order": 1}, {"id": c, "order": 0}}
		status, env := api.do(http.MethodPut, "/order/sections", body)
		require.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `{"updated":3}`, string(env.Data))
		assert.Equal(t, map[string]int{a: 2, b: 1, c: 0}, api.sectionOrders())
	})
}

func TestLocalizedContentAndCascade(t *testing.T) {
	api := newTestAPI(t)

	en := api.create("/languages", map[string]interface{}{"name": "English", "code": "en"})
	section := api.create("/sections", map[string]interface{}{"name": "Home"})
	item := api.create("/section-items", map[string]interface{}{"name": "Hero", "sectionId": section})
	sub := api.create("/subsections", map[string]interface{}{"name": "Hero Block", "sectionItemId": item})
	title := api.create("/content-elements", map[string]interface{}{
		"name": "title", "type": "text", "parentType": "subsection", "parentId": sub,
	})
	shared := api.create("/content-elements", map[string]interface{}{
		"name": "banner", "type": "image", "parentType": "section", "parentId": section, "defaultContent": "/uploads/banner.png",
	})

	status, env := api.do(http.MethodPut, "/translations", map[string]interface{}{
		"elementId": title, "languageId": en, "value": "Welcome",
	})
	require.Equal(t, http.StatusOK, status, env.Message)

	status, env = api.do(http.MethodPut, "/translations/bulk", map[string]interface{}{
		"translations": []map[string]interface{}{
			{"elementId": shared, "languageId": en, "value": map[string]interface{}{"alt": "Banner"}},
		},
	})
	require.Equal(t, http.StatusOK, status, env.Message)

	status, env = api.do(http.MethodPost, "/relations/associate", map[string]interface{}{
		"elementId": shared, "parentType": "subsection", "parentId": sub, "order": 3,
	})
	require.Equal(t, http.StatusCreated, status, env.Message)

	status, env = api.do(http.MethodGet, "/subsections/slug/hero-block", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"languageIds":["`+en+`"]`)

	status, env = api.do(http.MethodGet, "/subsections/"+sub+"/content?languageId="+en, nil)
	require.Equal(t, http.StatusOK, status)
	var localized struct {
		Elements []struct {
			ID    string          `json:"id"`
			Value json.RawMessage `json:"value"`
		} `json:"elements"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &localized))
	require.Len(t, localized.Elements, 2)
	assert.Equal(t, title, localized.Elements[0].ID)
	assert.JSONEq(t, `"Welcome"`, string(localized.Elements[0].Value))
	assert.Equal(t, shared, localized.Elements[1].ID)
	assert.JSONEq(t, `{"alt":"Banner"}`, string(localized.Elements[1].Value))

	status, env = api.do(http.MethodGet, "/content-elements/"+shared+"/parents", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), sub)

	status, env = api.do(http.MethodDelete, "/sections/"+section+"?hard=true", nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	var result contentsvc.CascadeResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.True(t, result.Hard)
	assert.EqualValues(t, 1, result.Sections)
	assert.EqualValues(t, 1, result.SectionItems)
	assert.EqualValues(t, 1, result.SubSections)
	assert.EqualValues(t, 2, result.Elements)
	assert.EqualValues(t, 2, result.Translations)

	for _, path := range []string{"/sections/" + section, "/subsections/" + sub, "/content-elements/" + title, "/content-elements/" + shared} {
		status, _ := api.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, status, path)
	}
}

func TestSoftDeleteAndReactivate(t *testing.T) {
	api := newTestAPI(t)
	section := api.create("/sections", map[string]interface{}{"name": "About"})
	item := api.create("/section-items", map[string]interface{}{"name": "Team", "sectionId": section})

	status, env := api.do(http.MethodDelete, "/sections/"+section, nil)
	require.Equal(t, http.StatusOK, status, env.Message)

	status, env = api.do(http.MethodGet, "/section-items/"+item, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"isActive":false`)

	status, env = api.do(http.MethodPut, "/sections/"+section+"/active", map[string]interface{}{"isActive": true})
	require.Equal(t, http.StatusOK, status, env.Message)

	status, env = api.do(http.MethodGet, "/sections?activeOnly=true", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), section)

	status, env = api.do(http.MethodGet, "/section-items/"+item, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"isActive":false`)
}
