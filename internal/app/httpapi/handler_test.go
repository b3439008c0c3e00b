package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	app "github.com/aurelia-skincare/storefront/internal/app"
	"github.com/aurelia-skincare/storefront/pkg/logger"
)

func newTestServer(t *testing.T) (*httptest.Server, *app.Application) {
	t.Helper()

	log := logger.NewDefault("httpapi-test")
	log.SetOutput(io.Discard)

	application, err := app.New(app.Stores{}, app.Options{SeedCatalog: true}, log)
	require.NoError(t, err)

	server := httptest.NewServer(NewHandler(application))
	t.Cleanup(server.Close)
	return server, application
}

func doJSON(t *testing.T, method, url string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(encoded)
	}
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func TestHandler_CatalogLists(t *testing.T) {
	server, _ := newTestServer(t)

	for path, want := range map[string]int{
		"/catalog/oils":      4,
		"/catalog/extracts":  4,
		"/catalog/functions": 3,
	} {
		resp, err := http.Get(server.URL + path)
		require.NoError(t, err)

		var items []map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		require.Len(t, items, want, path)
	}
}

func TestHandler_WizardFlow(t *testing.T) {
	server, application := newTestServer(t)

	resp, session := doJSON(t, http.MethodPost, server.URL+"/configurator/sessions", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := session["id"].(string)
	require.NotEmpty(t, id)
	require.Equal(t, float64(1), session["step"])

	base := server.URL + "/configurator/sessions/" + id

	resp, state := doJSON(t, http.MethodPut, base+"/oil", map[string]string{"component_id": "jojoba"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, *boolField(t, state, "applied"))

	resp, state = doJSON(t, http.MethodPost, base+"/advance", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, float64(2), state["step"])

	for _, extract := range []string{"aloe", "rosehip"} {
		resp, state = doJSON(t, http.MethodPost, base+"/extracts", map[string]string{"component_id": extract})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.True(t, *boolField(t, state, "applied"))
	}

	// The third extract is an observable no-op.
	resp, state = doJSON(t, http.MethodPost, base+"/extracts", map[string]string{"component_id": "chamomile"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.False(t, *boolField(t, state, "applied"))
	require.Len(t, state["extract_ids"], 2)

	doJSON(t, http.MethodPost, base+"/advance", nil)
	doJSON(t, http.MethodPut, base+"/function", map[string]string{"component_id": "hydrating"})
	doJSON(t, http.MethodPost, base+"/advance", nil)
	resp, state = doJSON(t, http.MethodPost, base+"/advance", nil)
	require.Equal(t, float64(5), state["step"])

	require.NoError(t, application.Configurator.WaitForQuote(id))

	resp, quote := doJSON(t, http.MethodGet, base+"/quote", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "resolved", quote["status"])
	require.Equal(t, 34.00, quote["value"])
	require.Equal(t, "34.00", quote["display"])

	resp, item := doJSON(t, http.MethodPost, base+"/finalize", map[string]string{"mode": "one_time"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Contains(t, item["display_name"], "Jojoba")
	require.Contains(t, item["display_name"], "Hydrating")
	require.Equal(t, 34.00, item["price"])

	// The session is gone after finalization.
	resp, _ = doJSON(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err := http.Get(server.URL + "/cart/items")
	require.NoError(t, err)
	var cart []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cart))
	resp.Body.Close()
	require.Len(t, cart, 1)
}

func TestHandler_FinalizeBlockedWhileUnresolved(t *testing.T) {
	server, _ := newTestServer(t)

	_, session := doJSON(t, http.MethodPost, server.URL+"/configurator/sessions", nil)
	id := session["id"].(string)

	resp, body := doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/configurator/sessions/%s/finalize", server.URL, id),
		map[string]string{"mode": "one_time"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Contains(t, body["error"], "not resolved")
}

func TestHandler_UnknownSession(t *testing.T) {
	server, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, server.URL+"/configurator/sessions/missing", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_BadFinalizeMode(t *testing.T) {
	server, application := newTestServer(t)

	st := application.Configurator.CreateSession(context.Background())
	base := server.URL + "/configurator/sessions/" + st.ID

	doJSON(t, http.MethodPut, base+"/oil", map[string]string{"component_id": "jojoba"})
	doJSON(t, http.MethodPost, base+"/extracts", map[string]string{"component_id": "aloe"})
	doJSON(t, http.MethodPut, base+"/function", map[string]string{"component_id": "hydrating"})
	require.NoError(t, application.Configurator.WaitForQuote(st.ID))

	resp, _ := doJSON(t, http.MethodPost, base+"/finalize", map[string]string{"mode": "installments"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func boolField(t *testing.T, payload map[string]interface{}, key string) *bool {
	t.Helper()
	v, ok := payload[key]
	require.True(t, ok, "missing field %s", key)
	b, ok := v.(bool)
	require.True(t, ok, "field %s is not a bool", key)
	return &b
}
