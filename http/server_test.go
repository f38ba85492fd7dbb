package http

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/paulvitic/hotel-booking/ddd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEndpoint struct{}

func (e *testEndpoint) Paths() []string {
	return []string{"/items", "/items/{itemId}"}
}

func (e *testEndpoint) Get(w http.ResponseWriter, r *http.Request) {
	if id := mux.Vars(r)["itemId"]; id != "" {
		WriteJSON(w, http.StatusOK, map[string]string{"id": id})
		return
	}
	WriteJSON(w, http.StatusOK, []string{"a", "b"})
}

func (e *testEndpoint) Delete(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// Wrong shape, never bound.
func (e *testEndpoint) Post(w http.ResponseWriter) {}

type testContext struct{}

func (c testContext) Name() string { return "test" }

func (c testContext) Endpoints() []Endpoint { return []Endpoint{&testEndpoint{}} }

func quietLogger() *ddd.Logger {
	logger := ddd.NewLogger("http")
	logger.SetOutput(io.Discard)
	return logger
}

func serve(t *testing.T, handler http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func TestServer_HealthCheck(t *testing.T) {
	handler := NewServer("localhost", 0, quietLogger()).Handler()

	rr := serve(t, handler, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Status: UP", rr.Body.String())
}

func TestServer_ContextRoutes(t *testing.T) {
	handler := NewServer("localhost", 0, quietLogger()).WithContexts(testContext{}).Handler()

	rr := serve(t, handler, http.MethodGet, "/test/items")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `["a","b"]`, rr.Body.String())

	rr = serve(t, handler, http.MethodGet, "/test/items/42")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"id":"42"}`, rr.Body.String())

	rr = serve(t, handler, http.MethodDelete, "/test/items/42")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = serve(t, handler, http.MethodPost, "/test/items")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "DELETE, GET", rr.Header().Get("Allow"))
	assert.JSONEq(t, `{"error":"Method not allowed"}`, rr.Body.String())

	rr = serve(t, handler, http.MethodPut, "/test/items/42")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	rr = serve(t, handler, http.MethodGet, "/items")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestServer_Middleware(t *testing.T) {
	handler := NewServer("localhost", 0, quietLogger()).
		Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Test", "seen")
				next.ServeHTTP(w, r)
			})
		}).
		Handler()

	rr := serve(t, handler, http.MethodGet, "/")
	assert.Equal(t, "seen", rr.Header().Get("X-Test"))
}

func TestServer_RunAndShutdown(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	server := NewServer("127.0.0.1", port, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Run(ctx) }()

	url := fmt.Sprintf("http://127.0.0.1:%d/", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}
