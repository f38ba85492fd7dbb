package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestHandlers(t *testing.T) {
	handlers := requestHandlers(&testEndpoint{})

	assert.Equal(t, map[HttpMethod]string{GET: "Get", DELETE: "Delete"}, handlers)
}

func TestCallHandlerMethod_Missing(t *testing.T) {
	rr := httptest.NewRecorder()
	callHandlerMethod(&testEndpoint{}, "Put", rr, httptest.NewRequest(http.MethodPut, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Handler method not found"}`, rr.Body.String())
}
