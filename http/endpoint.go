package http

import (
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/gorilla/mux"
	"github.com/paulvitic/hotel-booking/ddd"
)

// HttpMethod represents HTTP methods as constants
type HttpMethod string

const (
	GET     HttpMethod = "GET"
	POST    HttpMethod = "POST"
	PUT     HttpMethod = "PUT"
	DELETE  HttpMethod = "DELETE"
	PATCH   HttpMethod = "PATCH"
	OPTIONS HttpMethod = "OPTIONS"
	HEAD    HttpMethod = "HEAD"
)

// Endpoint serves a group of paths. Its handlers are the methods named after
// HTTP methods (Get, Post, Put, Delete, ...) with the func(http.ResponseWriter, *http.Request) shape.
type Endpoint interface {
	Paths() []string
}

// BindEndpoint registers every handler of the endpoint on every one of its paths.
func BindEndpoint(endpoint Endpoint, router *mux.Router, logger *ddd.Logger) {
	handlers := requestHandlers(endpoint)
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, string(method))
	}
	sort.Strings(methods)

	allow := strings.Join(methods, ", ")
	for _, path := range endpoint.Paths() {
		for _, method := range methods {
			methodName := handlers[HttpMethod(method)]
			handler := func(w http.ResponseWriter, r *http.Request) {
				callHandlerMethod(endpoint, methodName, w, r)
			}
			router.HandleFunc(path, handler).Methods(method)
			logger.Debug("registered %s handler for path %s", method, path)
		}
		// Matched only after every method route of the path has failed.
		router.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Allow", allow)
			WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		})
	}
}

func requestHandlers(endpoint Endpoint) map[HttpMethod]string {
	typ := reflect.TypeOf(endpoint)

	handlers := make(map[HttpMethod]string)

	// Method name to HTTP method mapping
	methodMap := map[string]HttpMethod{
		"Get":     GET,
		"Post":    POST,
		"Put":     PUT,
		"Delete":  DELETE,
		"Patch":   PATCH,
		"Options": OPTIONS,
		"Head":    HEAD,
	}

	for i := range typ.NumMethod() {
		method := typ.Method(i)
		if httpMethod, exists := methodMap[method.Name]; exists && isValidHandlerSignature(method.Type) {
			handlers[httpMethod] = method.Name
		}
	}

	return handlers
}

func callHandlerMethod(endpoint any, methodName string, w http.ResponseWriter, r *http.Request) {
	handlerMethod := reflect.ValueOf(endpoint).MethodByName(methodName)

	if !handlerMethod.IsValid() {
		WriteError(w, http.StatusInternalServerError, "Handler method not found")
		return
	}

	handlerMethod.Call([]reflect.Value{
		reflect.ValueOf(w),
		reflect.ValueOf(r),
	})
}

// isValidHandlerSignature checks for receiver, http.ResponseWriter, *http.Request and no results.
func isValidHandlerSignature(methodType reflect.Type) bool {
	if methodType.NumIn() != 3 || methodType.NumOut() != 0 {
		return false
	}

	responseWriterType := reflect.TypeOf((*http.ResponseWriter)(nil)).Elem()
	requestType := reflect.TypeOf((*http.Request)(nil))

	return methodType.In(1).Implements(responseWriterType) &&
		methodType.In(2) == requestType
}
