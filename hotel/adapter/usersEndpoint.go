package adapter

import (
	"net/http"

	"github.com/paulvitic/hotel-booking/ddd"
	ddd_http "github.com/paulvitic/hotel-booking/http"
	"github.com/paulvitic/hotel-booking/hotel/application"
)

// UsersEndpoint serves the user collection and single users.
type UsersEndpoint struct {
	service *application.BookingService
	logger  *ddd.Logger
}

func NewUsersEndpoint(service *application.BookingService, logger *ddd.Logger) *UsersEndpoint {
	return &UsersEndpoint{service: service, logger: logger}
}

func (e *UsersEndpoint) Paths() []string {
	return []string{"/users", "/users/{userId}"}
}

func (e *UsersEndpoint) Get(w http.ResponseWriter, r *http.Request) {
	if id := pathVar(r, "userId"); id != "" {
		user, err := e.service.User(r.Context(), id)
		if err != nil {
			writeFailure(w, e.logger, err)
			return
		}
		ddd_http.WriteJSON(w, http.StatusOK, user)
		return
	}

	users, err := e.service.Users(r.Context())
	if err != nil {
		writeFailure(w, e.logger, err)
		return
	}
	ddd_http.WriteJSON(w, http.StatusOK, users)
}

func (e *UsersEndpoint) Post(w http.ResponseWriter, r *http.Request) {
	if pathVar(r, "userId") != "" {
		methodNotAllowed(w)
		return
	}
	data, role, err := toRegisterUserRequest(r)
	if err != nil {
		writeFailure(w, e.logger, err)
		return
	}
	user, err := e.service.RegisterUser(r.Context(), data.Name, role)
	if err != nil {
		writeFailure(w, e.logger, err)
		return
	}
	ddd_http.WriteJSON(w, http.StatusCreated, user)
}

func (e *UsersEndpoint) Put(w http.ResponseWriter, r *http.Request) {
	id := pathVar(r, "userId")
	if id == "" {
		methodNotAllowed(w)
		return
	}
	data, err := toRenameUserRequest(r)
	if err != nil {
		writeFailure(w, e.logger, err)
		return
	}
	user, err := e.service.RenameUser(r.Context(), id, data.Name)
	if err != nil {
		writeFailure(w, e.logger, err)
		return
	}
	ddd_http.WriteJSON(w, http.StatusOK, user)
}

func (e *UsersEndpoint) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathVar(r, "userId")
	if id == "" {
		methodNotAllowed(w)
		return
	}
	if err := e.service.RemoveUser(r.Context(), id); err != nil {
		writeFailure(w, e.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
