package adapter

import (
	"net/http"

	"github.com/paulvitic/hotel-booking/ddd"
	ddd_http "github.com/paulvitic/hotel-booking/http"
	"github.com/paulvitic/hotel-booking/hotel/application"
)

type UserReservationsEndpoint struct {
	service *application.BookingService
	logger  *ddd.Logger
}

func NewUserReservationsEndpoint(service *application.BookingService, logger *ddd.Logger) *UserReservationsEndpoint {
	return &UserReservationsEndpoint{service: service, logger: logger}
}

func (e *UserReservationsEndpoint) Paths() []string {
	return []string{"/users/{userId}/reservations"}
}

func (e *UserReservationsEndpoint) Get(w http.ResponseWriter, r *http.Request) {
	reservations, err := e.service.UserReservations(r.Context(), pathVar(r, "userId"))
	if err != nil {
		writeFailure(w, e.logger, err)
		return
	}
	ddd_http.WriteJSON(w, http.StatusOK, reservations)
}
