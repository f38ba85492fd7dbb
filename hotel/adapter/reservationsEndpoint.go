package adapter

import (
	"net/http"

	"github.com/paulvitic/hotel-booking/ddd"
	ddd_http "github.com/paulvitic/hotel-booking/http"
	"github.com/paulvitic/hotel-booking/hotel/application"
	"github.com/paulvitic/hotel-booking/hotel/domain"
)

type ReservationsEndpoint struct {
	service *application.BookingService
	logger  *ddd.Logger
}

func NewReservationsEndpoint(service *application.BookingService, logger *ddd.Logger) *ReservationsEndpoint {
	return &ReservationsEndpoint{service: service, logger: logger}
}

func (e *ReservationsEndpoint) Paths() []string {
	return []string{"/reservations", "/reservations/{reservationId}"}
}

func (e *ReservationsEndpoint) Get(w http.ResponseWriter, r *http.Request) {
	if id := pathVar(r, "reservationId"); id != "" {
		reservation, err := e.service.Reservation(r.Context(), id)
		if err != nil {
			writeFailure(w, e.logger, err)
			return
		}
		ddd_http.WriteJSON(w, http.StatusOK, reservation)
		return
	}

	reservations, err := e.service.Reservations(r.Context())
	if err != nil {
		writeFailure(w, e.logger, err)
		return
	}
	ddd_http.WriteJSON(w, http.StatusOK, reservations)
}

func (e *ReservationsEndpoint) Post(w http.ResponseWriter, r *http.Request) {
	if pathVar(r, "reservationId") != "" {
		methodNotAllowed(w)
		return
	}
	data, err := toReserveRequest(r)
	if err != nil {
		writeFailure(w, e.logger, err)
		return
	}
	reservation, err := e.service.Reserve(r.Context(), data.UserID, data.RoomNumber, domain.NewStay(data.From, data.To))
	if err != nil {
		writeFailure(w, e.logger, err)
		return
	}
	ddd_http.WriteJSON(w, http.StatusCreated, reservation)
}

// Delete cancels a reservation.
func (e *ReservationsEndpoint) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathVar(r, "reservationId")
	if id == "" {
		methodNotAllowed(w)
		return
	}
	if err := e.service.CancelReservation(r.Context(), id); err != nil {
		writeFailure(w, e.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
