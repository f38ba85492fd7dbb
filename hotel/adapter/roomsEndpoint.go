package adapter

import (
	"net/http"

	"github.com/paulvitic/hotel-booking/ddd"
	ddd_http "github.com/paulvitic/hotel-booking/http"
	"github.com/paulvitic/hotel-booking/hotel/application"
)

// RoomsEndpoint serves the room collection and single rooms by number.
type RoomsEndpoint struct {
	service *application.BookingService
	logger  *ddd.Logger
}

func NewRoomsEndpoint(service *application.BookingService, logger *ddd.Logger) *RoomsEndpoint {
	return &RoomsEndpoint{service: service, logger: logger}
}

func (e *RoomsEndpoint) Paths() []string {
	return []string{"/rooms", "/rooms/{number:[0-9]+}"}
}

func (e *RoomsEndpoint) Get(w http.ResponseWriter, r *http.Request) {
	number, single, err := roomNumberVar(r)
	if err != nil {
		writeFailure(w, e.logger, err)
		return
	}
	if single {
		room, err := e.service.Room(r.Context(), number)
		if err != nil {
			writeFailure(w, e.logger, err)
			return
		}
		ddd_http.WriteJSON(w, http.StatusOK, room)
		return
	}

	rooms, err := e.service.Rooms(r.Context())
	if err != nil {
		writeFailure(w, e.logger, err)
		return
	}
	ddd_http.WriteJSON(w, http.StatusOK, rooms)
}

func (e *RoomsEndpoint) Post(w http.ResponseWriter, r *http.Request) {
	if _, single, _ := roomNumberVar(r); single {
		methodNotAllowed(w)
		return
	}
	data, roomType, err := toRegisterRoomRequest(r)
	if err != nil {
		writeFailure(w, e.logger, err)
		return
	}
	room, err := e.service.RegisterRoom(r.Context(), data.Number, roomType)
	if err != nil {
		writeFailure(w, e.logger, err)
		return
	}
	ddd_http.WriteJSON(w, http.StatusCreated, room)
}

func (e *RoomsEndpoint) Delete(w http.ResponseWriter, r *http.Request) {
	number, single, err := roomNumberVar(r)
	if err != nil {
		writeFailure(w, e.logger, err)
		return
	}
	if !single {
		methodNotAllowed(w)
		return
	}
	if err = e.service.RemoveRoom(r.Context(), number); err != nil {
		writeFailure(w, e.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
