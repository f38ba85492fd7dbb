package adapter

import (
	"net/http"

	"github.com/paulvitic/hotel-booking/ddd"
	ddd_http "github.com/paulvitic/hotel-booking/http"
	"github.com/paulvitic/hotel-booking/hotel/application"
)

// AvailableRoomsEndpoint answers which rooms are free for [from, to).
type AvailableRoomsEndpoint struct {
	service *application.BookingService
	logger  *ddd.Logger
}

func NewAvailableRoomsEndpoint(service *application.BookingService, logger *ddd.Logger) *AvailableRoomsEndpoint {
	return &AvailableRoomsEndpoint{service: service, logger: logger}
}

func (e *AvailableRoomsEndpoint) Paths() []string {
	return []string{"/rooms/available"}
}

func (e *AvailableRoomsEndpoint) Get(w http.ResponseWriter, r *http.Request) {
	stay, err := toStay(r)
	if err != nil {
		writeFailure(w, e.logger, err)
		return
	}
	rooms, err := e.service.AvailableRooms(r.Context(), stay)
	if err != nil {
		writeFailure(w, e.logger, err)
		return
	}
	ddd_http.WriteJSON(w, http.StatusOK, rooms)
}
