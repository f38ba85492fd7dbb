package adapter

import (
	"encoding/json"
	"net/http"

	"github.com/paulvitic/hotel-booking/ddd"
	ddd_http "github.com/paulvitic/hotel-booking/http"
	"github.com/paulvitic/hotel-booking/hotel/application"
)

// EventsEndpoint lists the logged events of one user, room or reservation.
type EventsEndpoint struct {
	service *application.BookingService
	logger  *ddd.Logger
}

func NewEventsEndpoint(service *application.BookingService, logger *ddd.Logger) *EventsEndpoint {
	return &EventsEndpoint{service: service, logger: logger}
}

func (e *EventsEndpoint) Paths() []string {
	return []string{"/events/{aggregateType}/{aggregateId}"}
}

func (e *EventsEndpoint) Get(w http.ResponseWriter, r *http.Request) {
	events, err := e.service.Events(r.Context(), pathVar(r, "aggregateType"), pathVar(r, "aggregateId"))
	if err != nil {
		writeFailure(w, e.logger, err)
		return
	}

	body := make([]json.RawMessage, 0, len(events))
	for _, event := range events {
		str, err := event.ToJsonString()
		if err != nil {
			writeFailure(w, e.logger, err)
			return
		}
		body = append(body, json.RawMessage(str))
	}
	ddd_http.WriteJSON(w, http.StatusOK, body)
}
