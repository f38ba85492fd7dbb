package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys.
const (
	AttrUserID        = "booking.user.id"
	AttrRoomNumber    = "booking.room.number"
	AttrReservationID = "booking.reservation.id"
	AttrStayFrom      = "booking.stay.from"
	AttrStayTo        = "booking.stay.to"
	AttrResultCount   = "booking.result.count"

	AttrHTTPMethod = "http.method"
	AttrHTTPRoute  = "http.route"
	AttrHTTPStatus = "http.status_code"

	AttrErrorMessage = "error.message"
)

const (
	SpanPrefixService = "booking."
	SpanPrefixHTTP    = "http."
)

// RecordError marks the span failed unless err is nil.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
}
