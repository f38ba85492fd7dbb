package ddd

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

type Event interface {
	ID() string
	AggregateType() string
	AggregateID() string
	Type() string
	TimeStamp() time.Time
	Payload() any
	ToJsonString() (string, error)
}

type event struct {
	id            string
	aggregateType string
	aggregateID   string
	eventType     string
	timeStamp     time.Time
	payload       any
}

// NewEvent wraps a payload raised by the aggregate identified by aggregateType and aggregateID.
func NewEvent(aggregateType string, aggregateID string, payload any) Event {
	return &event{
		id:            GenerateID(),
		aggregateType: aggregateType,
		aggregateID:   aggregateID,
		eventType:     EventType(payload),
		timeStamp:     time.Now().UTC(),
		payload:       payload,
	}
}

func (e *event) ID() string {
	return e.id
}

func (e *event) AggregateType() string {
	return e.aggregateType
}

func (e *event) AggregateID() string {
	return e.aggregateID
}

func (e *event) Type() string {
	return e.eventType
}

func (e *event) TimeStamp() time.Time {
	return e.timeStamp
}

func (e *event) Payload() any {
	return e.payload
}

func (e *event) ToJsonString() (string, error) {
	data, err := json.Marshal(map[string]any{
		"id":             e.id,
		"aggregate_type": e.aggregateType,
		"aggregate_id":   e.aggregateID,
		"event_type":     e.eventType,
		"time_stamp":     e.timeStamp.Format(time.RFC3339Nano),
		"payload":        e.payload,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// EventType names an event by the type of its payload, e.g. "ReservationAdmitted".
func EventType(eventPayload any) string {
	typ := reflect.TypeOf(eventPayload)
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	return typ.Name()
}

func EventFromJsonString(jsonString string) (Event, error) {
	var data struct {
		ID            string          `json:"id"`
		AggregateType string          `json:"aggregate_type"`
		AggregateID   string          `json:"aggregate_id"`
		EventType     string          `json:"event_type"`
		TimeStamp     string          `json:"time_stamp"`
		Payload       json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal([]byte(jsonString), &data); err != nil {
		return nil, err
	}
	if data.EventType == "" {
		return nil, fmt.Errorf("event has no type")
	}

	timeStamp, err := time.Parse(time.RFC3339Nano, data.TimeStamp)
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if len(data.Payload) > 0 && string(data.Payload) != "null" {
		if err := json.Unmarshal(data.Payload, &payload); err != nil {
			return nil, err
		}
	}

	return &event{
		id:            data.ID,
		aggregateType: data.AggregateType,
		aggregateID:   data.AggregateID,
		eventType:     data.EventType,
		timeStamp:     timeStamp,
		payload:       payload,
	}, nil
}

// MapEventPayload decodes a generic payload, such as one read back from JSON, into T.
func MapEventPayload[T any](event Event, payload T) (T, error) {
	if typed, ok := event.Payload().(T); ok {
		return typed, nil
	}
	jsonStr, err := json.Marshal(event.Payload())
	if err != nil {
		return payload, err
	}
	if err := json.Unmarshal(jsonStr, &payload); err != nil {
		return payload, err
	}
	return payload, nil
}
