package ddd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEventPayload struct {
	Name string
}

func TestDomainEvent(t *testing.T) {
	event := NewEvent("aggType", "ID123", testEventPayload{Name: "value"})
	str, err := event.ToJsonString()
	require.NoError(t, err)

	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(str), &data))

	assert.Equal(t, "aggType", data["aggregate_type"])
	assert.Equal(t, "ID123", data["aggregate_id"])
	assert.Equal(t, "testEventPayload", data["event_type"])
	assert.NotEmpty(t, data["id"])
}

func TestEventFromJsonString(t *testing.T) {
	event1 := NewEvent("aggType", "ID123", &testEventPayload{Name: "value"})
	str, err := event1.ToJsonString()
	require.NoError(t, err)

	event2, err := EventFromJsonString(str)
	require.NoError(t, err)

	assert.Equal(t, event1.ID(), event2.ID())
	assert.Equal(t, event1.AggregateType(), event2.AggregateType())
	assert.Equal(t, event1.AggregateID(), event2.AggregateID())
	assert.Equal(t, event1.Type(), event2.Type())
	assert.True(t, event1.TimeStamp().Equal(event2.TimeStamp()))

	payload, err := MapEventPayload(event2, testEventPayload{})
	require.NoError(t, err)
	assert.Equal(t, "value", payload.Name)
}

func TestEventFromJsonString_Invalid(t *testing.T) {
	_, err := EventFromJsonString("not json")
	assert.Error(t, err)

	_, err = EventFromJsonString(`{"aggregate_type":"Room"}`)
	assert.Error(t, err)
}

func TestMapEventPayload_SameType(t *testing.T) {
	event := NewEvent("aggType", "ID123", testEventPayload{Name: "value"})
	payload, err := MapEventPayload(event, testEventPayload{})
	require.NoError(t, err)
	assert.Equal(t, "value", payload.Name)
}
