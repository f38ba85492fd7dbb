package ddd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("hotel")
	log.SetOutput(&buf)
	log.SetLevel(Warn)

	log.Debug("testing logger debug")
	log.Info("testing logger info")
	log.Warn("testing logger warning")
	log.Error("testing logger %s", "error")

	out := buf.String()
	assert.NotContains(t, out, "debug")
	assert.NotContains(t, out, "testing logger info")
	assert.Contains(t, out, "testing logger warning")
	assert.Contains(t, out, "testing logger error")
	assert.Contains(t, out, "hotel logger_test.go:")
}

func TestLogger_Named(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("hotel")
	log.SetOutput(&buf)
	log.SetLevel(Debug)

	named := log.Named("sql")
	named.Debug("connected")
	assert.Contains(t, buf.String(), "sql logger_test.go:")
	assert.Contains(t, buf.String(), "connected")

	log.SetLevel(Error)
	named.Warn("dropped")
	assert.NotContains(t, buf.String(), "dropped")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, Debug, ParseLevel("DEBUG"))
	assert.Equal(t, Warn, ParseLevel("warning"))
	assert.Equal(t, Error, ParseLevel("error"))
	assert.Equal(t, Info, ParseLevel(""))
	assert.Equal(t, Info, ParseLevel("verbose"))
}
