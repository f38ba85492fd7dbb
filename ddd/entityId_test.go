package ddd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateID(t *testing.T) {
	first := GenerateID()
	second := GenerateID()
	assert.NotEqual(t, first, second)
	assert.True(t, IsValidID(first))
	assert.False(t, IsBlankID(first))
}

func TestIsBlankID(t *testing.T) {
	assert.True(t, IsBlankID(""))
	assert.True(t, IsBlankID(" \t"))
	assert.False(t, IsBlankID("ID123"))
	assert.False(t, IsValidID("ID123"))
}
