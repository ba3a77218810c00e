package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCode(t *testing.T) {
	assert.True(t, ValidCode("6110"))
	assert.True(t, ValidCode("61102000"))
	assert.True(t, ValidCode("6110200000"))
	assert.False(t, ValidCode("611"))
	assert.False(t, ValidCode("61102000000"))
	assert.False(t, ValidCode("6110x000"))
	assert.False(t, ValidCode(""))
}

func TestValidCountry(t *testing.T) {
	assert.True(t, ValidCountry("PK"))
	assert.True(t, ValidCountry("de"))
	assert.True(t, ValidCountry("DEU"))
	assert.False(t, ValidCountry("Pakistan"))
	assert.False(t, ValidCountry("D"))
	assert.False(t, ValidCountry(""))
}
