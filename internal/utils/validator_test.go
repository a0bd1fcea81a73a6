package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidUsername(t *testing.T) {
	assert.True(t, IsValidUsername("alice_01"))
	assert.False(t, IsValidUsername("ab"))
	assert.False(t, IsValidUsername("has space"))
	assert.False(t, IsValidUsername("way_too_long_username_xx"))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("a@b.co"))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail("a@b"))
}

func TestIsValidPassword(t *testing.T) {
	assert.True(t, IsValidPassword("abcd1234"))
	assert.False(t, IsValidPassword("short1"))
	assert.False(t, IsValidPassword("onlyletters"))
	assert.False(t, IsValidPassword("12345678"))
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric("7"))
	assert.True(t, IsNumeric("042"))
	assert.False(t, IsNumeric(""))
	assert.False(t, IsNumeric("7a"))
	assert.False(t, IsNumeric("-7"))
	assert.False(t, IsNumeric("golang"))
}
