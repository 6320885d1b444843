package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetPassword(t *testing.T) {
	user := User{Username: "gee", Email: "gee@example.com"}

	err := user.SetPassword("secret123")
	assert.NoError(t, err)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "secret123", user.PasswordHash, "password must not be stored in plain text")
}

func TestCheckPassword(t *testing.T) {
	user := User{Username: "gee", Email: "gee@example.com"}
	assert.NoError(t, user.SetPassword("secret123"))

	assert.True(t, user.CheckPassword("secret123"))
	assert.False(t, user.CheckPassword("wrong-password"))
	assert.False(t, user.CheckPassword(""))
}

func TestCheckPassword_NoHash(t *testing.T) {
	user := User{Username: "gee"}
	assert.False(t, user.CheckPassword("anything"))
}
