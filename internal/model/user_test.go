package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPasswordHashing(t *testing.T) {
	user := &User{Email: "u@campus.edu"}
	require.NoError(t, user.SetPassword("secret-password"))

	assert.NotEqual(t, "secret-password", user.Password)
	assert.True(t, user.CheckPassword("secret-password"))
	assert.False(t, user.CheckPassword("other-password"))
}

func TestUserToResponseOmitsPassword(t *testing.T) {
	user := &User{Email: "u@campus.edu", FullName: "U", Role: RoleViewer, IsActive: true}
	require.NoError(t, user.SetPassword("secret-password"))

	response := user.ToResponse()
	assert.Equal(t, user.Email, response.Email)
	assert.Equal(t, RoleViewer, response.Role)
}
