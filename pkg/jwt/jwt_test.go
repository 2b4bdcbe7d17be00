package jwt

import (
	"testing"

	"go-campus-assets/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateToken(userID, "viewer@campus.edu", "Lab Viewer", model.RoleViewer)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "viewer@campus.edu", claims.Email)
	assert.Equal(t, model.RoleViewer, claims.Role)
	assert.Equal(t, "go-campus-assets", claims.Issuer)
}

func TestValidateTokenRejectsMalformed(t *testing.T) {
	_, err := ValidateToken("definitely.not.ajwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ValidateToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	token, err := GenerateToken(uuid.New(), "a@b.c", "A", model.RoleAdmin)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = ValidateToken(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
