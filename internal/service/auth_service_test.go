package service

import (
	"testing"

	"go-campus-assets/internal/model"
	"go-campus-assets/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (AuthService, *repository.MemoryUserRepo, *model.User) {
	t.Helper()
	repo := repository.NewMemoryUserRepo()
	user := &model.User{
		Email:    "admin@campus.edu",
		FullName: "Campus Admin",
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	require.NoError(t, user.SetPassword("correct-horse"))
	require.NoError(t, repo.Create(user))
	return NewAuthService(repo), repo, user
}

func TestLoginIssuesValidToken(t *testing.T) {
	svc, _, user := newAuthFixture(t)

	response, err := svc.Login("admin@campus.edu", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, user.Email, response.User.Email)
	assert.Equal(t, model.RoleAdmin, response.User.Role)

	validated, err := svc.ValidateToken(response.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, validated.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Login("admin@campus.edu", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("nobody@campus.edu", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	svc, repo, user := newAuthFixture(t)
	user.IsActive = false
	require.NoError(t, repo.Update(user))

	_, err := svc.Login("admin@campus.edu", "correct-horse")
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestResetPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	err := svc.ResetPassword("admin@campus.edu", "wrong-password", "new-password-1")
	assert.ErrorIs(t, err, ErrWrongPassword)

	require.NoError(t, svc.ResetPassword("admin@campus.edu", "correct-horse", "new-password-1"))

	_, err = svc.Login("admin@campus.edu", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login("admin@campus.edu", "new-password-1")
	assert.NoError(t, err)
}
