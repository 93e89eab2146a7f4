package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/sfk-console-api/internal/models"
	appErrors "github.com/noah-isme/sfk-console-api/pkg/errors"
)

func newTestAuth(t *testing.T) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	data, _ := newTestCollections()
	mustSave(t, data.SaveUsers(context.Background(), []models.User{
		{Login: "prof", Password: "aula123", Role: models.RoleProfessor, Name: "Paula"},
	}))
	return NewAuthService(data, nil, nil, AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "sfk-console",
		Seeds:             []models.User{{Login: "master", PasswordHash: string(hash), Role: models.RoleGestorMaster, Name: "Master", Seed: true}},
	})
}

func TestLoginSeedAccount(t *testing.T) {
	svc := newTestAuth(t)
	resp, err := svc.Login(context.Background(), models.LoginRequest{Login: "MASTER", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleGestorMaster, resp.User.Role)
	assert.EqualValues(t, 3600, resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "master", claims.Login)
	assert.Equal(t, "sfk-console", claims.Issuer)
}

func TestLoginSyncedAccount(t *testing.T) {
	svc := newTestAuth(t)
	resp, err := svc.Login(context.Background(), models.LoginRequest{Login: "prof", Password: "aula123"})
	require.NoError(t, err)
	assert.Equal(t, "Paula", resp.User.Name)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestAuth(t)
	cases := []models.LoginRequest{
		{Login: "prof", Password: "wrong"},
		{Login: "master", Password: "aula123"},
		{Login: "ghost", Password: "x"},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), req)
		assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials, req.Login)
	}

	_, err := svc.Login(context.Background(), models.LoginRequest{})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	svc := newTestAuth(t)
	resp, err := svc.Login(context.Background(), models.LoginRequest{Login: "prof", Password: "aula123"})
	require.NoError(t, err)

	other := NewAuthService(nil, nil, nil, AuthConfig{AccessTokenSecret: "other"})
	_, err = other.ValidateToken(resp.AccessToken)
	assert.Error(t, err)
}
