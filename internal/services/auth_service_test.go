package services_test

import (
	"testing"
	"time"

	"inventory/internal/models"
	"inventory/internal/repositories"
	"inventory/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test_jwt_secret"

func newAuthService() *services.AuthService {
	accounts := repositories.NewStaticAccountRepository(
		models.Account{UserID: "admin", Password: "admin_password", Role: models.RoleAdmin},
		models.Account{UserID: "user", Password: "user_password", Role: models.RoleUser},
	)
	return services.NewAuthService(accounts, testJWTSecret, time.Hour)
}

func TestAuthService_Login(t *testing.T) {
	authService := newAuthService()

	token, actor, err := authService.Login(" admin ", "admin_password")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, models.Actor{UserID: "admin", Role: models.RoleAdmin}, actor)

	validated, err := authService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, actor, validated)

	token, actor, err = authService.Login("user", "user_password")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, actor.Role)
	validated, err = authService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, validated.Role)
}

func TestAuthService_LoginInvalidCredentials(t *testing.T) {
	authService := newAuthService()

	_, actor, err := authService.Login("admin", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	assert.False(t, actor.IsAuthenticated())

	_, _, err = authService.Login("nobody", "admin_password")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := newAuthService()
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "invalid.token.string"},
		{"wrong secret", signed(t, "other", jwt.MapClaims{"user_id": "admin", "role": "admin", "exp": future})},
		{"expired", signed(t, testJWTSecret, jwt.MapClaims{"user_id": "admin", "role": "admin", "exp": time.Now().Add(-time.Hour).Unix()})},
		{"missing user", signed(t, testJWTSecret, jwt.MapClaims{"role": "admin", "exp": future})},
		{"unknown role", signed(t, testJWTSecret, jwt.MapClaims{"user_id": "admin", "role": "root", "exp": future})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor, err := authService.ValidateToken(tt.token)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid token")
			assert.Equal(t, models.Anonymous, actor)
		})
	}
}
