package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"inventory/internal/logger"
	"inventory/internal/models"
	"inventory/internal/repositories"

	"github.com/dgrijalva/jwt-go"
)

// ErrInvalidCredentials is returned for an unknown user id or a wrong password.
var ErrInvalidCredentials = errors.New("invalid user id or password.")

// AuthService issues and verifies tokens for the fixed login accounts.
type AuthService struct {
	accounts  repositories.AccountRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(accounts repositories.AccountRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		accounts:  accounts,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// Login checks the credentials and returns a signed token for the account's actor.
func (s *AuthService) Login(userID, password string) (string, models.Actor, error) {
	account, err := s.accounts.GetByUserID(strings.TrimSpace(userID))
	if err != nil || account.Password != password {
		return "", models.Anonymous, ErrInvalidCredentials
	}

	now := jwt.TimeFunc()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": account.UserID,
		"role":    string(account.Role),
		"exp":     now.Add(s.tokenTTL).Unix(),
		"iat":     now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", models.Anonymous, fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, account.Actor(), nil
}

// ValidateToken parses and validates a token, returning the actor it was issued to.
func (s *AuthService) ValidateToken(tokenString string) (models.Actor, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		logger.Debug("token validation failed", "error", err)
		return models.Anonymous, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Anonymous, fmt.Errorf("invalid token")
	}

	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	actor := models.Actor{UserID: userID, Role: models.Role(role)}
	if userID == "" || (actor.Role != models.RoleAdmin && actor.Role != models.RoleUser) {
		return models.Anonymous, fmt.Errorf("invalid token: missing identity claims")
	}
	return actor, nil
}
