package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"devninja-chat/internal/middleware"
	"devninja-chat/internal/models"
)

const operatorBcryptCost = 12

// OperatorAuth exchanges the operator password for a short-lived admin token.
type OperatorAuth struct {
	passwordHash []byte
	jwt          *middleware.JWTAuth
	log          zerolog.Logger
}

// NewOperatorAuth takes a bcrypt hash; an empty hash disables login.
func NewOperatorAuth(passwordHash string, jwt *middleware.JWTAuth, log zerolog.Logger) *OperatorAuth {
	return &OperatorAuth{
		passwordHash: []byte(strings.TrimSpace(passwordHash)),
		jwt:          jwt,
		log:          log,
	}
}

func (a *OperatorAuth) Enabled() bool {
	return len(a.passwordHash) > 0
}

func (a *OperatorAuth) Login(ctx context.Context, req models.LoginRequest) (*models.TokenResponse, error) {
	if req.Password == "" {
		return nil, &ValidationError{Fields: map[string]string{"password": "Password is required"}}
	}
	if !a.Enabled() {
		return nil, &UnavailableError{Message: "Operator login is disabled"}
	}

	err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(req.Password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		a.log.Warn().Msg("operator login rejected")
		return nil, &UnauthorizedError{Message: "Invalid password"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to verify operator password: %w", err)
	}

	token, err := a.jwt.GenerateOperatorToken()
	if err != nil {
		return nil, fmt.Errorf("failed to issue operator token: %w", err)
	}

	a.log.Info().Msg("operator logged in")
	return &models.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int(middleware.OperatorTokenTTL.Seconds()),
	}, nil
}

// HashOperatorPassword produces the value expected in ADMIN_PASSWORD_HASH.
func HashOperatorPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", &ValidationError{Fields: map[string]string{"password": "Password must be at least 8 characters"}}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), operatorBcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
