package services

import (
	"context"

	"github.com/google/uuid"

	"taskhub/domain/dto"
	"taskhub/domain/models"
)

// TokenPair is issued on register/login/refresh. The access token is a short
// lived JWT; the refresh token is an opaque string held in the session store.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type UserService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, *TokenPair, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*models.User, *TokenPair, error)
	// Refresh rotates a token pair: the presented refresh token is revoked and
	// a new pair is issued.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	GenerateJWT(user *models.User) (string, error)
}
