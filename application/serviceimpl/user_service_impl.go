package serviceimpl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taskhub/domain/apperrors"
	"taskhub/domain/dto"
	"taskhub/domain/models"
	"taskhub/domain/repositories"
	"taskhub/domain/services"
	"taskhub/pkg/logger"
	"taskhub/pkg/utils"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
	refreshTokenLen = 48
)

type UserServiceImpl struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	jwtSecret   string
}

func NewUserService(userRepo repositories.UserRepository, sessionRepo repositories.SessionRepository, jwtSecret string) services.UserService {
	return &UserServiceImpl{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		jwtSecret:   jwtSecret,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, *services.TokenPair, error) {
	existing, _ := s.userRepo.GetByEmail(ctx, req.Email)
	if existing != nil {
		logger.WarnContext(ctx, "Email already exists", "email", req.Email)
		return nil, nil, fmt.Errorf("%w: email", apperrors.ErrConflict)
	}

	existing, _ = s.userRepo.GetByUsername(ctx, req.Username)
	if existing != nil {
		logger.WarnContext(ctx, "Username already exists", "username", req.Username)
		return nil, nil, fmt.Errorf("%w: username", apperrors.ErrConflict)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to hash password", "error", err)
		return nil, nil, fmt.Errorf("%w: hash password", apperrors.ErrInternal)
	}

	now := time.Now()
	user := &models.User{
		ID:        uuid.New(),
		Email:     req.Email,
		Username:  req.Username,
		Password:  string(hashed),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		logger.ErrorContext(ctx, "Failed to create user", "error", err)
		return nil, nil, fmt.Errorf("%w: create user", apperrors.ErrInternal)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	logger.InfoContext(ctx, "User registered", "user_id", user.ID, "email", user.Email)
	return user, pair, nil
}

func (s *UserServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*models.User, *services.TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		logger.WarnContext(ctx, "Login failed - email not found", "email", req.Email)
		return nil, nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
	}

	if !user.IsActive {
		logger.WarnContext(ctx, "Login failed - account disabled", "user_id", user.ID)
		return nil, nil, fmt.Errorf("%w: account is disabled", apperrors.ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		logger.WarnContext(ctx, "Login failed - invalid password", "user_id", user.ID)
		return nil, nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	logger.InfoContext(ctx, "User logged in", "user_id", user.ID, "email", user.Email)
	return user, pair, nil
}

func (s *UserServiceImpl) Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	userID, err := s.sessionRepo.Lookup(ctx, refreshToken)
	if err != nil {
		logger.WarnContext(ctx, "Refresh failed - unknown or expired token")
		return nil, fmt.Errorf("%w: invalid refresh token", apperrors.ErrUnauthorized)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || !user.IsActive {
		return nil, fmt.Errorf("%w: invalid refresh token", apperrors.ErrUnauthorized)
	}

	// Rotate: revoke the presented token before issuing a new pair.
	if err := s.sessionRepo.Revoke(ctx, refreshToken); err != nil {
		logger.WarnContext(ctx, "Failed to revoke refresh token", "user_id", userID, "error", err)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Token refreshed", "user_id", user.ID)
	return pair, nil
}

func (s *UserServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if err := s.sessionRepo.Revoke(ctx, refreshToken); err != nil {
		logger.WarnContext(ctx, "Logout - failed to revoke token", "error", err)
		return fmt.Errorf("%w: revoke session", apperrors.ErrInternal)
	}
	return nil
}

func (s *UserServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: get profile", apperrors.ErrInternal)
	}
	return user, nil
}

func (s *UserServiceImpl) GenerateJWT(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"email":    user.Email,
		"exp":      time.Now().Add(accessTokenTTL).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *UserServiceImpl) issueTokenPair(ctx context.Context, user *models.User) (*services.TokenPair, error) {
	access, err := s.GenerateJWT(user)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to generate JWT", "user_id", user.ID, "error", err)
		return nil, fmt.Errorf("%w: sign token", apperrors.ErrInternal)
	}

	refresh := utils.GenerateRandomString(refreshTokenLen)
	if err := s.sessionRepo.Save(ctx, refresh, user.ID, refreshTokenTTL); err != nil {
		logger.ErrorContext(ctx, "Failed to store refresh token", "user_id", user.ID, "error", err)
		return nil, fmt.Errorf("%w: store session", apperrors.ErrInternal)
	}

	return &services.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
