package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestValidateToken(t *testing.T) {
	userID := uuid.New()

	valid := signToken(t, testSecret, jwt.MapClaims{
		"user_id":  userID.String(),
		"username": "alice",
		"email":    "alice@example.com",
		"exp":      time.Now().Add(time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	})

	userCtx, err := ValidateToken(valid, testSecret)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if userCtx.ID != userID {
		t.Errorf("ID = %s, want %s", userCtx.ID, userID)
	}
	if userCtx.Username != "alice" {
		t.Errorf("Username = %q, want %q", userCtx.Username, "alice")
	}
	if userCtx.Email != "alice@example.com" {
		t.Errorf("Email = %q, want %q", userCtx.Email, "alice@example.com")
	}
}

func TestValidateToken_BearerPrefixStripped(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"user_id": uuid.New().String(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	if _, err := ValidateToken("Bearer "+token, testSecret); err != nil {
		t.Errorf("ValidateToken with Bearer prefix: %v", err)
	}
}

func TestValidateToken_Errors(t *testing.T) {
	userID := uuid.New().String()

	expired := signToken(t, testSecret, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(-time.Minute).Unix(),
	})
	wrongSecret := signToken(t, "other-secret", jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	badUserID := signToken(t, testSecret, jwt.MapClaims{
		"user_id": "not-a-uuid",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"empty", "", ErrMissingToken},
		{"garbage", "not.a.token", ErrInvalidToken},
		{"expired", expired, ErrExpiredToken},
		{"wrong secret", wrongSecret, ErrInvalidToken},
		{"bad user id claim", badUserID, ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateToken(tt.token, testSecret)
			if err != tt.wantErr {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"valid", "Bearer abc123", "abc123"},
		{"empty", "", ""},
		{"no scheme", "abc123", ""},
		{"wrong scheme", "Basic abc123", ""},
		{"too many parts", "Bearer abc 123", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractTokenFromHeader(tt.header); got != tt.want {
				t.Errorf("ExtractTokenFromHeader(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}
