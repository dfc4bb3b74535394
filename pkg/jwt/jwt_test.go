package jwt

import (
	"errors"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

func buildTokenWithSubject(t *testing.T, subject, secret string) string {
	t.Helper()

	now := time.Now()
	claims := tokenClaims{
		Type: string(TokenTypeAccess),
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(time.Hour)),
		},
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

func TestGenerateToken(t *testing.T) {
	tests := []struct {
		name       string
		userID     int64
		expiration time.Duration
		secret     string
	}{
		{
			name:       "typical token",
			userID:     123,
			expiration: 1 * time.Hour,
			secret:     "test-secret-key-32-characters!",
		},
		{
			name:       "short expiration",
			userID:     456,
			expiration: 1 * time.Second,
			secret:     "test-secret",
		},
		{
			name:       "long expiration",
			userID:     789,
			expiration: 30 * 24 * time.Hour,
			secret:     "test-secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateToken(tt.userID, tt.expiration, tt.secret)
			if err != nil {
				t.Errorf("GenerateToken() error = %v", err)
				return
			}

			if token == "" {
				t.Error("GenerateToken() returned empty token")
			}

			claims, err := ValidateToken(token, tt.secret)
			if err != nil {
				t.Errorf("ValidateToken() error = %v", err)
				return
			}

			if claims.UserID != tt.userID {
				t.Errorf("ValidateToken() UserID = %d, want %d", claims.UserID, tt.userID)
			}

			if claims.Type != TokenTypeAccess {
				t.Errorf("ValidateToken() Type = %s, want %s", claims.Type, TokenTypeAccess)
			}
		})
	}
}

func TestGenerateRefreshToken(t *testing.T) {
	token, err := GenerateRefreshToken(42, 7*24*time.Hour, "refresh-secret-key")
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}

	claims, err := ValidateToken(token, "refresh-secret-key")
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}

	if claims.Type != TokenTypeRefresh {
		t.Errorf("ValidateToken() Type = %s, want %s", claims.Type, TokenTypeRefresh)
	}

	if claims.UserID != 42 {
		t.Errorf("ValidateToken() UserID = %d, want 42", claims.UserID)
	}
}

func TestAccessAndRefreshShareSubject(t *testing.T) {
	secret := "shared-secret"
	access, _ := GenerateToken(7, time.Hour, secret)
	refresh, _ := GenerateRefreshToken(7, 24*time.Hour, secret)

	accessClaims, err := ValidateToken(access, secret)
	if err != nil {
		t.Fatalf("ValidateToken(access) error = %v", err)
	}
	refreshClaims, err := ValidateToken(refresh, secret)
	if err != nil {
		t.Fatalf("ValidateToken(refresh) error = %v", err)
	}

	if accessClaims.UserID != refreshClaims.UserID {
		t.Errorf("subjects differ: access = %d, refresh = %d", accessClaims.UserID, refreshClaims.UserID)
	}
}

func TestValidateToken(t *testing.T) {
	secret := "validation-secret-key-32-chars"

	validToken, _ := GenerateToken(1, 1*time.Hour, secret)
	expiredToken, _ := GenerateToken(1, -1*time.Hour, secret)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{
			name:    "valid token",
			token:   validToken,
			secret:  secret,
			wantErr: nil,
		},
		{
			name:    "expired token",
			token:   expiredToken,
			secret:  secret,
			wantErr: ErrTokenExpired,
		},
		{
			name:    "wrong secret",
			token:   validToken,
			secret:  "a-different-secret",
			wantErr: ErrTokenInvalid,
		},
		{
			name:    "malformed token",
			token:   "not.a.token",
			secret:  secret,
			wantErr: ErrTokenInvalid,
		},
		{
			name:    "empty token",
			token:   "",
			secret:  secret,
			wantErr: ErrTokenInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ValidateToken() error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Errorf("ValidateToken() unexpected error = %v", err)
				return
			}

			if claims.UserID != 1 {
				t.Errorf("ValidateToken() UserID = %d, want 1", claims.UserID)
			}
		})
	}
}

func TestValidateTokenNonNumericSubject(t *testing.T) {
	// A token whose subject does not parse as an int64 is structurally
	// invalid for this system even when correctly signed.
	token := buildTokenWithSubject(t, "not-a-number", "subject-secret")

	if _, err := ValidateToken(token, "subject-secret"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("ValidateToken() error = %v, want %v", err, ErrTokenInvalid)
	}
}
