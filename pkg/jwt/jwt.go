package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	// ErrTokenExpired means the token was well-formed and correctly signed
	// but is past its expiry.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid covers malformed tokens, bad signatures and wrong
	// signing methods.
	ErrTokenInvalid = errors.New("token is invalid")
)

// Claims carries the decoded identity of a bearer token. The user id is an
// int64 everywhere in the application; it crosses the wire as a string only
// inside this package.
type Claims struct {
	UserID int64
	Type   TokenType
}

type tokenClaims struct {
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed access token for the given user id.
func GenerateToken(userID int64, expiration time.Duration, secret string) (string, error) {
	return generate(userID, TokenTypeAccess, expiration, secret)
}

// GenerateRefreshToken issues a signed refresh token for the given user id.
func GenerateRefreshToken(userID int64, expiration time.Duration, secret string) (string, error) {
	return generate(userID, TokenTypeRefresh, expiration, secret)
}

func generate(userID int64, tokenType TokenType, expiration time.Duration, secret string) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Type: string(tokenType),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// ValidateToken verifies signature and expiry and decodes the subject back
// to a typed user id. Expired tokens are reported as ErrTokenExpired, every
// other failure as ErrTokenInvalid.
func ValidateToken(tokenString, secret string) (*Claims, error) {
	var claims tokenClaims

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	tokenType := TokenType(claims.Type)
	if tokenType != TokenTypeAccess && tokenType != TokenTypeRefresh {
		return nil, ErrTokenInvalid
	}

	return &Claims{UserID: userID, Type: tokenType}, nil
}
