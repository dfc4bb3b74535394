package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"leadership-chatbot-server/internal/apperrors"
	"leadership-chatbot-server/internal/domain"
	"leadership-chatbot-server/internal/repository"
	"leadership-chatbot-server/pkg/hash"
	"leadership-chatbot-server/pkg/jwt"
	"leadership-chatbot-server/pkg/sanitize"
)

const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

type AuthService struct {
	userRepo          repository.UserRepository
	jwtSecret         string
	accessExpiration  time.Duration
	refreshExpiration time.Duration
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string, accessExp, refreshExp time.Duration) *AuthService {
	return &AuthService{
		userRepo:          userRepo,
		jwtSecret:         jwtSecret,
		accessExpiration:  accessExp,
		refreshExpiration: refreshExp,
	}
}

// ValidatePassword checks the password strength policy and returns one
// message per violated rule.
func ValidatePassword(password string) []string {
	var messages []string

	if len(password) < 8 {
		messages = append(messages, "Password must be at least 8 characters long.")
	}

	var hasDigit, hasUpper, hasLower, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	if !hasDigit {
		messages = append(messages, "Password must contain at least one digit.")
	}
	if !hasUpper {
		messages = append(messages, "Password must contain at least one uppercase letter.")
	}
	if !hasLower {
		messages = append(messages, "Password must contain at least one lowercase letter.")
	}
	if !hasSymbol {
		messages = append(messages, "Password must contain at least one special character.")
	}

	return messages
}

// NormalizeEmail lowercases and trims the address. Syntax validation is the
// request struct's job.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user. Username collisions are checked and reported
// before email collisions; the database constraints remain the authority
// when two signups race past the pre-checks.
func (s *AuthService) Register(ctx context.Context, req *domain.SignupRequest) (*domain.User, error) {
	if messages := ValidatePassword(req.Password); len(messages) > 0 {
		return nil, apperrors.NewValidationError(messages...)
	}

	username := sanitize.Strip(req.Username)
	email := NormalizeEmail(req.Email)

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, apperrors.NewConflictError("username", "Username already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflictError("email", "Email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := hash.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, apperrors.NewConflictError("username", "Username already exists")
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, apperrors.NewConflictError("email", "Email already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates by exact username. An unknown username and a wrong
// password are indistinguishable to the caller; the miss path still pays for
// a bcrypt comparison.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	username := sanitize.Strip(req.Username)

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			hash.CompareDummy(req.Password)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := hash.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, err := jwt.GenerateToken(user.ID, s.accessExpiration, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := jwt.GenerateRefreshToken(user.ID, s.refreshExpiration, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &domain.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.Public(),
	}, nil
}

// RefreshToken issues a new access token for an already-validated refresh
// token bearer. The refresh token itself stays valid: no rotation.
func (s *AuthService) RefreshToken(userID int64) (*domain.TokenResponse, error) {
	accessToken, err := jwt.GenerateToken(userID, s.accessExpiration, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &domain.TokenResponse{AccessToken: accessToken}, nil
}
