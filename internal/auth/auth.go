package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin = "admin"

	defaultTokenTTL = 12 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotConfigured      = errors.New("admin account is not configured")
)

// Service authenticates the single store administrator and issues signed
// tokens for the admin API.
type Service struct {
	username     string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

// NewService expects passwordHash to be a bcrypt hash.
func NewService(username, passwordHash, secret string) *Service {
	return &Service{
		username:     username,
		passwordHash: []byte(passwordHash),
		secret:       []byte(secret),
		ttl:          defaultTokenTTL,
		now:          time.Now,
	}
}

// SignIn checks the credentials and returns a signed HS256 token.
func (s *Service) SignIn(username, password string) (string, error) {
	const op = "Service.SignIn"

	if s.username == "" || len(s.passwordHash) == 0 || len(s.secret) == 0 {
		return "", ErrNotConfigured
	}
	if username != s.username {
		return "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"sub":  s.username,
		"role": RoleAdmin,
		"exp":  s.now().Add(s.ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// HashPassword is used to produce ADMIN_PASSWORD_HASH values.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
