// Package identity maps demo personas to session identities. Selecting a
// persona is the whole login: the signed token carries who you are and which
// role gates your view, it is not a credential.
package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/assureops/incident-desk/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrUnknownPersona = errors.New("unknown persona")
	ErrInvalidToken   = errors.New("invalid or expired session token")
)

// personaNames maps each persona to its demo display identity.
var personaNames = map[domain.Role]string{
	domain.RoleAdmin:    "Agent System Admin",
	domain.RoleEmployee: "Emma Watson",
	domain.RoleEndUser:  "John Smith",
}

// Config holds identity service configuration.
type Config struct {
	SecretKey     string
	TokenDuration time.Duration
}

// Service issues and validates persona session tokens.
type Service struct {
	secret   []byte
	duration time.Duration
	now      func() time.Time
}

// NewService creates a new identity service.
func NewService(cfg Config) (*Service, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("identity: secret key is required")
	}
	duration := cfg.TokenDuration
	if duration <= 0 {
		duration = 12 * time.Hour
	}
	return &Service{
		secret:   []byte(cfg.SecretKey),
		duration: duration,
		now:      time.Now,
	}, nil
}

type sessionClaims struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Login starts a session for the given persona and returns the user plus a
// signed session token.
func (s *Service) Login(persona domain.Role) (*domain.User, string, error) {
	name, ok := personaNames[persona]
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownPersona, persona)
	}

	user := &domain.User{
		ID:    uuid.New().String(),
		Name:  name,
		Email: strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@openreach.co.uk",
		Role:  persona,
	}

	now := s.now()
	claims := sessionClaims{
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.duration)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, "", fmt.Errorf("sign session token: %w", err)
	}
	return user, token, nil
}

// ValidateToken parses a session token back into the user it was issued to.
func (s *Service) ValidateToken(tokenString string) (*domain.User, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.Role.IsValid() {
		return nil, ErrInvalidToken
	}

	return &domain.User{
		ID:    claims.Subject,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}
