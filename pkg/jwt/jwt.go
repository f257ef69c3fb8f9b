package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Anirudha-Sai/Event-Attendance/config"
)

const issuer = "event-attendance"

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Identity is the caller information carried inside a token
type Identity struct {
	UserID uint64
	Name   string
	Email  string
	Role   string
}

// Claims custom JWT claims
type Claims struct {
	UserID     uint64 `json:"user_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	TokenType  string `json:"token_type"`            // "access" | "refresh"
	RememberMe bool   `json:"remember_me,omitempty"` // refresh only
	jwtv5.RegisteredClaims
}

// Identity returns the caller carried by the claims
func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Name: c.Name, Email: c.Email, Role: c.Role}
}

// Manager issues and parses tokens
type Manager struct {
	secret                  []byte
	accessTokenTTL          time.Duration
	refreshTokenTTLDefault  time.Duration
	refreshTokenTTLRemember time.Duration
}

// NewManager creates a Manager
func NewManager(cfg *config.AuthConfig) *Manager {
	return &Manager{
		secret:                  []byte(cfg.JWTSecret),
		accessTokenTTL:          cfg.AccessTokenTTL,
		refreshTokenTTLDefault:  cfg.RefreshTokenTTLDefault,
		refreshTokenTTLRemember: cfg.RefreshTokenTTLRemember,
	}
}

// AccessTokenTTL lifetime of access tokens
func (m *Manager) AccessTokenTTL() time.Duration {
	return m.accessTokenTTL
}

// GenerateAccessToken issues an access token
func (m *Manager) GenerateAccessToken(id Identity) (string, error) {
	return m.sign(id, "access", false, m.accessTokenTTL)
}

// GenerateRefreshToken issues a refresh token.
// rememberMe selects the longer lifetime.
func (m *Manager) GenerateRefreshToken(id Identity, rememberMe bool) (string, error) {
	ttl := m.refreshTokenTTLDefault
	if rememberMe {
		ttl = m.refreshTokenTTLRemember
	}
	return m.sign(id, "refresh", rememberMe, ttl)
}

func (m *Manager) sign(id Identity, tokenType string, rememberMe bool, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:     id.UserID,
		Name:       id.Name,
		Email:      id.Email,
		Role:       id.Role,
		TokenType:  tokenType,
		RememberMe: rememberMe,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(ttl)),
			Issuer:    issuer,
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseToken parses and verifies a token
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	}, jwtv5.WithIssuer(issuer))

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
