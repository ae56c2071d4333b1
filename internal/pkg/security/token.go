package security

import (
	"errors"
	"time"

	"airicepest-be/internal/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const TokenTTL = 24 * time.Hour

// Claims is the identity carried by a session token.
type Claims struct {
	UserId    uuid.UUID
	Username  string
	Role      entity.UserRole
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type tokenClaims struct {
	UserId   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), now: time.Now}
}

// WithClock replaces the time source used for issuing and expiry checks.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	return &TokenService{secret: s.secret, now: now}
}

func (s *TokenService) Issue(userId uuid.UUID, username string, role entity.UserRole) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("token signing secret is empty")
	}

	issuedAt := s.now()
	claims := tokenClaims{
		UserId:   userId.String(),
		Username: username,
		Role:     string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiryFor(issuedAt)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// expiryFor rounds the expiry up to a whole second. NumericDate drops the
// fraction, which would otherwise end the session early.
func expiryFor(issuedAt time.Time) time.Time {
	exp := issuedAt.Add(TokenTTL)
	if whole := exp.Truncate(time.Second); whole.Before(exp) {
		return whole.Add(time.Second)
	}
	return exp
}

// Verify returns the token's claims when the signature is valid and the
// token is unexpired. Every other outcome is reported as ok=false.
func (s *TokenService) Verify(token string) (*Claims, bool) {
	if token == "" || len(s.secret) == 0 {
		return nil, false
	}

	var parsed tokenClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, false
	}

	userId, err := uuid.Parse(parsed.UserId)
	if err != nil {
		return nil, false
	}

	claims := &Claims{
		UserId:    userId,
		Username:  parsed.Username,
		Role:      entity.UserRole(parsed.Role),
		ExpiresAt: parsed.ExpiresAt.Time,
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time
	}
	return claims, true
}
