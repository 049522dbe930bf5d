package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles recognized by the platform.
const (
	RoleAdmin   = "ADMIN"
	RoleCompany = "COMPANY"
	RoleUser    = "USER"
)

// ErrTokenExpired is returned by Parse when the token's expiry has passed.
var ErrTokenExpired = errors.New("token expired")

// ErrTokenInvalid is returned by Parse for any other verification failure.
var ErrTokenInvalid = errors.New("token invalid")

// UserPayload is the validated identity attached to protected requests.
// Handlers trust this payload; signature verification happens once in the
// middleware.
type UserPayload struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CompanyID *int64 `json:"companyId,omitempty"`
}

// tokenClaims is the internal claims type used for JWT signing and parsing.
type tokenClaims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"uid"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CompanyID *int64 `json:"companyId,omitempty"`
}

// TokenManager signs and verifies HS256 bearer tokens.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a TokenManager. ttl bounds the lifetime of tokens
// issued by Sign.
func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Sign issues a token for the given payload.
func (m *TokenManager) Sign(p UserPayload) (string, error) {
	now := m.now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   fmt.Sprintf("%d", p.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID:    p.ID,
		Email:     p.Email,
		Role:      p.Role,
		CompanyID: p.CompanyID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies a token and extracts its payload.
func (m *TokenManager) Parse(tokenStr string) (UserPayload, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(tokenStr, &claims,
		func(t *jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return UserPayload{}, ErrTokenExpired
		}
		return UserPayload{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	return UserPayload{
		ID:        claims.UserID,
		Email:     claims.Email,
		Role:      claims.Role,
		CompanyID: claims.CompanyID,
	}, nil
}
