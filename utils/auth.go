package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrMissingEmail = errors.New("token payload must include an email")
)

// Claims represents the JWT claims the API relies on. Issued tokens may
// carry more fields; they are ignored on verification.
type Claims struct {
	Email string `json:"email"`
	jwt.StandardClaims
}

// TokenService issues and verifies HS256 access tokens.
type TokenService struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokenService creates a TokenService signing with secret. Tokens expire
// after ttl.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		key: []byte(secret),
		ttl: ttl,
		now: time.Now,
	}
}

// Issue signs payload as the token's claims. payload must contain a
// non-empty "email"; iat and exp are always set by the issuer.
func (ts *TokenService) Issue(payload map[string]interface{}) (string, error) {
	email, _ := payload["email"].(string)
	if strings.TrimSpace(email) == "" {
		return "", ErrMissingEmail
	}

	claims := jwt.MapClaims{}
	for k, v := range payload {
		claims[k] = v
	}
	now := ts.now()
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(ts.ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(ts.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

// Parse verifies tokenString and returns its claims.
func (ts *TokenService) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return ts.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Email == "" {
		return nil, ErrMissingEmail
	}
	return claims, nil
}
