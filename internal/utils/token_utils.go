package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nyasatech/expense_request_app/internal/core/domain"
)

// ActorClaims are the JWT claims carried by access tokens. Subject holds the
// user id; the custom claims carry what the policy layer needs so handlers
// never re-resolve the caller against the store.
type ActorClaims struct {
	jwt.RegisteredClaims
	Role  string `json:"role"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GenerateJWT generates a signed access token for the given user.
func GenerateJWT(user *domain.User, secret string, expiryDuration time.Duration, issuer string) (string, error) {
	now := time.Now()
	claims := ActorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   user.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
		Role:  string(user.Role),
		Email: user.Email,
		Name:  user.FullName(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAndValidateJWT parses a token string, validates its signature and
// standard claims, and returns the actor claims.
func ParseAndValidateJWT(tokenString string, secretKey string) (*ActorClaims, error) {
	claims := &ActorClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err // Includes token expired, signature invalid, etc.
	}

	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}

	return claims, nil
}
