package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// ErrInvalidToken is returned for tokens that fail parsing or validation
var ErrInvalidToken = errors.New("invalid token")

// Claims carried by access tokens issued by the identity service
type Claims struct {
	UserID int    `json:"user_id"`
	Type   string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier checks HMAC-signed access tokens
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier creates a verifier for tokens signed with secret
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Verify returns the user id of a valid access token
func (v *TokenVerifier) Verify(tokenString string) (int, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return 0, errors.Wrap(ErrInvalidToken, err.Error())
	}
	if !token.Valid || claims.UserID <= 0 {
		return 0, ErrInvalidToken
	}
	// refresh tokens are not accepted for API calls
	if claims.Type != "" && claims.Type != "access" {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

// Issue signs an access token for userID. The identity service owns token
// issuance in production; this is used by tests and local tooling.
func (v *TokenVerifier) Issue(userID int, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Type:   "access",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
