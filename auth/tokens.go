package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rpupo63/unified-admin-dashboard/errs"
)

const issuer = "unified-admin-dashboard"

type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies the bearer tokens handed out at sign-in. A token
// only names a session; everything else is read from the session store.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) (Tokens, error) {
	if secret == "" {
		return Tokens{}, errs.NewConfigMissingError("JWT_SECRET")
	}
	return Tokens{secret: []byte(secret), ttl: ttl}, nil
}

func (t Tokens) Issue(sessionID, userID string, now time.Time) (string, error) {
	claims := &Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", errs.NewInternalErrorWithCause("failed to sign token", err)
	}
	return signed, nil
}

func (t Tokens) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, errs.NewInvalidTokenError(err)
	}
	if !token.Valid || claims.SessionID == "" {
		return nil, errs.NewInvalidTokenError(nil)
	}
	return claims, nil
}
