package tokenstore

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Expiry reads the exp claim of a JWT without verifying its signature. Tokens that are
// not JWTs, or carry no exp claim, report false.
func Expiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether token is a JWT whose exp claim lies before now
func Expired(token string, now time.Time) bool {
	exp, ok := Expiry(token)
	return ok && !now.Before(exp)
}
