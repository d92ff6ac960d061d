package utils

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// The client never validates token signatures; the backend does that.
// Claims are parsed unverified, only to fail fast on expired sessions
// and to know which user the session belongs to.

// SessionExpiry returns the token's expiry time. A token without an
// exp claim returns the zero time and no error.
func SessionExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("parse session token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("read exp claim: %w", err)
	}
	if exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}

// SessionUserID extracts the numeric user id from the token's sub claim.
func SessionUserID(token string) (int, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0, fmt.Errorf("parse session token: %w", err)
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("read sub claim: %w", err)
	}
	id, err := strconv.Atoi(sub)
	if err != nil {
		return 0, fmt.Errorf("non-numeric subject %q", sub)
	}
	return id, nil
}
