package jwt

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

var parser = jwt.NewParser(jwt.WithJSONNumber())

// Expiry reads the exp claim of tokenString.
// The signature is NOT verified, the result is only good for scheduling refreshes.
func Expiry(tokenString string) (time.Time, error) {
	if tokenString == "" {
		return time.Time{}, fmt.Errorf("%w: empty token", ErrMalformed)
	}

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, errors.Join(ErrMalformed, err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, errors.Join(ErrMalformed, err)
	}

	if exp == nil {
		return time.Time{}, errors.Join(ErrMalformed, ErrMissingExpiry)
	}

	return exp.Time, nil
}

// Remaining returns how long tokenString stays valid measured from now. Expired tokens give a negative duration.
func Remaining(tokenString string, now time.Time) (time.Duration, error) {
	exp, err := Expiry(tokenString)
	if err != nil {
		return 0, err
	}
	return exp.Sub(now), nil
}
