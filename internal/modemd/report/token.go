package report

import (
	"errors"
	"time"

	"github.com/dragonfly-cell/modemd/pkg/log"
	gojwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// This expiry offset makes sure we reject tokens ahead of time even when there is clock skew
const ExpiryOffset = 5 * time.Second

var ErrTokenMissing = errors.New("empty/missing token")

// ValidateToken checks the bearer token for structural sanity and expiry
// without verifying the signature, the server does that
func ValidateToken(tokenString string) error {
	if len(tokenString) == 0 {
		return ErrTokenMissing
	}

	parser := gojwt.NewParser()

	// Try parsing in MapClaims mode
	token, _, err := parser.ParseUnverified(tokenString, gojwt.MapClaims{})

	if err != nil {
		// Try the registered claims mode
		token, _, err = parser.ParseUnverified(tokenString, &gojwt.RegisteredClaims{})

		// This shadows the above error, but thats fine as this is an implementation problem
		if err != nil {
			log.Error("both JWT parsing methods failed, check the implementation", zap.String("token", tokenString))
			return err
		}
	}

	// Check the optional GetNotBefore field
	startDate, err := token.Claims.GetNotBefore()
	if err == nil && startDate != nil {
		if startDate.After(time.Now()) {
			return gojwt.ErrTokenNotValidYet
		}
	}

	// Grab the mandatory expiration time
	expirationDate, err := token.Claims.GetExpirationTime()
	if err != nil {
		return err
	}
	if expirationDate == nil {
		return gojwt.ErrTokenInvalidClaims
	}

	// Check if the token is about to expire
	if expirationDate.Before(time.Now().Add(ExpiryOffset)) {
		return gojwt.ErrTokenExpired
	}

	// Everything is fine!
	return nil
}
