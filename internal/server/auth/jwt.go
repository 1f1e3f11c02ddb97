package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/clinicportal/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the registered claims plus the patient's DNI.
type Claims struct {
	jwt.RegisteredClaims
	DNI string `json:"dni"`
}

var timeNow = time.Now

func GenerateToken(dni string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := timeNow()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		DNI: dni,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetPatientIDFromToken validates tokenString and returns the DNI it was
// issued for. Errors are one of common.ErrTokenNotFound,
// common.ErrTokenExpired or common.ErrInvalidToken.
func GetPatientIDFromToken(tokenString string, secretKey []byte) (string, error) {
	if tokenString == "" {
		return "", common.ErrTokenNotFound
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(timeNow),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.DNI == "" {
		return "", common.ErrInvalidToken
	}

	return claims.DNI, nil
}

// TokenFromHeader accepts either a bare token or "Bearer <token>".
func TokenFromHeader(value string) string {
	value = strings.TrimSpace(value)
	if len(value) >= len(common.BearerPrefix) && strings.EqualFold(value[:len(common.BearerPrefix)], common.BearerPrefix) {
		return strings.TrimSpace(value[len(common.BearerPrefix):])
	}
	return value
}
