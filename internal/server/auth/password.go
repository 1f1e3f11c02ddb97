package auth

import (
	"fmt"

	"github.com/dmitrijs2005/clinicportal/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// HashPassword returns a salted bcrypt hash of password. Passwords longer
// than MaxPasswordBytes yield common.ErrorValidation.
func HashPassword(password string) ([]byte, error) {
	if len(password) > MaxPasswordBytes {
		return nil, fmt.Errorf("%w: password longer than %d bytes", common.ErrorValidation, MaxPasswordBytes)
	}
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
