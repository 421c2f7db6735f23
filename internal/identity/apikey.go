package identity

import (
	"golang.org/x/crypto/bcrypt"
)

// HashAPIKey hashes a freshly generated scanner_api_keys secret the same way
// the teacher hashes user passwords in auth/service/user_service.go.
func HashAPIKey(raw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyAPIKey reports whether raw matches the stored hash.
func VerifyAPIKey(hash, raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}
