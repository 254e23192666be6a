package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// GenerateAdminKey returns a random operator key of lengthInBytes bytes, hex
// encoded, together with the bcrypt hash to put in ADMIN_API_KEY_HASH.
func GenerateAdminKey(lengthInBytes int) (key string, hash string, err error) {
	if lengthInBytes <= 0 {
		return "", "", fmt.Errorf("lengthInBytes must be positive")
	}
	b := make([]byte, lengthInBytes)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	key = hex.EncodeToString(b)
	hash, err = HashAdminKey(key)
	if err != nil {
		return "", "", err
	}
	return key, hash, nil
}

// HashAdminKey hashes an operator key using bcrypt.
func HashAdminKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckAdminKey compares a presented key with a bcrypt hash.
func CheckAdminKey(key, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil
}
