package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password with the given cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// Credentials is the single configured admin account. When PasswordHash is
// set it takes precedence over the plaintext Password.
type Credentials struct {
	Username     string
	Password     string
	PasswordHash string
}

// Verify reports whether username and password match. An unconfigured
// account never matches.
func (c Credentials) Verify(username, password string) bool {
	if c.Username == "" || (c.Password == "" && c.PasswordHash == "") {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1
	var passOK bool
	if c.PasswordHash != "" {
		passOK = ComparePassword(c.PasswordHash, password) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(c.Password)) == 1
	}
	return userOK && passOK
}
