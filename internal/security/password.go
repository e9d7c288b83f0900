package security

import (
	"github.com/matthewhartstonge/argon2"
)

// HashPassword derives a salted argon2id hash from a plaintext password.
func HashPassword(password string) (string, error) {
	argon := argon2.DefaultConfig()

	encoded, err := argon.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}

// VerifyPassword reports whether the candidate password matches the stored
// hash. The comparison is constant-time within the argon2 primitive.
func VerifyPassword(password, hash string) (bool, error) {
	return argon2.VerifyEncoded([]byte(password), []byte(hash))
}
