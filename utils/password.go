package utils

import (
	"github.com/matthewhartstonge/argon2"
)

// HashPassword encodes the password with argon2id using the library defaults.
// The encoded form embeds salt and parameters, so verification needs no
// stored config.
func HashPassword(password string) (string, error) {
	argon := argon2.DefaultConfig()
	encoded, err := argon.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// VerifyPassword checks a candidate password against an encoded argon2 hash.
// A malformed or empty hash (a Google-provisioned account, for example)
// reports an error rather than a mismatch.
func VerifyPassword(encodedHash, password string) (bool, error) {
	ok, err := argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
	if err != nil {
		return false, err
	}
	return ok, nil
}
