package auth

import "golang.org/x/crypto/bcrypt"

const BcryptCost = 12

// HashPassword hashes a plaintext password with bcrypt. The encoded result
// carries its own salt and cost parameters.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext password matches the stored
// hash. Any failure, including a malformed stored hash, is a mismatch.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
