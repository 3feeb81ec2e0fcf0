package utils

import "golang.org/x/crypto/bcrypt"

// bcryptCost stays at the library default; raise only with a migration
// plan for existing hashes.
const bcryptCost = bcrypt.DefaultCost

// HashPassword returns the bcrypt hash of a plain password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches the stored bcrypt hash.
func CheckPassword(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
