package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword bcrypt-hashes an operator credential at the given cost.
// Used when provisioning OPERATOR_PASS_HASH.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored operator
// password hash.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
