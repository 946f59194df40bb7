package crypto

import "golang.org/x/crypto/bcrypt"

// HashCost is the bcrypt work factor applied to new passwords. Never lower
// it below bcrypt.DefaultCost; existing hashes keep the cost they were
// created with.
const HashCost = bcrypt.DefaultCost

// HashPassword hashes plaintext using bcrypt.
func HashPassword(plain string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plain), HashCost)
}

// CheckPassword reports whether plaintext matches the stored hash.
// A malformed hash counts as a mismatch, never an error.
func CheckPassword(hash []byte, plain string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(plain)) == nil
}
