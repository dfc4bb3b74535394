package hash

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// dummyHash is a bcrypt digest of a throwaway value. Login compares against
// it when the username does not exist, so the miss costs roughly the same as
// a real mismatch.
const dummyHash = "$2a$12$C6UzMDM.H6dfI/f/IKcEeO7Kxg3cPYkua2tpQALnp7hKJmgoQrOXa"

func Hash(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashedBytes), nil
}

func Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// CompareDummy burns one bcrypt comparison. It always fails.
func CompareDummy(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}
