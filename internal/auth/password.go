package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Alturino/grocery/internal/errors"
)

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed hashing password with error=%w", err)
	}
	return string(hashed), nil
}

func ComparePassword(hashed string, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)); err != nil {
		return errors.ErrPasswordMismatch
	}
	return nil
}
