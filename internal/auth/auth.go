package auth

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"

	"pdf-retriever/internal/db"
)

// HashPassword returns the bcrypt hash of a password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether a password matches a stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Register creates a new user with a hashed password.
func Register(ctx context.Context, bdb *bun.DB, username, password string) (*db.User, error) {
	existing, err := db.UserByUsername(ctx, bdb, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("user already exists")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &db.User{Username: username, PasswordHash: hash}
	if err := db.CreateUser(ctx, bdb, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Verify returns the user when the credentials match, nil otherwise.
func Verify(ctx context.Context, bdb *bun.DB, username, password string) (*db.User, error) {
	user, err := db.UserByUsername(ctx, bdb, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !CheckPassword(user.PasswordHash, password) {
		return nil, nil
	}
	return user, nil
}
