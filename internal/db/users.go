package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`
	ID            int64  `bun:"id,pk,autoincrement"`
	Username      string `bun:"username,notnull,unique"`
	PasswordHash  string `bun:"password_hash,notnull"`
}

func CreateUser(ctx context.Context, db *bun.DB, user *User) error {
	_, err := db.NewInsert().Model(user).Exec(ctx)
	return err
}

// UserByUsername returns nil without error when the user does not exist.
func UserByUsername(ctx context.Context, db *bun.DB, username string) (*User, error) {
	user := new(User)
	err := db.NewSelect().Model(user).Where("username = ?", username).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
