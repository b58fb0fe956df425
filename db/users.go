package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bancohoras/models"
)

func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (models.User, error) {
	u := models.User{Username: username, PasswordHash: passwordHash}
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO usuarios (username, password) VALUES ($1, $2) RETURNING id",
		username, passwordHash,
	).Scan(&u.ID)
	if err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, password FROM usuarios WHERE username = $1", username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}
