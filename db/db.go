package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrSessionNotFound  = errors.New("session not found")
)

// Store wraps the database handle and is passed into every handler. The
// driver is picked from the connection string: postgres:// URLs use lib/pq,
// anything else is treated as a sqlite file path.
type Store struct {
	db     *sql.DB
	driver string
}

func Open(ctx context.Context, databaseURL string) (*Store, error) {
	driver := driverFor(databaseURL)

	db, err := sql.Open(driver, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db, driver: driver}
	if err := s.createTables(ctx); err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}
	if err := s.seedAdmin(ctx); err != nil {
		return nil, fmt.Errorf("seed admin user: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func driverFor(databaseURL string) string {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return "postgres"
	}
	return "sqlite3"
}

func (s *Store) createTables(ctx context.Context) error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.driver == "postgres" {
		serial = "SERIAL PRIMARY KEY"
	}

	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS funcionarios (
			id %s,
			nome TEXT NOT NULL,
			horas_extras INTEGER DEFAULT 0,
			horas_folga INTEGER DEFAULT 0
		)`, serial),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS usuarios (
			id %s,
			username TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL
		)`, serial),
		`CREATE TABLE IF NOT EXISTS sessoes (
			token TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			expires_at TIMESTAMP NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// seedAdmin provisions a bootstrap credential when the usuarios table is
// empty. There is no signup route; further users are added directly in the
// database.
func (s *Store) seedAdmin(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM usuarios").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := HashPassword("admin123")
	if err != nil {
		return err
	}
	if _, err := s.CreateUser(ctx, "admin", hash); err != nil {
		return err
	}
	log.Warn("Default user created: admin / admin123 — change the password")
	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
