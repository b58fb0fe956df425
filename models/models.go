package models

import "time"

// Employee is a row in the funcionarios table. Hour counters are running
// totals; there is no per-event ledger.
type Employee struct {
	ID          int    `json:"id"`
	Nome        string `json:"nome"`
	HorasExtras int    `json:"horas_extras"`
	HorasFolga  int    `json:"horas_folga"`
}

// User is a login credential from the usuarios table. There is no signup
// flow; rows are provisioned directly in the database.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// Session is a server-side login session from the sessoes table. The token
// is the only thing the browser holds.
type Session struct {
	Token     string    `json:"-"`
	UserID    int       `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
