package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bancohoras/models"
)

func (s *Store) CreateEmployee(ctx context.Context, nome string) (models.Employee, error) {
	e := models.Employee{Nome: nome}
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO funcionarios (nome) VALUES ($1) RETURNING id", nome,
	).Scan(&e.ID)
	if err != nil {
		return models.Employee{}, fmt.Errorf("insert employee: %w", err)
	}
	return e, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, nome, horas_extras, horas_folga FROM funcionarios",
	)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var employees []models.Employee
	for rows.Next() {
		var e models.Employee
		if err := rows.Scan(&e.ID, &e.Nome, &e.HorasExtras, &e.HorasFolga); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, id int) (models.Employee, error) {
	var e models.Employee
	err := s.db.QueryRowContext(ctx,
		"SELECT id, nome, horas_extras, horas_folga FROM funcionarios WHERE id = $1", id,
	).Scan(&e.ID, &e.Nome, &e.HorasExtras, &e.HorasFolga)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Employee{}, ErrEmployeeNotFound
	}
	if err != nil {
		return models.Employee{}, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

// AddHours increments both counters on the employee row in a single UPDATE.
// Negative deltas are accepted and reduce the totals.
func (s *Store) AddHours(ctx context.Context, id, horasExtras, horasFolga int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE funcionarios SET horas_extras = horas_extras + $1, horas_folga = horas_folga + $2 WHERE id = $3",
		horasExtras, horasFolga, id,
	)
	if err != nil {
		return fmt.Errorf("add hours: %w", err)
	}
	return affectedOrNotFound(res)
}

// UpdateEmployee overwrites the row in place with absolute values. This is
// intentionally different from AddHours, which increments.
func (s *Store) UpdateEmployee(ctx context.Context, e models.Employee) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE funcionarios SET nome = $1, horas_extras = $2, horas_folga = $3 WHERE id = $4",
		e.Nome, e.HorasExtras, e.HorasFolga, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	return affectedOrNotFound(res)
}

func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}
