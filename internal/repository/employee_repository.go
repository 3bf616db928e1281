package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/locvowork/shift_scheduler/internal/database"
	"github.com/locvowork/shift_scheduler/internal/domain"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type employeeRepository struct {
	db DBTX
	sb sq.StatementBuilderType
}

// NewEmployeeRepository creates a new instance of EmployeeRepository
func NewEmployeeRepository(db DBTX, dialect database.Dialect) domain.EmployeeRepository {
	return &employeeRepository{db: db, sb: dialect.Builder()}
}

func (r *employeeRepository) Create(ctx context.Context, e *domain.Employee) error {
	if err := e.Validate(); err != nil {
		return err
	}

	query, args, err := r.sb.Insert("employees").
		Columns("name", "age").
		Values(e.Name, e.Age).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&e.ID); err != nil {
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	query, args, err := r.sb.Select("id", "name", "age").
		From("employees").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	e, err := scanEmployee(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("employee %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Delete removes the employee; their schedule entries go with them (ON DELETE CASCADE).
func (r *employeeRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := r.sb.Delete("employees").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("employee %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *employeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	query, args, err := r.sb.Select("id", "name", "age").
		From("employees").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := []domain.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *e)
	}
	return employees, rows.Err()
}

func (r *employeeRepository) FindIDByName(ctx context.Context, name string) (int64, error) {
	query, args, err := r.sb.Select("id").
		From("employees").
		Where(sq.Eq{"name": name}).
		OrderBy("id ASC").
		Limit(2).
		ToSql()
	if err != nil {
		return 0, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	switch len(ids) {
	case 0:
		return 0, fmt.Errorf("employee %q: %w", name, domain.ErrNotFound)
	case 1:
		return ids[0], nil
	default:
		return 0, fmt.Errorf("employee %q: %w", name, domain.ErrAmbiguousName)
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEmployee(row rowScanner) (*domain.Employee, error) {
	var e domain.Employee
	var age sql.NullInt64
	if err := row.Scan(&e.ID, &e.Name, &age); err != nil {
		return nil, err
	}
	if age.Valid {
		a := int(age.Int64)
		e.Age = &a
	}
	return &e, nil
}
