package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.WorkerRepository = (*WorkerRepo)(nil)

// WorkerRepo empleados sobre PostgreSQL.
type WorkerRepo struct {
	q Querier
}

// NewWorkerRepository construye el adaptador de empleados.
func NewWorkerRepository(q Querier) *WorkerRepo {
	return &WorkerRepo{q: q}
}

// Create inserta un empleado. Un email repetido sale como domain.ErrDuplicate.
func (r *WorkerRepo) Create(worker *entity.Worker) error {
	if worker.ID == "" {
		worker.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if worker.CreatedAt.IsZero() {
		worker.CreatedAt = now
	}
	worker.UpdatedAt = now
	query := `
		INSERT INTO workers
			(id, branch_id, name, email, password_hash, role, commission_percent, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		worker.ID, worker.BranchID, worker.Name, worker.Email, worker.PasswordHash,
		worker.Role, worker.CommissionPercent, worker.Status,
		worker.CreatedAt, worker.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email %s", domain.ErrDuplicate, worker.Email)
		}
		return fmt.Errorf("insert worker: %w", err)
	}
	return nil
}

const workerColumns = `id, branch_id, name, email, password_hash, role,
	commission_percent, status, created_at, updated_at`

// GetByID obtiene un empleado por ID. Devuelve nil si no existe.
func (r *WorkerRepo) GetByID(id string) (*entity.Worker, error) {
	query := `SELECT ` + workerColumns + ` FROM workers WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// FindByEmail busca un empleado por email (login). Devuelve nil si no existe.
func (r *WorkerRepo) FindByEmail(email string) (*entity.Worker, error) {
	query := `SELECT ` + workerColumns + ` FROM workers WHERE email = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, email))
}

func (r *WorkerRepo) scanOne(row pgx.Row) (*entity.Worker, error) {
	var w entity.Worker
	err := row.Scan(
		&w.ID, &w.BranchID, &w.Name, &w.Email, &w.PasswordHash,
		&w.Role, &w.CommissionPercent, &w.Status, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get worker: %w", err)
	}
	return &w, nil
}
