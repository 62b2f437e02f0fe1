package repository

import "github.com/jhoicas/kardex-api/internal/domain/entity"

// WorkerRepository empleados (login y resolución de comisión).
type WorkerRepository interface {
	Create(worker *entity.Worker) error
	GetByID(id string) (*entity.Worker, error)
	FindByEmail(email string) (*entity.Worker, error)
}
