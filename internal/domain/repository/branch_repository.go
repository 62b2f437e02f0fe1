package repository

import "github.com/jhoicas/kardex-api/internal/domain/entity"

// BranchRepository catálogo de sucursales.
type BranchRepository interface {
	Create(branch *entity.Branch) error
	GetByID(id string) (*entity.Branch, error)
	List() ([]*entity.Branch, error)
}
