package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/identity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase proveedor de identidad de la aplicación: login de trabajadores
// y alta de trabajadores (solo admin). El resto del sistema solo ve el
// identity.Principal que el middleware construye a partir del token.
type AuthUseCase struct {
	workerRepo repository.WorkerRepository
	branchRepo repository.BranchRepository
	jwtCfg     JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(workerRepo repository.WorkerRepository, branchRepo repository.BranchRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{workerRepo: workerRepo, branchRepo: branchRepo, jwtCfg: jwtCfg}
}

// Login verifica email/password, genera JWT y retorna token + trabajador.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	worker, err := uc.workerRepo.FindByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if worker == nil {
		return nil, domain.ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(worker.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if worker.Status != "active" {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, worker.ID, worker.BranchID, worker.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:  token,
		Worker: *toWorkerResponse(worker),
	}, nil
}

// RegisterWorker crea un trabajador: hashea el password con bcrypt y
// persiste. Restringido a administradores.
func (uc *AuthUseCase) RegisterWorker(principal identity.Principal, in dto.RegisterWorkerRequest) (*dto.WorkerResponse, error) {
	if !principal.HasRole(entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	existing, err := uc.workerRepo.FindByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	branch, err := uc.branchRepo.GetByID(in.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.ErrNotFound
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = entity.RoleWorker
	}
	now := time.Now()
	worker := &entity.Worker{
		ID:                uuid.New().String(),
		BranchID:          in.BranchID,
		Name:              in.Name,
		Email:             in.Email,
		PasswordHash:      string(hash),
		Role:              role,
		CommissionPercent: in.CommissionPercent,
		Status:            "active",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.workerRepo.Create(worker); err != nil {
		return nil, err
	}
	return toWorkerResponse(worker), nil
}

func toWorkerResponse(w *entity.Worker) *dto.WorkerResponse {
	if w == nil {
		return nil
	}
	return &dto.WorkerResponse{
		ID:                w.ID,
		BranchID:          w.BranchID,
		Name:              w.Name,
		Email:             w.Email,
		Role:              w.Role,
		CommissionPercent: w.CommissionPercent,
		Status:            w.Status,
		CreatedAt:         w.CreatedAt,
	}
}
