package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// AdminService manages administrator accounts. Mutations are superadmin-only,
// enforced at the router.
type AdminService struct {
	admins     AdminStore
	audit      *AuditService
	bcryptCost int
}

// NewAdminService creates a new AdminService.
func NewAdminService(admins AdminStore, audit *AuditService, bcryptCost int) *AdminService {
	return &AdminService{admins: admins, audit: audit, bcryptCost: bcryptCost}
}

// List retrieves all administrator accounts.
func (s *AdminService) List(ctx context.Context) ([]model.Admin, error) {
	return s.admins.List(ctx)
}

// Create adds an administrator account.
func (s *AdminService) Create(ctx context.Context, actor string, req *model.CreateAdminRequest) (*model.Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin := &model.Admin{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         req.Role,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}

	s.audit.Record(ctx, actor, "admin.create", map[string]any{
		"admin_id": admin.ID,
		"username": admin.Username,
		"role":     admin.Role,
	})
	return admin, nil
}

// Delete removes an administrator account. Self-deletion and removing the
// last superadmin are both rejected.
func (s *AdminService) Delete(ctx context.Context, actorID int, actor string, id int) error {
	if id == actorID {
		return ErrSelfDelete
	}

	admin, err := s.admins.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("fetch admin: %w", err)
	}

	if admin.Role == model.RoleSuperadmin {
		count, err := s.admins.CountSuperadmins(ctx)
		if err != nil {
			return fmt.Errorf("count superadmins: %w", err)
		}
		if count <= 1 {
			return ErrLastSuperadmin
		}
	}

	if err := s.admins.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}
	s.audit.Record(ctx, actor, "admin.delete", map[string]any{
		"admin_id": id,
		"username": admin.Username,
	})
	return nil
}
