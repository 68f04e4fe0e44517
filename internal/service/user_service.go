package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oncolab/sampletrack/internal/domain"
)

// UserAdminRepository is the slice of the user store the admin surface needs.
type UserAdminRepository interface {
	List(ctx context.Context) ([]*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdatePermissions(ctx context.Context, id uuid.UUID, perms []domain.Permission) error
}

// UserService backs the admin panel's user management. The repo may be nil
// when the deployment runs without a user store.
type UserService struct {
	repo     UserAdminRepository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewUserService(repo UserAdminRepository, auditSvc *AuditService, log *zap.Logger) *UserService {
	return &UserService{repo: repo, auditSvc: auditSvc, log: log}
}

func (s *UserService) ListUsers(ctx context.Context, caller domain.Claims) ([]*domain.User, error) {
	if caller.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	if s.repo == nil {
		return nil, ErrUserStoreUnavailable
	}
	return s.repo.List(ctx)
}

// SetPermissions replaces a user's permission set.
func (s *UserService) SetPermissions(ctx context.Context, id uuid.UUID, perms []domain.Permission, caller domain.Claims, ip string) (*domain.User, error) {
	if caller.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	if s.repo == nil {
		return nil, ErrUserStoreUnavailable
	}

	if err := s.repo.UpdatePermissions(ctx, id, perms); err != nil {
		return nil, fmt.Errorf("updating permissions: %w", err)
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:     caller.UserID,
		UserEmail:  caller.Email,
		Action:     domain.ActionPermissionUpdated,
		ResourceID: id.String(),
		IPAddress:  ip,
	})
	s.log.Info("user permissions updated",
		zap.String("user_id", id.String()),
		zap.String("updated_by", caller.Email),
	)
	return user, nil
}
