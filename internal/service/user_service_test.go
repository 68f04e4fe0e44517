package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oncolab/sampletrack/internal/domain"
	"github.com/oncolab/sampletrack/internal/repository"
)

func (r *fakeUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.byEmail))
	for _, u := range r.byEmail {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) UpdatePermissions(_ context.Context, id uuid.UUID, perms []domain.Permission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byEmail {
		if u.ID == id {
			u.Permissions = perms
			return nil
		}
	}
	return repository.ErrUserNotFound
}

func adminClaims() domain.Claims {
	return domain.Claims{UserID: uuid.New(), Email: "admin@lab.example", Role: domain.RoleAdmin}
}

func newTestUserService(repo UserAdminRepository) *UserService {
	auditSvc := NewAuditService(repository.NewMemoryAuditRepository(), testMetrics, zap.NewNop())
	return NewUserService(repo, auditSvc, zap.NewNop())
}

func TestListUsersAdminOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestUserService(newFakeUserRepo(&domain.User{
		ID:    uuid.New(),
		Email: "tech@lab.example",
		Role:  domain.RoleFullAccess,
	}))

	_, err := svc.ListUsers(ctx, writerClaims())
	require.ErrorIs(t, err, ErrForbidden)

	users, err := svc.ListUsers(ctx, adminClaims())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestSetPermissions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	user := &domain.User{
		ID:    uuid.New(),
		Email: "tech@lab.example",
		Role:  domain.RoleFullAccess,
	}
	svc := newTestUserService(newFakeUserRepo(user))

	perms := []domain.Permission{domain.PermViewSamples, domain.PermManageSamples}
	updated, err := svc.SetPermissions(ctx, user.ID, perms, adminClaims(), "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, perms, updated.Permissions)

	_, err = svc.SetPermissions(ctx, user.ID, perms, writerClaims(), "")
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.SetPermissions(ctx, uuid.New(), perms, adminClaims(), "")
	require.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserServiceWithoutStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestUserService(nil)

	_, err := svc.ListUsers(ctx, adminClaims())
	require.ErrorIs(t, err, ErrUserStoreUnavailable)

	_, err = svc.SetPermissions(ctx, uuid.New(), nil, adminClaims(), "")
	require.ErrorIs(t, err, ErrUserStoreUnavailable)
}
