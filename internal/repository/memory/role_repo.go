package memory

import (
	"context"
	"sync"

	"go-ats-backend/internal/domain"
)

type roleRepo struct {
	mu    sync.RWMutex
	roles map[domain.Principal]domain.Role
}

func NewRoleRepository() domain.RoleRepository {
	return &roleRepo{roles: make(map[domain.Principal]domain.Role)}
}

func (r *roleRepo) GetRole(ctx context.Context, p domain.Principal) (domain.Role, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	role, ok := r.roles[p]
	return role, ok, nil
}

func (r *roleRepo) SetRole(ctx context.Context, p domain.Principal, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[p] = role
	return nil
}
