package memory

import (
	"context"
	"sync"
	"time"

	"go-ats-backend/internal/domain"
)

type profileRepo struct {
	mu       sync.RWMutex
	profiles map[domain.Principal]domain.UserProfile
}

func NewProfileRepository() domain.ProfileRepository {
	return &profileRepo{profiles: make(map[domain.Principal]domain.UserProfile)}
}

func (r *profileRepo) GetByPrincipal(ctx context.Context, p domain.Principal) (*domain.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.profiles[p]
	if !ok {
		return nil, nil
	}
	return &profile, nil
}

func (r *profileRepo) Save(ctx context.Context, p domain.Principal, profile *domain.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *profile
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = time.Now()
	}
	r.profiles[p] = stored
	return nil
}
