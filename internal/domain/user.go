package domain

import (
	"context"
	"time"
)

type UserProfile struct {
	Name      string    `json:"name" validate:"required,min=1,max=100,valid_name,no_emoji"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProfileRepository interface {
	// GetByPrincipal returns nil, nil when no profile was saved.
	GetByPrincipal(ctx context.Context, p Principal) (*UserProfile, error)
	Save(ctx context.Context, p Principal, profile *UserProfile) error
}

type ProfileUsecase interface {
	GetCallerProfile(ctx context.Context, caller Principal) (*UserProfile, error)
	GetProfile(ctx context.Context, caller, target Principal) (*UserProfile, error)
	SaveCallerProfile(ctx context.Context, caller Principal, profile UserProfile) error
}
