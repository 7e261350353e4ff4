package usecase

import (
	"context"
	"strings"
	"time"

	"go-ats-backend/internal/domain"
	"go-ats-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

type profileUsecase struct {
	repo     domain.ProfileRepository
	access   domain.AccessUsecase
	validate *validator.Validate
}

func NewProfileUsecase(repo domain.ProfileRepository, access domain.AccessUsecase, validate *validator.Validate) domain.ProfileUsecase {
	return &profileUsecase{
		repo:     repo,
		access:   access,
		validate: validate,
	}
}

func (u *profileUsecase) GetCallerProfile(ctx context.Context, caller domain.Principal) (*domain.UserProfile, error) {
	if err := u.access.Require(ctx, caller, domain.RoleUser); err != nil {
		return nil, err
	}
	return u.get(ctx, caller)
}

// GetProfile serves the caller's own profile, or any profile when the caller is an admin.
func (u *profileUsecase) GetProfile(ctx context.Context, caller, target domain.Principal) (*domain.UserProfile, error) {
	if caller != target {
		isAdmin, err := u.access.IsAdmin(ctx, caller)
		if err != nil {
			return nil, err
		}
		if !isAdmin {
			return nil, errUnauthorized("You can only view your own profile")
		}
		return u.get(ctx, target)
	}
	if err := u.access.Require(ctx, caller, domain.RoleUser); err != nil {
		return nil, err
	}
	return u.get(ctx, target)
}

func (u *profileUsecase) SaveCallerProfile(ctx context.Context, caller domain.Principal, profile domain.UserProfile) error {
	if err := u.access.Require(ctx, caller, domain.RoleUser); err != nil {
		return err
	}

	profile.Name = strings.TrimSpace(profile.Name)
	if err := u.validate.Struct(profile); err != nil {
		return errInvalid("Invalid profile", err)
	}

	profile.UpdatedAt = time.Now()
	if err := u.repo.Save(ctx, caller, &profile); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (u *profileUsecase) get(ctx context.Context, p domain.Principal) (*domain.UserProfile, error) {
	profile, err := u.repo.GetByPrincipal(ctx, p)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return profile, nil
}
