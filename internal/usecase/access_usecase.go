package usecase

import (
	"context"
	"sync"

	"go-ats-backend/internal/domain"
	"go-ats-backend/pkg/apperror"
	"go-ats-backend/pkg/logger"
	"go-ats-backend/pkg/security"
)

type accessUsecase struct {
	mu     sync.Mutex // serialises read-modify-write on the role table
	repo   domain.RoleRepository
	secLog *security.SecurityLogger
}

func NewAccessUsecase(repo domain.RoleRepository, secLog *security.SecurityLogger) domain.AccessUsecase {
	if secLog == nil {
		secLog = security.Nop()
	}
	return &accessUsecase{repo: repo, secLog: secLog}
}

// GetRole returns guest for principals that were never assigned a role.
func (u *accessUsecase) GetRole(ctx context.Context, p domain.Principal) (domain.Role, error) {
	role, ok, err := u.repo.GetRole(ctx, p)
	if err != nil {
		return "", apperror.Internal(err)
	}
	if !ok {
		return domain.RoleGuest, nil
	}
	return role, nil
}

func (u *accessUsecase) HasPermission(ctx context.Context, p domain.Principal, min domain.Role) (bool, error) {
	role, err := u.GetRole(ctx, p)
	if err != nil {
		return false, err
	}
	return role.AtLeast(min), nil
}

func (u *accessUsecase) IsAdmin(ctx context.Context, p domain.Principal) (bool, error) {
	return u.HasPermission(ctx, p, domain.RoleAdmin)
}

func (u *accessUsecase) Require(ctx context.Context, p domain.Principal, min domain.Role) error {
	if p == "" {
		return errUnauthorized("Caller is not authenticated")
	}
	ok, err := u.HasPermission(ctx, p, min)
	if err != nil {
		return err
	}
	if !ok {
		return errUnauthorized("This operation requires the %s role", min)
	}
	return nil
}

// AssignRole lets an admin set any role. A non-admin may only promote itself
// from guest to user.
func (u *accessUsecase) AssignRole(ctx context.Context, assigner, target domain.Principal, role domain.Role) error {
	if !role.Valid() {
		return apperror.BadRequest("Unknown role")
	}
	if target == "" {
		return apperror.BadRequest("Target principal is required")
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	assignerRole, err := u.GetRole(ctx, assigner)
	if err != nil {
		return err
	}

	if assignerRole != domain.RoleAdmin {
		if assigner != target || role != domain.RoleUser {
			return errUnauthorized("Only admins can assign roles")
		}
		// self-service path: guest -> user only
		if assignerRole != domain.RoleGuest {
			return errUnauthorized("Only admins can assign roles")
		}
	}

	if err := u.repo.SetRole(ctx, target, role); err != nil {
		return apperror.Internal(err)
	}
	u.secLog.LogRoleModified(ctx, string(assigner), string(target), string(role))
	return nil
}

// EnsureUserAccess promotes a guest caller to user. Users and admins are left as they are.
func (u *accessUsecase) EnsureUserAccess(ctx context.Context, p domain.Principal) error {
	if p == "" {
		return errUnauthorized("Caller is not authenticated")
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	role, err := u.GetRole(ctx, p)
	if err != nil {
		return err
	}
	if role != domain.RoleGuest {
		return nil
	}
	if err := u.repo.SetRole(ctx, p, domain.RoleUser); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// BootstrapAdmins grants admin to the configured principals at start-up.
func (u *accessUsecase) BootstrapAdmins(ctx context.Context, principals []domain.Principal) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	for _, p := range principals {
		if p == "" {
			continue
		}
		if err := u.repo.SetRole(ctx, p, domain.RoleAdmin); err != nil {
			return apperror.Internal(err)
		}
		logger.Log.Info("Bootstrapped admin", "principal_hash", security.HashValue(string(p)))
	}
	return nil
}
