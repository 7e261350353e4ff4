package postgres

import (
	"context"
	"errors"

	"go-ats-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type roleRepo struct {
	db *pgxpool.Pool
}

func NewRoleRepository(db *pgxpool.Pool) domain.RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) GetRole(ctx context.Context, p domain.Principal) (domain.Role, bool, error) {
	var role string
	err := r.db.QueryRow(ctx, `SELECT role FROM user_roles WHERE principal = $1`, string(p)).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return domain.Role(role), true, nil
}

func (r *roleRepo) SetRole(ctx context.Context, p domain.Principal, role domain.Role) error {
	query := `
		INSERT INTO user_roles (principal, role, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (principal) DO UPDATE SET role = EXCLUDED.role, updated_at = NOW()`
	_, err := r.db.Exec(ctx, query, string(p), string(role))
	return err
}
