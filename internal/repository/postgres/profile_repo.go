package postgres

import (
	"context"
	"errors"
	"time"

	"go-ats-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type profileRepo struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) GetByPrincipal(ctx context.Context, p domain.Principal) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	err := r.db.QueryRow(ctx,
		`SELECT name, updated_at FROM user_profiles WHERE principal = $1`, string(p),
	).Scan(&profile.Name, &profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) Save(ctx context.Context, p domain.Principal, profile *domain.UserProfile) error {
	query := `
		INSERT INTO user_profiles (principal, name, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (principal) DO UPDATE SET name = EXCLUDED.name, updated_at = EXCLUDED.updated_at`
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = time.Now()
	}
	_, err := r.db.Exec(ctx, query, string(p), profile.Name, profile.UpdatedAt)
	return err
}
