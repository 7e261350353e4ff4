package postgres

import (
	"context"
	"errors"

	"go-ats-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const candidateColumns = `id, name, email, role, resume, stage, owner, created_at, updated_at`

type candidateRepository struct {
	db *pgxpool.Pool
}

// NewCandidateRepository stores candidates in the candidates table and the owner
// index in candidate_owners. Ids come from candidate_id_seq, which is allocated in
// increasing order, so ordering by id reproduces insertion order.
func NewCandidateRepository(db *pgxpool.Pool) domain.CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) NextID(ctx context.Context) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `SELECT nextval('candidate_id_seq')`).Scan(&id)
	return id, err
}

func (r *candidateRepository) GetByID(ctx context.Context, id int64) (*domain.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1`
	c, err := scanCandidate(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// Create writes the owner index row and the candidate row in one transaction.
// The advisory lock on the owner serialises Create and Delete for that owner
// across every replica sharing the database.
func (r *candidateRepository) Create(ctx context.Context, c *domain.Candidate) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := lockOwner(ctx, tx, c.Owner); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO candidate_owners (owner, candidate_id) VALUES ($1, $2)
		ON CONFLICT (owner) DO NOTHING`, string(c.Owner), c.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOwnerTaken
	}

	query := `INSERT INTO candidates (` + candidateColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := tx.Exec(ctx, query,
		c.ID, c.Name, c.Email, c.Role, c.Resume, string(c.Stage), string(c.Owner), c.CreatedAt, c.UpdatedAt,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *candidateRepository) Update(ctx context.Context, c *domain.Candidate) error {
	query := `
		UPDATE candidates SET
			name = $2, email = $3, role = $4, resume = $5,
			stage = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		c.ID, c.Name, c.Email, c.Role, c.Resume, string(c.Stage), c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *candidateRepository) Delete(ctx context.Context, owner domain.Principal, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := lockOwner(ctx, tx, owner); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM candidate_owners WHERE owner = $1 AND candidate_id = $2`, string(owner), id,
	); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *candidateRepository) DeleteByID(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	return err
}

func (r *candidateRepository) List(ctx context.Context) ([]domain.Candidate, error) {
	return r.query(ctx, `SELECT `+candidateColumns+` FROM candidates ORDER BY id`)
}

func (r *candidateRepository) ListByStage(ctx context.Context, stage domain.PipelineStage) ([]domain.Candidate, error) {
	return r.query(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE stage = $1 ORDER BY id`, string(stage))
}

func (r *candidateRepository) GetOwnerIndex(ctx context.Context, owner domain.Principal) (int64, bool, error) {
	var id int64
	err := r.db.QueryRow(ctx, `SELECT candidate_id FROM candidate_owners WHERE owner = $1`, string(owner)).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return id, true, nil
}

func (r *candidateRepository) DeleteOwnerIndex(ctx context.Context, owner domain.Principal) error {
	_, err := r.db.Exec(ctx, `DELETE FROM candidate_owners WHERE owner = $1`, string(owner))
	return err
}

func (r *candidateRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.Candidate, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := []domain.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, *c)
	}
	return candidates, rows.Err()
}

// lockOwner takes a transaction-scoped advisory lock keyed on the owner.
func lockOwner(ctx context.Context, tx pgx.Tx, owner domain.Principal) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, string(owner))
	return err
}

func scanCandidate(row pgx.Row) (*domain.Candidate, error) {
	var (
		c     domain.Candidate
		stage string
		owner string
	)
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Role, &c.Resume, &stage, &owner, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Stage = domain.PipelineStage(stage)
	c.Owner = domain.Principal(owner)
	return &c, nil
}
