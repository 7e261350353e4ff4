package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go-ats-backend/internal/domain"
	"go-ats-backend/pkg/apperror"
	"go-ats-backend/pkg/logger"
	"go-ats-backend/pkg/security"

	"github.com/go-playground/validator/v10"
)

// candidateUsecase is the candidate registry. Within one process every operation
// runs under mu; across replicas the repository's Create and Delete keep the
// table and the owner index in step.
type candidateUsecase struct {
	mu       sync.Mutex
	repo     domain.CandidateRepository
	access   domain.AccessUsecase
	validate *validator.Validate
	secLog   *security.SecurityLogger
	now      func() time.Time
}

func NewCandidateUsecase(
	repo domain.CandidateRepository,
	access domain.AccessUsecase,
	validate *validator.Validate,
	secLog *security.SecurityLogger,
) domain.CandidateUsecase {
	if secLog == nil {
		secLog = security.Nop()
	}
	return &candidateUsecase{
		repo:     repo,
		access:   access,
		validate: validate,
		secLog:   secLog,
		now:      time.Now,
	}
}

// UpsertCandidate creates the caller's record on first call and overwrites its
// editable fields afterwards. Stage and owner are never touched here.
func (u *candidateUsecase) UpsertCandidate(ctx context.Context, caller domain.Principal, input domain.CandidateInput) (int64, error) {
	if err := u.access.Require(ctx, caller, domain.RoleUser); err != nil {
		return 0, err
	}
	input = normalizeInput(input)
	if err := u.validate.Struct(input); err != nil {
		return 0, errInvalid("Invalid candidate data", err)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	// A second pass only happens when another replica created the caller's
	// record between the index lookup and Create.
	for attempt := 0; ; attempt++ {
		existing, err := u.ownedCandidate(ctx, caller)
		if err != nil {
			return 0, err
		}
		if existing != nil {
			applyInput(existing, input, u.now())
			if err := u.update(ctx, existing); err != nil {
				return 0, err
			}
			return existing.ID, nil
		}

		id, err := u.repo.NextID(ctx)
		if err != nil {
			return 0, apperror.Internal(err)
		}
		now := u.now()
		c := &domain.Candidate{
			ID:        id,
			Stage:     domain.StageApplied,
			Owner:     caller,
			CreatedAt: now,
		}
		applyInput(c, input, now)

		err = u.repo.Create(ctx, c)
		if errors.Is(err, domain.ErrOwnerTaken) && attempt == 0 {
			logger.Log.Info("Candidate created concurrently, retrying as update", "candidate_id", id)
			continue
		}
		if err != nil {
			return 0, apperror.Internal(err)
		}
		return id, nil
	}
}

func (u *candidateUsecase) UpdateCandidate(ctx context.Context, caller domain.Principal, input domain.CandidateUpdate) error {
	if err := u.access.Require(ctx, caller, domain.RoleUser); err != nil {
		return err
	}
	input = normalizeInput(input)
	if err := u.validate.Struct(input); err != nil {
		return errInvalid("Invalid candidate data", err)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	existing, err := u.ownedCandidate(ctx, caller)
	if err != nil {
		return err
	}
	if existing == nil {
		return errNotFound("Candidate not found, use upsert to create one")
	}

	applyInput(existing, input, u.now())
	return u.update(ctx, existing)
}

// GetMyCandidate returns nil, nil when the caller has no record.
func (u *candidateUsecase) GetMyCandidate(ctx context.Context, caller domain.Principal) (*domain.Candidate, error) {
	if err := u.access.Require(ctx, caller, domain.RoleUser); err != nil {
		return nil, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	id, ok, err := u.repo.GetOwnerIndex(ctx, caller)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !ok {
		return nil, nil
	}
	c, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return c, nil
}

func (u *candidateUsecase) GetAllCandidates(ctx context.Context, caller domain.Principal) ([]domain.Candidate, error) {
	if err := u.access.Require(ctx, caller, domain.RoleAdmin); err != nil {
		return nil, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	list, err := u.repo.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}

func (u *candidateUsecase) GetCandidatesByStage(ctx context.Context, caller domain.Principal, stage domain.PipelineStage) ([]domain.Candidate, error) {
	if err := u.access.Require(ctx, caller, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if stage.Position() < 0 {
		return nil, apperror.BadRequest("Unknown pipeline stage")
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	list, err := u.repo.ListByStage(ctx, stage)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}

// UpdateCandidateStage moves a candidate to a new stage. Only the stage and
// updated_at change.
func (u *candidateUsecase) UpdateCandidateStage(ctx context.Context, caller domain.Principal, id int64, stage domain.PipelineStage) error {
	if err := u.access.Require(ctx, caller, domain.RoleAdmin); err != nil {
		return err
	}
	if stage.Position() < 0 {
		return apperror.BadRequest("Unknown pipeline stage")
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	c, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return apperror.Internal(err)
	}
	if c == nil {
		return errNotFound("Candidate not found")
	}

	if err := domain.ValidateStageTransition(c.Stage, stage); err != nil {
		var te *domain.TransitionError
		if errors.As(err, &te) {
			return apperror.Unprocessable("Invalid stage transition: " + te.Reason).Wrap(err)
		}
		return apperror.Unprocessable(err.Error()).Wrap(err)
	}

	c.Stage = stage
	c.UpdatedAt = u.now()
	return u.update(ctx, c)
}

// DeleteCandidate removes the caller's record together with its index entry.
func (u *candidateUsecase) DeleteCandidate(ctx context.Context, caller domain.Principal) error {
	if err := u.access.Require(ctx, caller, domain.RoleUser); err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	id, ok, err := u.repo.GetOwnerIndex(ctx, caller)
	if err != nil {
		return apperror.Internal(err)
	}
	if !ok {
		return errNotFound("Candidate not found")
	}
	if err := u.repo.Delete(ctx, caller, id); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// update writes c back. A record removed underneath us reports as not found.
func (u *candidateUsecase) update(ctx context.Context, c *domain.Candidate) error {
	if err := u.repo.Update(ctx, c); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return errNotFound("Candidate not found")
		}
		return apperror.Internal(err)
	}
	return nil
}

// ownedCandidate resolves the caller's record through the owner index. An index
// entry pointing at a missing record is cleared and reported as a data
// inconsistency; the caller's retry then takes the creation path.
// Must be called with mu held.
func (u *candidateUsecase) ownedCandidate(ctx context.Context, caller domain.Principal) (*domain.Candidate, error) {
	id, ok, err := u.repo.GetOwnerIndex(ctx, caller)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !ok {
		return nil, nil
	}

	c, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if c == nil {
		logger.Log.Warn("Dangling candidate owner index cleared",
			"candidate_id", id,
			"principal_hash", security.HashValue(string(caller)),
		)
		if err := u.repo.DeleteOwnerIndex(ctx, caller); err != nil {
			return nil, apperror.Internal(err)
		}
		return nil, errInconsistent("Candidate data was inconsistent and has been repaired, please retry")
	}
	return c, nil
}

func normalizeInput(in domain.CandidateInput) domain.CandidateInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Role = strings.TrimSpace(in.Role)
	return in
}

func applyInput(c *domain.Candidate, in domain.CandidateInput, now time.Time) {
	c.Name = in.Name
	c.Email = in.Email
	c.Role = in.Role
	c.Resume = in.Resume
	c.UpdatedAt = now
}
