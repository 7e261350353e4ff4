package memory

import (
	"context"
	"sync"

	"go-ats-backend/internal/domain"
)

type candidateRepo struct {
	mu      sync.RWMutex
	records map[int64]domain.Candidate
	order   []int64 // insertion order of records
	owners  map[domain.Principal]int64
	nextID  int64
}

// NewCandidateRepository returns an in-process candidate store. Records are copied
// on the way in and out so callers never alias stored state.
func NewCandidateRepository() domain.CandidateRepository {
	return &candidateRepo{
		records: make(map[int64]domain.Candidate),
		owners:  make(map[domain.Principal]int64),
	}
}

func (r *candidateRepo) NextID(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	return id, nil
}

func (r *candidateRepo) GetByID(ctx context.Context, id int64) (*domain.Candidate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *candidateRepo) Create(ctx context.Context, c *domain.Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.owners[c.Owner]; taken {
		return domain.ErrOwnerTaken
	}
	r.owners[c.Owner] = c.ID
	r.order = append(r.order, c.ID)
	r.records[c.ID] = *c
	return nil
}

func (r *candidateRepo) Update(ctx context.Context, c *domain.Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.records[c.ID]; !exists {
		return domain.ErrNotFound
	}
	r.records[c.ID] = *c
	return nil
}

func (r *candidateRepo) Delete(ctx context.Context, owner domain.Principal, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.owners[owner]; ok && cur == id {
		delete(r.owners, owner)
	}
	r.removeLocked(id)
	return nil
}

func (r *candidateRepo) DeleteByID(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(id)
	return nil
}

func (r *candidateRepo) removeLocked(id int64) {
	if _, exists := r.records[id]; !exists {
		return
	}
	delete(r.records, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *candidateRepo) List(ctx context.Context) ([]domain.Candidate, error) {
	return r.filter(func(domain.Candidate) bool { return true }), nil
}

func (r *candidateRepo) ListByStage(ctx context.Context, stage domain.PipelineStage) ([]domain.Candidate, error) {
	return r.filter(func(c domain.Candidate) bool { return c.Stage == stage }), nil
}

func (r *candidateRepo) filter(keep func(domain.Candidate) bool) []domain.Candidate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Candidate, 0, len(r.order))
	for _, id := range r.order {
		if c := r.records[id]; keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func (r *candidateRepo) GetOwnerIndex(ctx context.Context, owner domain.Principal) (int64, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.owners[owner]
	return id, ok, nil
}

func (r *candidateRepo) DeleteOwnerIndex(ctx context.Context, owner domain.Principal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.owners, owner)
	return nil
}
