package domain

import (
	"context"
	"time"
)

type Candidate struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Role      string        `json:"role"` // position applied for
	Resume    string        `json:"resume"`
	Stage     PipelineStage `json:"stage"`
	Owner     Principal     `json:"owner"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// CandidateInput carries the owner-editable fields of a candidate record.
type CandidateInput struct {
	Name   string `json:"name" validate:"required,max=200"`
	Email  string `json:"email" validate:"required,email,max=254"`
	Role   string `json:"role" validate:"required,max=200"`
	Resume string `json:"resume" validate:"max=50000"`
}

// CandidateUpdate has the same shape as CandidateInput but never creates a record.
type CandidateUpdate = CandidateInput

// Export formats accepted by CandidateUsecase.ExportCandidates.
const (
	ExportFormatXLSX = "xlsx"
	ExportFormatCSV  = "csv"
)

// CandidateRepository stores the primary id -> candidate table, the owner -> id
// index and the id sequence. Create and Delete change the table and the index in
// one step; the remaining writers touch a single side and exist for repair.
type CandidateRepository interface {
	// NextID allocates the next candidate id. Ids start at 0 and are never reused.
	NextID(ctx context.Context) (int64, error)
	// GetByID returns nil, nil when the id is absent.
	GetByID(ctx context.Context, id int64) (*Candidate, error)
	// Create inserts c and the index entry c.Owner -> c.ID atomically. It returns
	// ErrOwnerTaken and writes nothing when c.Owner is already indexed.
	Create(ctx context.Context, c *Candidate) error
	// Update overwrites the record with c.ID, keeping its insertion position.
	// It returns ErrNotFound when the record is gone.
	Update(ctx context.Context, c *Candidate) error
	// Delete removes the record and the owner's index entry atomically.
	Delete(ctx context.Context, owner Principal, id int64) error
	// DeleteByID removes only the primary record.
	DeleteByID(ctx context.Context, id int64) error
	// List returns every record in insertion order.
	List(ctx context.Context) ([]Candidate, error)
	// ListByStage filters List by exact stage equality.
	ListByStage(ctx context.Context, stage PipelineStage) ([]Candidate, error)

	GetOwnerIndex(ctx context.Context, owner Principal) (int64, bool, error)
	DeleteOwnerIndex(ctx context.Context, owner Principal) error
}

type CandidateUsecase interface {
	UpsertCandidate(ctx context.Context, caller Principal, input CandidateInput) (int64, error)
	UpdateCandidate(ctx context.Context, caller Principal, input CandidateUpdate) error
	// GetMyCandidate returns nil, nil when the caller has no record.
	GetMyCandidate(ctx context.Context, caller Principal) (*Candidate, error)
	GetAllCandidates(ctx context.Context, caller Principal) ([]Candidate, error)
	GetCandidatesByStage(ctx context.Context, caller Principal, stage PipelineStage) ([]Candidate, error)
	UpdateCandidateStage(ctx context.Context, caller Principal, id int64, stage PipelineStage) error
	DeleteCandidate(ctx context.Context, caller Principal) error
	// ExportCandidates renders candidates as a spreadsheet, optionally filtered by stage.
	ExportCandidates(ctx context.Context, caller Principal, stage *PipelineStage, format string) ([]byte, string, error)
}
