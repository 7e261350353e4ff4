package domain

import (
	"fmt"
	"strings"
)

// PipelineStage is the hiring stage a candidate occupies, ordered
// applied < screening < interview < hired < rejected.
//
// hired and rejected are terminal. Any other change between two distinct stages
// is accepted, including moves back toward applied.
type PipelineStage string

const (
	StageApplied   PipelineStage = "applied"
	StageScreening PipelineStage = "screening"
	StageInterview PipelineStage = "interview"
	StageHired     PipelineStage = "hired"
	StageRejected  PipelineStage = "rejected"
)

// PipelineStages lists every stage in pipeline order.
var PipelineStages = []PipelineStage{
	StageApplied,
	StageScreening,
	StageInterview,
	StageHired,
	StageRejected,
}

// ParseStage converts a raw string to a PipelineStage, returning an error for
// unknown values.
func ParseStage(s string) (PipelineStage, error) {
	st := PipelineStage(strings.ToLower(strings.TrimSpace(s)))
	if st.Position() < 0 {
		return "", fmt.Errorf("unknown pipeline stage %q", s)
	}
	return st, nil
}

// Position is the stage index in pipeline order, or -1 for unknown stages.
func (s PipelineStage) Position() int {
	for i, st := range PipelineStages {
		if st == s {
			return i
		}
	}
	return -1
}

// Compare orders stages by position: negative when s precedes other.
func (s PipelineStage) Compare(other PipelineStage) int {
	return s.Position() - other.Position()
}

func (s PipelineStage) IsTerminal() bool {
	return s == StageHired || s == StageRejected
}

// TransitionError explains why a stage change was refused. It matches
// ErrInvalidTransition with errors.Is.
type TransitionError struct {
	From   PipelineStage
	To     PipelineStage
	Reason string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move candidate from %s to %s: %s", e.From, e.To, e.Reason)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ValidateStageTransition checks a requested stage change.
func ValidateStageTransition(current, next PipelineStage) error {
	switch {
	case current == StageHired:
		return &TransitionError{From: current, To: next, Reason: "already hired"}
	case current == StageRejected:
		return &TransitionError{From: current, To: next, Reason: "already rejected"}
	case next == current:
		return &TransitionError{From: current, To: next, Reason: "no-op not allowed"}
	}
	return nil
}
