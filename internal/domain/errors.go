package domain

import "errors"

// Sentinels for the failure classes every core operation can report. Usecases wrap
// them in an apperror.AppError so the transport can map them to a status code.
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("resource not found")
	ErrDataInconsistency = errors.New("data inconsistency")
	ErrInvalidTransition = errors.New("invalid stage transition")
	// ErrOwnerTaken is returned by CandidateRepository.Create when the owner
	// already has an index entry, typically written by another replica.
	ErrOwnerTaken = errors.New("owner already has a candidate")
)
