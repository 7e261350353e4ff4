package usecase

import (
	"fmt"
	"net/http"

	"go-ats-backend/internal/domain"
	"go-ats-backend/pkg/apperror"
)

func errUnauthorized(format string, args ...interface{}) error {
	return apperror.Forbidden(fmt.Sprintf(format, args...)).Wrap(domain.ErrUnauthorized)
}

func errNotFound(message string) error {
	return apperror.NotFound(message).Wrap(domain.ErrNotFound)
}

func errInconsistent(message string) error {
	return apperror.Conflict(message).Wrap(domain.ErrDataInconsistency)
}

// errInvalid keeps the validator error as cause so the transport can list field messages.
func errInvalid(message string, err error) error {
	return apperror.New(http.StatusBadRequest, message, err)
}
