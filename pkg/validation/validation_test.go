package validation_test

import (
	"errors"
	"testing"

	"go-ats-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `validate:"required,valid_name,no_emoji"`
	Email string `validate:"required,email"`
	Bio   string `validate:"max=5"`
}

func TestCustomValidators(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Struct(sample{Name: "Anne-Marie O'Neil", Email: "a@x.com"}))
	assert.Error(t, v.Struct(sample{Name: "Robert; DROP", Email: "a@x.com"}))
	assert.Error(t, v.Struct(sample{Name: "Party \U0001F389", Email: "a@x.com"}))
}

func TestFormatValidationErrors(t *testing.T) {
	v := validation.New()
	err := v.Struct(sample{Email: "nope", Bio: "too long"})
	require.Error(t, err)

	msgs := validation.FormatValidationErrors(err)
	assert.Contains(t, msgs, "Name: is required")
	assert.Contains(t, msgs, "Email: invalid email format")
	assert.Contains(t, msgs, "Bio: must be at most 5 characters")

	assert.Equal(t, []string{"boom"}, validation.FormatValidationErrors(errors.New("boom")))
}
