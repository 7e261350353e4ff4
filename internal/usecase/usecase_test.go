package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"go-ats-backend/internal/domain"
	"go-ats-backend/internal/repository/memory"
	"go-ats-backend/internal/usecase"
	"go-ats-backend/pkg/apperror"
	"go-ats-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	admin domain.Principal = "admin-1"
	alice domain.Principal = "alice"
	bob   domain.Principal = "bob"
	guest domain.Principal = "guest-7"
)

type fixture struct {
	access     domain.AccessUsecase
	profiles   domain.ProfileUsecase
	candidates domain.CandidateUsecase
	repo       domain.CandidateRepository
}

// newFixture wires the usecases over memory repositories with one admin and
// alice and bob already promoted to user.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	validate := validation.New()

	access := usecase.NewAccessUsecase(memory.NewRoleRepository(), nil)
	require.NoError(t, access.BootstrapAdmins(ctx, []domain.Principal{admin}))
	require.NoError(t, access.EnsureUserAccess(ctx, alice))
	require.NoError(t, access.EnsureUserAccess(ctx, bob))

	repo := memory.NewCandidateRepository()
	return &fixture{
		access:     access,
		profiles:   usecase.NewProfileUsecase(memory.NewProfileRepository(), access, validate),
		candidates: usecase.NewCandidateUsecase(repo, access, validate, nil),
		repo:       repo,
	}
}

func validInput(name string) domain.CandidateInput {
	return domain.CandidateInput{
		Name:   name,
		Email:  "a@x.com",
		Role:   "Eng",
		Resume: "...",
	}
}

func assertAppError(t *testing.T, err error, code int, sentinel error) {
	t.Helper()
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
	if sentinel != nil {
		assert.ErrorIs(t, err, sentinel)
	}
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, http.StatusForbidden, domain.ErrUnauthorized)
}

// MockCandidateRepo lets tests inject storage failures.
type MockCandidateRepo struct {
	mock.Mock
}

func (m *MockCandidateRepo) NextID(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCandidateRepo) GetByID(ctx context.Context, id int64) (*domain.Candidate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) Create(ctx context.Context, c *domain.Candidate) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCandidateRepo) Update(ctx context.Context, c *domain.Candidate) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCandidateRepo) Delete(ctx context.Context, owner domain.Principal, id int64) error {
	return m.Called(ctx, owner, id).Error(0)
}

func (m *MockCandidateRepo) DeleteByID(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCandidateRepo) List(ctx context.Context) ([]domain.Candidate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) ListByStage(ctx context.Context, stage domain.PipelineStage) ([]domain.Candidate, error) {
	args := m.Called(ctx, stage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) GetOwnerIndex(ctx context.Context, owner domain.Principal) (int64, bool, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockCandidateRepo) DeleteOwnerIndex(ctx context.Context, owner domain.Principal) error {
	return m.Called(ctx, owner).Error(0)
}
