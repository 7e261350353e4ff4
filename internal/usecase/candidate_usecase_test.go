package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"testing"

	"go-ats-backend/internal/domain"
	"go-ats-backend/internal/repository/memory"
	"go-ats-backend/internal/usecase"
	"go-ats-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUpsertCandidate(t *testing.T) {
	ctx := context.Background()

	t.Run("Guest is rejected until access is ensured", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.candidates.UpsertCandidate(ctx, guest, validInput("G"))
		assertUnauthorized(t, err)

		require.NoError(t, f.access.EnsureUserAccess(ctx, guest))
		id, err := f.candidates.UpsertCandidate(ctx, guest, validInput("G"))
		require.NoError(t, err)
		assert.Equal(t, int64(0), id)
	})

	t.Run("Second upsert keeps id and stage", func(t *testing.T) {
		f := newFixture(t)
		id, err := f.candidates.UpsertCandidate(ctx, alice, validInput("A"))
		require.NoError(t, err)

		again, err := f.candidates.UpsertCandidate(ctx, alice, validInput("A2"))
		require.NoError(t, err)
		assert.Equal(t, id, again)

		mine, err := f.candidates.GetMyCandidate(ctx, alice)
		require.NoError(t, err)
		require.NotNil(t, mine)
		assert.Equal(t, "A2", mine.Name)
		assert.Equal(t, domain.StageApplied, mine.Stage)
		assert.Equal(t, alice, mine.Owner)
	})

	t.Run("Upsert never resets an advanced stage", func(t *testing.T) {
		f := newFixture(t)
		id, err := f.candidates.UpsertCandidate(ctx, alice, validInput("A"))
		require.NoError(t, err)
		require.NoError(t, f.candidates.UpdateCandidateStage(ctx, admin, id, domain.StageScreening))

		_, err = f.candidates.UpsertCandidate(ctx, alice, validInput("A again"))
		require.NoError(t, err)
		mine, _ := f.candidates.GetMyCandidate(ctx, alice)
		assert.Equal(t, domain.StageScreening, mine.Stage)
	})

	t.Run("Ids are sequential per caller", func(t *testing.T) {
		f := newFixture(t)
		a, err := f.candidates.UpsertCandidate(ctx, alice, validInput("A"))
		require.NoError(t, err)
		b, err := f.candidates.UpsertCandidate(ctx, bob, validInput("B"))
		require.NoError(t, err)
		assert.Equal(t, int64(0), a)
		assert.Equal(t, int64(1), b)
	})

	t.Run("Deleted ids are not reused", func(t *testing.T) {
		f := newFixture(t)
		first, err := f.candidates.UpsertCandidate(ctx, alice, validInput("A"))
		require.NoError(t, err)
		require.NoError(t, f.candidates.DeleteCandidate(ctx, alice))

		second, err := f.candidates.UpsertCandidate(ctx, alice, validInput("A"))
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
		assert.Equal(t, int64(1), second)
	})

	t.Run("Invalid input is a bad request", func(t *testing.T) {
		f := newFixture(t)
		in := validInput("A")
		in.Email = "not-an-email"
		_, err := f.candidates.UpsertCandidate(ctx, alice, in)
		assertAppError(t, err, http.StatusBadRequest, nil)

		mine, err := f.candidates.GetMyCandidate(ctx, alice)
		require.NoError(t, err)
		assert.Nil(t, mine)
	})
}

func TestUpsertCandidateRepairsDanglingIndex(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	id, err := f.candidates.UpsertCandidate(ctx, alice, validInput("A"))
	require.NoError(t, err)

	// lose the primary record behind the registry's back
	require.NoError(t, f.repo.DeleteByID(ctx, id))

	_, err = f.candidates.UpsertCandidate(ctx, alice, validInput("A"))
	assertAppError(t, err, http.StatusConflict, domain.ErrDataInconsistency)

	_, indexed, err := f.repo.GetOwnerIndex(ctx, alice)
	require.NoError(t, err)
	assert.False(t, indexed)

	retry, err := f.candidates.UpsertCandidate(ctx, alice, validInput("A"))
	require.NoError(t, err)
	assert.Equal(t, id+1, retry)
}

func TestUpdateCandidateRepairsDanglingIndex(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	id, err := f.candidates.UpsertCandidate(ctx, alice, validInput("A"))
	require.NoError(t, err)
	require.NoError(t, f.repo.DeleteByID(ctx, id))

	err = f.candidates.UpdateCandidate(ctx, alice, validInput("A2"))
	assertAppError(t, err, http.StatusConflict, domain.ErrDataInconsistency)

	_, indexed, err := f.repo.GetOwnerIndex(ctx, alice)
	require.NoError(t, err)
	assert.False(t, indexed)

	err = f.candidates.UpdateCandidate(ctx, alice, validInput("A2"))
	assertAppError(t, err, http.StatusNotFound, domain.ErrNotFound)

	all, err := f.repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "update must never create a record")
}

func TestUpdateCandidate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("Missing record is not found", func(t *testing.T) {
		err := f.candidates.UpdateCandidate(ctx, alice, validInput("A"))
		assertAppError(t, err, http.StatusNotFound, domain.ErrNotFound)
	})

	t.Run("Existing record is overwritten", func(t *testing.T) {
		_, err := f.candidates.UpsertCandidate(ctx, alice, validInput("A"))
		require.NoError(t, err)
		require.NoError(t, f.candidates.UpdateCandidate(ctx, alice, validInput("Alice")))

		mine, _ := f.candidates.GetMyCandidate(ctx, alice)
		assert.Equal(t, "Alice", mine.Name)
	})

	t.Run("Delete then update is not found", func(t *testing.T) {
		require.NoError(t, f.candidates.DeleteCandidate(ctx, alice))
		err := f.candidates.UpdateCandidate(ctx, alice, validInput("A"))
		assertAppError(t, err, http.StatusNotFound, domain.ErrNotFound)
	})

	t.Run("Guest is rejected", func(t *testing.T) {
		assertUnauthorized(t, f.candidates.UpdateCandidate(ctx, guest, validInput("G")))
	})
}

func TestDeleteCandidate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.candidates.DeleteCandidate(ctx, alice)
	assertAppError(t, err, http.StatusNotFound, domain.ErrNotFound)

	id, err := f.candidates.UpsertCandidate(ctx, alice, validInput("A"))
	require.NoError(t, err)
	require.NoError(t, f.candidates.DeleteCandidate(ctx, alice))

	rec, err := f.repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, rec)
	mine, err := f.candidates.GetMyCandidate(ctx, alice)
	require.NoError(t, err)
	assert.Nil(t, mine)
}

func TestAdminCandidateViews(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	aliceID, err := f.candidates.UpsertCandidate(ctx, alice, validInput("A"))
	require.NoError(t, err)
	bobID, err := f.candidates.UpsertCandidate(ctx, bob, validInput("B"))
	require.NoError(t, err)

	t.Run("Non-admin cannot list or move", func(t *testing.T) {
		_, err := f.candidates.GetAllCandidates(ctx, alice)
		assertUnauthorized(t, err)
		_, err = f.candidates.GetCandidatesByStage(ctx, alice, domain.StageApplied)
		assertUnauthorized(t, err)
		assertUnauthorized(t, f.candidates.UpdateCandidateStage(ctx, alice, aliceID, domain.StageScreening))
	})

	t.Run("Guest cannot list or move", func(t *testing.T) {
		_, err := f.candidates.GetAllCandidates(ctx, guest)
		assertUnauthorized(t, err)
		for _, stage := range domain.PipelineStages {
			_, err = f.candidates.GetCandidatesByStage(ctx, guest, stage)
			assertUnauthorized(t, err)
		}
		assertUnauthorized(t, f.candidates.UpdateCandidateStage(ctx, guest, bobID, domain.StageScreening))

		rec, err := f.repo.GetByID(ctx, bobID)
		require.NoError(t, err)
		assert.Equal(t, domain.StageApplied, rec.Stage)
	})

	t.Run("Admin lists in creation order", func(t *testing.T) {
		list, err := f.candidates.GetAllCandidates(ctx, admin)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, aliceID, list[0].ID)
		assert.Equal(t, bobID, list[1].ID)
	})

	t.Run("Stage moves and filters", func(t *testing.T) {
		require.NoError(t, f.candidates.UpdateCandidateStage(ctx, admin, bobID, domain.StageScreening))

		screening, err := f.candidates.GetCandidatesByStage(ctx, admin, domain.StageScreening)
		require.NoError(t, err)
		require.Len(t, screening, 1)
		assert.Equal(t, bobID, screening[0].ID)

		applied, err := f.candidates.GetCandidatesByStage(ctx, admin, domain.StageApplied)
		require.NoError(t, err)
		require.Len(t, applied, 1)
		assert.Equal(t, aliceID, applied[0].ID)

		hired, err := f.candidates.GetCandidatesByStage(ctx, admin, domain.StageHired)
		require.NoError(t, err)
		assert.Empty(t, hired)
	})

	t.Run("Repeating the current stage is rejected", func(t *testing.T) {
		err := f.candidates.UpdateCandidateStage(ctx, admin, bobID, domain.StageScreening)
		assertAppError(t, err, http.StatusUnprocessableEntity, domain.ErrInvalidTransition)
		assert.Contains(t, err.Error(), "no-op not allowed")
	})

	t.Run("Terminal stages are final", func(t *testing.T) {
		require.NoError(t, f.candidates.UpdateCandidateStage(ctx, admin, bobID, domain.StageHired))
		err := f.candidates.UpdateCandidateStage(ctx, admin, bobID, domain.StageApplied)
		assertAppError(t, err, http.StatusUnprocessableEntity, domain.ErrInvalidTransition)
		assert.Contains(t, err.Error(), "already hired")

		require.NoError(t, f.candidates.UpdateCandidateStage(ctx, admin, aliceID, domain.StageRejected))
		err = f.candidates.UpdateCandidateStage(ctx, admin, aliceID, domain.StageInterview)
		assert.Contains(t, err.Error(), "already rejected")
	})

	t.Run("Unknown id is not found", func(t *testing.T) {
		err := f.candidates.UpdateCandidateStage(ctx, admin, 99, domain.StageScreening)
		assertAppError(t, err, http.StatusNotFound, domain.ErrNotFound)
	})

	t.Run("Unknown stage is a bad request", func(t *testing.T) {
		err := f.candidates.UpdateCandidateStage(ctx, admin, aliceID, domain.PipelineStage("offer"))
		assertAppError(t, err, http.StatusBadRequest, nil)
	})
}

func TestBackwardStageMoveIsAllowed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	id, err := f.candidates.UpsertCandidate(ctx, alice, validInput("A"))
	require.NoError(t, err)
	require.NoError(t, f.candidates.UpdateCandidateStage(ctx, admin, id, domain.StageInterview))
	require.NoError(t, f.candidates.UpdateCandidateStage(ctx, admin, id, domain.StageScreening))

	mine, _ := f.candidates.GetMyCandidate(ctx, alice)
	assert.Equal(t, domain.StageScreening, mine.Stage)
}

func TestConcurrentUpsertsGetDistinctIDs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	const n = 50
	ids := make([]int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := domain.Principal(fmt.Sprintf("user-%d", i))
			if err := f.access.EnsureUserAccess(ctx, p); err != nil {
				t.Error(err)
				return
			}
			id, err := f.candidates.UpsertCandidate(ctx, p, validInput("C"))
			if err != nil {
				t.Error(err)
				return
			}
			ids[i] = id
		}(i)
	}
	wg.Wait()

	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	for i, id := range ids {
		assert.Equal(t, int64(i), id)
	}
}

func TestUpsertCandidateStorageFailures(t *testing.T) {
	ctx := context.Background()
	access := usecase.NewAccessUsecase(memory.NewRoleRepository(), nil)
	require.NoError(t, access.EnsureUserAccess(ctx, alice))

	t.Run("Create failure surfaces as internal", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(repo, access, validation.New(), nil)

		repo.On("GetOwnerIndex", mock.Anything, alice).Return(int64(0), false, nil)
		repo.On("NextID", mock.Anything).Return(int64(7), nil)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Candidate")).Return(errors.New("disk full"))

		_, err := uc.UpsertCandidate(ctx, alice, validInput("A"))
		assertAppError(t, err, http.StatusInternalServerError, nil)
		repo.AssertExpectations(t)
	})

	t.Run("Record created by another replica is updated instead", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(repo, access, validation.New(), nil)

		theirs := &domain.Candidate{ID: 4, Owner: alice, Name: "Old", Stage: domain.StageScreening}
		repo.On("GetOwnerIndex", mock.Anything, alice).Return(int64(0), false, nil).Once()
		repo.On("NextID", mock.Anything).Return(int64(5), nil).Once()
		repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Candidate")).Return(domain.ErrOwnerTaken).Once()
		repo.On("GetOwnerIndex", mock.Anything, alice).Return(int64(4), true, nil).Once()
		repo.On("GetByID", mock.Anything, int64(4)).Return(theirs, nil).Once()
		repo.On("Update", mock.Anything, mock.MatchedBy(func(c *domain.Candidate) bool {
			return c.ID == 4 && c.Name == "A" && c.Stage == domain.StageScreening
		})).Return(nil).Once()

		id, err := uc.UpsertCandidate(ctx, alice, validInput("A"))
		require.NoError(t, err)
		assert.Equal(t, int64(4), id)
		repo.AssertExpectations(t)
	})

	t.Run("Record deleted during update is not found", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(repo, access, validation.New(), nil)

		repo.On("GetOwnerIndex", mock.Anything, alice).Return(int64(2), true, nil)
		repo.On("GetByID", mock.Anything, int64(2)).Return(&domain.Candidate{ID: 2, Owner: alice}, nil)
		repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Candidate")).Return(domain.ErrNotFound)

		err := uc.UpdateCandidate(ctx, alice, validInput("A"))
		assertAppError(t, err, http.StatusNotFound, domain.ErrNotFound)
	})

	t.Run("Delete goes through the combined repository call", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(repo, access, validation.New(), nil)

		repo.On("GetOwnerIndex", mock.Anything, alice).Return(int64(2), true, nil)
		repo.On("Delete", mock.Anything, alice, int64(2)).Return(nil)

		require.NoError(t, uc.DeleteCandidate(ctx, alice))
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "DeleteOwnerIndex", mock.Anything, mock.Anything)
	})

	t.Run("Sequence failure surfaces as internal", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(repo, access, validation.New(), nil)

		repo.On("GetOwnerIndex", mock.Anything, alice).Return(int64(0), false, nil)
		repo.On("NextID", mock.Anything).Return(int64(0), errors.New("sequence unavailable"))

		_, err := uc.UpsertCandidate(ctx, alice, validInput("A"))
		assertAppError(t, err, http.StatusInternalServerError, nil)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Created record carries owner and applied stage", func(t *testing.T) {
		repo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(repo, access, validation.New(), nil)

		repo.On("GetOwnerIndex", mock.Anything, alice).Return(int64(0), false, nil)
		repo.On("NextID", mock.Anything).Return(int64(3), nil)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Candidate) bool {
			return c.ID == 3 && c.Owner == alice && c.Stage == domain.StageApplied && c.Name == "A"
		})).Return(nil)

		id, err := uc.UpsertCandidate(ctx, alice, validInput("  A  "))
		require.NoError(t, err)
		assert.Equal(t, int64(3), id)
		repo.AssertExpectations(t)
	})
}
