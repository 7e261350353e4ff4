package usecase_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"strings"
	"testing"

	"go-ats-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func seedCandidates(t *testing.T, f *fixture) (int64, int64) {
	t.Helper()
	ctx := context.Background()
	a, err := f.candidates.UpsertCandidate(ctx, alice, domain.CandidateInput{
		Name: "Alice", Email: "alice@x.com", Role: "Backend", Resume: "Go, SQL",
	})
	require.NoError(t, err)
	b, err := f.candidates.UpsertCandidate(ctx, bob, domain.CandidateInput{
		Name: "Bob", Email: "bob@x.com", Role: "Frontend",
	})
	require.NoError(t, err)
	require.NoError(t, f.candidates.UpdateCandidateStage(ctx, admin, b, domain.StageInterview))
	return a, b
}

func TestExportCandidatesXLSX(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seedCandidates(t, f)

	data, filename, err := f.candidates.ExportCandidates(ctx, admin, nil, "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "candidates_"))
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Candidates")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "NAME", rows[0][1])
	assert.Equal(t, "Alice", rows[1][1])
	assert.Equal(t, "applied", rows[1][4])
	assert.Equal(t, "Bob", rows[2][1])
	assert.Equal(t, "interview", rows[2][4])
}

func TestExportCandidatesCSV(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, bobID := seedCandidates(t, f)

	stage := domain.StageInterview
	data, filename, err := f.candidates.ExportCandidates(ctx, admin, &stage, domain.ExportFormatCSV)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(filename, ".csv"))

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"id", "name", "email", "role", "stage", "resume", "created_at", "updated_at"}, records[0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, int64(1), bobID)
	assert.Equal(t, "bob@x.com", records[1][2])
}

func TestExportCandidatesRejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("Non-admin", func(t *testing.T) {
		_, _, err := f.candidates.ExportCandidates(ctx, alice, nil, domain.ExportFormatCSV)
		assertUnauthorized(t, err)
	})

	t.Run("Unknown format", func(t *testing.T) {
		_, _, err := f.candidates.ExportCandidates(ctx, admin, nil, "pdf")
		assertAppError(t, err, http.StatusBadRequest, nil)
	})
}
