package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
)

type fakeImports struct {
	repositories.IImportRepository

	batches    []models.ImportBatch
	rows       [][]models.ImportRow
	externalID string
	filter     models.ImportedFilter
}

func (f *fakeImports) CommitBatch(_ context.Context, batch models.ImportBatch, rows []models.ImportRow) (uuid.UUID, error) {
	batch.ID = uuid.New()
	f.batches = append(f.batches, batch)
	f.rows = append(f.rows, rows)
	return batch.ID, nil
}

func (f *fakeImports) CreateManual(_ context.Context, _ uuid.UUID, externalID string, row models.ImportRow) (uuid.UUID, error) {
	f.externalID = externalID
	f.rows = append(f.rows, []models.ImportRow{row})
	return uuid.New(), nil
}

func (f *fakeImports) ListImported(_ context.Context, filter models.ImportedFilter) ([]models.ImportedAlumni, int64, error) {
	f.filter = filter
	return []models.ImportedAlumni{}, 120, nil
}

func newImportFixture() (*ImportService, *fakeImports) {
	repo := &fakeImports{}
	svc := NewImportService(repo, zerolog.Nop())
	svc.now = func() time.Time { return time.UnixMilli(1700000000123) }
	return svc, repo
}

func TestImportCommitRequiresRows(t *testing.T) {
	svc, repo := newImportFixture()

	_, err := svc.Commit(context.Background(), uuid.New(), &dto.CommitImportRequest{})
	require.ErrorIs(t, err, apperrors.ErrRowsRequired)
	assert.Equal(t, "rows required", err.Error())
	assert.Empty(t, repo.batches)
}

func TestImportCommitRejectsDuplicateEmailsBeforeWriting(t *testing.T) {
	svc, repo := newImportFixture()

	_, err := svc.Commit(context.Background(), uuid.New(), &dto.CommitImportRequest{
		Rows: []models.ImportRow{
			{FullName: "Ada Lovelace", Email: "ada@example.com"},
			{FullName: "Ada Again", Email: " ADA@example.com "},
		},
	})
	require.ErrorIs(t, err, apperrors.ErrDuplicateEmail)

	ce, ok := apperrors.AsCustom(err)
	require.True(t, ok)
	assert.Equal(t, []string{"ada@example.com"}, ce.Details["emails"])
	assert.Empty(t, repo.batches)
}

func TestImportCommitRejectsInvalidRow(t *testing.T) {
	svc, repo := newImportFixture()

	_, err := svc.Commit(context.Background(), uuid.New(), &dto.CommitImportRequest{
		Rows: []models.ImportRow{
			{FullName: "Ada Lovelace", Email: "ada@example.com"},
			{FullName: "Grace Hopper", Email: "not-an-email"},
		},
	})
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Contains(t, err.Error(), "Row 2")
	assert.Empty(t, repo.batches)
}

func TestImportCommitNormalizesAndDefaultsFilename(t *testing.T) {
	svc, repo := newImportFixture()
	admin := uuid.New()

	resp, err := svc.Commit(context.Background(), admin, &dto.CommitImportRequest{
		Rows: []models.ImportRow{
			{FullName: " Ada Lovelace ", Email: "Ada@Example.com"},
			{FullName: "Grace Hopper", Email: "grace@example.com"},
		},
	})
	require.NoError(t, err)

	assert.True(t, resp.OK)
	assert.Equal(t, 2, resp.Inserted)
	require.Len(t, repo.batches, 1)
	assert.Equal(t, resp.BatchID, repo.batches[0].ID)
	assert.Equal(t, defaultImportFilename, repo.batches[0].Filename)
	assert.Equal(t, admin, *repo.batches[0].UploadedBy)
	assert.Equal(t, "Ada Lovelace", repo.rows[0][0].FullName)
	assert.Equal(t, "ada@example.com", repo.rows[0][0].Email)
}

func TestImportCreateManualUsesTimestampExternalID(t *testing.T) {
	svc, repo := newImportFixture()

	_, err := svc.CreateManual(context.Background(), uuid.New(), models.ImportRow{FullName: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "MANUAL_1700000000123", repo.externalID)
}

func TestImportPreviewReportsCounts(t *testing.T) {
	svc, _ := newImportFixture()
	csv := "full_name,email\nAda,ada@example.com\n,missing@example.com\nGrace,grace@example.com\n"

	resp, err := svc.Preview(context.Background(), "alumni.csv", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, "alumni.csv", resp.Filename)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 1, resp.Dropped)
	assert.Len(t, resp.Rows, 2)
}

func TestImportPreviewRejectsMissingColumns(t *testing.T) {
	svc, _ := newImportFixture()

	_, err := svc.Preview(context.Background(), "bad.csv", strings.NewReader("name\nAda\n"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidCSV)
}

func TestImportListUsesAdminPageSize(t *testing.T) {
	svc, repo := newImportFixture()

	_, info, err := svc.ListImported(context.Background(), models.ImportedFilter{Query: "ada"}, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), repo.filter.Offset)
	assert.Equal(t, 50, repo.filter.Limit)
	assert.Equal(t, "ada", repo.filter.Query)
	assert.Equal(t, 3, info.TotalPages)
}
