package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/csvimport"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
	"github.com/yigit/alumnihub/internal/pkg/metrics"
	"github.com/yigit/alumnihub/internal/pkg/validation"
)

const defaultImportFilename = "upload.csv"

// ImportService turns CSV uploads and manual entries into imported alumni
type ImportService struct {
	importRepo repositories.IImportRepository
	logger     zerolog.Logger
	now        func() time.Time
}

// NewImportService creates a new ImportService
func NewImportService(importRepo repositories.IImportRepository, logger zerolog.Logger) *ImportService {
	return &ImportService{
		importRepo: importRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// Preview parses an uploaded file without writing anything
func (s *ImportService) Preview(ctx context.Context, filename string, r io.Reader) (*dto.ImportPreviewResponse, error) {
	res, err := csvimport.Parse(r)
	if err != nil {
		return nil, &apperrors.CustomError{Err: err, Message: err.Error()}
	}
	return &dto.ImportPreviewResponse{
		Filename: filename,
		Rows:     res.Preview(),
		Total:    len(res.Rows),
		Dropped:  res.Dropped,
	}, nil
}

// normalizeRow trims the identifying cells and lower-cases the email
func normalizeRow(row models.ImportRow) models.ImportRow {
	row.FullName = strings.TrimSpace(row.FullName)
	row.Email = strings.ToLower(strings.TrimSpace(row.Email))
	return row
}

// validateRow reports the first problem of one row, numbered from 1
func validateRow(i int, row models.ImportRow) error {
	if row.FullName == "" || row.Email == "" {
		return apperrors.NewValidationError(fmt.Sprintf("rows[%d]", i), fmt.Sprintf("Row %d: full_name and email are required", i+1))
	}
	if !validation.ValidEmail(row.Email) {
		return apperrors.NewValidationError(fmt.Sprintf("rows[%d].email", i), fmt.Sprintf("Row %d: invalid email %q", i+1, row.Email))
	}
	if err := validation.Struct(row); err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("rows[%d]", i), fmt.Sprintf("Row %d: %v", i+1, err))
	}
	return nil
}

// Commit validates every row up front, then inserts the batch in one transaction
func (s *ImportService) Commit(ctx context.Context, adminID uuid.UUID, req *dto.CommitImportRequest) (*dto.CommitImportResponse, error) {
	if len(req.Rows) == 0 {
		return nil, &apperrors.CustomError{Err: apperrors.ErrRowsRequired, Message: "rows required"}
	}

	rows := make([]models.ImportRow, len(req.Rows))
	seen := make(map[string]bool, len(req.Rows))
	var duplicates []string
	for i, raw := range req.Rows {
		row := normalizeRow(raw)
		if err := validateRow(i, row); err != nil {
			return nil, err
		}
		if seen[row.Email] {
			duplicates = append(duplicates, row.Email)
		}
		seen[row.Email] = true
		rows[i] = row
	}
	if len(duplicates) > 0 {
		return nil, apperrors.NewCustomError(apperrors.ErrDuplicateEmail, "Duplicate emails in import").
			WithDetails(map[string]interface{}{"emails": duplicates})
	}

	filename := strings.TrimSpace(req.Filename)
	if filename == "" {
		filename = defaultImportFilename
	}

	batchID, err := s.importRepo.CommitBatch(ctx, models.ImportBatch{
		Filename:   filename,
		Status:     models.ImportCommitted,
		UploadedBy: &adminID,
	}, rows)
	if err != nil {
		s.logger.Error().Err(err).Str("filename", filename).Int("rows", len(rows)).Msg("Import commit failed")
		return nil, err
	}

	metrics.AlumniImported.Add(float64(len(rows)))
	s.logger.Info().
		Str("batchID", batchID.String()).
		Str("filename", filename).
		Int("rows", len(rows)).
		Msg("Import batch committed")

	return &dto.CommitImportResponse{OK: true, Inserted: len(rows), BatchID: batchID}, nil
}

// CreateManual imports a single alumnus typed in by an admin
func (s *ImportService) CreateManual(ctx context.Context, adminID uuid.UUID, row models.ImportRow) (uuid.UUID, error) {
	row = normalizeRow(row)
	if err := validateRow(0, row); err != nil {
		return uuid.Nil, err
	}

	externalID := fmt.Sprintf("MANUAL_%d", s.now().UnixMilli())
	id, err := s.importRepo.CreateManual(ctx, adminID, externalID, row)
	if err != nil {
		return uuid.Nil, err
	}

	metrics.AlumniImported.Inc()
	s.logger.Info().Str("importedID", id.String()).Str("externalID", externalID).Msg("Alumnus added manually")
	return id, nil
}

// ListImported returns one admin page of imported alumni
func (s *ImportService) ListImported(ctx context.Context, filter models.ImportedFilter, page int) ([]models.ImportedAlumni, *dto.PaginationInfo, error) {
	filter.Offset, filter.Limit = helpers.CalculateOffsetLimit(page, helpers.AdminListPageSize)
	rows, total, err := s.importRepo.ListImported(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	info := helpers.NewPaginationInfo(total, page, helpers.AdminListPageSize)
	return rows, &info, nil
}

// ListBatches returns every batch, newest first
func (s *ImportService) ListBatches(ctx context.Context) ([]models.ImportBatch, error) {
	return s.importRepo.ListBatches(ctx)
}

// SampleCSV is the downloadable template
func (s *ImportService) SampleCSV() []byte {
	return csvimport.SampleCSV()
}
