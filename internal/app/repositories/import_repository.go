package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/db"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/dberrors"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
	"github.com/yigit/alumnihub/internal/pkg/logger"
)

// ManualBatchFilename names the one-row batch created for each manual entry
const ManualBatchFilename = "manual_entry"

var importedColumns = []string{
	"full_name", "email", "headline", "bio", "grad_year", "department", "company", "role",
	"location", "father_name", "primary_mobile", "whatsapp_number",
	"linkedin_url", "twitter_url", "facebook_url", "instagram_url", "github_url", "website_url",
}

// ImportRepository persists import batches and imported alumni
type ImportRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewImportRepository creates a new ImportRepository
func NewImportRepository(db *pgxpool.Pool) *ImportRepository {
	return &ImportRepository{db: db, sb: psql}
}

func importRowValues(row models.ImportRow) []any {
	return []any{
		strings.TrimSpace(row.FullName), strings.ToLower(strings.TrimSpace(row.Email)),
		helpers.NullIfEmpty(row.Headline), helpers.NullIfEmpty(row.Bio), row.GradYear,
		helpers.NullIfEmpty(row.Department), helpers.NullIfEmpty(row.Company), helpers.NullIfEmpty(row.Role),
		helpers.NullIfEmpty(row.Location), helpers.NullIfEmpty(row.FatherName),
		helpers.NullIfEmpty(row.PrimaryMobile), helpers.NullIfEmpty(row.WhatsappNumber),
		helpers.NullIfEmpty(row.LinkedinURL), helpers.NullIfEmpty(row.TwitterURL), helpers.NullIfEmpty(row.FacebookURL),
		helpers.NullIfEmpty(row.InstagramURL), helpers.NullIfEmpty(row.GithubURL), helpers.NullIfEmpty(row.WebsiteURL),
	}
}

func importRowDest(row *models.ImportRow) []any {
	return []any{
		&row.FullName, &row.Email, &row.Headline, &row.Bio, &row.GradYear, &row.Department,
		&row.Company, &row.Role, &row.Location, &row.FatherName, &row.PrimaryMobile, &row.WhatsappNumber,
		&row.LinkedinURL, &row.TwitterURL, &row.FacebookURL, &row.InstagramURL, &row.GithubURL, &row.WebsiteURL,
	}
}

func importedSelectColumns() []string {
	cols := []string{"i.id", "i.batch_id", "i.external_id"}
	for _, col := range importedColumns {
		switch col {
		case "full_name", "email", "grad_year":
			cols = append(cols, "i."+col)
		default:
			cols = append(cols, fmt.Sprintf("COALESCE(i.%s, '')", col))
		}
	}
	return append(cols, "i.invite_status", "i.linked_user_id", "i.created_at")
}

func scanImported(row pgx.Row) (*models.ImportedAlumni, error) {
	var ia models.ImportedAlumni
	dest := append([]any{&ia.ID, &ia.BatchID, &ia.ExternalID}, importRowDest(&ia.ImportRow)...)
	dest = append(dest, &ia.InviteStatus, &ia.LinkedUserID, &ia.CreatedAt)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &ia, nil
}

func mapImportWriteError(err error) error {
	if dberrors.IsDuplicateConstraintError(err, "imported_alumni_email_key") {
		return &apperrors.CustomError{
			Err:     apperrors.ErrConflict,
			Message: "An alumnus with this email has already been imported",
		}
	}
	return fmt.Errorf("error inserting imported alumni: %w", err)
}

// CommitBatch inserts the batch and bulk-copies its rows. Nothing is written if
// any row fails.
func (r *ImportRepository) CommitBatch(ctx context.Context, batch models.ImportBatch, rows []models.ImportRow) (uuid.UUID, error) {
	var batchID uuid.UUID

	err := db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("import_batches").
			Columns("filename", "row_count", "status", "uploaded_by").
			Values(batch.Filename, len(rows), models.ImportCommitted, batch.UploadedBy).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			logger.Error().Err(err).Msg("Error building create batch SQL")
			return fmt.Errorf("failed to build create batch query: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&batchID); err != nil {
			logger.Error().Err(err).Msg("Error creating import batch")
			return fmt.Errorf("error creating import batch: %w", err)
		}

		source := pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			return append([]any{batchID}, importRowValues(rows[i])...), nil
		})
		copied, err := tx.CopyFrom(ctx, pgx.Identifier{"imported_alumni"}, append([]string{"batch_id"}, importedColumns...), source)
		if err != nil {
			logger.Warn().Err(err).Str("batchID", batchID.String()).Msg("Bulk insert of imported alumni failed")
			return mapImportWriteError(err)
		}
		if int(copied) != len(rows) {
			return fmt.Errorf("copied %d of %d imported alumni", copied, len(rows))
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return batchID, nil
}

// CreateManual records a single imported alumnus in its own batch
func (r *ImportRepository) CreateManual(ctx context.Context, uploadedBy uuid.UUID, externalID string, row models.ImportRow) (uuid.UUID, error) {
	var importedID uuid.UUID

	err := db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var batchID uuid.UUID
		err := tx.QueryRow(ctx, `
			INSERT INTO import_batches (filename, row_count, status, uploaded_by)
			VALUES ($1, 1, $2, $3) RETURNING id`,
			ManualBatchFilename, models.ImportCommitted, uploadedBy).Scan(&batchID)
		if err != nil {
			return fmt.Errorf("error creating manual batch: %w", err)
		}

		sql, args, err := r.sb.Insert("imported_alumni").
			Columns(append([]string{"batch_id", "external_id"}, importedColumns...)...).
			Values(append([]any{batchID, helpers.NullIfEmpty(externalID)}, importRowValues(row)...)...).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			logger.Error().Err(err).Msg("Error building manual import SQL")
			return fmt.Errorf("failed to build manual import query: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&importedID); err != nil {
			return mapImportWriteError(err)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return importedID, nil
}

func importedFilterWhere(filter models.ImportedFilter) squirrel.And {
	where := squirrel.And{}
	if filter.BatchID != nil {
		where = append(where, squirrel.Eq{"i.batch_id": *filter.BatchID})
	}
	if filter.InviteStatus != "" {
		where = append(where, squirrel.Eq{"i.invite_status": filter.InviteStatus})
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := containsPattern(q)
		where = append(where, squirrel.Or{
			squirrel.ILike{"i.full_name": pattern},
			squirrel.ILike{"i.email": pattern},
		})
	}
	return where
}

// ListImported lists imported alumni, newest first, with the total match count
func (r *ImportRepository) ListImported(ctx context.Context, filter models.ImportedFilter) ([]models.ImportedAlumni, int64, error) {
	where := importedFilterWhere(filter)

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("imported_alumni i").Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count imported SQL")
		return nil, 0, fmt.Errorf("failed to build count imported query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting imported alumni: %w", err)
	}

	builder := r.sb.Select(importedSelectColumns()...).
		From("imported_alumni i").
		Where(where).
		OrderBy("i.created_at DESC", "i.full_name").
		Offset(filter.Offset)
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list imported SQL")
		return nil, 0, fmt.Errorf("failed to build list imported query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing imported alumni")
		return nil, 0, fmt.Errorf("error listing imported alumni: %w", err)
	}
	defer rows.Close()

	out := []models.ImportedAlumni{}
	for rows.Next() {
		ia, err := scanImported(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning imported alumni: %w", err)
		}
		out = append(out, *ia)
	}
	return out, total, rows.Err()
}

// ListBatches returns every import batch, newest first
func (r *ImportRepository) ListBatches(ctx context.Context) ([]models.ImportBatch, error) {
	sql, args, err := r.sb.Select("id", "filename", "row_count", "status", "uploaded_by", "created_at").
		From("import_batches").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list batches query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing import batches: %w", err)
	}
	defer rows.Close()

	batches := []models.ImportBatch{}
	for rows.Next() {
		var b models.ImportBatch
		if err := rows.Scan(&b.ID, &b.Filename, &b.RowCount, &b.Status, &b.UploadedBy, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning import batch: %w", err)
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// GetImported returns one imported alumnus
func (r *ImportRepository) GetImported(ctx context.Context, id uuid.UUID) (*models.ImportedAlumni, error) {
	return r.getImportedWhere(ctx, squirrel.Eq{"i.id": id})
}

// GetByLinkedUser returns the imported row an account claimed through an invite
func (r *ImportRepository) GetByLinkedUser(ctx context.Context, userID uuid.UUID) (*models.ImportedAlumni, error) {
	return r.getImportedWhere(ctx, squirrel.Eq{"i.linked_user_id": userID})
}

func (r *ImportRepository) getImportedWhere(ctx context.Context, where squirrel.Sqlizer) (*models.ImportedAlumni, error) {
	sql, args, err := r.sb.Select(importedSelectColumns()...).
		From("imported_alumni i").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get imported query: %w", err)
	}

	ia, err := scanImported(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("Imported alumni not found")
		}
		return nil, fmt.Errorf("error retrieving imported alumni: %w", err)
	}
	return ia, nil
}
