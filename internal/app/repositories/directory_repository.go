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
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/logger"
)

var directoryColumns = []string{
	"p.id", "p.full_name", "p.avatar_url",
	"COALESCE(d.headline, '')", "d.grad_year", "COALESCE(d.department, '')",
	"COALESCE(d.current_company, '')", "COALESCE(d.current_title, '')", "COALESCE(d.location, '')",
}

// DirectoryRepository serves the read side of approved alumni
type DirectoryRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewDirectoryRepository creates a new DirectoryRepository
func NewDirectoryRepository(db *pgxpool.Pool) *DirectoryRepository {
	return &DirectoryRepository{db: db, sb: psql}
}

// approvedDetails joins live details with their profile, restricted to approved accounts
func approvedDetails(sb squirrel.StatementBuilderType, columns ...string) squirrel.SelectBuilder {
	return sb.Select(columns...).
		From("alumni_details d").
		Join("profiles p ON p.id = d.id").
		Join("admin_flags f ON f.user_id = d.id").
		Where(squirrel.Eq{"f.status": models.StatusApproved})
}

func directoryWhere(filter models.DirectoryFilter) squirrel.And {
	where := squirrel.And{}
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := containsPattern(q)
		where = append(where, squirrel.Or{
			squirrel.ILike{"p.full_name": pattern},
			squirrel.ILike{"d.department": pattern},
			squirrel.ILike{"d.current_company": pattern},
			squirrel.ILike{"d.current_title": pattern},
		})
	}
	if filter.Year != nil {
		where = append(where, squirrel.Eq{"d.grad_year": *filter.Year})
	}
	if dept := strings.TrimSpace(filter.Department); dept != "" {
		where = append(where, squirrel.ILike{"d.department": containsPattern(dept)})
	}
	if company := strings.TrimSpace(filter.Company); company != "" {
		where = append(where, squirrel.ILike{"d.current_company": containsPattern(company)})
	}
	return where
}

func (r *DirectoryRepository) searchQuery(filter models.DirectoryFilter) squirrel.SelectBuilder {
	builder := approvedDetails(r.sb, directoryColumns...).
		Where(directoryWhere(filter)).
		OrderBy("d.grad_year DESC NULLS LAST", "p.full_name ASC").
		Offset(filter.Offset)
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	return builder
}

func scanEntries(rows pgx.Rows, withEmail bool) ([]models.DirectoryEntry, error) {
	defer rows.Close()
	entries := []models.DirectoryEntry{}
	for rows.Next() {
		var e models.DirectoryEntry
		dest := []any{&e.UserID, &e.FullName, &e.AvatarURL, &e.Headline, &e.GradYear,
			&e.Department, &e.CurrentCompany, &e.CurrentTitle, &e.Location}
		if withEmail {
			dest = append(dest, &e.Email)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("error scanning directory entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Search runs the directory query: one join, filtered and paginated
func (r *DirectoryRepository) Search(ctx context.Context, filter models.DirectoryFilter) ([]models.DirectoryEntry, int64, error) {
	countSQL, countArgs, err := approvedDetails(r.sb, "COUNT(*)").Where(directoryWhere(filter)).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building directory count SQL")
		return nil, 0, fmt.Errorf("failed to build directory count query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting directory entries")
		return nil, 0, fmt.Errorf("error counting directory: %w", err)
	}

	sql, args, err := r.searchQuery(filter).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building directory search SQL")
		return nil, 0, fmt.Errorf("failed to build directory search query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error searching directory")
		return nil, 0, fmt.Errorf("error searching directory: %w", err)
	}
	entries, err := scanEntries(rows, false)
	return entries, total, err
}

// Stats returns the distinct graduation years and departments of approved alumni
func (r *DirectoryRepository) Stats(ctx context.Context) (*models.DirectoryStats, error) {
	stats := &models.DirectoryStats{Years: []int{}, Departments: []string{}}

	sql, args, err := approvedDetails(r.sb, "DISTINCT d.grad_year").
		Where(squirrel.NotEq{"d.grad_year": nil}).
		OrderBy("d.grad_year DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build years query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing graduation years: %w", err)
	}
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			rows.Close()
			return nil, fmt.Errorf("error scanning graduation year: %w", err)
		}
		stats.Years = append(stats.Years, year)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sql, args, err = approvedDetails(r.sb, "DISTINCT d.department").
		Where(squirrel.And{squirrel.NotEq{"d.department": nil}, squirrel.NotEq{"d.department": ""}}).
		OrderBy("d.department ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build departments query: %w", err)
	}
	rows, err = r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing departments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var dept string
		if err := rows.Scan(&dept); err != nil {
			return nil, fmt.Errorf("error scanning department: %w", err)
		}
		stats.Departments = append(stats.Departments, dept)
	}
	return stats, rows.Err()
}

// Detail returns the public page of one approved alumnus
func (r *DirectoryRepository) Detail(ctx context.Context, userID uuid.UUID) (*models.AlumniProfile, error) {
	cols := append([]string{"p.id", "p.full_name", "p.avatar_url", "p.is_admin", "p.created_at", "p.updated_at"},
		selectColumns("d", fieldColumns)...)
	sql, args, err := approvedDetails(r.sb, append(cols, "d.updated_at")...).
		Where(squirrel.Eq{"d.id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build alumni detail query: %w", err)
	}

	var out models.AlumniProfile
	p := &out.Profile
	dest := append([]any{&p.ID, &p.FullName, &p.AvatarURL, &p.IsAdmin, &p.CreatedAt, &p.UpdatedAt}, fieldDest(&out.Detail.AlumniFields)...)
	if err := r.db.QueryRow(ctx, sql, args...).Scan(append(dest, &out.Detail.UpdatedAt)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("Alumni not found")
		}
		logger.Error().Err(err).Str("userID", userID.String()).Msg("Error retrieving alumni detail")
		return nil, fmt.Errorf("error retrieving alumni detail: %w", err)
	}
	out.Detail.UserID = p.ID

	out.Education, out.WorkHistory, out.Skills, err = getChildren(ctx, r.db, userID)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminList is the paginated admin view of approved alumni, emails included
func (r *DirectoryRepository) AdminList(ctx context.Context, offset uint64, limit int) ([]models.DirectoryEntry, int64, error) {
	total, err := r.CountApproved(ctx)
	if err != nil {
		return nil, 0, err
	}

	sql, args, err := approvedDetails(r.sb, append(directoryColumns, "u.email")...).
		Join("users u ON u.id = d.id").
		OrderBy("p.full_name ASC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build admin list query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing approved alumni")
		return nil, 0, fmt.Errorf("error listing approved alumni: %w", err)
	}
	entries, err := scanEntries(rows, true)
	return entries, total, err
}

// AdminStats counts approvals and directory rows for the admin dashboard
func (r *DirectoryRepository) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	var stats models.AdminStats
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM admin_flags WHERE status = 'approved'),
			(SELECT COUNT(*) FROM admin_flags WHERE status = 'pending'),
			(SELECT COUNT(*) FROM profiles),
			(SELECT COUNT(*) FROM alumni_details)`).
		Scan(&stats.Approved, &stats.Pending, &stats.TotalProfiles, &stats.LiveDetails)
	if err != nil {
		logger.Error().Err(err).Msg("Error reading admin stats")
		return nil, fmt.Errorf("error reading admin stats: %w", err)
	}
	return &stats, nil
}

// CountApproved counts directory-visible alumni
func (r *DirectoryRepository) CountApproved(ctx context.Context) (int64, error) {
	sql, args, err := approvedDetails(r.sb, "COUNT(*)").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count approved query: %w", err)
	}
	var n int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting approved alumni: %w", err)
	}
	return n, nil
}

// ApprovedIDs lists every approved account id in export order
func (r *DirectoryRepository) ApprovedIDs(ctx context.Context) ([]uuid.UUID, error) {
	sql, args, err := r.sb.Select("f.user_id").
		From("admin_flags f").
		Join("profiles p ON p.id = f.user_id").
		Where(squirrel.Eq{"f.status": models.StatusApproved}).
		OrderBy("p.full_name ASC", "f.user_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build approved ids query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing approved ids: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
}

// ExportRows hydrates one chunk of approved ids into export lines
func (r *DirectoryRepository) ExportRows(ctx context.Context, ids []uuid.UUID) ([]models.ExportRow, error) {
	if len(ids) == 0 {
		return []models.ExportRow{}, nil
	}
	sql, args, err := r.sb.Select("p.full_name", "d.grad_year", "COALESCE(d.department, '')",
		"COALESCE(d.current_company, '')", "COALESCE(d.current_title, '')", "COALESCE(d.location, '')").
		From("profiles p").
		LeftJoin("alumni_details d ON d.id = p.id").
		Where(squirrel.Eq{"p.id": ids}).
		OrderBy("p.full_name ASC", "p.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build export query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int("chunk", len(ids)).Msg("Error hydrating export chunk")
		return nil, fmt.Errorf("error hydrating export rows: %w", err)
	}
	defer rows.Close()

	out := make([]models.ExportRow, 0, len(ids))
	for rows.Next() {
		var e models.ExportRow
		if err := rows.Scan(&e.FullName, &e.GradYear, &e.Department, &e.Company, &e.Title, &e.Location); err != nil {
			return nil, fmt.Errorf("error scanning export row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
