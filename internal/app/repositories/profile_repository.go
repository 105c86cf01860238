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
	"github.com/yigit/alumnihub/internal/pkg/helpers"
	"github.com/yigit/alumnihub/internal/pkg/logger"
)

// ProfileRepository reads and writes staged and live alumni data
type ProfileRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db, sb: psql}
}

// GetStaged returns the staged submission of an account
func (r *ProfileRepository) GetStaged(ctx context.Context, userID uuid.UUID) (*models.StagedAlumniDetail, error) {
	return getStaged(ctx, r.db, userID, false)
}

func getStaged(ctx context.Context, q db.Querier, userID uuid.UUID, forUpdate bool) (*models.StagedAlumniDetail, error) {
	cols := append(selectColumns("s", fieldColumns), selectColumns("s", identifierColumns)...)
	builder := psql.Select(append([]string{"s.user_id"}, append(cols, "s.updated_at")...)...).
		From("staged_alumni_details s").
		Where(squirrel.Eq{"s.user_id": userID})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get staged query: %w", err)
	}

	var s models.StagedAlumniDetail
	dest := append([]any{&s.UserID}, fieldDest(&s.AlumniFields)...)
	dest = append(dest, identifierDest(&s.Identifiers)...)
	dest = append(dest, &s.UpdatedAt)
	if err := q.QueryRow(ctx, sql, args...).Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoStagedProfile
		}
		return nil, fmt.Errorf("error retrieving staged profile: %w", err)
	}
	return &s, nil
}

// GetLive returns the directory-visible details of an account
func (r *ProfileRepository) GetLive(ctx context.Context, userID uuid.UUID) (*models.AlumniDetail, error) {
	return getLive(ctx, r.db, userID)
}

func getLive(ctx context.Context, q db.Querier, userID uuid.UUID) (*models.AlumniDetail, error) {
	sql, args, err := psql.Select(append([]string{"d.id"}, append(selectColumns("d", fieldColumns), "d.updated_at")...)...).
		From("alumni_details d").
		Where(squirrel.Eq{"d.id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get live details query: %w", err)
	}

	var d models.AlumniDetail
	dest := append([]any{&d.UserID}, fieldDest(&d.AlumniFields)...)
	if err := q.QueryRow(ctx, sql, args...).Scan(append(dest, &d.UpdatedAt)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("alumni details not found")
		}
		return nil, fmt.Errorf("error retrieving live details: %w", err)
	}
	return &d, nil
}

// GetChildren returns education, work history and skills in saved order
func (r *ProfileRepository) GetChildren(ctx context.Context, userID uuid.UUID) ([]models.Education, []models.WorkHistory, []models.Skill, error) {
	return getChildren(ctx, r.db, userID)
}

func getChildren(ctx context.Context, q db.Querier, userID uuid.UUID) ([]models.Education, []models.WorkHistory, []models.Skill, error) {
	education := []models.Education{}
	rows, err := q.Query(ctx, `
		SELECT degree, COALESCE(major, ''), start_year, end_year
		FROM education WHERE user_id = $1 ORDER BY start_year ASC NULLS LAST, position`, userID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error querying education: %w", err)
	}
	for rows.Next() {
		var e models.Education
		if err := rows.Scan(&e.Degree, &e.Major, &e.StartYear, &e.EndYear); err != nil {
			rows.Close()
			return nil, nil, nil, fmt.Errorf("error scanning education: %w", err)
		}
		education = append(education, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, nil, err
	}

	work := []models.WorkHistory{}
	rows, err = q.Query(ctx, `
		SELECT company, COALESCE(role, ''), start_date, end_date, COALESCE(description, '')
		FROM work_history WHERE user_id = $1 ORDER BY start_date DESC NULLS LAST, position`, userID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error querying work history: %w", err)
	}
	for rows.Next() {
		var w models.WorkHistory
		if err := rows.Scan(&w.Company, &w.Role, &w.StartDate, &w.EndDate, &w.Description); err != nil {
			rows.Close()
			return nil, nil, nil, fmt.Errorf("error scanning work history: %w", err)
		}
		work = append(work, w)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, nil, err
	}

	skills := []models.Skill{}
	rows, err = q.Query(ctx, `SELECT name FROM skills WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error querying skills: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s models.Skill
		if err := rows.Scan(&s.Name); err != nil {
			return nil, nil, nil, fmt.Errorf("error scanning skill: %w", err)
		}
		skills = append(skills, s)
	}
	return education, work, skills, rows.Err()
}

// UpdateLive rewrites the live details and replaces every child row. The
// profile row is locked so concurrent saves serialize instead of interleaving.
func (r *ProfileRepository) UpdateLive(ctx context.Context, userID uuid.UUID, fullName string, fields models.AlumniFields, edu []models.Education, work []models.WorkHistory, skills []string) error {
	return db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var locked uuid.UUID
		if err := tx.QueryRow(ctx, `SELECT id FROM profiles WHERE id = $1 FOR UPDATE`, userID).Scan(&locked); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrUserNotFound
			}
			return fmt.Errorf("error locking profile: %w", err)
		}

		if _, err := tx.Exec(ctx, `UPDATE profiles SET full_name = $2, updated_at = NOW() WHERE id = $1`, userID, strings.TrimSpace(fullName)); err != nil {
			return fmt.Errorf("error updating profile: %w", err)
		}
		if err := upsertLive(ctx, tx, userID, fields); err != nil {
			return err
		}
		return replaceChildren(ctx, tx, userID, edu, work, skills)
	})
}

func upsertLive(ctx context.Context, q db.Querier, userID uuid.UUID, fields models.AlumniFields) error {
	cols := append([]string{"id"}, fieldColumns...)
	sql, args, err := psql.Insert("alumni_details").
		Columns(append(cols, "updated_at")...).
		Values(append(append([]any{userID}, fieldValues(fields)...), squirrel.Expr("NOW()"))...).
		Suffix("ON CONFLICT (id) DO UPDATE SET " + excludedAssignments(append(cols[1:], "updated_at"))).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building upsert live details SQL")
		return fmt.Errorf("failed to build upsert live details query: %w", err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("userID", userID.String()).Msg("Error upserting live details")
		return fmt.Errorf("error saving live details: %w", err)
	}
	return nil
}

func replaceChildren(ctx context.Context, q db.Querier, userID uuid.UUID, edu []models.Education, work []models.WorkHistory, skills []string) error {
	for _, table := range []string{"education", "work_history", "skills"} {
		if _, err := q.Exec(ctx, "DELETE FROM "+table+" WHERE user_id = $1", userID); err != nil {
			return fmt.Errorf("error clearing %s: %w", table, err)
		}
	}

	if len(edu) > 0 {
		ins := psql.Insert("education").Columns("user_id", "position", "degree", "major", "start_year", "end_year")
		for i, e := range edu {
			ins = ins.Values(userID, i, strings.TrimSpace(e.Degree), helpers.NullIfEmpty(e.Major), e.StartYear, e.EndYear)
		}
		if err := execBuilder(ctx, q, ins, "education"); err != nil {
			return err
		}
	}

	if len(work) > 0 {
		ins := psql.Insert("work_history").Columns("user_id", "position", "company", "role", "start_date", "end_date", "description")
		for i, w := range work {
			ins = ins.Values(userID, i, strings.TrimSpace(w.Company), helpers.NullIfEmpty(w.Role), w.StartDate, w.EndDate, helpers.NullIfEmpty(w.Description))
		}
		if err := execBuilder(ctx, q, ins, "work history"); err != nil {
			return err
		}
	}

	if len(skills) > 0 {
		ins := psql.Insert("skills").Columns("user_id", "position", "name")
		for i, name := range skills {
			ins = ins.Values(userID, i, name)
		}
		if err := execBuilder(ctx, q, ins, "skills"); err != nil {
			return err
		}
	}
	return nil
}

func execBuilder(ctx context.Context, q db.Querier, builder squirrel.Sqlizer, what string) error {
	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msgf("Error building %s SQL", what)
		return fmt.Errorf("failed to build %s query: %w", what, err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Msgf("Error writing %s", what)
		return fmt.Errorf("error writing %s: %w", what, err)
	}
	return nil
}

// UpdateAvatar stores a new avatar url and returns the previous one
func (r *ProfileRepository) UpdateAvatar(ctx context.Context, userID uuid.UUID, avatarURL string) (*string, error) {
	var previous *string
	err := r.db.QueryRow(ctx, `
		UPDATE profiles p SET avatar_url = $2, updated_at = NOW()
		FROM (SELECT id, avatar_url FROM profiles WHERE id = $1 FOR UPDATE) old
		WHERE p.id = old.id
		RETURNING old.avatar_url`, userID, avatarURL).Scan(&previous)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Str("userID", userID.String()).Msg("Error updating avatar")
		return nil, fmt.Errorf("error updating avatar: %w", err)
	}
	return previous, nil
}

// SetFullNameIfEmpty fills the profile name when the account has none yet
func (r *ProfileRepository) SetFullNameIfEmpty(ctx context.Context, userID uuid.UUID, fullName string) error {
	sql, args, err := r.sb.Update("profiles").
		Set("full_name", strings.TrimSpace(fullName)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": userID, "full_name": ""}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set full name query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error setting full name: %w", err)
	}
	return nil
}
