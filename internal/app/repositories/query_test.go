package repositories

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/app/models"
)

func TestDirectorySearchQuery(t *testing.T) {
	repo := NewDirectoryRepository(nil)

	t.Run("free text matches name, department, company and title in one query", func(t *testing.T) {
		sql, args, err := repo.searchQuery(models.DirectoryFilter{Query: "eng", Limit: 20, Offset: 40}).ToSql()
		require.NoError(t, err)

		assert.Contains(t, sql, "JOIN profiles p ON p.id = d.id")
		assert.Contains(t, sql, "f.status = $1")
		assert.Contains(t, sql, "p.full_name ILIKE $2 OR d.department ILIKE $3 OR d.current_company ILIKE $4 OR d.current_title ILIKE $5")
		assert.Contains(t, sql, "ORDER BY d.grad_year DESC NULLS LAST, p.full_name ASC")
		assert.Contains(t, sql, "LIMIT 20 OFFSET 40")
		assert.Equal(t, []any{models.StatusApproved, "%eng%", "%eng%", "%eng%", "%eng%"}, args)
	})

	t.Run("exact year and substring filters", func(t *testing.T) {
		year := 2015
		sql, args, err := repo.searchQuery(models.DirectoryFilter{Year: &year, Department: "Civil", Company: "acme"}).ToSql()
		require.NoError(t, err)

		assert.Contains(t, sql, "d.grad_year = $2")
		assert.Contains(t, sql, "d.department ILIKE $3")
		assert.Contains(t, sql, "d.current_company ILIKE $4")
		assert.NotContains(t, sql, "LIMIT")
		assert.Equal(t, []any{models.StatusApproved, 2015, "%Civil%", "%acme%"}, args)
	})

	t.Run("wildcards in user input match literally", func(t *testing.T) {
		_, args, err := repo.searchQuery(models.DirectoryFilter{Query: "C_S", Department: "100%", Company: `a\b`}).ToSql()
		require.NoError(t, err)
		require.Len(t, args, 7)
		assert.Equal(t, `%C\_S%`, args[1])
		assert.Equal(t, `%100\%%`, args[5])
		assert.Equal(t, `%a\\b%`, args[6])
	})

	t.Run("blank filters add no conditions", func(t *testing.T) {
		assert.Empty(t, directoryWhere(models.DirectoryFilter{Query: "  ", Department: " "}))
	})
}

func TestRegisterQueryIsConditional(t *testing.T) {
	repo := NewEventRepository(nil)
	eventID := uuid.New()

	sql, args, err := repo.registerQuery(eventID).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "SET current_attendees = current_attendees + 1")
	assert.Contains(t, sql, "is_published = $2")
	assert.Contains(t, sql, "registration_required = $3")
	assert.Contains(t, sql, "(max_attendees IS NULL OR current_attendees < max_attendees)")
	assert.Contains(t, sql, "RETURNING id")
	assert.Contains(t, sql, "id = $1")
	require.Len(t, args, 3)
	assert.Equal(t, []any{true, true}, args[1:])
}

func TestImportedFilterWhere(t *testing.T) {
	batchID := uuid.New()
	where := importedFilterWhere(models.ImportedFilter{
		BatchID:      &batchID,
		InviteStatus: models.ImportInviteSent,
		Query:        "doe",
	})

	sql, args, err := where.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "i.batch_id = ?")
	assert.Contains(t, sql, "i.invite_status = ?")
	assert.Contains(t, sql, "(i.full_name ILIKE ? OR i.email ILIKE ?)")
	require.Len(t, args, 4)
	assert.Equal(t, []any{models.ImportInviteSent, "%doe%", "%doe%"}, args[1:])
}

func TestColumnHelpers(t *testing.T) {
	assert.Equal(t, "a = EXCLUDED.a, b = EXCLUDED.b", excludedAssignments([]string{"a", "b"}))

	cols := selectColumns("s", []string{"headline", "grad_year"})
	assert.Equal(t, []string{"COALESCE(s.headline, '')", "s.grad_year"}, cols)

	var fields models.AlumniFields
	assert.Len(t, fieldDest(&fields), len(fieldColumns))
	assert.Len(t, fieldValues(fields), len(fieldColumns))

	var ids models.Identifiers
	assert.Len(t, identifierDest(&ids), len(identifierColumns))
	assert.Len(t, identifierValues(ids), len(identifierColumns))

	var row models.ImportRow
	assert.Len(t, importRowDest(&row), len(importedColumns))
	assert.Len(t, importRowValues(row), len(importedColumns))
}

func TestFieldValuesStoreBlankAsNull(t *testing.T) {
	values := fieldValues(models.AlumniFields{Headline: "  ", Department: "Physics"})

	headline, ok := values[0].(*string)
	require.True(t, ok)
	assert.Nil(t, headline)

	dept, ok := values[3].(*string)
	require.True(t, ok)
	require.NotNil(t, dept)
	assert.Equal(t, "Physics", *dept)
}

func TestStatusChangeQueries(t *testing.T) {
	user := uuid.New()

	t.Run("status read takes a row lock", func(t *testing.T) {
		sql, args, err := lockStatusQuery(user).ToSql()
		require.NoError(t, err)
		assert.Equal(t, "SELECT status FROM admin_flags WHERE user_id = $1 FOR UPDATE", sql)
		assert.Equal(t, []any{user}, args)
	})

	t.Run("status write creates the flag row on first submission", func(t *testing.T) {
		sql, args, err := setStatusQuery(user, models.StatusPending).ToSql()
		require.NoError(t, err)
		assert.Contains(t, sql, "INSERT INTO admin_flags (user_id,status) VALUES ($1,$2)")
		assert.Contains(t, sql, "ON CONFLICT (user_id) DO UPDATE SET status = EXCLUDED.status")
		assert.Equal(t, []any{user, models.StatusPending}, args)
	})

	t.Run("staged upsert overwrites every column", func(t *testing.T) {
		sql, args, err := upsertStagedQuery(models.StagedAlumniDetail{
			UserID:      user,
			Identifiers: models.Identifiers{RollNumber: "R-42"},
		}).ToSql()
		require.NoError(t, err)
		assert.Contains(t, sql, "INSERT INTO staged_alumni_details (user_id,headline,")
		assert.Contains(t, sql, "NOW())")
		assert.Contains(t, sql, "ON CONFLICT (user_id) DO UPDATE SET headline = EXCLUDED.headline")
		assert.Contains(t, sql, "roll_number = EXCLUDED.roll_number")
		assert.Contains(t, sql, "updated_at = EXCLUDED.updated_at")
		assert.NotContains(t, sql, "user_id = EXCLUDED.user_id")
		require.Len(t, args, 1+len(fieldColumns)+len(identifierColumns))
		assert.Equal(t, user, args[0])
	})
}

func TestRedeemInviteQueryOnlyMatchesSentCodes(t *testing.T) {
	user := uuid.New()
	now := time.Date(2025, 4, 23, 12, 0, 0, 0, time.UTC)

	sql, args, err := redeemInviteQuery("AB12CD34", user, now).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "UPDATE invites SET status = $1, redeemed_by = $2, redeemed_at = $3")
	assert.Contains(t, sql, "WHERE code = $4 AND status = $5")
	assert.Contains(t, sql, "RETURNING "+inviteColumns)
	assert.Equal(t, []any{models.InviteRedeemed, user, now, "AB12CD34", models.InviteSent}, args)
}
