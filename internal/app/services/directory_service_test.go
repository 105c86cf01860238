package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/repositories"
)

type fakeDirectory struct {
	repositories.IDirectoryRepository

	ids        []uuid.UUID
	chunkSizes []int
	approved   int64
	filter     models.DirectoryFilter
}

func (f *fakeDirectory) Search(_ context.Context, filter models.DirectoryFilter) ([]models.DirectoryEntry, int64, error) {
	f.filter = filter
	return []models.DirectoryEntry{}, 41, nil
}

func (f *fakeDirectory) CountApproved(context.Context) (int64, error) {
	return f.approved, nil
}

func (f *fakeDirectory) ApprovedIDs(context.Context) ([]uuid.UUID, error) {
	return f.ids, nil
}

func (f *fakeDirectory) ExportRows(_ context.Context, ids []uuid.UUID) ([]models.ExportRow, error) {
	f.chunkSizes = append(f.chunkSizes, len(ids))
	rows := make([]models.ExportRow, len(ids))
	for i := range ids {
		rows[i] = models.ExportRow{FullName: fmt.Sprintf("Alum, %d", i), Company: `Acme "Labs"`}
	}
	return rows, nil
}

type countingInbox struct {
	repositories.INotificationRepository
	unread int64
	err    error
}

func (c *countingInbox) UnreadCount(context.Context, uuid.UUID) (int64, error) {
	return c.unread, c.err
}

func TestDirectorySearchPaging(t *testing.T) {
	repo := &fakeDirectory{}
	svc := NewDirectoryService(repo, newFakeEvents(), &countingInbox{}, zerolog.Nop())

	_, info, err := svc.Search(context.Background(), models.DirectoryFilter{Query: "acme"}, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(40), repo.filter.Offset)
	assert.Equal(t, 20, repo.filter.Limit)
	assert.Equal(t, "acme", repo.filter.Query)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 3, info.CurrentPage)
}

func TestDirectoryExportChunksAndEscapes(t *testing.T) {
	repo := &fakeDirectory{}
	for i := 0; i < 1203; i++ {
		repo.ids = append(repo.ids, uuid.New())
	}
	svc := NewDirectoryService(repo, newFakeEvents(), &countingInbox{}, zerolog.Nop())

	var buf bytes.Buffer
	n, err := svc.Export(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 1203, n)
	assert.Equal(t, []int{500, 500, 203}, repo.chunkSizes)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1204)
	assert.Equal(t, []string{"Name", "Email", "Graduation Year", "Department", "Company", "Title", "Location"}, records[0])
	assert.Equal(t, "Alum, 0", records[1][0])
	assert.Empty(t, records[1][1])
	assert.Equal(t, `Acme "Labs"`, records[1][4])
}

func TestDirectoryExportEmpty(t *testing.T) {
	repo := &fakeDirectory{}
	svc := NewDirectoryService(repo, newFakeEvents(), &countingInbox{}, zerolog.Nop())

	var buf bytes.Buffer
	n, err := svc.Export(context.Background(), &buf)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, repo.chunkSizes)
	assert.Contains(t, buf.String(), "Name,Email")
}

func TestDashboardCombinesCounters(t *testing.T) {
	repo := &fakeDirectory{approved: 42}
	events := newFakeEvents()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, events.Create(ctx, &models.Event{Title: "e", IsPublished: true, EventDate: time.Now().Add(time.Duration(i+1) * time.Hour)}))
	}
	require.NoError(t, events.Create(ctx, &models.Event{Title: "past", IsPublished: true, EventDate: time.Now().Add(-time.Hour)}))

	svc := NewDirectoryService(repo, events, &countingInbox{unread: 7}, zerolog.Nop())
	dash, err := svc.Dashboard(ctx, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, int64(42), dash.AlumniCount)
	assert.Len(t, dash.UpcomingEvents, 3)
	assert.Equal(t, int64(7), dash.UnreadCount)
}

func TestDashboardToleratesInboxFailure(t *testing.T) {
	svc := NewDirectoryService(&fakeDirectory{approved: 1}, newFakeEvents(), &countingInbox{err: errors.New("boom")}, zerolog.Nop())

	dash, err := svc.Dashboard(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, dash.UnreadCount)
	assert.NotNil(t, dash.UpcomingEvents)
}
