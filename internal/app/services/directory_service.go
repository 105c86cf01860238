package services

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/pkg/csvimport"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
	"golang.org/x/sync/errgroup"
)

const (
	exportChunkSize        = 500
	dashboardUpcomingLimit = 3
)

// DirectoryService is the read side over approved alumni
type DirectoryService struct {
	directoryRepo    repositories.IDirectoryRepository
	eventRepo        repositories.IEventRepository
	notificationRepo repositories.INotificationRepository
	logger           zerolog.Logger
	now              func() time.Time
}

// NewDirectoryService creates a new DirectoryService
func NewDirectoryService(
	directoryRepo repositories.IDirectoryRepository,
	eventRepo repositories.IEventRepository,
	notificationRepo repositories.INotificationRepository,
	logger zerolog.Logger,
) *DirectoryService {
	return &DirectoryService{
		directoryRepo:    directoryRepo,
		eventRepo:        eventRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
		now:              time.Now,
	}
}

// Search returns one directory page of 20 entries
func (s *DirectoryService) Search(ctx context.Context, filter models.DirectoryFilter, page int) ([]models.DirectoryEntry, *dto.PaginationInfo, error) {
	filter.Offset, filter.Limit = helpers.CalculateOffsetLimit(page, helpers.DirectoryPageSize)
	entries, total, err := s.directoryRepo.Search(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	info := helpers.NewPaginationInfo(total, page, helpers.DirectoryPageSize)
	return entries, &info, nil
}

func (s *DirectoryService) Stats(ctx context.Context) (*models.DirectoryStats, error) {
	return s.directoryRepo.Stats(ctx)
}

func (s *DirectoryService) Detail(ctx context.Context, userID uuid.UUID) (*models.AlumniProfile, error) {
	return s.directoryRepo.Detail(ctx, userID)
}

// AdminList returns one admin page of 50 approved alumni, emails included
func (s *DirectoryService) AdminList(ctx context.Context, page int) ([]models.DirectoryEntry, *dto.PaginationInfo, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, helpers.AdminListPageSize)
	entries, total, err := s.directoryRepo.AdminList(ctx, offset, limit)
	if err != nil {
		return nil, nil, err
	}
	info := helpers.NewPaginationInfo(total, page, helpers.AdminListPageSize)
	return entries, &info, nil
}

func (s *DirectoryService) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	return s.directoryRepo.AdminStats(ctx)
}

// Dashboard loads the landing page counters concurrently
func (s *DirectoryService) Dashboard(ctx context.Context, userID uuid.UUID) (*models.Dashboard, error) {
	dash := &models.Dashboard{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		count, err := s.directoryRepo.CountApproved(gctx)
		dash.AlumniCount = count
		return err
	})
	g.Go(func() error {
		events, err := s.eventRepo.Upcoming(gctx, s.now(), dashboardUpcomingLimit)
		dash.UpcomingEvents = events
		return err
	})
	g.Go(func() error {
		unread, err := s.notificationRepo.UnreadCount(gctx, userID)
		if err != nil {
			s.logger.Warn().Err(err).Str("userID", userID.String()).Msg("Unread count unavailable for dashboard")
			return nil
		}
		dash.UnreadCount = unread
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if dash.UpcomingEvents == nil {
		dash.UpcomingEvents = []models.Event{}
	}
	return dash, nil
}

// Export streams every approved alumnus as CSV and returns the row count
func (s *DirectoryService) Export(ctx context.Context, w io.Writer) (int, error) {
	ids, err := s.directoryRepo.ApprovedIDs(ctx)
	if err != nil {
		return 0, err
	}

	out, err := csvimport.NewExportWriter(w)
	if err != nil {
		return 0, err
	}

	written := 0
	for start := 0; start < len(ids); start += exportChunkSize {
		end := min(start+exportChunkSize, len(ids))
		rows, err := s.directoryRepo.ExportRows(ctx, ids[start:end])
		if err != nil {
			return written, err
		}
		if err := out.Write(rows); err != nil {
			return written, err
		}
		written += len(rows)
	}

	s.logger.Info().Int("rows", written).Msg("Alumni export written")
	return written, nil
}
