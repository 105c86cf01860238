package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/filestorage"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	galleryDir     = "gallery"
	galleryMaxSide = 1600
	maxSlugLength  = 80
)

// ContentService serves jobs, gallery and news
type ContentService struct {
	contentRepo repositories.IContentRepository
	storage     filestorage.FileStorage
	logger      zerolog.Logger
	now         func() time.Time
}

// NewContentService creates a new ContentService
func NewContentService(contentRepo repositories.IContentRepository, storage filestorage.FileStorage, logger zerolog.Logger) *ContentService {
	return &ContentService{
		contentRepo: contentRepo,
		storage:     storage,
		logger:      logger,
		now:         time.Now,
	}
}

// ListJobs returns published, unexpired postings
func (s *ContentService) ListJobs(ctx context.Context) ([]models.Job, error) {
	return s.contentRepo.ListJobs(ctx, s.now())
}

// CreateJob stores a posting; it is published unless the request says otherwise
func (s *ContentService) CreateJob(ctx context.Context, adminID uuid.UUID, req *dto.CreateJobRequest) (*models.Job, error) {
	expires, err := helpers.ParseOptionalDateTime(req.ExpiresAt)
	if err != nil {
		return nil, apperrors.NewValidationError("expiresAt", "expiresAt must be a valid date")
	}

	job := &models.Job{
		Title:            strings.TrimSpace(req.Title),
		Company:          strings.TrimSpace(req.Company),
		JobType:          req.JobType,
		Description:      req.Description,
		Location:         req.Location,
		SalaryRange:      req.SalaryRange,
		ApplicationURL:   req.ApplicationURL,
		ApplicationEmail: req.ApplicationEmail,
		IsPublished:      true,
		ExpiresAt:        expires,
		PostedBy:         &adminID,
	}
	if req.IsPublished != nil {
		job.IsPublished = *req.IsPublished
	}
	if job.JobType == "" {
		job.JobType = "full-time"
	}

	if err := s.contentRepo.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	s.logger.Info().Str("jobID", job.ID.String()).Msg("Job posted")
	return job, nil
}

// ListGallery returns published items plus every category in use
func (s *ContentService) ListGallery(ctx context.Context, category string) ([]models.GalleryItem, []string, error) {
	items, err := s.contentRepo.ListGallery(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, nil, err
	}
	categories, err := s.contentRepo.GalleryCategories(ctx)
	if err != nil {
		return nil, nil, err
	}
	return items, categories, nil
}

// UploadGalleryItem resizes and stores the image, then records it
func (s *ContentService) UploadGalleryItem(ctx context.Context, adminID uuid.UUID, req *dto.GalleryUploadRequest, file *multipart.FileHeader) (*models.GalleryItem, error) {
	item := &models.GalleryItem{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Category:    strings.TrimSpace(req.Category),
		IsPublished: true,
		UploadedBy:  &adminID,
	}
	if req.EventID != "" {
		eventID, err := uuid.Parse(req.EventID)
		if err != nil {
			return nil, apperrors.NewValidationError("event_id", "event_id must be a valid id")
		}
		item.EventID = &eventID
	}

	path, err := s.storage.SaveImage(file, galleryDir, galleryMaxSide, galleryMaxSide)
	if err != nil {
		return nil, err
	}
	item.ImageURL = path

	if err := s.contentRepo.CreateGalleryItem(ctx, item); err != nil {
		if delErr := s.storage.DeleteFile(path); delErr != nil {
			s.logger.Warn().Err(delErr).Str("path", path).Msg("Failed to remove orphaned gallery image")
		}
		return nil, err
	}
	s.logger.Info().Str("itemID", item.ID.String()).Str("path", path).Msg("Gallery item uploaded")
	return item, nil
}

// ListNews returns published articles, newest first
func (s *ContentService) ListNews(ctx context.Context, category string) ([]models.NewsArticle, error) {
	return s.contentRepo.ListNews(ctx, s.now(), strings.TrimSpace(category))
}

// GetNews looks an article up by id or slug
func (s *ContentService) GetNews(ctx context.Context, idOrSlug string) (*models.NewsArticle, error) {
	return s.contentRepo.GetNews(ctx, strings.TrimSpace(idOrSlug), s.now())
}

// CreateNews stores an article. A slug derived from the title gets a short
// suffix when it is already taken; an explicit slug that is taken is a conflict.
func (s *ContentService) CreateNews(ctx context.Context, adminID uuid.UUID, req *dto.CreateNewsRequest) (*models.NewsArticle, error) {
	explicit := strings.TrimSpace(req.Slug) != ""
	slug := Slugify(req.Slug)
	if !explicit {
		slug = Slugify(req.Title)
	}
	if slug == "" {
		slug = uuid.NewString()[:8]
	}

	article := &models.NewsArticle{
		Title:            strings.TrimSpace(req.Title),
		Slug:             slug,
		Excerpt:          req.Excerpt,
		Content:          req.Content,
		FeaturedImageURL: req.FeaturedImageURL,
		Category:         strings.TrimSpace(req.Category),
		IsPublished:      true,
		AuthorID:         &adminID,
	}
	if req.IsPublished != nil {
		article.IsPublished = *req.IsPublished
	}
	if article.IsPublished {
		now := s.now()
		article.PublishedAt = &now
	}

	err := s.contentRepo.CreateNews(ctx, article)
	if err != nil && !explicit && errors.Is(err, apperrors.ErrConflict) {
		article.Slug = slug + "-" + uuid.NewString()[:8]
		err = s.contentRepo.CreateNews(ctx, article)
	}
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("articleID", article.ID.String()).Str("slug", article.Slug).Msg("News article created")
	return article, nil
}

// Slugify lower-cases s, strips accents and joins the remaining words with dashes
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}

	slug := strings.TrimSuffix(b.String(), "-")
	if len(slug) > maxSlugLength {
		slug = strings.TrimSuffix(slug[:maxSlugLength], "-")
	}
	return slug
}
