package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
)

type fakeContent struct {
	repositories.IContentRepository

	slugs      map[string]bool
	gallery    []models.GalleryItem
	galleryErr error
	jobs       []models.Job
}

func (f *fakeContent) CreateNews(_ context.Context, a *models.NewsArticle) error {
	if f.slugs[a.Slug] {
		return apperrors.NewConflictError("An article with this slug already exists")
	}
	f.slugs[a.Slug] = true
	a.ID = uuid.New()
	return nil
}

func (f *fakeContent) CreateGalleryItem(_ context.Context, item *models.GalleryItem) error {
	if f.galleryErr != nil {
		return f.galleryErr
	}
	item.ID = uuid.New()
	f.gallery = append(f.gallery, *item)
	return nil
}

func (f *fakeContent) CreateJob(_ context.Context, job *models.Job) error {
	job.ID = uuid.New()
	f.jobs = append(f.jobs, *job)
	return nil
}

func newContentFixture() (*ContentService, *fakeContent, *fakeStorage) {
	repo := &fakeContent{slugs: map[string]bool{}}
	storage := &fakeStorage{}
	return NewContentService(repo, storage, zerolog.Nop()), repo, storage
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Class of 2010 Reunion!":  "class-of-2010-reunion",
		"  Café Déjà Vu  ":        "cafe-deja-vu",
		"---":                     "",
		"Alumni & Friends -- Day": "alumni-friends-day",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
	assert.LessOrEqual(t, len(Slugify(strings.Repeat("reunion ", 30))), maxSlugLength)
}

func TestCreateNewsDerivesUniqueSlug(t *testing.T) {
	svc, repo, _ := newContentFixture()
	ctx := context.Background()

	first, err := svc.CreateNews(ctx, uuid.New(), &dto.CreateNewsRequest{Title: "Homecoming 2030", Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, "homecoming-2030", first.Slug)
	assert.True(t, first.IsPublished)
	assert.NotNil(t, first.PublishedAt)

	second, err := svc.CreateNews(ctx, uuid.New(), &dto.CreateNewsRequest{Title: "Homecoming 2030", Content: "y"})
	require.NoError(t, err)
	assert.NotEqual(t, first.Slug, second.Slug)
	assert.Contains(t, second.Slug, "homecoming-2030-")
	assert.Len(t, repo.slugs, 2)
}

func TestCreateNewsExplicitSlugConflicts(t *testing.T) {
	svc, _, _ := newContentFixture()
	ctx := context.Background()

	_, err := svc.CreateNews(ctx, uuid.New(), &dto.CreateNewsRequest{Title: "A", Slug: "fixed", Content: "x"})
	require.NoError(t, err)
	_, err = svc.CreateNews(ctx, uuid.New(), &dto.CreateNewsRequest{Title: "B", Slug: "fixed", Content: "y"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestCreateNewsDraftHasNoPublishDate(t *testing.T) {
	svc, _, _ := newContentFixture()
	draft := false

	article, err := svc.CreateNews(context.Background(), uuid.New(), &dto.CreateNewsRequest{Title: "Draft", Content: "x", IsPublished: &draft})
	require.NoError(t, err)
	assert.False(t, article.IsPublished)
	assert.Nil(t, article.PublishedAt)
}

func TestCreateJobDefaults(t *testing.T) {
	svc, repo, _ := newContentFixture()

	job, err := svc.CreateJob(context.Background(), uuid.New(), &dto.CreateJobRequest{Title: "Engineer", Company: "Acme", ExpiresAt: "2030-01-01"})
	require.NoError(t, err)
	assert.True(t, job.IsPublished)
	assert.Equal(t, "full-time", job.JobType)
	require.NotNil(t, job.ExpiresAt)
	assert.Len(t, repo.jobs, 1)

	_, err = svc.CreateJob(context.Background(), uuid.New(), &dto.CreateJobRequest{Title: "x", Company: "y", ExpiresAt: "soon"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestUploadGalleryItemCleansUpOnFailure(t *testing.T) {
	svc, repo, storage := newContentFixture()
	file := &multipart.FileHeader{Filename: "photo.jpg"}

	item, err := svc.UploadGalleryItem(context.Background(), uuid.New(), &dto.GalleryUploadRequest{Title: "Reunion", Category: "events"}, file)
	require.NoError(t, err)
	assert.Contains(t, item.ImageURL, "/uploads/gallery/")
	assert.True(t, item.IsPublished)

	repo.galleryErr = errors.New("db down")
	_, err = svc.UploadGalleryItem(context.Background(), uuid.New(), &dto.GalleryUploadRequest{Title: "Again"}, file)
	require.Error(t, err)
	require.Len(t, storage.saved, 2)
	assert.Equal(t, []string{storage.saved[1]}, storage.deleted)

	_, err = svc.UploadGalleryItem(context.Background(), uuid.New(), &dto.GalleryUploadRequest{Title: "Bad", EventID: "nope"}, file)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
