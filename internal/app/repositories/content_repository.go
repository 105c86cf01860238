package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/dberrors"
	"github.com/yigit/alumnihub/internal/pkg/logger"
)

const (
	jobColumns     = "id, title, company, job_type, description, location, salary_range, application_url, application_email, is_published, expires_at, posted_by, created_at"
	galleryColumns = "id, title, description, image_url, category, event_id, is_published, uploaded_by, created_at"
	newsColumns    = "id, title, slug, excerpt, content, featured_image_url, category, is_published, published_at, author_id, created_at"
)

// ContentRepository serves jobs, gallery items and news
type ContentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewContentRepository creates a new ContentRepository
func NewContentRepository(db *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{db: db, sb: psql}
}

// ListJobs returns published, unexpired postings, newest first
func (r *ContentRepository) ListJobs(ctx context.Context, now time.Time) ([]models.Job, error) {
	sql, args, err := r.sb.Select(jobColumns).
		From("jobs").
		Where(squirrel.Eq{"is_published": true}).
		Where(squirrel.Or{squirrel.Eq{"expires_at": nil}, squirrel.Gt{"expires_at": now}}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list jobs query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing jobs")
		return nil, fmt.Errorf("error listing jobs: %w", err)
	}
	defer rows.Close()

	jobs := []models.Job{}
	for rows.Next() {
		var j models.Job
		if err := rows.Scan(&j.ID, &j.Title, &j.Company, &j.JobType, &j.Description, &j.Location, &j.SalaryRange,
			&j.ApplicationURL, &j.ApplicationEmail, &j.IsPublished, &j.ExpiresAt, &j.PostedBy, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// CreateJob inserts a posting
func (r *ContentRepository) CreateJob(ctx context.Context, job *models.Job) error {
	sql, args, err := r.sb.Insert("jobs").
		Columns("title", "company", "job_type", "description", "location", "salary_range",
			"application_url", "application_email", "is_published", "expires_at", "posted_by").
		Values(job.Title, job.Company, job.JobType, job.Description, job.Location, job.SalaryRange,
			job.ApplicationURL, job.ApplicationEmail, job.IsPublished, job.ExpiresAt, job.PostedBy).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create job SQL")
		return fmt.Errorf("failed to build create job query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&job.ID, &job.CreatedAt); err != nil {
		logger.Error().Err(err).Msg("Error creating job")
		return fmt.Errorf("error creating job: %w", err)
	}
	return nil
}

// ListGallery returns published images, optionally for one category
func (r *ContentRepository) ListGallery(ctx context.Context, category string) ([]models.GalleryItem, error) {
	builder := r.sb.Select(galleryColumns).
		From("gallery_items").
		Where(squirrel.Eq{"is_published": true}).
		OrderBy("created_at DESC")
	if category != "" {
		builder = builder.Where(squirrel.Eq{"category": category})
	}
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list gallery query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing gallery")
		return nil, fmt.Errorf("error listing gallery: %w", err)
	}
	defer rows.Close()

	items := []models.GalleryItem{}
	for rows.Next() {
		var g models.GalleryItem
		if err := rows.Scan(&g.ID, &g.Title, &g.Description, &g.ImageURL, &g.Category, &g.EventID,
			&g.IsPublished, &g.UploadedBy, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning gallery item: %w", err)
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

// GalleryCategories lists the distinct non-empty categories of published images
func (r *ContentRepository) GalleryCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT category FROM gallery_items
		WHERE is_published AND category <> '' ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("error listing gallery categories: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// CreateGalleryItem inserts an uploaded image
func (r *ContentRepository) CreateGalleryItem(ctx context.Context, item *models.GalleryItem) error {
	sql, args, err := r.sb.Insert("gallery_items").
		Columns("title", "description", "image_url", "category", "event_id", "is_published", "uploaded_by").
		Values(item.Title, item.Description, item.ImageURL, item.Category, item.EventID, item.IsPublished, item.UploadedBy).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create gallery item query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&item.ID, &item.CreatedAt); err != nil {
		logger.Error().Err(err).Msg("Error creating gallery item")
		return fmt.Errorf("error creating gallery item: %w", err)
	}
	return nil
}

func publishedNews(sb squirrel.StatementBuilderType, now time.Time) squirrel.SelectBuilder {
	return sb.Select(newsColumns).
		From("news").
		Where(squirrel.Eq{"is_published": true}).
		Where(squirrel.LtOrEq{"published_at": now})
}

func scanNews(row pgx.Row) (*models.NewsArticle, error) {
	var n models.NewsArticle
	err := row.Scan(&n.ID, &n.Title, &n.Slug, &n.Excerpt, &n.Content, &n.FeaturedImageURL, &n.Category,
		&n.IsPublished, &n.PublishedAt, &n.AuthorID, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListNews returns published articles, newest first
func (r *ContentRepository) ListNews(ctx context.Context, now time.Time, category string) ([]models.NewsArticle, error) {
	builder := publishedNews(r.sb, now).OrderBy("published_at DESC")
	if category != "" {
		builder = builder.Where(squirrel.Eq{"category": category})
	}
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list news query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing news")
		return nil, fmt.Errorf("error listing news: %w", err)
	}
	defer rows.Close()

	articles := []models.NewsArticle{}
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning news: %w", err)
		}
		articles = append(articles, *n)
	}
	return articles, rows.Err()
}

// GetNews looks an article up by id when idOrSlug parses as a UUID, by slug otherwise
func (r *ContentRepository) GetNews(ctx context.Context, idOrSlug string, now time.Time) (*models.NewsArticle, error) {
	var where squirrel.Sqlizer = squirrel.Eq{"slug": idOrSlug}
	if id, err := uuid.Parse(idOrSlug); err == nil {
		where = squirrel.Eq{"id": id}
	}
	sql, args, err := publishedNews(r.sb, now).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get news query: %w", err)
	}
	n, err := scanNews(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("Article not found")
		}
		return nil, fmt.Errorf("error retrieving news: %w", err)
	}
	return n, nil
}

// CreateNews inserts an article; slugs are unique
func (r *ContentRepository) CreateNews(ctx context.Context, article *models.NewsArticle) error {
	sql, args, err := r.sb.Insert("news").
		Columns("title", "slug", "excerpt", "content", "featured_image_url", "category", "is_published", "published_at", "author_id").
		Values(article.Title, article.Slug, article.Excerpt, article.Content, article.FeaturedImageURL, article.Category,
			article.IsPublished, article.PublishedAt, article.AuthorID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create news query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&article.ID, &article.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "news_slug_key") {
			return apperrors.NewConflictError("An article with this slug already exists")
		}
		logger.Error().Err(err).Msg("Error creating news")
		return fmt.Errorf("error creating news: %w", err)
	}
	return nil
}
