package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
)

// ContentController handles jobs, gallery and news
type ContentController struct {
	contentService services.IContentService
	logger         zerolog.Logger
}

// NewContentController creates a new ContentController
func NewContentController(contentService services.IContentService, logger zerolog.Logger) *ContentController {
	return &ContentController{
		contentService: contentService,
		logger:         logger,
	}
}

// GalleryResponse is the gallery page payload
type GalleryResponse struct {
	Items      interface{} `json:"items"`
	Categories []string    `json:"categories"`
}

// ListJobs returns published, unexpired jobs
// @Summary List jobs
// @Tags content
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Job}
// @Router /jobs [get]
func (c *ContentController) ListJobs(ctx *gin.Context) {
	jobs, err := c.contentService.ListJobs(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: jobs})
}

// CreateJob posts a job
// @Summary Create a job
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateJobRequest true "Job"
// @Success 201 {object} dto.APIResponse{data=models.Job}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Router /admin/jobs [post]
func (c *ContentController) CreateJob(ctx *gin.Context) {
	adminID, _ := middleware.CurrentUserID(ctx)

	var req dto.CreateJobRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	job, err := c.contentService.CreateJob(ctx.Request.Context(), adminID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(job, "Job created"))
}

// ListGallery returns gallery items, optionally filtered by category
// @Summary List gallery
// @Tags content
// @Produce json
// @Security BearerAuth
// @Param category query string false "Category"
// @Success 200 {object} dto.APIResponse{data=GalleryResponse}
// @Router /gallery [get]
func (c *ContentController) ListGallery(ctx *gin.Context) {
	items, categories, err := c.contentService.ListGallery(ctx.Request.Context(), ctx.Query("category"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: GalleryResponse{Items: items, Categories: categories}})
}

// UploadGallery stores an image with its caption
// @Summary Upload a gallery image
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image"
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param category formData string false "Category"
// @Param event_id formData string false "Related event"
// @Success 201 {object} dto.APIResponse{data=models.GalleryItem}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Router /admin/gallery [post]
func (c *ContentController) UploadGallery(ctx *gin.Context) {
	adminID, _ := middleware.CurrentUserID(ctx)

	var req dto.GalleryUploadRequest
	if !middleware.BindForm(ctx, &req) {
		return
	}
	file, err := ctx.FormFile("file")
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("file", "An image file is required"))
		return
	}

	item, err := c.contentService.UploadGalleryItem(ctx.Request.Context(), adminID, &req, file)
	if err != nil {
		c.logger.Error().Err(err).Msg("Gallery upload failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(item, "Image uploaded"))
}

// ListNews returns published articles
// @Summary List news
// @Tags content
// @Produce json
// @Security BearerAuth
// @Param category query string false "Category"
// @Success 200 {object} dto.APIResponse{data=[]models.NewsArticle}
// @Router /news [get]
func (c *ContentController) ListNews(ctx *gin.Context) {
	articles, err := c.contentService.ListNews(ctx.Request.Context(), ctx.Query("category"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: articles})
}

// GetNews returns one published article by id or slug
// @Summary Get a news article
// @Tags content
// @Produce json
// @Security BearerAuth
// @Param idOrSlug path string true "Article id or slug"
// @Success 200 {object} dto.APIResponse{data=models.NewsArticle}
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /news/{idOrSlug} [get]
func (c *ContentController) GetNews(ctx *gin.Context) {
	article, err := c.contentService.GetNews(ctx.Request.Context(), ctx.Param("idOrSlug"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: article})
}

// CreateNews publishes or drafts an article
// @Summary Create a news article
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateNewsRequest true "Article"
// @Success 201 {object} dto.APIResponse{data=models.NewsArticle}
// @Failure 409 {object} dto.ErrorResponse "Slug already in use"
// @Router /admin/news [post]
func (c *ContentController) CreateNews(ctx *gin.Context) {
	adminID, _ := middleware.CurrentUserID(ctx)

	var req dto.CreateNewsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	article, err := c.contentService.CreateNews(ctx.Request.Context(), adminID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(article, "Article created"))
}
