package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/csvimport"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
)

// DirectoryController handles the alumni directory and admin listings
type DirectoryController struct {
	directoryService services.IDirectoryService
	logger           zerolog.Logger
	now              func() time.Time
}

// NewDirectoryController creates a new DirectoryController
func NewDirectoryController(directoryService services.IDirectoryService, logger zerolog.Logger) *DirectoryController {
	return &DirectoryController{
		directoryService: directoryService,
		logger:           logger,
		now:              time.Now,
	}
}

// Search lists approved alumni
// @Summary Search the directory
// @Description Approved alumni only; q matches name, company, title or headline
// @Tags directory
// @Produce json
// @Security BearerAuth
// @Param q query string false "Free text"
// @Param year query int false "Graduation year"
// @Param dept query string false "Department"
// @Param company query string false "Company contains"
// @Param page query int false "Page number"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.DirectoryEntry}}
// @Failure 403 {object} dto.ErrorResponse "Not approved"
// @Router /directory [get]
func (c *DirectoryController) Search(ctx *gin.Context) {
	filter := models.DirectoryFilter{
		Query:      strings.TrimSpace(ctx.Query("q")),
		Year:       helpers.ParseYear(ctx.Query("year")),
		Department: strings.TrimSpace(ctx.Query("dept")),
		Company:    strings.TrimSpace(ctx.Query("company")),
	}

	entries, info, err := c.directoryService.Search(ctx.Request.Context(), filter, helpers.ParsePage(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: paginated(entries, info)})
}

// Stats returns the filter dropdown values
// @Summary Directory filter values
// @Tags directory
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.DirectoryStats}
// @Router /directory/stats [get]
func (c *DirectoryController) Stats(ctx *gin.Context) {
	stats, err := c.directoryService.Stats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: stats})
}

// Detail returns one alumnus with education, work history and skills
// @Summary Alumni detail
// @Tags directory
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Success 200 {object} dto.APIResponse{data=models.AlumniProfile}
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /directory/{id} [get]
func (c *DirectoryController) Detail(ctx *gin.Context) {
	userID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewResourceNotFoundError("Alumni not found"))
		return
	}

	profile, err := c.directoryService.Detail(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: profile})
}

// AdminList lists every profile with email for admins
// @Summary Admin alumni list
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.DirectoryEntry}}
// @Router /admin/alumni [get]
func (c *DirectoryController) AdminList(ctx *gin.Context) {
	entries, info, err := c.directoryService.AdminList(ctx.Request.Context(), helpers.ParsePage(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: paginated(entries, info)})
}

// AdminStats returns the admin dashboard counters
// @Summary Admin counters
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.AdminStats}
// @Router /admin/stats [get]
func (c *DirectoryController) AdminStats(ctx *gin.Context) {
	stats, err := c.directoryService.AdminStats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: stats})
}

// Export streams all approved alumni as CSV
// @Summary Export approved alumni
// @Description Email addresses are left blank
// @Tags admin
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file
// @Router /admin/alumni/export [get]
func (c *DirectoryController) Export(ctx *gin.Context) {
	ctx.Header("Content-Type", "text/csv; charset=utf-8")
	ctx.Header("Content-Disposition", `attachment; filename="`+csvimport.ExportFilename(c.now())+`"`)
	ctx.Header("Cache-Control", "no-store")

	count, err := c.directoryService.Export(ctx.Request.Context(), ctx.Writer)
	if err != nil {
		c.logger.Error().Err(err).Int("rows", count).Msg("Alumni export failed")
		if !ctx.Writer.Written() {
			ctx.Header("Content-Type", "")
			ctx.Header("Content-Disposition", "")
			middleware.HandleAPIError(ctx, err)
		}
		return
	}
	c.logger.Info().Int("rows", count).Msg("Alumni exported")
}
