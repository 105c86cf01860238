package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/middleware"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
)

// ImportController handles CSV import and manual entry of alumni
type ImportController struct {
	importService services.IImportService
	logger        zerolog.Logger
}

// NewImportController creates a new ImportController
func NewImportController(importService services.IImportService, logger zerolog.Logger) *ImportController {
	return &ImportController{
		importService: importService,
		logger:        logger,
	}
}

// paginated wraps one page of items with its pagination info
func paginated(items interface{}, info *dto.PaginationInfo) dto.PaginatedResponse {
	resp := dto.PaginatedResponse{Items: items}
	if info != nil {
		resp.Pagination = *info
	}
	return resp
}

// Preview parses an uploaded CSV without writing anything
// @Summary Preview a CSV import
// @Description Parses the file, drops rows without name, email and graduation year, and returns the rows to commit
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file"
// @Success 200 {object} dto.APIResponse{data=dto.ImportPreviewResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid CSV file"
// @Router /import/preview [post]
func (c *ImportController) Preview(ctx *gin.Context) {
	header, err := ctx.FormFile("file")
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("file", "A CSV file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	preview, err := c.importService.Preview(ctx.Request.Context(), header.Filename, file)
	if err != nil {
		c.logger.Warn().Err(err).Str("filename", header.Filename).Msg("CSV preview failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: preview})
}

// Commit writes previewed rows as one batch
// @Summary Commit an import batch
// @Tags import
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CommitImportRequest true "Rows to import"
// @Success 200 {object} dto.CommitImportResponse
// @Failure 400 {object} dto.ErrorResponse "rows required or duplicate emails"
// @Router /import/commit [post]
func (c *ImportController) Commit(ctx *gin.Context) {
	adminID, _ := middleware.CurrentUserID(ctx)

	var req dto.CommitImportRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.importService.Commit(ctx.Request.Context(), adminID, &req)
	if err != nil {
		c.logger.Warn().Err(err).Int("rows", len(req.Rows)).Msg("Import commit rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Int("inserted", resp.Inserted).Str("batchID", resp.BatchID.String()).Msg("Import committed")
	ctx.JSON(http.StatusOK, resp)
}

// Sample downloads a CSV template
// @Summary Download the import template
// @Tags import
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file
// @Router /import/sample [get]
func (c *ImportController) Sample(ctx *gin.Context) {
	ctx.Header("Content-Disposition", `attachment; filename="alumni-import-sample.csv"`)
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", c.importService.SampleCSV())
}

// Batches lists previous import batches
// @Summary List import batches
// @Tags import
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.ImportBatch}
// @Router /import/batches [get]
func (c *ImportController) Batches(ctx *gin.Context) {
	batches, err := c.importService.ListBatches(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: batches})
}

// ListImported pages through imported alumni
// @Summary List imported alumni
// @Tags import
// @Produce json
// @Security BearerAuth
// @Param batch query string false "Batch ID"
// @Param status query string false "Invite status" Enums(pending, sent, accepted)
// @Param q query string false "Name or email contains"
// @Param page query int false "Page number"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.ImportedAlumni}}
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /import/alumni [get]
func (c *ImportController) ListImported(ctx *gin.Context) {
	var filter models.ImportedFilter
	if raw := ctx.Query("batch"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			middleware.HandleAPIError(ctx, apperrors.NewValidationError("batch", "Invalid batch id"))
			return
		}
		filter.BatchID = &id
	}
	switch status := models.ImportInviteStatus(ctx.Query("status")); status {
	case "":
	case models.ImportInvitePending, models.ImportInviteSent, models.ImportInviteAccepted:
		filter.InviteStatus = status
	default:
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("status", "Unknown invite status"))
		return
	}
	filter.Query = strings.TrimSpace(ctx.Query("q"))

	items, info, err := c.importService.ListImported(ctx.Request.Context(), filter, helpers.ParsePage(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: paginated(items, info)})
}

// CreateAlumni adds one imported alumnus by hand
// @Summary Create an imported alumnus
// @Tags import
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAlumniRequest true "Alumnus"
// @Success 200 {object} dto.CreateAlumniResponse
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Router /admin/create-alumni [post]
func (c *ImportController) CreateAlumni(ctx *gin.Context) {
	adminID, _ := middleware.CurrentUserID(ctx)

	var req dto.CreateAlumniRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	id, err := c.importService.CreateManual(ctx.Request.Context(), adminID, req.ImportRow)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.CreateAlumniResponse{
		Success:    true,
		Message:    "Alumni created",
		ImportedID: id,
	})
}
