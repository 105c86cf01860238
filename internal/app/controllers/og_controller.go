package controllers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/middleware"
	"github.com/yigit/alumnihub/internal/pkg/ogimage"
)

// OGController renders social preview cards
type OGController struct {
	logger zerolog.Logger
}

// NewOGController creates a new OGController
func NewOGController(logger zerolog.Logger) *OGController {
	return &OGController{logger: logger}
}

// Image renders a 1200x630 PNG card
// @Summary Open Graph image
// @Tags og
// @Produce png
// @Param title query string false "Title"
// @Param subtitle query string false "Subtitle"
// @Success 200 {file} file
// @Router /og [get]
func (c *OGController) Image(ctx *gin.Context) {
	var buf bytes.Buffer
	if err := ogimage.Render(&buf, ctx.Query("title"), ctx.Query("subtitle")); err != nil {
		c.logger.Error().Err(err).Msg("OG image render failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Header("Cache-Control", "public, max-age=86400")
	ctx.Data(http.StatusOK, "image/png", buf.Bytes())
}
