package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/yigit/alumnihub/internal/app/models/dto"
)

// BindJSON binds and validates a JSON body, writing a 400 on failure
func BindJSON(c *gin.Context, obj interface{}) bool {
	return bindWith(c, obj, binding.JSON)
}

// BindForm binds and validates form or multipart fields, writing a 400 on failure
func BindForm(c *gin.Context, obj interface{}) bool {
	return bindWith(c, obj, binding.FormMultipart)
}

func bindWith(c *gin.Context, obj interface{}, b binding.Binding) bool {
	if err := c.ShouldBindWith(obj, b); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}
