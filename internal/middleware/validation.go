package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubportal/internal/app/models/dto"
)

// BindRequest binds the JSON, form or multipart body of c into obj. Field
// rules are checked later by the service; only malformed bodies fail here.
// It writes the error response and returns false when binding fails.
func BindRequest(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBind(obj); err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid request format")
		if gin.Mode() != gin.ReleaseMode {
			detail = detail.WithDebugInfo("%v", err)
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return false
	}
	return true
}
