package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubportal/internal/app/models/dto"
)

// Pinger is a dependency whose reachability is reported by the health check
type Pinger func(ctx context.Context) error

// HealthController reports dependency status
type HealthController struct {
	checks map[string]Pinger
}

// NewHealthController creates a new HealthController. Nil checks are skipped.
func NewHealthController(checks map[string]Pinger) *HealthController {
	active := make(map[string]Pinger, len(checks))
	for name, check := range checks {
		if check != nil {
			active[name] = check
		}
	}
	return &HealthController{checks: active}
}

// Health pings every dependency
// @Summary Health check
// @Tags public
// @Produce json
// @Success 200 {object} dto.APIResponse{data=map[string]string}
// @Failure 503 {object} dto.APIResponse{data=map[string]string}
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(c.checks))
	for name, check := range c.checks {
		if err := check(reqCtx); err != nil {
			results[name] = "down: " + err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "up"
	}

	resp := dto.NewSuccessResponse(results, "")
	if status != http.StatusOK {
		resp = dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, "A dependency is unavailable"))
		resp.Data = results
	}
	ctx.JSON(status, resp)
}

// Ping answers liveness probes
func (c *HealthController) Ping(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
}
