package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubportal/internal/app/models/dto"
)

// WeatherController serves the campus weather widget
type WeatherController struct {
	source      WeatherSource
	defaultCity string
}

// NewWeatherController creates a new WeatherController
func NewWeatherController(source WeatherSource, defaultCity string) *WeatherController {
	return &WeatherController{source: source, defaultCity: defaultCity}
}

// Current returns the weather. A failed lookup still answers 200 with the
// error field set.
// @Summary Current weather
// @Tags public
// @Produce json
// @Param city query string false "City, defaults to the campus city"
// @Success 200 {object} dto.APIResponse{data=weather.Report}
// @Router /weather [get]
func (c *WeatherController) Current(ctx *gin.Context) {
	city := strings.TrimSpace(ctx.Query("city"))
	if city == "" {
		city = c.defaultCity
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.source.Fetch(ctx.Request.Context(), city), ""))
}
