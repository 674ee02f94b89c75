package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/clubportal/internal/app/models"
	"github.com/yigit/clubportal/internal/app/models/dto"
	"github.com/yigit/clubportal/internal/app/services"
	"github.com/yigit/clubportal/internal/middleware"
	"github.com/yigit/clubportal/internal/pkg/helpers"
)

// FeedbackController serves feedback submission and review
type FeedbackController struct {
	feedbackService FeedbackUseCases
	logger          zerolog.Logger
}

// NewFeedbackController creates a new FeedbackController
func NewFeedbackController(feedbackService FeedbackUseCases, logger zerolog.Logger) *FeedbackController {
	return &FeedbackController{feedbackService: feedbackService, logger: logger}
}

// Submit sends feedback to an approved club
// @Summary Submit feedback
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.FeedbackInput true "Feedback"
// @Success 201 {object} dto.APIResponse{data=dto.FeedbackResponse}
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Failure 500 {object} dto.APIResponse "Feedback could not be saved"
// @Router /feedback [post]
// @Router /admin/feedback [post]
func (c *FeedbackController) Submit(ctx *gin.Context) {
	var req services.FeedbackInput
	if !middleware.BindRequest(ctx, &req) {
		return
	}

	fb, err := c.feedbackService.Submit(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewFeedbackResponse(fb), "Feedback sent"))
}

// ListAll lists every feedback entry for administrators
// @Summary All feedback
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Success 200 {object} dto.APIResponse{data=dto.FeedbackListResponse}
// @Router /admin/feedback [get]
func (c *FeedbackController) ListAll(ctx *gin.Context) {
	page := helpers.PageFromQuery(ctx, helpers.FeedbackPerPage)
	items, total, err := c.feedbackService.List(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), page)
	c.respondList(ctx, items, total, page, err)
}

// ListOwn lists feedback addressed to the signed-in club
// @Summary Club feedback
// @Tags club
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Success 200 {object} dto.APIResponse{data=dto.FeedbackListResponse}
// @Router /club/feedback [get]
func (c *FeedbackController) ListOwn(ctx *gin.Context) {
	page := helpers.PageFromQuery(ctx, helpers.FeedbackPerPage)
	items, total, err := c.feedbackService.ListForClub(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), page)
	c.respondList(ctx, items, total, page, err)
}

func (c *FeedbackController) respondList(ctx *gin.Context, items []models.Feedback, total int64, page helpers.Page, err error) {
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FeedbackListResponse{
		Feedback:   dto.NewFeedbackResponses(items),
		Pagination: dto.NewPaginationInfo(total, page.Number, page.Size),
	}, ""))
}

// MarkRead flags a feedback entry of the signed-in club as read
// @Summary Mark feedback read
// @Tags club
// @Produce json
// @Security BearerAuth
// @Param id path int true "Feedback ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse "Feedback not found"
// @Router /club/feedback/{id}/read [post]
func (c *FeedbackController) MarkRead(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.feedbackService.MarkRead(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Feedback marked as read"))
}

// Delete removes a feedback entry
// @Summary Delete feedback
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Feedback ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse "Feedback not found"
// @Router /admin/feedback/{id} [delete]
func (c *FeedbackController) Delete(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.feedbackService.Delete(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Feedback deleted"))
}
