package controllers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	authz "github.com/yigit/clubportal/internal/app/auth"
	"github.com/yigit/clubportal/internal/app/models"
	"github.com/yigit/clubportal/internal/app/models/dto"
	"github.com/yigit/clubportal/internal/app/services"
	"github.com/yigit/clubportal/internal/middleware"
	"github.com/yigit/clubportal/internal/pkg/helpers"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminController serves club moderation and the administrator dashboard
type AdminController struct {
	adminService AdminUseCases
	logger       zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService AdminUseCases, logger zerolog.Logger) *AdminController {
	return &AdminController{adminService: adminService, logger: logger}
}

// Dashboard returns the administrator overview
// @Summary Admin dashboard
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AdminDashboardResponse}
// @Failure 403 {object} dto.APIResponse "Administrators only"
// @Router /admin/dashboard [get]
func (c *AdminController) Dashboard(ctx *gin.Context) {
	dash, err := c.adminService.Dashboard(ctx.Request.Context(), middleware.CurrentPrincipal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.AdminDashboardResponse{
		TotalClubs:          dash.TotalClubs,
		PendingClubs:        dash.PendingClubs,
		ApprovedClubs:       dash.ApprovedClubs,
		TotalPosts:          dash.TotalPosts,
		RecentPosts:         dto.NewPostResponses(dash.RecentPosts),
		PendingApplications: dto.NewClubResponses(dash.PendingApplications, true),
	}, ""))
}

// Pending lists clubs awaiting approval
// @Summary Pending clubs
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ClubResponse}
// @Router /admin/clubs/pending [get]
func (c *AdminController) Pending(ctx *gin.Context) {
	clubs, err := c.adminService.PendingClubs(ctx.Request.Context(), middleware.CurrentPrincipal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewClubResponses(clubs, true), ""))
}

// Clubs lists clubs with a status filter and name search
// @Summary Manage clubs
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "all, approved or pending" default(all)
// @Param search query string false "Name search"
// @Param page query int false "Page number" default(1)
// @Success 200 {object} dto.APIResponse{data=dto.ClubListResponse}
// @Router /admin/clubs [get]
func (c *AdminController) Clubs(ctx *gin.Context) {
	status := models.ParseClubStatus(ctx.Query("status"))
	search := ctx.Query("search")
	page := helpers.PageFromQuery(ctx, helpers.ClubsPerPage)

	clubs, total, err := c.adminService.Clubs(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), status, search, page)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ClubListResponse{
		Clubs:      dto.NewClubResponses(clubs, true),
		Status:     string(status),
		Search:     search,
		Pagination: dto.NewPaginationInfo(total, page.Number, page.Size),
	}, ""))
}

// Export downloads clubs and their posts as a spreadsheet
// @Summary Export clubs
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param status query string false "all, approved or pending" default(all)
// @Param search query string false "Name search"
// @Success 200 {file} file "clubs.xlsx"
// @Router /admin/clubs/export [get]
func (c *AdminController) Export(ctx *gin.Context) {
	status := models.ParseClubStatus(ctx.Query("status"))

	// buffered so a failure can still produce a JSON error
	var buf bytes.Buffer
	if err := c.adminService.Export(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), status, ctx.Query("search"), &buf); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	filename := fmt.Sprintf("clubs-%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Approve lets a club log in and appear publicly
// @Summary Approve club
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club account ID"
// @Success 200 {object} dto.APIResponse{data=dto.ClubDecisionResponse}
// @Failure 404 {object} dto.APIResponse "Club not found"
// @Router /admin/clubs/{id}/approve [post]
func (c *AdminController) Approve(ctx *gin.Context) {
	c.decide(ctx, c.adminService.Approve, "Club approved")
}

// Reject withdraws a club's approval
// @Summary Reject club
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club account ID"
// @Success 200 {object} dto.APIResponse{data=dto.ClubDecisionResponse}
// @Failure 404 {object} dto.APIResponse "Club not found"
// @Router /admin/clubs/{id}/reject [post]
func (c *AdminController) Reject(ctx *gin.Context) {
	c.decide(ctx, c.adminService.Reject, "Club approval withdrawn")
}

type clubDecision func(ctx context.Context, p *authz.Principal, accountID int64) (*models.Account, error)

func (c *AdminController) decide(ctx *gin.Context, action clubDecision, message string) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	account, err := action(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ClubDecisionResponse{
		AccountID:  account.ID,
		Username:   account.Username,
		IsApproved: account.IsApproved,
	}, message))
}

// Delete removes a club account with its profile, posts and files
// @Summary Delete club
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club account ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse "Club not found"
// @Router /admin/clubs/{id} [delete]
func (c *AdminController) Delete(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.adminService.Delete(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Club deleted"))
}

// Edit changes any club's profile; the slug is always regenerated
// @Summary Edit club
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club account ID"
// @Param name formData string true "Club name"
// @Param about formData string false "About the club"
// @Param location formData string false "Where the club meets"
// @Param achievements formData string false "Achievements"
// @Param member_count formData string false "Member count"
// @Param phone formData string false "Phone"
// @Param instagram formData string false "Instagram"
// @Param twitter formData string false "Twitter"
// @Param linkedin formData string false "LinkedIn"
// @Param facebook formData string false "Facebook"
// @Param website formData string false "Website"
// @Param logo formData file false "Logo image"
// @Success 200 {object} dto.APIResponse{data=dto.ClubResponse}
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Failure 404 {object} dto.APIResponse "Club not found"
// @Failure 409 {object} dto.APIResponse "Name already in use"
// @Router /admin/clubs/{id} [put]
func (c *AdminController) Edit(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req services.ClubProfileInput
	if !middleware.BindRequest(ctx, &req) {
		return
	}

	club, err := c.adminService.EditClub(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewClubResponse(club), "Club updated"))
}
