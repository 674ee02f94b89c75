package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/clubportal/internal/app/models"
	"github.com/yigit/clubportal/internal/app/models/dto"
	"github.com/yigit/clubportal/internal/app/services"
	"github.com/yigit/clubportal/internal/middleware"
	"github.com/yigit/clubportal/internal/pkg/helpers"
)

// ClubController serves the club directory, club pages and the club dashboard
type ClubController struct {
	clubService ClubUseCases
	logger      zerolog.Logger
}

// NewClubController creates a new ClubController
func NewClubController(clubService ClubUseCases, logger zerolog.Logger) *ClubController {
	return &ClubController{clubService: clubService, logger: logger}
}

// List returns approved clubs
// @Summary Club directory
// @Tags clubs
// @Produce json
// @Param sort query string false "name, newest, members or posts" default(name)
// @Param page query int false "Page number" default(1)
// @Success 200 {object} dto.APIResponse{data=dto.ClubListResponse}
// @Router /clubs [get]
func (c *ClubController) List(ctx *gin.Context) {
	sort := models.ParseClubSort(ctx.Query("sort"))
	page := helpers.PageFromQuery(ctx, helpers.ClubsPerPage)

	clubs, total, err := c.clubService.ListPublic(ctx.Request.Context(), sort, page)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ClubListResponse{
		Clubs:      dto.NewClubResponses(clubs, false),
		Sort:       string(sort),
		Pagination: dto.NewPaginationInfo(total, page.Number, page.Size),
	}, ""))
}

// Search finds approved clubs by name
// @Summary Search clubs
// @Description Case-insensitive substring match on approved club names. A blank query returns no clubs.
// @Tags clubs
// @Produce json
// @Param q query string false "Search text"
// @Success 200 {object} dto.APIResponse{data=[]dto.ClubSummaryResponse}
// @Router /clubs/search [get]
func (c *ClubController) Search(ctx *gin.Context) {
	clubs, err := c.clubService.Search(ctx.Request.Context(), ctx.Query("q"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewClubSummaries(clubs), ""))
}

// Profile returns the public page of an approved club
// @Summary Club page
// @Tags clubs
// @Produce json
// @Param slug path string true "Club slug"
// @Param page query int false "Page number" default(1)
// @Success 200 {object} dto.APIResponse{data=dto.ClubProfileResponse}
// @Failure 404 {object} dto.APIResponse "Club not found"
// @Router /clubs/{slug} [get]
func (c *ClubController) Profile(ctx *gin.Context) {
	page := helpers.PageFromQuery(ctx, helpers.PostsPerPage)
	profile, err := c.clubService.PublicProfile(ctx.Request.Context(), strings.TrimSpace(ctx.Param("slug")), page)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	club := dto.NewClubResponse(profile.Club)
	club.OwnerEmail = ""
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ClubProfileResponse{
		Club:       club,
		Posts:      dto.NewPostResponses(profile.Posts),
		Pagination: dto.NewPaginationInfo(profile.TotalPosts, page.Number, page.Size),
	}, ""))
}

// Dashboard returns the landing page of the signed-in club
// @Summary Club dashboard
// @Tags club
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number of the club's posts" default(1)
// @Success 200 {object} dto.APIResponse{data=dto.ClubDashboardResponse}
// @Failure 403 {object} dto.APIResponse "Approved clubs only"
// @Router /club/dashboard [get]
func (c *ClubController) Dashboard(ctx *gin.Context) {
	page := helpers.PageFromQuery(ctx, helpers.PostsPerPage)
	dash, err := c.clubService.Dashboard(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), page)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ClubDashboardResponse{
		Club:           dto.NewClubResponse(dash.Club),
		Posts:          dto.NewPostResponses(dash.Posts),
		Pagination:     dto.NewPaginationInfo(dash.TotalPosts, page.Number, page.Size),
		TotalPosts:     dash.TotalPosts,
		RecentFeedback: dto.NewFeedbackResponses(dash.RecentFeedback),
		FeedbackCount:  dash.FeedbackCount,
		UnreadMessages: dash.UnreadMessages,
	}, ""))
}

// OwnProfile returns the signed-in club
// @Summary Own club profile
// @Tags club
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ClubResponse}
// @Router /club/profile [get]
func (c *ClubController) OwnProfile(ctx *gin.Context) {
	club, err := c.clubService.OwnClub(ctx.Request.Context(), middleware.CurrentPrincipal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewClubResponse(club), ""))
}

// UpdateProfile edits the signed-in club's profile
// @Summary Edit club profile
// @Description Renaming the club regenerates its slug. A new logo replaces the old one.
// @Tags club
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param name formData string true "Club name"
// @Param about formData string true "About the club"
// @Param location formData string true "Where the club meets"
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
// @Failure 409 {object} dto.APIResponse "Name already in use"
// @Router /club/profile [put]
func (c *ClubController) UpdateProfile(ctx *gin.Context) {
	var req services.ClubProfileInput
	if !middleware.BindRequest(ctx, &req) {
		return
	}

	club, err := c.clubService.UpdateProfile(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewClubResponse(club), "Profile updated"))
}
