// Package controllers handles HTTP request handling
package controllers

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	authz "github.com/yigit/clubportal/internal/app/auth"
	"github.com/yigit/clubportal/internal/app/models"
	"github.com/yigit/clubportal/internal/app/models/dto"
	"github.com/yigit/clubportal/internal/app/services"
	"github.com/yigit/clubportal/internal/pkg/helpers"
	"github.com/yigit/clubportal/internal/pkg/weather"
)

// AuthUseCases is what AuthController needs from the auth service
type AuthUseCases interface {
	RegisterClub(ctx context.Context, in *services.ClubRegistration) (*models.Account, error)
	Authenticate(ctx context.Context, username, password string) (*services.LoginResult, error)
	Logout(ctx context.Context, p *authz.Principal) error
}

// PostUseCases is what PostController needs from the post service
type PostUseCases interface {
	Feed(ctx context.Context, page helpers.Page) ([]models.Post, int64, error)
	ListAll(ctx context.Context, p *authz.Principal, page helpers.Page) ([]models.Post, int64, error)
	Get(ctx context.Context, id int64) (*models.Post, error)
	Create(ctx context.Context, p *authz.Principal, in *services.PostInput) (*models.Post, error)
	Edit(ctx context.Context, p *authz.Principal, id int64, in *services.PostInput) (*models.Post, error)
	Delete(ctx context.Context, p *authz.Principal, id int64) error
}

// ClubUseCases is what ClubController needs from the club service
type ClubUseCases interface {
	OwnClub(ctx context.Context, p *authz.Principal) (*models.Club, error)
	UpdateProfile(ctx context.Context, p *authz.Principal, in *services.ClubProfileInput) (*models.Club, error)
	PublicProfile(ctx context.Context, slug string, page helpers.Page) (*services.ClubProfile, error)
	ListPublic(ctx context.Context, sort models.ClubSort, page helpers.Page) ([]models.Club, int64, error)
	Search(ctx context.Context, query string) ([]models.Club, error)
	Dashboard(ctx context.Context, p *authz.Principal, page helpers.Page) (*services.ClubDashboard, error)
}

// MessageUseCases is what MessageController needs from the message service
type MessageUseCases interface {
	Send(ctx context.Context, p *authz.Principal, recipientSlug string, in *services.MessageInput) (*models.Message, error)
	Conversation(ctx context.Context, p *authz.Principal, partnerSlug string) (*services.Thread, error)
	MarkRead(ctx context.Context, p *authz.Principal, partnerID int64) (int64, error)
	ListConversations(ctx context.Context, p *authz.Principal) ([]services.ConversationSummary, error)
	Recipients(ctx context.Context, p *authz.Principal) ([]models.Club, error)
	UnreadCount(ctx context.Context, p *authz.Principal) (int64, error)
}

// FeedbackUseCases is what FeedbackController needs from the feedback service
type FeedbackUseCases interface {
	Submit(ctx context.Context, p *authz.Principal, in *services.FeedbackInput) (*models.Feedback, error)
	List(ctx context.Context, p *authz.Principal, page helpers.Page) ([]models.Feedback, int64, error)
	ListForClub(ctx context.Context, p *authz.Principal, page helpers.Page) ([]models.Feedback, int64, error)
	MarkRead(ctx context.Context, p *authz.Principal, id int64) error
	Delete(ctx context.Context, p *authz.Principal, id int64) error
}

// AdminUseCases is what AdminController needs from the admin service
type AdminUseCases interface {
	Dashboard(ctx context.Context, p *authz.Principal) (*services.AdminDashboard, error)
	PendingClubs(ctx context.Context, p *authz.Principal) ([]models.Club, error)
	Clubs(ctx context.Context, p *authz.Principal, status models.ClubStatus, search string, page helpers.Page) ([]models.Club, int64, error)
	Export(ctx context.Context, p *authz.Principal, status models.ClubStatus, search string, w io.Writer) error
	Approve(ctx context.Context, p *authz.Principal, accountID int64) (*models.Account, error)
	Reject(ctx context.Context, p *authz.Principal, accountID int64) (*models.Account, error)
	Delete(ctx context.Context, p *authz.Principal, accountID int64) error
	EditClub(ctx context.Context, p *authz.Principal, accountID int64, in *services.ClubProfileInput) (*models.Club, error)
}

// WeatherSource looks up current conditions
type WeatherSource interface {
	Fetch(ctx context.Context, city string) weather.Report
}

// idParam reads a positive integer path parameter. It writes a 400 response
// and returns false when the parameter is malformed.
func idParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		detail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid "+name).WithField(name)
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return 0, false
	}
	return id, true
}
