package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	authz "github.com/yigit/clubportal/internal/app/auth"
	"github.com/yigit/clubportal/internal/app/models"
	"github.com/yigit/clubportal/internal/app/models/dto"
	"github.com/yigit/clubportal/internal/app/services"
	"github.com/yigit/clubportal/internal/middleware"
	"github.com/yigit/clubportal/internal/pkg/apperrors"
	"github.com/yigit/clubportal/internal/pkg/auth"
	"github.com/yigit/clubportal/internal/pkg/helpers"
	"github.com/yigit/clubportal/internal/pkg/logger"
	"github.com/yigit/clubportal/internal/pkg/weather"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	adminAccount = &models.Account{ID: 1, Username: "admin", AccountType: models.AccountAdmin, IsApproved: true}
	clubAccount  = &models.Account{
		ID: 2, Username: "Chess Club", AccountType: models.AccountClub, IsApproved: true,
		Club: &models.Club{ID: 7, AccountID: 2, Name: "Chess Club", Slug: "chess-club"},
	}
)

// withPrincipal mounts h behind a middleware that attaches account
func withPrincipal(method, path string, account *models.Account, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Handle(method, path, func(c *gin.Context) {
		if account != nil {
			middleware.SetPrincipal(c, &authz.Principal{Account: account})
		}
		c.Next()
	}, h)
	return r
}

func serve(r http.Handler, req *http.Request) (*httptest.ResponseRecorder, dto.APIResponse) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body dto.APIResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

// dataAs re-decodes the envelope data into out
func dataAs(t *testing.T, body dto.APIResponse, out any) {
	t.Helper()
	raw, err := json.Marshal(body.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

type stubAuth struct {
	registered *services.ClubRegistration
	loggedOut  *authz.Principal
	authErr    error
}

func (s *stubAuth) RegisterClub(_ context.Context, in *services.ClubRegistration) (*models.Account, error) {
	s.registered = in
	if in.Name == "" {
		return nil, apperrors.NewValidationError("name", "name is required")
	}
	return &models.Account{ID: 9, Username: in.Name, Email: in.Email, AccountType: models.AccountClub}, nil
}

func (s *stubAuth) Authenticate(_ context.Context, username, password string) (*services.LoginResult, error) {
	if s.authErr != nil {
		return nil, s.authErr
	}
	if username != "admin" || password != "adminpass" {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &services.LoginResult{
		Account:   adminAccount,
		Token:     &auth.IssuedToken{Token: "signed.jwt.token", ID: "jti", ExpiresAt: time.Now().Add(time.Hour)},
		Dashboard: adminAccount.DashboardPath(),
	}, nil
}

func (s *stubAuth) Logout(_ context.Context, p *authz.Principal) error {
	s.loggedOut = p
	return authz.RequireAuthenticated(p)
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAuthController_Login(t *testing.T) {
	ctrl := NewAuthController(&stubAuth{}, logger.Get())
	r := gin.New()
	r.POST("/login", ctrl.Login)

	w, body := serve(r, jsonRequest(http.MethodPost, "/login", `{"username":"admin","password":"adminpass"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/admin/dashboard", body.Redirect)

	var login dto.LoginResponse
	dataAs(t, body, &login)
	assert.Equal(t, "signed.jwt.token", login.Token.AccessToken)
	assert.Equal(t, "Bearer", login.Token.TokenType)
	assert.Equal(t, "admin", login.Account.AccountType)

	w, body = serve(r, jsonRequest(http.MethodPost, "/login", `{"username":"admin","password":"wrong"}`))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeInvalidCredentials, body.Error.Code)

	w, _ = serve(r, jsonRequest(http.MethodPost, "/login", `{"username":"admin"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthController_LoginPendingClub(t *testing.T) {
	ctrl := NewAuthController(&stubAuth{authErr: apperrors.ErrAccountNotApproved}, logger.Get())
	r := gin.New()
	r.POST("/login", ctrl.Login)

	w, body := serve(r, jsonRequest(http.MethodPost, "/login", `{"username":"Pending","password":"secret1"}`))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrorCodeNotApproved, body.Error.Code)
}

func TestAuthController_RegisterMultipart(t *testing.T) {
	stub := &stubAuth{}
	ctrl := NewAuthController(stub, logger.Get())
	r := gin.New()
	r.POST("/register", ctrl.Register)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := map[string]string{
		"name":             "Robotics Society",
		"email":            "robotics@uni.edu",
		"password":         "secret1",
		"confirm_password": "secret1",
		"about":            "We build robots every single week.",
		"location":         "Lab 4",
		"member_count":     "30",
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("logo", "logo.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("\x89PNG"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/register", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w, body := serve(r, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, middleware.LoginPath, body.Redirect)
	require.NotNil(t, stub.registered)
	assert.Equal(t, "Robotics Society", stub.registered.Name)
	assert.Equal(t, "30", stub.registered.MemberCount)
	assert.Equal(t, "secret1", stub.registered.ConfirmPassword)
	require.NotNil(t, stub.registered.Logo)
	assert.Equal(t, "logo.png", stub.registered.Logo.Filename)
}

func TestAuthController_LogoutAndMe(t *testing.T) {
	stub := &stubAuth{}
	ctrl := NewAuthController(stub, logger.Get())

	w, _ := serve(withPrincipal(http.MethodPost, "/logout", clubAccount, ctrl.Logout), httptest.NewRequest(http.MethodPost, "/logout", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, stub.loggedOut)
	assert.Equal(t, int64(2), stub.loggedOut.AccountID())

	w, body := serve(withPrincipal(http.MethodGet, "/me", clubAccount, ctrl.Me), httptest.NewRequest(http.MethodGet, "/me", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var me dto.AccountResponse
	dataAs(t, body, &me)
	assert.Equal(t, "Chess Club", me.DisplayName)
	require.NotNil(t, me.Club)
	assert.Equal(t, "chess-club", me.Club.Slug)

	w, body = serve(withPrincipal(http.MethodGet, "/me", nil, ctrl.Me), httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, middleware.LoginPath, body.Redirect)
}

type stubPosts struct {
	PostUseCases
	lastPage helpers.Page
	edited   int64
}

func (s *stubPosts) Feed(_ context.Context, page helpers.Page) ([]models.Post, int64, error) {
	s.lastPage = page
	logo := "club_logos/chess.png"
	return []models.Post{{
		ID: 3, AccountID: 2, Title: "Spring tournament", Content: "Join us on Friday",
		Images: []string{"post_images/a.png"},
		Author: &models.Account{ID: 2, AccountType: models.AccountClub, Club: &models.Club{Name: "Chess Club", Slug: "chess-club", Logo: &logo}},
	}}, 23, nil
}

func (s *stubPosts) Edit(_ context.Context, p *authz.Principal, id int64, _ *services.PostInput) (*models.Post, error) {
	s.edited = id
	if p.AccountID() != 2 {
		return nil, authz.ErrNotPostOwner
	}
	return &models.Post{ID: id, AccountID: 2, Author: clubAccount}, nil
}

func TestPostController_FeedPagination(t *testing.T) {
	stub := &stubPosts{}
	ctrl := NewPostController(stub, logger.Get())
	r := gin.New()
	r.GET("/posts", ctrl.Feed)

	w, body := serve(r, httptest.NewRequest(http.MethodGet, "/posts?page=3", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, stub.lastPage.Number)
	assert.Equal(t, helpers.PostsPerPage, stub.lastPage.Size)

	var list dto.PostListResponse
	dataAs(t, body, &list)
	require.Len(t, list.Posts, 1)
	assert.Equal(t, []string{"/uploads/post_images/a.png"}, list.Posts[0].Images)
	assert.Equal(t, "/uploads/club_logos/chess.png", list.Posts[0].AuthorLogoURL)
	assert.Equal(t, "Chess Club", list.Posts[0].AuthorName)
	assert.Equal(t, 3, list.Pagination.TotalPages)

	// garbage page numbers fall back to the first page
	_, _ = serve(r, httptest.NewRequest(http.MethodGet, "/posts?page=abc", nil))
	assert.Equal(t, 1, stub.lastPage.Number)
}

func TestPostController_Edit(t *testing.T) {
	stub := &stubPosts{}
	ctrl := NewPostController(stub, logger.Get())

	form := "title=Updated+title&content=Updated+content+here"
	newReq := func(path string) *http.Request {
		req := httptest.NewRequest(http.MethodPut, path, bytes.NewBufferString(form))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req
	}

	w, _ := serve(withPrincipal(http.MethodPut, "/posts/:id", clubAccount, ctrl.Edit), newReq("/posts/12"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(12), stub.edited)

	w, body := serve(withPrincipal(http.MethodPut, "/posts/:id", &models.Account{ID: 5, AccountType: models.AccountClub, IsApproved: true}, ctrl.Edit), newReq("/posts/12"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, authz.ErrNotPostOwner.Message, body.Error.Message)

	w, _ = serve(withPrincipal(http.MethodPut, "/posts/:id", clubAccount, ctrl.Edit), newReq("/posts/zero"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type stubMessages struct {
	MessageUseCases
}

func (stubMessages) ListConversations(_ context.Context, _ *authz.Principal) ([]services.ConversationSummary, error) {
	sender, recipient := int64(2), int64(4)
	return []services.ConversationSummary{
		{
			Conversation: models.Conversation{
				PartnerID:   4,
				LastMessage: models.Message{ID: 8, SenderID: &sender, RecipientID: &recipient, Content: "hello"},
			},
			Partner: &models.Account{ID: 4, AccountType: models.AccountClub, Club: &models.Club{Name: "Go Club", Slug: "go-club"}},
		},
		{
			Conversation: models.Conversation{
				PartnerID:   6,
				LastMessage: models.Message{ID: 5, SenderID: &recipient, Content: "old"},
				UnreadCount: 1,
			},
		},
	}, nil
}

func TestMessageController_Inbox(t *testing.T) {
	ctrl := NewMessageController(stubMessages{}, logger.Get())
	w, body := serve(withPrincipal(http.MethodGet, "/messages", clubAccount, ctrl.Inbox), httptest.NewRequest(http.MethodGet, "/messages", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var inbox []dto.ConversationResponse
	dataAs(t, body, &inbox)
	require.Len(t, inbox, 2)
	assert.Equal(t, "Go Club", inbox[0].PartnerName)
	assert.Equal(t, "go-club", inbox[0].PartnerSlug)
	assert.True(t, inbox[0].LastMessage.IsMine)
	assert.Equal(t, models.DeletedAccountName, inbox[1].PartnerName)
	assert.Equal(t, 1, inbox[1].UnreadCount)
}

type stubAdmin struct {
	AdminUseCases
	exportErr error
}

func (s stubAdmin) Export(_ context.Context, p *authz.Principal, _ models.ClubStatus, _ string, w io.Writer) error {
	if err := authz.RequireAdmin(p); err != nil {
		return err
	}
	if s.exportErr != nil {
		return s.exportErr
	}
	_, err := w.Write([]byte("PK\x03\x04"))
	return err
}

func (stubAdmin) Approve(_ context.Context, _ *authz.Principal, accountID int64) (*models.Account, error) {
	if accountID == 1 {
		return nil, services.ErrNotClubAccount
	}
	return &models.Account{ID: accountID, Username: "Chess Club", IsApproved: true}, nil
}

func TestAdminController_Export(t *testing.T) {
	ctrl := NewAdminController(stubAdmin{}, logger.Get())
	w := httptest.NewRecorder()
	withPrincipal(http.MethodGet, "/export", adminAccount, ctrl.Export).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=\"clubs-")
	assert.Equal(t, "PK\x03\x04", w.Body.String())

	ctrl = NewAdminController(stubAdmin{exportErr: errors.New("disk")}, logger.Get())
	w, body := serve(withPrincipal(http.MethodGet, "/export", adminAccount, ctrl.Export), httptest.NewRequest(http.MethodGet, "/export", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, body.Success)
}

func TestAdminController_Approve(t *testing.T) {
	ctrl := NewAdminController(stubAdmin{}, logger.Get())
	r := withPrincipal(http.MethodPost, "/clubs/:id/approve", adminAccount, ctrl.Approve)

	w, body := serve(r, httptest.NewRequest(http.MethodPost, "/clubs/2/approve", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var decision dto.ClubDecisionResponse
	dataAs(t, body, &decision)
	assert.True(t, decision.IsApproved)
	assert.Equal(t, int64(2), decision.AccountID)

	w, body = serve(r, httptest.NewRequest(http.MethodPost, "/clubs/1/approve", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body.Error.Fields, "account")
}

type stubWeather struct{ asked string }

func (s *stubWeather) Fetch(_ context.Context, city string) weather.Report {
	s.asked = city
	return weather.Report{City: city, Error: weather.UnavailableMessage}
}

func TestWeatherController_DegradedIsStillOK(t *testing.T) {
	src := &stubWeather{}
	ctrl := NewWeatherController(src, "Trabzon")
	r := gin.New()
	r.GET("/weather", ctrl.Current)

	w, body := serve(r, httptest.NewRequest(http.MethodGet, "/weather", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Trabzon", src.asked)

	var report weather.Report
	dataAs(t, body, &report)
	assert.True(t, report.Degraded())

	_, _ = serve(r, httptest.NewRequest(http.MethodGet, "/weather?city=Rize", nil))
	assert.Equal(t, "Rize", src.asked)
}

func TestHealthController(t *testing.T) {
	healthy := NewHealthController(map[string]Pinger{
		"database": func(context.Context) error { return nil },
		"redis":    nil,
	})
	r := gin.New()
	r.GET("/health", healthy.Health)
	w, body := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"database": "up"}, body.Data)

	failing := NewHealthController(map[string]Pinger{
		"database": func(context.Context) error { return errors.New("connection refused") },
	})
	r = gin.New()
	r.GET("/health", failing.Health)
	w, body = serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, dto.ErrorCodeExternalServiceError, body.Error.Code)
}
