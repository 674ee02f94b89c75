package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/clubportal/internal/app/models/dto"
	"github.com/yigit/clubportal/internal/app/services"
	"github.com/yigit/clubportal/internal/middleware"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService AuthUseCases
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService AuthUseCases, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Register handles club registration
// @Summary Register a club
// @Description Creates an unapproved club account with its profile. The club name is the login username. An administrator must approve the club before it can log in.
// @Tags auth
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Club name"
// @Param email formData string true "Contact email"
// @Param password formData string true "Password"
// @Param confirm_password formData string true "Password confirmation"
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
// @Success 201 {object} dto.APIResponse{data=dto.AccountResponse} "Registration received"
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Failure 409 {object} dto.APIResponse "Name or email already in use"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req services.ClubRegistration
	if !middleware.BindRequest(ctx, &req) {
		return
	}

	account, err := c.authService.RegisterClub(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("name", req.Name).Msg("Club registration rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.NewSuccessResponse(dto.NewAccountResponse(account),
		"Registration received. You can log in once an administrator approves your club.")
	ctx.JSON(http.StatusCreated, resp.WithRedirect(middleware.LoginPath))
}

// Login handles login
// @Summary Log in
// @Description Authenticates an administrator or an approved club and returns an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Login successful"
// @Failure 400 {object} dto.APIResponse "Invalid request format"
// @Failure 401 {object} dto.APIResponse "Invalid credentials"
// @Failure 403 {object} dto.APIResponse "Club not approved yet"
// @Failure 429 {object} dto.APIResponse "Too many attempts"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindRequest(ctx, &req) {
		return
	}

	result, err := c.authService.Authenticate(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	data := dto.LoginResponse{
		Token:     dto.NewTokenResponse(result.Token.Token, result.Token.ExpiresAt),
		Account:   dto.NewAccountResponse(result.Account),
		Dashboard: result.Dashboard,
	}
	resp := dto.NewSuccessResponse(data, "Welcome, "+result.Account.DisplayName()+"!")
	ctx.JSON(http.StatusOK, resp.WithRedirect(result.Dashboard))
}

// Logout revokes the current token
// @Summary Log out
// @Description Revokes the access token used for this request
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Logged out"
// @Failure 401 {object} dto.APIResponse "Authentication required"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	if err := c.authService.Logout(ctx.Request.Context(), middleware.CurrentPrincipal(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "You have been logged out").WithRedirect("/"))
}

// Me returns the signed-in account
// @Summary Current account
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AccountResponse}
// @Failure 401 {object} dto.APIResponse "Authentication required"
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	p := middleware.CurrentPrincipal(ctx)
	if !p.IsAuthenticated() {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")).WithRedirect(middleware.LoginPath))
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewAccountResponse(p.Account), ""))
}
