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

// PostController serves the public feed and post management for clubs and admins
type PostController struct {
	postService PostUseCases
	logger      zerolog.Logger
}

// NewPostController creates a new PostController
func NewPostController(postService PostUseCases, logger zerolog.Logger) *PostController {
	return &PostController{postService: postService, logger: logger}
}

// Feed lists posts of approved clubs and administrators
// @Summary Public feed
// @Description Posts by approved clubs and administrators, newest first
// @Tags posts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Success 200 {object} dto.APIResponse{data=dto.PostListResponse}
// @Router /posts [get]
func (c *PostController) Feed(ctx *gin.Context) {
	page := helpers.PageFromQuery(ctx, helpers.PostsPerPage)
	posts, total, err := c.postService.Feed(ctx.Request.Context(), page)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.respondList(ctx, posts, total, page)
}

// ListAll lists every post for administrators
// @Summary All posts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Success 200 {object} dto.APIResponse{data=dto.PostListResponse}
// @Failure 403 {object} dto.APIResponse "Administrators only"
// @Router /admin/posts [get]
func (c *PostController) ListAll(ctx *gin.Context) {
	page := helpers.PageFromQuery(ctx, helpers.PostsPerPage)
	posts, total, err := c.postService.ListAll(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), page)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.respondList(ctx, posts, total, page)
}

func (c *PostController) respondList(ctx *gin.Context, posts []models.Post, total int64, page helpers.Page) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PostListResponse{
		Posts:      dto.NewPostResponses(posts),
		Pagination: dto.NewPaginationInfo(total, page.Number, page.Size),
	}, ""))
}

// Get returns one post
// @Summary Get post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.PostResponse}
// @Failure 404 {object} dto.APIResponse "Post not found"
// @Router /posts/{id} [get]
func (c *PostController) Get(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	post, err := c.postService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewPostResponse(post), ""))
}

// Create publishes a post
// @Summary Create post
// @Description Approved clubs and administrators can publish posts with up to 10 images
// @Tags posts
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param content formData string true "Content"
// @Param images formData file false "Images (repeatable)"
// @Success 201 {object} dto.APIResponse{data=dto.PostResponse}
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Failure 403 {object} dto.APIResponse "Not allowed to post"
// @Router /club/posts [post]
// @Router /admin/posts [post]
func (c *PostController) Create(ctx *gin.Context) {
	var req services.PostInput
	if !middleware.BindRequest(ctx, &req) {
		return
	}

	post, err := c.postService.Create(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewPostResponse(post), "Post published"))
}

// Edit updates a post; uploaded images are appended
// @Summary Edit post
// @Description Owners and administrators can edit a post. New images are appended to the existing ones.
// @Tags posts
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param title formData string true "Title"
// @Param content formData string true "Content"
// @Param images formData file false "Additional images (repeatable)"
// @Success 200 {object} dto.APIResponse{data=dto.PostResponse}
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Failure 403 {object} dto.APIResponse "Not the owner"
// @Failure 404 {object} dto.APIResponse "Post not found"
// @Router /club/posts/{id} [put]
// @Router /admin/posts/{id} [put]
func (c *PostController) Edit(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req services.PostInput
	if !middleware.BindRequest(ctx, &req) {
		return
	}

	post, err := c.postService.Edit(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewPostResponse(post), "Post updated"))
}

// Delete removes a post and its images
// @Summary Delete post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse "Post deleted"
// @Failure 403 {object} dto.APIResponse "Not the owner"
// @Failure 404 {object} dto.APIResponse "Post not found"
// @Router /club/posts/{id} [delete]
// @Router /admin/posts/{id} [delete]
func (c *PostController) Delete(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.postService.Delete(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Post deleted"))
}
