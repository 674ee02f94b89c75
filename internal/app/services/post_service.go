package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	authz "github.com/yigit/clubportal/internal/app/auth"
	"github.com/yigit/clubportal/internal/app/models"
	"github.com/yigit/clubportal/internal/pkg/apperrors"
	"github.com/yigit/clubportal/internal/pkg/filestorage"
	"github.com/yigit/clubportal/internal/pkg/helpers"
	"github.com/yigit/clubportal/internal/pkg/metrics"
)

// PostService handles the post lifecycle
type PostService struct {
	tx     Transactor
	posts  PostStore
	blobs  filestorage.BlobStore
	logger zerolog.Logger
}

// NewPostService creates a new PostService
func NewPostService(tx Transactor, posts PostStore, blobs filestorage.BlobStore, logger zerolog.Logger) *PostService {
	return &PostService{tx: tx, posts: posts, blobs: blobs, logger: logger}
}

// Feed lists posts by administrators and approved clubs, newest first
func (s *PostService) Feed(ctx context.Context, page helpers.Page) ([]models.Post, int64, error) {
	return s.posts.List(ctx, models.PostFilter{VisibleOnly: true, Limit: page.Limit(), Offset: page.Offset()})
}

// ListAll lists every post for administrators
func (s *PostService) ListAll(ctx context.Context, p *authz.Principal, page helpers.Page) ([]models.Post, int64, error) {
	if err := authz.RequireAdmin(p); err != nil {
		return nil, 0, err
	}
	return s.posts.List(ctx, models.PostFilter{Limit: page.Limit(), Offset: page.Offset()})
}

// Get returns a post by id
func (s *PostService) Get(ctx context.Context, id int64) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("post not found")
		}
		return nil, err
	}
	return post, nil
}

// Create publishes a post as the principal, who must be allowed to post
func (s *PostService) Create(ctx context.Context, p *authz.Principal, in *PostInput) (*models.Post, error) {
	if err := authz.RequireCanPost(p); err != nil {
		return nil, err
	}
	in.IsEdit = false
	if err := in.Validate(0); err != nil {
		return nil, err
	}

	refs, err := saveUploads(ctx, s.blobs, in.Images, filestorage.CategoryPostImage, s.logger)
	if err != nil {
		return nil, err
	}

	post := &models.Post{AccountID: p.AccountID(), Author: p.Account}
	in.ApplyTo(post, refs)
	if err := s.posts.Create(ctx, post); err != nil {
		deleteBlobs(ctx, s.blobs, refs, s.logger)
		return nil, fmt.Errorf("error creating post: %w", err)
	}

	metrics.PostsPublished.Inc()
	s.logger.Info().Int64("postID", post.ID).Int64("accountID", post.AccountID).Int("images", len(refs)).Msg("Post created")
	return post, nil
}

// Edit updates title and content and appends any uploaded images
func (s *PostService) Edit(ctx context.Context, p *authz.Principal, id int64, in *PostInput) (*models.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.CanEditPost(p, post); err != nil {
		return nil, err
	}
	in.IsEdit = true
	if err := in.Validate(len(post.Images)); err != nil {
		return nil, err
	}

	refs, err := saveUploads(ctx, s.blobs, in.Images, filestorage.CategoryPostImage, s.logger)
	if err != nil {
		return nil, err
	}

	in.ApplyTo(post, refs)
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.posts.Update(ctx, post); err != nil {
			return err
		}
		return s.posts.AppendImages(ctx, post.ID, refs)
	})
	if err != nil {
		deleteBlobs(ctx, s.blobs, refs, s.logger)
		return nil, fmt.Errorf("error updating post: %w", err)
	}

	s.logger.Info().Int64("postID", post.ID).Int64("editorID", p.AccountID()).Int("newImages", len(refs)).Msg("Post updated")
	return post, nil
}

// Delete removes the post, then its images best-effort
func (s *PostService) Delete(ctx context.Context, p *authz.Principal, id int64) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.CanEditPost(p, post); err != nil {
		return err
	}

	if err := s.posts.Delete(ctx, post.ID); err != nil {
		return fmt.Errorf("error deleting post: %w", err)
	}
	deleteBlobs(ctx, s.blobs, post.Images, s.logger)

	s.logger.Info().Int64("postID", post.ID).Int64("deletedBy", p.AccountID()).Msg("Post deleted")
	return nil
}
