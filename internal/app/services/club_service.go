package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"
	authz "github.com/yigit/clubportal/internal/app/auth"
	"github.com/yigit/clubportal/internal/app/models"
	"github.com/yigit/clubportal/internal/pkg/apperrors"
	"github.com/yigit/clubportal/internal/pkg/filestorage"
	"github.com/yigit/clubportal/internal/pkg/helpers"
)

// ClubProfile is a public club page
type ClubProfile struct {
	Club       *models.Club
	Posts      []models.Post
	TotalPosts int64
}

// ClubDashboard is the landing page of a club account
type ClubDashboard struct {
	Club           *models.Club
	Posts          []models.Post
	TotalPosts     int64
	RecentFeedback []models.Feedback
	FeedbackCount  int64
	UnreadMessages int64
}

// ClubService handles club profiles, listings and the club dashboard
type ClubService struct {
	accounts AccountStore
	clubs    ClubStore
	posts    PostStore
	feedback FeedbackStore
	messages MessageStore
	blobs    filestorage.BlobStore
	logger   zerolog.Logger
}

// NewClubService creates a new ClubService
func NewClubService(accounts AccountStore, clubs ClubStore, posts PostStore, feedback FeedbackStore, messages MessageStore, blobs filestorage.BlobStore, logger zerolog.Logger) *ClubService {
	return &ClubService{
		accounts: accounts,
		clubs:    clubs,
		posts:    posts,
		feedback: feedback,
		messages: messages,
		blobs:    blobs,
		logger:   logger,
	}
}

// OwnClub returns the club of an approved club principal
func (s *ClubService) OwnClub(ctx context.Context, p *authz.Principal) (*models.Club, error) {
	if err := authz.RequireApprovedClub(p); err != nil {
		return nil, err
	}
	club, err := s.clubs.GetByAccountID(ctx, p.AccountID())
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("club profile not found")
		}
		return nil, err
	}
	return club, nil
}

// UpdateProfile edits the principal's own club. The slug follows a name change;
// a new logo replaces the old one, which is then deleted.
func (s *ClubService) UpdateProfile(ctx context.Context, p *authz.Principal, in *ClubProfileInput) (*models.Club, error) {
	club, err := s.OwnClub(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(false); err != nil {
		return nil, err
	}
	return applyClubEdit(ctx, s.accounts, s.clubs, s.blobs, s.logger, club, in, false)
}

// applyClubEdit writes in onto club. Admin edits regenerate the slug every
// time; self edits only when the name changed.
func applyClubEdit(ctx context.Context, accounts AccountStore, clubs ClubStore, blobs filestorage.BlobStore, log zerolog.Logger, club *models.Club, in *ClubProfileInput, adminEdit bool) (*models.Club, error) {
	name := strings.TrimSpace(in.Name)
	err := checkClubName(ctx, accounts, clubs, club, name)
	if err != nil {
		return nil, err
	}

	var newLogo []string
	if in.Logo != nil {
		newLogo, err = saveUploads(ctx, blobs, []*multipart.FileHeader{in.Logo}, filestorage.CategoryClubLogo, log)
		if err != nil {
			return nil, err
		}
	}

	oldLogo := clubLogoRefs(club)
	regenerate := adminEdit || name != club.Name

	updated := *club
	updated.Name = name
	in.ApplyTo(&updated)
	if len(newLogo) > 0 {
		updated.Logo = &newLogo[0]
	}

	err = saveClubWithSlug(ctx, clubs, &updated, regenerate, func(ctx context.Context) error {
		return clubs.Update(ctx, &updated)
	})
	if err != nil {
		deleteBlobs(ctx, blobs, newLogo, log)
		return nil, err
	}

	if len(newLogo) > 0 {
		deleteBlobs(ctx, blobs, oldLogo, log)
	}
	log.Info().Int64("clubID", updated.ID).Str("slug", updated.Slug).Bool("adminEdit", adminEdit).Msg("Club profile updated")
	return &updated, nil
}

// checkClubName rejects a name used by another club or, on a rename, by
// another account's login, matching the rules applied at registration.
func checkClubName(ctx context.Context, accounts AccountStore, clubs ClubStore, club *models.Club, name string) error {
	taken, err := clubs.NameTaken(ctx, name, club.ID)
	if err != nil {
		return fmt.Errorf("error checking club name: %w", err)
	}
	if taken {
		return apperrors.ErrDuplicateClubName
	}
	if name == club.Name {
		return nil
	}

	owner, err := accounts.GetByUsername(ctx, name)
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("error checking username: %w", err)
	case owner.ID != club.AccountID:
		return apperrors.ErrDuplicateClubName
	}
	return nil
}

// PublicProfile returns an approved club by slug with one page of its posts
func (s *ClubService) PublicProfile(ctx context.Context, slug string, page helpers.Page) (*ClubProfile, error) {
	club, err := s.clubs.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("club not found")
		}
		return nil, err
	}
	if !club.IsApproved {
		return nil, apperrors.NewResourceNotFoundError("club not found")
	}

	posts, total, err := s.posts.List(ctx, models.PostFilter{
		AccountIDs: []int64{club.AccountID},
		Limit:      page.Limit(),
		Offset:     page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	return &ClubProfile{Club: club, Posts: posts, TotalPosts: total}, nil
}

// ListPublic lists approved clubs
func (s *ClubService) ListPublic(ctx context.Context, sort models.ClubSort, page helpers.Page) ([]models.Club, int64, error) {
	return s.clubs.List(ctx, models.ClubFilter{
		Status: models.ClubStatusApproved,
		Sort:   sort,
		Limit:  page.Limit(),
		Offset: page.Offset(),
	})
}

// Search finds approved clubs by name. A blank query finds nothing.
func (s *ClubService) Search(ctx context.Context, query string) ([]models.Club, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Club{}, nil
	}
	return s.clubs.Search(ctx, query, helpers.SearchLimit)
}

// Dashboard assembles the club landing page
func (s *ClubService) Dashboard(ctx context.Context, p *authz.Principal, page helpers.Page) (*ClubDashboard, error) {
	club, err := s.OwnClub(ctx, p)
	if err != nil {
		return nil, err
	}

	posts, totalPosts, err := s.posts.List(ctx, models.PostFilter{
		AccountIDs: []int64{club.AccountID},
		Limit:      page.Limit(),
		Offset:     page.Offset(),
	})
	if err != nil {
		return nil, err
	}

	feedback, feedbackCount, err := s.feedback.List(ctx, models.FeedbackFilter{ClubID: &club.ID, Limit: helpers.RecentLimit})
	if err != nil {
		return nil, err
	}

	unread, err := s.messages.CountUnread(ctx, p.AccountID())
	if err != nil {
		return nil, err
	}

	return &ClubDashboard{
		Club:           club,
		Posts:          posts,
		TotalPosts:     totalPosts,
		RecentFeedback: feedback,
		FeedbackCount:  feedbackCount,
		UnreadMessages: unread,
	}, nil
}
