package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	authz "github.com/yigit/clubportal/internal/app/auth"
	"github.com/yigit/clubportal/internal/app/models"
	"github.com/yigit/clubportal/internal/pkg/apperrors"
	"github.com/yigit/clubportal/internal/pkg/export"
	"github.com/yigit/clubportal/internal/pkg/filestorage"
	"github.com/yigit/clubportal/internal/pkg/helpers"
	"github.com/yigit/clubportal/internal/pkg/metrics"
)

// ErrNotClubAccount is returned when a club operation targets an administrator
var ErrNotClubAccount = apperrors.NewValidationError("account", "account is not a club")

// AdminDashboard holds the administrator overview
type AdminDashboard struct {
	TotalClubs          int64
	PendingClubs        int64
	ApprovedClubs       int64
	TotalPosts          int64
	RecentPosts         []models.Post
	PendingApplications []models.Club
}

// AdminService handles club moderation and the administrator dashboard
type AdminService struct {
	tx              Transactor
	accounts        AccountStore
	clubs           ClubStore
	posts           PostStore
	messages        MessageStore
	blobs           filestorage.BlobStore
	cascadeMessages bool
	logger          zerolog.Logger
}

// NewAdminService creates a new AdminService. With cascadeMessages set, deleting
// an account also deletes its messages; otherwise they are kept without the party.
func NewAdminService(
	tx Transactor,
	accounts AccountStore,
	clubs ClubStore,
	posts PostStore,
	messages MessageStore,
	blobs filestorage.BlobStore,
	cascadeMessages bool,
	logger zerolog.Logger,
) *AdminService {
	return &AdminService{
		tx:              tx,
		accounts:        accounts,
		clubs:           clubs,
		posts:           posts,
		messages:        messages,
		blobs:           blobs,
		cascadeMessages: cascadeMessages,
		logger:          logger,
	}
}

// Dashboard gathers club and post statistics
func (s *AdminService) Dashboard(ctx context.Context, p *authz.Principal) (*AdminDashboard, error) {
	if err := authz.RequireAdmin(p); err != nil {
		return nil, err
	}

	approved, pending := true, false
	d := &AdminDashboard{}
	var err error
	if d.TotalClubs, err = s.accounts.CountClubs(ctx, nil); err != nil {
		return nil, err
	}
	if d.ApprovedClubs, err = s.accounts.CountClubs(ctx, &approved); err != nil {
		return nil, err
	}
	if d.PendingClubs, err = s.accounts.CountClubs(ctx, &pending); err != nil {
		return nil, err
	}
	if d.TotalPosts, err = s.posts.Count(ctx); err != nil {
		return nil, err
	}
	if d.RecentPosts, _, err = s.posts.List(ctx, models.PostFilter{Limit: helpers.RecentLimit}); err != nil {
		return nil, err
	}
	d.PendingApplications, _, err = s.clubs.List(ctx, models.ClubFilter{
		Status: models.ClubStatusPending,
		Sort:   models.ClubSortNewest,
		Limit:  helpers.RecentLimit,
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// PendingClubs lists clubs awaiting approval, newest application first
func (s *AdminService) PendingClubs(ctx context.Context, p *authz.Principal) ([]models.Club, error) {
	if err := authz.RequireAdmin(p); err != nil {
		return nil, err
	}
	clubs, _, err := s.clubs.List(ctx, models.ClubFilter{Status: models.ClubStatusPending, Sort: models.ClubSortNewest})
	return clubs, err
}

// Clubs lists clubs by status and name search, newest first
func (s *AdminService) Clubs(ctx context.Context, p *authz.Principal, status models.ClubStatus, search string, page helpers.Page) ([]models.Club, int64, error) {
	if err := authz.RequireAdmin(p); err != nil {
		return nil, 0, err
	}
	return s.clubs.List(ctx, models.ClubFilter{
		Status: status,
		Search: search,
		Sort:   models.ClubSortNewest,
		Limit:  page.Limit(),
		Offset: page.Offset(),
	})
}

// Export writes the filtered clubs, ordered by name, and their posts as a spreadsheet
func (s *AdminService) Export(ctx context.Context, p *authz.Principal, status models.ClubStatus, search string, w io.Writer) error {
	if err := authz.RequireAdmin(p); err != nil {
		return err
	}

	clubs, _, err := s.clubs.List(ctx, models.ClubFilter{Status: status, Search: search, Sort: models.ClubSortName})
	if err != nil {
		return err
	}

	posts := []models.Post{}
	if len(clubs) > 0 {
		ids := make([]int64, 0, len(clubs))
		for _, club := range clubs {
			ids = append(ids, club.AccountID)
		}
		if posts, _, err = s.posts.List(ctx, models.PostFilter{AccountIDs: ids}); err != nil {
			return err
		}
	}

	if err := export.WriteClubs(w, clubs, posts); err != nil {
		return fmt.Errorf("error writing export: %w", err)
	}
	s.logger.Info().Int("clubs", len(clubs)).Int("posts", len(posts)).Msg("Club export generated")
	return nil
}

// clubAccount loads a club account, refusing administrator accounts
func (s *AdminService) clubAccount(ctx context.Context, accountID int64) (*models.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("club account not found")
		}
		return nil, err
	}
	if !account.IsClub() {
		return nil, ErrNotClubAccount
	}
	return account, nil
}

// Approve lets the club log in and publish
func (s *AdminService) Approve(ctx context.Context, p *authz.Principal, accountID int64) (*models.Account, error) {
	return s.setApproved(ctx, p, accountID, true, "approve")
}

// Reject withdraws approval without deleting anything
func (s *AdminService) Reject(ctx context.Context, p *authz.Principal, accountID int64) (*models.Account, error) {
	return s.setApproved(ctx, p, accountID, false, "reject")
}

func (s *AdminService) setApproved(ctx context.Context, p *authz.Principal, accountID int64, approved bool, decision string) (*models.Account, error) {
	if err := authz.RequireAdmin(p); err != nil {
		return nil, err
	}
	account, err := s.clubAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.SetApproved(ctx, account.ID, approved); err != nil {
		return nil, err
	}
	account.IsApproved = approved

	metrics.ClubDecisions.WithLabelValues(decision).Inc()
	s.logger.Info().Int64("accountID", account.ID).Str("decision", decision).Int64("adminID", p.AccountID()).Msg("Club decision recorded")
	return account, nil
}

// Delete removes a club account with its club, posts and the club's feedback.
// Messages follow the configured policy. Logo and post images are deleted
// best-effort once the records are gone.
func (s *AdminService) Delete(ctx context.Context, p *authz.Principal, accountID int64) error {
	if err := authz.RequireAdmin(p); err != nil {
		return err
	}
	account, err := s.clubAccount(ctx, accountID)
	if err != nil {
		return err
	}

	imageRefs, err := s.posts.ImageRefsByAccount(ctx, account.ID)
	if err != nil {
		return err
	}
	blobRefs := append(clubLogoRefs(account.Club), imageRefs...)

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if s.cascadeMessages {
			if _, err := s.messages.DeleteInvolving(ctx, account.ID); err != nil {
				return err
			}
		}
		return s.accounts.Delete(ctx, account.ID)
	})
	if err != nil {
		return fmt.Errorf("error deleting club account: %w", err)
	}

	deleteBlobs(ctx, s.blobs, blobRefs, s.logger)
	metrics.ClubDecisions.WithLabelValues("delete").Inc()
	s.logger.Info().Int64("accountID", account.ID).Int("blobs", len(blobRefs)).Bool("cascadeMessages", s.cascadeMessages).Msg("Club account deleted")
	return nil
}

// EditClub updates any club's profile. The slug is regenerated on every edit.
func (s *AdminService) EditClub(ctx context.Context, p *authz.Principal, accountID int64, in *ClubProfileInput) (*models.Club, error) {
	if err := authz.RequireAdmin(p); err != nil {
		return nil, err
	}
	account, err := s.clubAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Club == nil {
		return nil, apperrors.NewResourceNotFoundError("club profile not found")
	}
	if err := in.Validate(true); err != nil {
		return nil, err
	}
	return applyClubEdit(ctx, s.accounts, s.clubs, s.blobs, s.logger, account.Club, in, true)
}
