package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	authz "github.com/yigit/clubportal/internal/app/auth"
	"github.com/yigit/clubportal/internal/app/models"
	"github.com/yigit/clubportal/internal/pkg/apperrors"
	"github.com/yigit/clubportal/internal/pkg/helpers"
	"github.com/yigit/clubportal/internal/pkg/metrics"
)

// ErrFeedbackNotSaved is the generic notice shown when a submission rolled back
var ErrFeedbackNotSaved = errors.New("your feedback could not be submitted, please try again")

// FeedbackService handles feedback addressed to clubs
type FeedbackService struct {
	tx       Transactor
	feedback FeedbackStore
	clubs    ClubStore
	logger   zerolog.Logger
}

// NewFeedbackService creates a new FeedbackService
func NewFeedbackService(tx Transactor, feedback FeedbackStore, clubs ClubStore, logger zerolog.Logger) *FeedbackService {
	return &FeedbackService{tx: tx, feedback: feedback, clubs: clubs, logger: logger}
}

// Submit stores feedback from the principal to an approved club
func (s *FeedbackService) Submit(ctx context.Context, p *authz.Principal, in *FeedbackInput) (*models.Feedback, error) {
	if err := authz.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if verr, err := structErrors(in); err != nil {
		return nil, err
	} else if verr.HasErrors() {
		return nil, verr
	}

	senderID := p.AccountID()
	fb := &models.Feedback{SenderID: &senderID, ClubID: in.ClubID, Title: in.Title, Content: in.Content}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		club, err := s.clubs.GetByID(ctx, in.ClubID)
		if err != nil {
			if errors.Is(err, apperrors.ErrResourceNotFound) {
				return apperrors.NewValidationError("clubId", "please select an approved club")
			}
			return err
		}
		if !club.IsApproved {
			return apperrors.NewValidationError("clubId", "please select an approved club")
		}
		fb.ClubName = club.Name
		return s.feedback.Create(ctx, fb)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrValidationFailed) {
			return nil, err
		}
		s.logger.Error().Err(err).Int64("clubID", in.ClubID).Int64("senderID", senderID).Msg("Feedback submission rolled back")
		return nil, &apperrors.CustomError{Err: err, Message: ErrFeedbackNotSaved.Error()}
	}

	fb.SenderName = p.Account.PublicName()
	metrics.FeedbackSubmitted.Inc()
	s.logger.Info().Int64("feedbackID", fb.ID).Int64("clubID", fb.ClubID).Msg("Feedback submitted")
	return fb, nil
}

// List returns all feedback for administrators, newest first
func (s *FeedbackService) List(ctx context.Context, p *authz.Principal, page helpers.Page) ([]models.Feedback, int64, error) {
	if err := authz.RequireAdmin(p); err != nil {
		return nil, 0, err
	}
	return s.feedback.List(ctx, models.FeedbackFilter{Limit: page.Limit(), Offset: page.Offset()})
}

// ListForClub returns the feedback addressed to the principal's club
func (s *FeedbackService) ListForClub(ctx context.Context, p *authz.Principal, page helpers.Page) ([]models.Feedback, int64, error) {
	club, err := s.ownClub(ctx, p)
	if err != nil {
		return nil, 0, err
	}
	return s.feedback.List(ctx, models.FeedbackFilter{ClubID: &club.ID, Limit: page.Limit(), Offset: page.Offset()})
}

// MarkRead flags feedback addressed to the principal's club as read
func (s *FeedbackService) MarkRead(ctx context.Context, p *authz.Principal, id int64) error {
	club, err := s.ownClub(ctx, p)
	if err != nil {
		return err
	}
	if err := s.feedback.MarkRead(ctx, id, club.ID); err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return apperrors.NewResourceNotFoundError("feedback not found")
		}
		return err
	}
	return nil
}

// Delete removes feedback; administrators only
func (s *FeedbackService) Delete(ctx context.Context, p *authz.Principal, id int64) error {
	if err := authz.RequireAdmin(p); err != nil {
		return err
	}
	if err := s.feedback.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return apperrors.NewResourceNotFoundError("feedback not found")
		}
		return err
	}
	s.logger.Info().Int64("feedbackID", id).Int64("deletedBy", p.AccountID()).Msg("Feedback deleted")
	return nil
}

func (s *FeedbackService) ownClub(ctx context.Context, p *authz.Principal) (*models.Club, error) {
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
