package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	authz "github.com/yigit/clubportal/internal/app/auth"
	"github.com/yigit/clubportal/internal/app/models"
	"github.com/yigit/clubportal/internal/pkg/apperrors"
	"github.com/yigit/clubportal/internal/pkg/metrics"
)

// Thread is the full exchange with one partner club
type Thread struct {
	Partner  *models.Club
	Messages []models.Message
}

// ConversationSummary is one entry of the inbox
type ConversationSummary struct {
	models.Conversation
	Partner *models.Account
}

// MessageService handles direct messages between approved clubs
type MessageService struct {
	messages MessageStore
	accounts AccountStore
	clubs    ClubStore
	logger   zerolog.Logger
}

// NewMessageService creates a new MessageService
func NewMessageService(messages MessageStore, accounts AccountStore, clubs ClubStore, logger zerolog.Logger) *MessageService {
	return &MessageService{messages: messages, accounts: accounts, clubs: clubs, logger: logger}
}

func (s *MessageService) partnerBySlug(ctx context.Context, p *authz.Principal, slug string) (*models.Club, error) {
	partner, err := s.clubs.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("club not found")
		}
		return nil, err
	}
	if !partner.IsApproved {
		return nil, apperrors.NewResourceNotFoundError("club not found")
	}
	if partner.AccountID == p.AccountID() {
		return nil, apperrors.NewValidationError("recipient", "you cannot message your own club")
	}
	return partner, nil
}

// Send delivers a message from the principal's club to the club at recipientSlug
func (s *MessageService) Send(ctx context.Context, p *authz.Principal, recipientSlug string, in *MessageInput) (*models.Message, error) {
	if err := authz.RequireApprovedClub(p); err != nil {
		return nil, err
	}
	in.Content = strings.TrimSpace(in.Content)
	if verr, err := structErrors(in); err != nil {
		return nil, err
	} else if verr.HasErrors() {
		return nil, verr
	}

	partner, err := s.partnerBySlug(ctx, p, recipientSlug)
	if err != nil {
		return nil, err
	}

	senderID, recipientID := p.AccountID(), partner.AccountID
	msg := &models.Message{SenderID: &senderID, RecipientID: &recipientID, Content: in.Content}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("error sending message: %w", err)
	}

	metrics.MessagesSent.Inc()
	s.logger.Debug().Int64("messageID", msg.ID).Int64("from", senderID).Int64("to", recipientID).Msg("Message sent")
	return msg, nil
}

// Conversation returns every message exchanged with the partner, oldest first,
// and marks the partner's messages to the principal as read.
func (s *MessageService) Conversation(ctx context.Context, p *authz.Principal, partnerSlug string) (*Thread, error) {
	if err := authz.RequireApprovedClub(p); err != nil {
		return nil, err
	}
	partner, err := s.partnerBySlug(ctx, p, partnerSlug)
	if err != nil {
		return nil, err
	}

	messages, err := s.messages.ListBetween(ctx, p.AccountID(), partner.AccountID)
	if err != nil {
		return nil, err
	}
	if _, err := s.MarkRead(ctx, p, partner.AccountID); err != nil {
		return nil, err
	}
	return &Thread{Partner: partner, Messages: messages}, nil
}

// MarkRead flags unread messages from partnerID to the principal as read.
// Calling it again changes nothing.
func (s *MessageService) MarkRead(ctx context.Context, p *authz.Principal, partnerID int64) (int64, error) {
	if err := authz.RequireAuthenticated(p); err != nil {
		return 0, err
	}
	changed, err := s.messages.MarkRead(ctx, p.AccountID(), partnerID)
	if err != nil {
		return 0, fmt.Errorf("error marking messages read: %w", err)
	}
	return changed, nil
}

// ListConversations returns one entry per partner holding the latest message,
// newest conversation first
func (s *MessageService) ListConversations(ctx context.Context, p *authz.Principal) ([]ConversationSummary, error) {
	if err := authz.RequireApprovedClub(p); err != nil {
		return nil, err
	}

	messages, err := s.messages.ListInvolving(ctx, p.AccountID())
	if err != nil {
		return nil, err
	}

	conversations := models.GroupConversations(p.AccountID(), messages)
	summaries := make([]ConversationSummary, 0, len(conversations))
	for _, conv := range conversations {
		partner, err := s.accounts.GetByID(ctx, conv.PartnerID)
		if err != nil && !errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, err
		}
		summaries = append(summaries, ConversationSummary{Conversation: conv, Partner: partner})
	}
	return summaries, nil
}

// Recipients lists the approved clubs the principal can write to
func (s *MessageService) Recipients(ctx context.Context, p *authz.Principal) ([]models.Club, error) {
	if err := authz.RequireApprovedClub(p); err != nil {
		return nil, err
	}
	clubs, _, err := s.clubs.List(ctx, models.ClubFilter{Status: models.ClubStatusApproved, Sort: models.ClubSortName})
	if err != nil {
		return nil, err
	}

	recipients := make([]models.Club, 0, len(clubs))
	for _, club := range clubs {
		if club.AccountID != p.AccountID() {
			recipients = append(recipients, club)
		}
	}
	return recipients, nil
}

// UnreadCount counts unread messages addressed to the principal
func (s *MessageService) UnreadCount(ctx context.Context, p *authz.Principal) (int64, error) {
	if err := authz.RequireAuthenticated(p); err != nil {
		return 0, err
	}
	return s.messages.CountUnread(ctx, p.AccountID())
}
