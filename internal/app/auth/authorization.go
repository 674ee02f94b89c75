package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yigit/clubportal/internal/app/models"
	"github.com/yigit/clubportal/internal/pkg/apperrors"
	"github.com/yigit/clubportal/internal/pkg/logger"
)

// Guard failures. Each one wraps apperrors.ErrPermissionDenied so callers that
// only care about "forbidden" can match that.
var (
	ErrAdminOnly       = &apperrors.CustomError{Err: apperrors.ErrPermissionDenied, Message: "this page is only available to administrators"}
	ErrNotClub         = &apperrors.CustomError{Err: apperrors.ErrPermissionDenied, Message: "this page is only available to club accounts"}
	ErrClubNotApproved = &apperrors.CustomError{Err: apperrors.ErrPermissionDenied, Message: "your club has not been approved yet"}
	ErrNotPostOwner    = &apperrors.CustomError{Err: apperrors.ErrPermissionDenied, Message: "you can only modify your own posts"}
)

// Principal is the account acting on a request, loaded fresh for every request
// so that approval changes take effect immediately. A nil Principal or one
// without an account is anonymous.
type Principal struct {
	Account   *models.Account
	TokenID   string
	ExpiresAt time.Time
}

// IsAuthenticated reports whether an account is attached
func (p *Principal) IsAuthenticated() bool {
	return p != nil && p.Account != nil
}

// AccountID returns the acting account id, or 0 when anonymous
func (p *Principal) AccountID() int64 {
	if !p.IsAuthenticated() {
		return 0
	}
	return p.Account.ID
}

// RequireAuthenticated fails for anonymous principals
func RequireAuthenticated(p *Principal) error {
	if !p.IsAuthenticated() {
		return apperrors.ErrUnauthenticated
	}
	return nil
}

// RequireAdmin allows administrators only
func RequireAdmin(p *Principal) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if !p.Account.IsAdmin() {
		return ErrAdminOnly
	}
	return nil
}

// RequireApprovedClub allows club accounts whose approval flag is set
func RequireApprovedClub(p *Principal) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if !p.Account.IsClub() {
		return ErrNotClub
	}
	if !p.Account.IsApproved {
		return ErrClubNotApproved
	}
	return nil
}

// RequireCanPost allows administrators and approved clubs
func RequireCanPost(p *Principal) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if p.Account.IsAdmin() {
		return nil
	}
	return RequireApprovedClub(p)
}

// CanEditPost allows administrators and the owning account
func CanEditPost(p *Principal, post *models.Post) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if post == nil || !post.CanEdit(p.Account) {
		return ErrNotPostOwner
	}
	return nil
}

// AccountFinder loads accounts by id
type AccountFinder interface {
	GetByID(ctx context.Context, id int64) (*models.Account, error)
}

// AuthorizationService builds principals from verified token claims
type AuthorizationService struct {
	accounts AccountFinder
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(accounts AccountFinder) *AuthorizationService {
	return &AuthorizationService{accounts: accounts}
}

// LoadPrincipal reloads the account behind a token. A vanished account is
// treated as unauthenticated.
func (s *AuthorizationService) LoadPrincipal(ctx context.Context, accountID int64, tokenID string, expiresAt time.Time) (*Principal, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrUnauthenticated
		}
		logger.Error().Err(err).Int64("accountID", accountID).Msg("Error loading principal")
		return nil, fmt.Errorf("failed to load principal: %w", err)
	}
	return &Principal{Account: account, TokenID: tokenID, ExpiresAt: expiresAt}, nil
}
