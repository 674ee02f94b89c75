package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/rs/zerolog"
	authz "github.com/yigit/clubportal/internal/app/auth"
	"github.com/yigit/clubportal/internal/app/models"
	"github.com/yigit/clubportal/internal/pkg/apperrors"
	"github.com/yigit/clubportal/internal/pkg/auth"
	"github.com/yigit/clubportal/internal/pkg/filestorage"
	"github.com/yigit/clubportal/internal/pkg/metrics"
	"github.com/yigit/clubportal/internal/pkg/validation"
)

// ErrNotAdminAccount is returned when CreateAdmin finds a club under the requested username
var ErrNotAdminAccount = errors.New("an account with this username exists and is not an administrator")

// LoginResult is a successful authentication
type LoginResult struct {
	Account   *models.Account
	Token     *auth.IssuedToken
	Dashboard string
}

// AuthService handles registration, login and logout
type AuthService struct {
	tx       Transactor
	accounts AccountStore
	clubs    ClubStore
	blobs    filestorage.BlobStore
	hasher   PasswordHasher
	tokens   TokenIssuer
	revoker  TokenRevoker
	logger   zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	tx Transactor,
	accounts AccountStore,
	clubs ClubStore,
	blobs filestorage.BlobStore,
	hasher PasswordHasher,
	tokens TokenIssuer,
	revoker TokenRevoker,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		tx:       tx,
		accounts: accounts,
		clubs:    clubs,
		blobs:    blobs,
		hasher:   hasher,
		tokens:   tokens,
		revoker:  revoker,
		logger:   logger,
	}
}

// RegisterClub creates an unapproved club account together with its profile.
// The logo is stored first and removed again if the registration fails.
func (s *AuthService) RegisterClub(ctx context.Context, in *ClubRegistration) (*models.Account, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkAvailable(ctx, in.Name, in.Email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	var logoRef *string
	if in.Logo != nil {
		refs, err := saveUploads(ctx, s.blobs, []*multipart.FileHeader{in.Logo}, filestorage.CategoryClubLogo, s.logger)
		if err != nil {
			return nil, err
		}
		logoRef = &refs[0]
	}

	account := &models.Account{
		Username:     in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		AccountType:  models.AccountClub,
	}
	club := &models.Club{Name: in.Name, Logo: logoRef, EmailContact: in.Email}
	in.ApplyTo(club)

	err = saveClubWithSlug(ctx, s.clubs, club, true, func(ctx context.Context) error {
		return s.tx.RunInTx(ctx, func(ctx context.Context) error {
			if err := s.accounts.Create(ctx, account); err != nil {
				return err
			}
			club.AccountID = account.ID
			return s.clubs.Create(ctx, club)
		})
	})
	if err != nil {
		if logoRef != nil {
			deleteBlobs(ctx, s.blobs, []string{*logoRef}, s.logger)
		}
		if errors.Is(err, apperrors.ErrDuplicateUsername) {
			return nil, apperrors.ErrDuplicateClubName
		}
		return nil, err
	}

	account.Club = club
	metrics.ClubsRegistered.Inc()
	s.logger.Info().Int64("accountID", account.ID).Str("slug", club.Slug).Msg("Club registered, awaiting approval")
	return account, nil
}

func (s *AuthService) checkAvailable(ctx context.Context, name, email string) error {
	taken, err := s.accounts.UsernameExists(ctx, name)
	if err != nil {
		return fmt.Errorf("error checking username: %w", err)
	}
	if !taken {
		taken, err = s.clubs.NameTaken(ctx, name, 0)
		if err != nil {
			return fmt.Errorf("error checking club name: %w", err)
		}
	}
	if taken {
		return apperrors.ErrDuplicateClubName
	}

	taken, err = s.accounts.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("error checking email: %w", err)
	}
	if taken {
		return apperrors.ErrDuplicateEmail
	}
	return nil
}

// Authenticate verifies credentials. Unknown usernames and wrong passwords are
// indistinguishable; an unapproved club is refused after its password matched.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*LoginResult, error) {
	account, err := s.accounts.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			metrics.LoginAttempts.WithLabelValues("invalid").Inc()
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading account: %w", err)
	}

	if !s.hasher.Check(account.PasswordHash, password) {
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}

	if account.IsClub() && !account.IsApproved {
		metrics.LoginAttempts.WithLabelValues("not_approved").Inc()
		return nil, apperrors.ErrAccountNotApproved
	}

	token, err := s.tokens.GenerateAccessToken(account)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	s.logger.Info().Int64("accountID", account.ID).Str("accountType", account.AccountType.String()).Msg("Login succeeded")
	return &LoginResult{Account: account, Token: token, Dashboard: account.DashboardPath()}, nil
}

// Logout revokes the principal's token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, p *authz.Principal) error {
	if err := authz.RequireAuthenticated(p); err != nil {
		return err
	}
	if p.TokenID == "" {
		return nil
	}
	ttl := time.Until(p.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.revoker.Revoke(ctx, p.TokenID, ttl); err != nil {
		return fmt.Errorf("error revoking token: %w", err)
	}
	return nil
}

// CreateAdmin creates an approved administrator. It is idempotent: an existing
// admin with the same username is returned with created=false.
func (s *AuthService) CreateAdmin(ctx context.Context, username, email, password string) (account *models.Account, created bool, err error) {
	input := struct {
		Username string `json:"username" validate:"required,notblank,max=200"`
		Email    string `json:"email" validate:"required,email,max=120"`
		Password string `json:"password" validate:"required,min=6"`
	}{strings.TrimSpace(username), strings.TrimSpace(strings.ToLower(email)), password}
	if err := validation.Struct(input); err != nil {
		return nil, false, err
	}

	existing, err := s.accounts.GetByUsername(ctx, input.Username)
	switch {
	case err == nil:
		if !existing.IsAdmin() {
			return nil, false, ErrNotAdminAccount
		}
		return existing, false, nil
	case !errors.Is(err, apperrors.ErrResourceNotFound):
		return nil, false, fmt.Errorf("error loading account: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, false, fmt.Errorf("error hashing password: %w", err)
	}

	account = &models.Account{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		AccountType:  models.AccountAdmin,
		IsApproved:   true,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, false, err
	}

	s.logger.Info().Int64("accountID", account.ID).Str("username", account.Username).Msg("Administrator created")
	return account, true, nil
}
