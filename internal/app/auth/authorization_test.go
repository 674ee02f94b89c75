package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/clubportal/internal/app/models"
	"github.com/yigit/clubportal/internal/pkg/apperrors"
)

func principal(a *models.Account) *Principal {
	return &Principal{Account: a}
}

func TestGuards(t *testing.T) {
	admin := principal(&models.Account{ID: 1, AccountType: models.AccountAdmin, IsApproved: true})
	club := principal(&models.Account{ID: 2, AccountType: models.AccountClub, IsApproved: true})
	pending := principal(&models.Account{ID: 3, AccountType: models.AccountClub})
	var anonymous *Principal

	tests := []struct {
		name  string
		guard func(*Principal) error
		p     *Principal
		want  error
	}{
		{"auth anonymous", RequireAuthenticated, anonymous, apperrors.ErrUnauthenticated},
		{"auth empty principal", RequireAuthenticated, &Principal{}, apperrors.ErrUnauthenticated},
		{"auth club", RequireAuthenticated, pending, nil},
		{"admin admin", RequireAdmin, admin, nil},
		{"admin club", RequireAdmin, club, ErrAdminOnly},
		{"admin anonymous", RequireAdmin, anonymous, apperrors.ErrUnauthenticated},
		{"club approved", RequireApprovedClub, club, nil},
		{"club pending", RequireApprovedClub, pending, ErrClubNotApproved},
		{"club admin", RequireApprovedClub, admin, ErrNotClub},
		{"post admin", RequireCanPost, admin, nil},
		{"post approved club", RequireCanPost, club, nil},
		{"post pending club", RequireCanPost, pending, ErrClubNotApproved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.guard(tt.p)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGuardErrorsAreDistinctForbidden(t *testing.T) {
	errs := []error{ErrAdminOnly, ErrNotClub, ErrClubNotApproved, ErrNotPostOwner}
	seen := map[string]bool{}
	for _, err := range errs {
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
		assert.False(t, seen[err.Error()], "duplicate message %q", err.Error())
		seen[err.Error()] = true
	}
	assert.NotErrorIs(t, ErrAdminOnly, ErrNotClub)
}

func TestCanEditPost(t *testing.T) {
	post := &models.Post{ID: 5, AccountID: 2}

	assert.NoError(t, CanEditPost(principal(&models.Account{ID: 1, AccountType: models.AccountAdmin}), post))
	assert.NoError(t, CanEditPost(principal(&models.Account{ID: 2, AccountType: models.AccountClub, IsApproved: true}), post))
	assert.ErrorIs(t, CanEditPost(principal(&models.Account{ID: 9, AccountType: models.AccountClub, IsApproved: true}), post), ErrNotPostOwner)
	assert.ErrorIs(t, CanEditPost(nil, post), apperrors.ErrUnauthenticated)
}

type accountFinderFunc func(ctx context.Context, id int64) (*models.Account, error)

func (f accountFinderFunc) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	return f(ctx, id)
}

func TestLoadPrincipal(t *testing.T) {
	expires := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := NewAuthorizationService(accountFinderFunc(func(_ context.Context, id int64) (*models.Account, error) {
		switch id {
		case 2:
			return &models.Account{ID: 2, AccountType: models.AccountClub}, nil
		case 3:
			return nil, errors.New("connection reset")
		default:
			return nil, apperrors.ErrResourceNotFound
		}
	}))

	p, err := svc.LoadPrincipal(context.Background(), 2, "jti", expires)
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.AccountID())
	assert.Equal(t, "jti", p.TokenID)
	assert.Equal(t, expires, p.ExpiresAt)

	_, err = svc.LoadPrincipal(context.Background(), 7, "jti", expires)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	_, err = svc.LoadPrincipal(context.Background(), 3, "jti", expires)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrUnauthenticated)
}
