package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	authz "github.com/yigit/clubportal/internal/app/auth"
	"github.com/yigit/clubportal/internal/app/models"
	"github.com/yigit/clubportal/internal/app/services"
	"github.com/yigit/clubportal/internal/pkg/apperrors"
)

type fakePortal struct {
	nextID    int64
	byName    map[string]*models.Account
	order     []string
	posts     []string
	feedback  []int64
	adminRuns int
}

func newFakePortal() *fakePortal {
	return &fakePortal{nextID: 1, byName: map[string]*models.Account{}}
}

func (f *fakePortal) CreateAdmin(_ context.Context, username, email, _ string) (*models.Account, bool, error) {
	f.adminRuns++
	if acc, ok := f.byName[username]; ok {
		return acc, false, nil
	}
	acc := &models.Account{ID: f.nextID, Username: username, Email: email, AccountType: models.AccountAdmin, IsApproved: true}
	f.nextID++
	f.byName[username] = acc
	return acc, true, nil
}

func (f *fakePortal) RegisterClub(_ context.Context, in *services.ClubRegistration) (*models.Account, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if _, ok := f.byName[in.Name]; ok {
		return nil, &apperrors.DuplicateError{Field: "name", Message: "a club with this name already exists"}
	}
	acc := &models.Account{
		ID: f.nextID, Username: in.Name, Email: in.Email, AccountType: models.AccountClub,
		Club: &models.Club{ID: f.nextID * 10, AccountID: f.nextID, Name: in.Name},
	}
	f.nextID++
	f.byName[in.Name] = acc
	f.order = append(f.order, in.Name)
	return acc, nil
}

func (f *fakePortal) Approve(_ context.Context, p *authz.Principal, accountID int64) (*models.Account, error) {
	if err := authz.RequireAdmin(p); err != nil {
		return nil, err
	}
	for _, acc := range f.byName {
		if acc.ID == accountID {
			acc.IsApproved = true
			return acc, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (f *fakePortal) Create(_ context.Context, p *authz.Principal, in *services.PostInput) (*models.Post, error) {
	if err := authz.RequireCanPost(p); err != nil {
		return nil, err
	}
	if err := in.Validate(0); err != nil {
		return nil, err
	}
	f.posts = append(f.posts, in.Title)
	return &models.Post{Title: in.Title, AccountID: p.AccountID()}, nil
}

func (f *fakePortal) Submit(_ context.Context, p *authz.Principal, in *services.FeedbackInput) (*models.Feedback, error) {
	if err := authz.RequireAdmin(p); err != nil {
		return nil, err
	}
	f.feedback = append(f.feedback, in.ClubID)
	return &models.Feedback{ClubID: in.ClubID, Title: in.Title}, nil
}

func (f *fakePortal) services() Services {
	return Services{Auth: f, Admin: f, Posts: f, Feedback: f}
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	portal := newFakePortal()

	acc, err := EnsureAdmin(ctx, portal, "admin", "admin@uni.edu", "", zerolog.Nop())
	require.NoError(t, err)
	assert.Nil(t, acc)
	assert.Zero(t, portal.adminRuns)

	acc, err = EnsureAdmin(ctx, portal, "admin", "admin@uni.edu", "s3cret!", zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.True(t, acc.IsAdmin())

	again, err := EnsureAdmin(ctx, portal, "admin", "admin@uni.edu", "s3cret!", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, acc.ID, again.ID)
}

func TestSampleData_FixedClubs(t *testing.T) {
	ctx := context.Background()
	portal := newFakePortal()
	admin, _, err := portal.CreateAdmin(ctx, "admin", "admin@uni.edu", "x")
	require.NoError(t, err)

	sum, err := SampleData(ctx, portal.services(), admin, 0, 1, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, Summary{Clubs: 2, Approved: 1, Posts: 2, Feedback: 1}, sum)

	assert.True(t, portal.byName["Yazılım Kulübü"].IsApproved)
	assert.False(t, portal.byName["Müzik Kulübü"].IsApproved)
	assert.Equal(t, []int64{portal.byName["Yazılım Kulübü"].Club.ID}, portal.feedback)

	// a second run finds every club already registered
	sum, err = SampleData(ctx, portal.services(), admin, 0, 1, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Skipped)
	assert.Zero(t, sum.Clubs)
}

func TestSampleData_WithoutAdminApprovesNothing(t *testing.T) {
	portal := newFakePortal()
	sum, err := SampleData(context.Background(), portal.services(), nil, 0, 1, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, Summary{Clubs: 2}, sum)
	assert.Empty(t, portal.posts)
}

func TestSampleData_GeneratedClubsAreDeterministic(t *testing.T) {
	first, second := newFakePortal(), newFakePortal()

	_, err := SampleData(context.Background(), first.services(), nil, 5, 42, zerolog.Nop())
	require.NoError(t, err)
	_, err = SampleData(context.Background(), second.services(), nil, 5, 42, zerolog.Nop())
	require.NoError(t, err)

	require.Len(t, first.order, 7)
	assert.Equal(t, first.order, second.order)
}
