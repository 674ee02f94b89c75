package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	authz "github.com/yigit/clubportal/internal/app/auth"
	"github.com/yigit/clubportal/internal/app/models"
	"github.com/yigit/clubportal/internal/pkg/apperrors"
	"github.com/yigit/clubportal/internal/pkg/helpers"
)

func TestApproveReject(t *testing.T) {
	e := newEnv(false)
	ctx := context.Background()
	admin := e.mustAdmin()
	club := e.mustClub("Robotics", false)

	account, err := e.admin.Approve(ctx, admin, club.AccountID())
	require.NoError(t, err)
	assert.True(t, account.IsApproved)
	assert.True(t, e.db.accounts[club.AccountID()].IsApproved)

	_, err = e.auth.Authenticate(ctx, "Robotics", "secret1")
	require.NoError(t, err)

	_, err = e.admin.Reject(ctx, admin, club.AccountID())
	require.NoError(t, err)
	assert.False(t, e.db.accounts[club.AccountID()].IsApproved)
	assert.Contains(t, e.db.accounts, club.AccountID())

	_, err = e.admin.Approve(ctx, admin, admin.AccountID())
	assert.ErrorIs(t, err, ErrNotClubAccount)
	assert.EqualError(t, err, "validation failed: account: account is not a club")

	_, err = e.admin.Approve(ctx, admin, 999)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	_, err = e.admin.Approve(ctx, club, club.AccountID())
	assert.ErrorIs(t, err, authz.ErrAdminOnly)
}

func seedClubContent(t *testing.T, e *env, admin, club *authz.Principal) {
	t.Helper()
	ctx := context.Background()
	_, err := e.posts.Create(ctx, club, postInput("First post", "a.png"))
	require.NoError(t, err)
	_, err = e.posts.Create(ctx, club, postInput("Second post", "b.png", "c.png"))
	require.NoError(t, err)
	_, err = e.feedback.Submit(ctx, admin, &FeedbackInput{ClubID: clubID(t, e, club), Title: "Well done", Content: "Keep up the good work."})
	require.NoError(t, err)
}

func TestDelete_CascadesAndRetainsMessages(t *testing.T) {
	e := newEnv(false)
	ctx := context.Background()
	admin := e.mustAdmin()
	in := registration("Chess Club")
	in.Logo = image("logo.png")
	account, err := e.auth.RegisterClub(ctx, in)
	require.NoError(t, err)
	e.db.accounts[account.ID].IsApproved = true
	club := e.principal(account.ID)
	other := e.mustClub("Go Club", true)

	seedClubContent(t, e, admin, club)
	send(t, e, club, "go-club", "see you soon")

	require.NoError(t, e.admin.Delete(ctx, admin, club.AccountID()))

	assert.NotContains(t, e.db.accounts, club.AccountID())
	assert.Nil(t, e.db.clubOf(club.AccountID()))
	assert.Empty(t, e.db.posts)
	assert.Empty(t, e.db.feedback)
	assert.ElementsMatch(t, []string{
		"club_logos/blob-1.png",
		"post_images/blob-2.png",
		"post_images/blob-3.png",
		"post_images/blob-4.png",
	}, e.blobs.deleted)

	conversations, err := e.messages.ListConversations(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, conversations)
	require.Len(t, e.db.messages, 1)
	assert.Nil(t, e.db.messages[0].SenderID)
}

func TestDelete_CascadePolicyRemovesMessages(t *testing.T) {
	e := newEnv(true)
	ctx := context.Background()
	admin := e.mustAdmin()
	club := e.mustClub("Chess Club", true)
	e.mustClub("Go Club", true)
	send(t, e, club, "go-club", "see you soon")

	require.NoError(t, e.admin.Delete(ctx, admin, club.AccountID()))
	assert.Empty(t, e.db.messages)
}

func TestEditClub_RegeneratesSlugAndReplacesLogo(t *testing.T) {
	e := newEnv(false)
	ctx := context.Background()
	admin := e.mustAdmin()
	in := registration("Chess Club")
	in.Logo = image("old.png")
	account, err := e.auth.RegisterClub(ctx, in)
	require.NoError(t, err)
	e.mustClub("Go Club", true)

	edit := &ClubProfileInput{Name: "Go Club", About: "short"}
	_, err = e.admin.EditClub(ctx, admin, account.ID, edit)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateClubName)

	edit = &ClubProfileInput{Name: "Chess and Strategy", Logo: image("new.webp")}
	club, err := e.admin.EditClub(ctx, admin, account.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, "chess-and-strategy", club.Slug)
	assert.Equal(t, "club_logos/blob-2.webp", club.LogoRef())
	assert.Empty(t, club.About)
	assert.Equal(t, []string{"club_logos/blob-1.png"}, e.blobs.deleted)

	_, err = e.admin.EditClub(ctx, admin, admin.AccountID(), edit)
	assert.ErrorIs(t, err, ErrNotClubAccount)
}

func TestAdminDashboardAndLists(t *testing.T) {
	e := newEnv(false)
	ctx := context.Background()
	admin := e.mustAdmin()
	chess := e.mustClub("Chess Club", true)
	e.mustClub("Robotics", false)
	e.mustClub("Astronomy", false)
	seedClubContent(t, e, admin, chess)

	d, err := e.admin.Dashboard(ctx, admin)
	require.NoError(t, err)
	assert.EqualValues(t, 3, d.TotalClubs)
	assert.EqualValues(t, 1, d.ApprovedClubs)
	assert.EqualValues(t, 2, d.PendingClubs)
	assert.EqualValues(t, 2, d.TotalPosts)
	assert.Len(t, d.RecentPosts, 2)
	require.Len(t, d.PendingApplications, 2)
	assert.Equal(t, "Astronomy", d.PendingApplications[0].Name)

	pending, err := e.admin.PendingClubs(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	found, total, err := e.admin.Clubs(ctx, admin, models.ClubStatusAll, "ro", helpers.NewPage(1, helpers.ClubsPerPage))
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, found, 2)

	_, err = e.admin.Dashboard(ctx, chess)
	assert.ErrorIs(t, err, authz.ErrAdminOnly)
}

func TestExport_WritesSortedWorkbook(t *testing.T) {
	e := newEnv(false)
	ctx := context.Background()
	admin := e.mustAdmin()
	chess := e.mustClub("Chess Club", true)
	e.mustClub("Astronomy", false)
	seedClubContent(t, e, admin, chess)

	var buf bytes.Buffer
	require.NoError(t, e.admin.Export(ctx, admin, models.ClubStatusAll, "", &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Clubs")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Astronomy", rows[1][1])
	assert.Equal(t, "Chess Club", rows[2][1])

	postRows, err := f.GetRows("Posts")
	require.NoError(t, err)
	assert.Len(t, postRows, 3)
}
