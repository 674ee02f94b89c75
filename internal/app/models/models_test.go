package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountType_RoundTrips(t *testing.T) {
	for _, at := range []AccountType{AccountAdmin, AccountClub} {
		v, err := at.Value()
		require.NoError(t, err)

		var scanned AccountType
		require.NoError(t, scanned.Scan(v))
		assert.Equal(t, at, scanned)

		var fromBytes AccountType
		require.NoError(t, fromBytes.Scan([]byte(at.String())))
		assert.Equal(t, at, fromBytes)
	}

	var invalid AccountType
	assert.False(t, invalid.Valid())
	_, err := invalid.Value()
	assert.Error(t, err)
	assert.Error(t, invalid.Scan("student"))
	assert.Error(t, invalid.Scan(42))

	raw, err := json.Marshal(struct {
		T AccountType `json:"t"`
	}{AccountClub})
	require.NoError(t, err)
	assert.JSONEq(t, `{"t":"club"}`, string(raw))
}

func TestAccountPredicates(t *testing.T) {
	tests := []struct {
		name    string
		account *Account
		admin   bool
		club    bool
		canPost bool
	}{
		{"admin", &Account{AccountType: AccountAdmin, IsApproved: true}, true, false, true},
		{"admin never approved", &Account{AccountType: AccountAdmin}, true, false, true},
		{"approved club", &Account{AccountType: AccountClub, IsApproved: true}, false, true, true},
		{"pending club", &Account{AccountType: AccountClub}, false, true, false},
		{"nil", nil, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.admin, tt.account.IsAdmin())
			assert.Equal(t, tt.club, tt.account.IsClub())
			assert.Equal(t, tt.canPost, tt.account.CanPost())
		})
	}

	assert.Equal(t, "/admin/dashboard", (&Account{AccountType: AccountAdmin}).DashboardPath())
	assert.Equal(t, "/club/dashboard", (&Account{AccountType: AccountClub}).DashboardPath())
}

func TestClub_HasSocialMedia(t *testing.T) {
	assert.False(t, (&Club{}).HasSocialMedia())
	assert.False(t, (&Club{Instagram: "   "}).HasSocialMedia())
	assert.True(t, (&Club{LinkedIn: "robotics"}).HasSocialMedia())
	assert.True(t, (&Club{Website: "https://example.edu"}).HasSocialMedia())
}

func TestParseMemberCount(t *testing.T) {
	assert.Equal(t, 42, ParseMemberCount(" 42 "))
	assert.Equal(t, 0, ParseMemberCount("many"))
	assert.Equal(t, 0, ParseMemberCount("-3"))
	assert.Equal(t, 0, ParseMemberCount(""))
}

func TestImageRefs_ParseInvertsJoin(t *testing.T) {
	lists := [][]string{
		{},
		{"post_images/a.png"},
		{"post_images/a.png", "post_images/b.jpg", "post_images/c.webp"},
	}
	for _, refs := range lists {
		assert.Equal(t, refs, ParseImageRefs(JoinImageRefs(refs)))
	}

	assert.Equal(t, []string{"a.png", "b.png"}, ParseImageRefs(" a.png , ,b.png,  "))
	assert.Empty(t, ParseImageRefs(""))
}

func TestPost_CanEdit(t *testing.T) {
	post := &Post{AccountID: 7}

	tests := []struct {
		name    string
		account *Account
		want    bool
	}{
		{"admin not owner", &Account{ID: 1, AccountType: AccountAdmin}, true},
		{"admin owner", &Account{ID: 7, AccountType: AccountAdmin}, true},
		{"club owner", &Account{ID: 7, AccountType: AccountClub, IsApproved: true}, true},
		{"club not owner", &Account{ID: 8, AccountType: AccountClub, IsApproved: true}, false},
		{"pending club owner", &Account{ID: 7, AccountType: AccountClub}, true},
		{"nobody", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, post.CanEdit(tt.account))
		})
	}
}

func TestPost_AuthorDisplay(t *testing.T) {
	logo := "club_logos/robo.png"
	clubAuthor := &Account{ID: 2, AccountType: AccountClub, Club: &Club{Name: "Robotics", Slug: "robotics", Logo: &logo}}
	adminAuthor := &Account{ID: 1, AccountType: AccountAdmin}

	clubPost := &Post{Author: clubAuthor}
	assert.Equal(t, "Robotics", clubPost.AuthorName())
	assert.Equal(t, logo, clubPost.AuthorLogo())
	assert.Equal(t, "robotics", clubPost.AuthorSlug())
	assert.False(t, clubPost.IsByAdmin())

	// a rename on the joined club is reflected immediately
	clubAuthor.Club.Name = "Robotics Society"
	assert.Equal(t, "Robotics Society", clubPost.AuthorName())

	adminPost := &Post{Author: adminAuthor}
	assert.Equal(t, AdminAuthorName, adminPost.AuthorName())
	assert.Empty(t, adminPost.AuthorLogo())
	assert.Empty(t, adminPost.AuthorSlug())
	assert.True(t, adminPost.IsByAdmin())

	orphan := &Post{Author: &Account{AccountType: AccountClub}}
	assert.Equal(t, UnknownAuthorName, orphan.AuthorName())
	assert.Empty(t, orphan.AuthorLogo())
}

func TestPost_Excerpt(t *testing.T) {
	short := &Post{Content: "hello"}
	assert.Equal(t, "hello", short.Excerpt(DefaultExcerptLength))

	long := &Post{Content: strings.Repeat("ş", 250)}
	excerpt := long.Excerpt(DefaultExcerptLength)
	assert.Equal(t, strings.Repeat("ş", 200)+"...", excerpt)
}

func ptr(v int64) *int64 { return &v }

func TestGroupConversations_LatestPerPartner(t *testing.T) {
	const a, b, c = int64(1), int64(2), int64(3)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	messages := []Message{
		{ID: 1, SenderID: ptr(a), RecipientID: ptr(b), Content: "one", CreatedAt: base},
		{ID: 2, SenderID: ptr(a), RecipientID: ptr(b), Content: "two", CreatedAt: base.Add(time.Minute)},
		{ID: 3, SenderID: ptr(b), RecipientID: ptr(a), Content: "reply", CreatedAt: base.Add(2 * time.Minute)},
		{ID: 4, SenderID: ptr(a), RecipientID: ptr(b), Content: "three", CreatedAt: base.Add(3 * time.Minute)},
		{ID: 5, SenderID: ptr(c), RecipientID: ptr(a), Content: "hi", CreatedAt: base.Add(90 * time.Second)},
		{ID: 6, SenderID: nil, RecipientID: ptr(a), Content: "ghost", CreatedAt: base.Add(time.Hour)},
	}

	got := GroupConversations(a, messages)

	want := []Conversation{
		{PartnerID: b, LastMessage: messages[3], UnreadCount: 1},
		{PartnerID: c, LastMessage: messages[4], UnreadCount: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GroupConversations mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupConversations_EmptyAndTies(t *testing.T) {
	assert.Empty(t, GroupConversations(1, nil))

	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	messages := []Message{
		{ID: 10, SenderID: ptr(1), RecipientID: ptr(2), CreatedAt: at, IsRead: true},
		{ID: 11, SenderID: ptr(2), RecipientID: ptr(1), CreatedAt: at, IsRead: true},
	}
	got := GroupConversations(1, messages)
	require.Len(t, got, 1)
	assert.Equal(t, int64(11), got[0].LastMessage.ID)
	assert.Zero(t, got[0].UnreadCount)
}

func TestMessage_PartnerOf(t *testing.T) {
	msg := Message{SenderID: ptr(1), RecipientID: nil}
	_, ok := msg.PartnerOf(1)
	assert.False(t, ok)

	partner, ok := msg.PartnerOf(5)
	assert.True(t, ok)
	assert.Equal(t, int64(1), partner)
}

func TestAccount_DisplayName(t *testing.T) {
	var missing *Account
	assert.Equal(t, DeletedAccountName, missing.DisplayName())
	assert.Equal(t, "admin", (&Account{Username: "admin", AccountType: AccountAdmin}).DisplayName())
	assert.Equal(t, "Chess", (&Account{Username: "chess1", AccountType: AccountClub, Club: &Club{Name: "Chess"}}).DisplayName())

	assert.Equal(t, AdminAuthorName, (&Account{Username: "admin", AccountType: AccountAdmin}).PublicName())
	assert.Equal(t, DeletedAccountName, missing.PublicName())
}

func TestParseFilters(t *testing.T) {
	assert.Equal(t, ClubStatusPending, ParseClubStatus(" Pending "))
	assert.Equal(t, ClubStatusAll, ParseClubStatus("archived"))
	assert.Equal(t, ClubSortPosts, ParseClubSort("posts"))
	assert.Equal(t, ClubSortName, ParseClubSort(""))
	assert.Equal(t, ClubSortName, ParseClubSort("rating"))
}
