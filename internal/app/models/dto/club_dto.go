package dto

import (
	"time"

	"github.com/yigit/clubportal/internal/app/models"
)

// UploadsPrefix is the URL path blobs are served under
const UploadsPrefix = "/uploads/"

// BlobURL turns a blob reference into its public path, or "" for no blob
func BlobURL(ref string) string {
	if ref == "" {
		return ""
	}
	return UploadsPrefix + ref
}

// ClubResponse is the full club profile
type ClubResponse struct {
	ID             int64     `json:"id" example:"3"`
	AccountID      int64     `json:"accountId" example:"12"`
	Name           string    `json:"name" example:"Chess Club"`
	Slug           string    `json:"slug" example:"chess-club"`
	LogoURL        string    `json:"logoUrl,omitempty" example:"/uploads/club_logos/4b8e.png"`
	About          string    `json:"about"`
	Achievements   string    `json:"achievements"`
	Location       string    `json:"location" example:"Library, room 2"`
	MemberCount    int       `json:"memberCount" example:"25"`
	Phone          string    `json:"phone"`
	EmailContact   string    `json:"emailContact"`
	Instagram      string    `json:"instagram"`
	Twitter        string    `json:"twitter"`
	LinkedIn       string    `json:"linkedin"`
	Facebook       string    `json:"facebook"`
	Website        string    `json:"website"`
	HasSocialMedia bool      `json:"hasSocialMedia"`
	IsApproved     bool      `json:"isApproved"`
	PostCount      int       `json:"postCount"`
	OwnerEmail     string    `json:"ownerEmail,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewClubResponse converts a club for output
func NewClubResponse(c *models.Club) ClubResponse {
	return ClubResponse{
		ID:             c.ID,
		AccountID:      c.AccountID,
		Name:           c.Name,
		Slug:           c.Slug,
		LogoURL:        BlobURL(c.LogoRef()),
		About:          c.About,
		Achievements:   c.Achievements,
		Location:       c.Location,
		MemberCount:    c.MemberCount,
		Phone:          c.Phone,
		EmailContact:   c.EmailContact,
		Instagram:      c.Instagram,
		Twitter:        c.Twitter,
		LinkedIn:       c.LinkedIn,
		Facebook:       c.Facebook,
		Website:        c.Website,
		HasSocialMedia: c.HasSocialMedia(),
		IsApproved:     c.IsApproved,
		PostCount:      c.PostCount,
		OwnerEmail:     c.OwnerEmail,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// NewClubResponses converts a list of clubs. Owner emails are dropped unless
// withOwner is set.
func NewClubResponses(clubs []models.Club, withOwner bool) []ClubResponse {
	out := make([]ClubResponse, 0, len(clubs))
	for i := range clubs {
		resp := NewClubResponse(&clubs[i])
		if !withOwner {
			resp.OwnerEmail = ""
		}
		out = append(out, resp)
	}
	return out
}

// ClubSummaryResponse is a search hit
type ClubSummaryResponse struct {
	Name        string `json:"name" example:"Chess Club"`
	Slug        string `json:"slug" example:"chess-club"`
	LogoURL     string `json:"logoUrl,omitempty"`
	Location    string `json:"location"`
	MemberCount int    `json:"memberCount"`
}

// NewClubSummaries converts search hits
func NewClubSummaries(clubs []models.Club) []ClubSummaryResponse {
	out := make([]ClubSummaryResponse, 0, len(clubs))
	for i := range clubs {
		out = append(out, ClubSummaryResponse{
			Name:        clubs[i].Name,
			Slug:        clubs[i].Slug,
			LogoURL:     BlobURL(clubs[i].LogoRef()),
			Location:    clubs[i].Location,
			MemberCount: clubs[i].MemberCount,
		})
	}
	return out
}

// ClubListResponse is one page of clubs
type ClubListResponse struct {
	Clubs      []ClubResponse `json:"clubs"`
	Sort       string         `json:"sort,omitempty" example:"name"`
	Status     string         `json:"status,omitempty" example:"all"`
	Search     string         `json:"search,omitempty"`
	Pagination PaginationInfo `json:"pagination"`
}

// ClubProfileResponse is a public club page
type ClubProfileResponse struct {
	Club       ClubResponse   `json:"club"`
	Posts      []PostResponse `json:"posts"`
	Pagination PaginationInfo `json:"pagination"`
}

// ClubDashboardResponse is the landing page of a club account
type ClubDashboardResponse struct {
	Club           ClubResponse       `json:"club"`
	Posts          []PostResponse     `json:"posts"`
	Pagination     PaginationInfo     `json:"pagination"`
	TotalPosts     int64              `json:"totalPosts"`
	RecentFeedback []FeedbackResponse `json:"recentFeedback"`
	FeedbackCount  int64              `json:"feedbackCount"`
	UnreadMessages int64              `json:"unreadMessages"`
}
