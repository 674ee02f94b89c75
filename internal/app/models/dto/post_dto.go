package dto

import (
	"time"

	"github.com/yigit/clubportal/internal/app/models"
)

// PostResponse is a post with its resolved author identity
type PostResponse struct {
	ID            int64     `json:"id" example:"41"`
	AccountID     int64     `json:"accountId" example:"12"`
	Title         string    `json:"title" example:"Spring tournament"`
	Content       string    `json:"content"`
	Excerpt       string    `json:"excerpt"`
	Images        []string  `json:"images"`
	AuthorName    string    `json:"authorName" example:"Chess Club"`
	AuthorLogoURL string    `json:"authorLogoUrl,omitempty"`
	AuthorSlug    string    `json:"authorSlug,omitempty" example:"chess-club"`
	IsByAdmin     bool      `json:"isByAdmin"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewPostResponse converts a post for output
func NewPostResponse(p *models.Post) PostResponse {
	images := make([]string, 0, len(p.Images))
	for _, ref := range p.Images {
		images = append(images, BlobURL(ref))
	}
	return PostResponse{
		ID:            p.ID,
		AccountID:     p.AccountID,
		Title:         p.Title,
		Content:       p.Content,
		Excerpt:       p.Excerpt(models.DefaultExcerptLength),
		Images:        images,
		AuthorName:    p.AuthorName(),
		AuthorLogoURL: BlobURL(p.AuthorLogo()),
		AuthorSlug:    p.AuthorSlug(),
		IsByAdmin:     p.IsByAdmin(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// NewPostResponses converts a list of posts
func NewPostResponses(posts []models.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, NewPostResponse(&posts[i]))
	}
	return out
}

// PostListResponse is one page of posts
type PostListResponse struct {
	Posts      []PostResponse `json:"posts"`
	Pagination PaginationInfo `json:"pagination"`
}
