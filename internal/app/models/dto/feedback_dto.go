package dto

import (
	"time"

	"github.com/yigit/clubportal/internal/app/models"
)

// FeedbackResponse is a feedback entry
type FeedbackResponse struct {
	ID         int64     `json:"id" example:"5"`
	ClubID     int64     `json:"clubId" example:"3"`
	ClubName   string    `json:"clubName" example:"Chess Club"`
	SenderName string    `json:"senderName" example:"University Administration"`
	Title      string    `json:"title" example:"Great event"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"isRead"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewFeedbackResponses converts feedback entries
func NewFeedbackResponses(items []models.Feedback) []FeedbackResponse {
	out := make([]FeedbackResponse, 0, len(items))
	for i := range items {
		out = append(out, NewFeedbackResponse(&items[i]))
	}
	return out
}

// NewFeedbackResponse converts one feedback entry
func NewFeedbackResponse(fb *models.Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:         fb.ID,
		ClubID:     fb.ClubID,
		ClubName:   fb.ClubName,
		SenderName: fb.SenderName,
		Title:      fb.Title,
		Content:    fb.Content,
		IsRead:     fb.IsRead,
		CreatedAt:  fb.CreatedAt,
	}
}

// FeedbackListResponse is one page of feedback
type FeedbackListResponse struct {
	Feedback   []FeedbackResponse `json:"feedback"`
	Pagination PaginationInfo     `json:"pagination"`
}
