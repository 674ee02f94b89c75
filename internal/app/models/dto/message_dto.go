package dto

import (
	"time"

	"github.com/yigit/clubportal/internal/app/models"
)

// MessageResponse is one direct message as seen by viewerID
type MessageResponse struct {
	ID        int64     `json:"id" example:"7"`
	Content   string    `json:"content" example:"See you at the fair!"`
	IsRead    bool      `json:"isRead"`
	IsMine    bool      `json:"isMine"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewMessageResponse converts a message for the viewer
func NewMessageResponse(m *models.Message, viewerID int64) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		Content:   m.Content,
		IsRead:    m.IsRead,
		IsMine:    m.SentBy(viewerID),
		CreatedAt: m.CreatedAt,
	}
}

// NewMessageResponses converts a thread
func NewMessageResponses(messages []models.Message, viewerID int64) []MessageResponse {
	out := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		out = append(out, NewMessageResponse(&messages[i], viewerID))
	}
	return out
}

// ConversationResponse is one inbox entry
type ConversationResponse struct {
	PartnerID      int64           `json:"partnerId" example:"14"`
	PartnerName    string          `json:"partnerName" example:"Go Club"`
	PartnerSlug    string          `json:"partnerSlug,omitempty" example:"go-club"`
	PartnerLogoURL string          `json:"partnerLogoUrl,omitempty"`
	LastMessage    MessageResponse `json:"lastMessage"`
	UnreadCount    int             `json:"unreadCount" example:"2"`
}

// NewConversationResponse converts an inbox entry. A nil partner is shown as
// a deleted account.
func NewConversationResponse(conv models.Conversation, partner *models.Account, viewerID int64) ConversationResponse {
	resp := ConversationResponse{
		PartnerID:   conv.PartnerID,
		PartnerName: partner.PublicName(),
		LastMessage: NewMessageResponse(&conv.LastMessage, viewerID),
		UnreadCount: conv.UnreadCount,
	}
	if partner.IsClub() && partner.Club != nil {
		resp.PartnerSlug = partner.Club.Slug
		resp.PartnerLogoURL = BlobURL(partner.Club.LogoRef())
	}
	return resp
}

// ThreadResponse is the conversation with one club
type ThreadResponse struct {
	Partner  ClubSummaryResponse `json:"partner"`
	Messages []MessageResponse   `json:"messages"`
}

// SendMessageRequest is the body of a new message
type SendMessageRequest struct {
	Content string `json:"content" form:"content" binding:"required" example:"See you at the fair!"`
}
