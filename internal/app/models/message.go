package models

import (
	"sort"
	"time"
)

const (
	MessageMinLength = 1
	MessageMaxLength = 5000
)

// Message is a direct message between two accounts. A nil party means the
// account was deleted while its messages were retained.
type Message struct {
	ID          int64     `json:"id" db:"id"`
	SenderID    *int64    `json:"senderId" db:"sender_id"`
	RecipientID *int64    `json:"recipientId" db:"recipient_id"`
	Content     string    `json:"content" db:"content"`
	IsRead      bool      `json:"isRead" db:"is_read"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// SentBy reports whether accountID sent the message
func (m *Message) SentBy(accountID int64) bool {
	return m.SenderID != nil && *m.SenderID == accountID
}

// PartnerOf returns the other party of the message as seen by accountID.
// ok is false when the other party no longer exists.
func (m *Message) PartnerOf(accountID int64) (partnerID int64, ok bool) {
	other := m.SenderID
	if m.SentBy(accountID) {
		other = m.RecipientID
	}
	if other == nil {
		return 0, false
	}
	return *other, true
}

// Conversation summarizes the exchange with one partner
type Conversation struct {
	PartnerID   int64
	LastMessage Message
	UnreadCount int
}

// GroupConversations keeps the latest message per partner of accountID and orders
// the result by that message's time, newest first. Messages whose partner account
// was deleted are skipped. Ties on time are broken by the higher message id.
func GroupConversations(accountID int64, messages []Message) []Conversation {
	byPartner := make(map[int64]*Conversation)

	for _, msg := range messages {
		partnerID, ok := msg.PartnerOf(accountID)
		if !ok {
			continue
		}

		conv, exists := byPartner[partnerID]
		if !exists {
			conv = &Conversation{PartnerID: partnerID, LastMessage: msg}
			byPartner[partnerID] = conv
		} else if newer(msg, conv.LastMessage) {
			conv.LastMessage = msg
		}

		if !msg.IsRead && !msg.SentBy(accountID) {
			conv.UnreadCount++
		}
	}

	conversations := make([]Conversation, 0, len(byPartner))
	for _, conv := range byPartner {
		conversations = append(conversations, *conv)
	}
	sort.Slice(conversations, func(i, j int) bool {
		return newer(conversations[i].LastMessage, conversations[j].LastMessage)
	})
	return conversations
}

func newer(a, b Message) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID > b.ID
	}
	return a.CreatedAt.After(b.CreatedAt)
}
