package models

import "time"

// Feedback is a one-way note addressed to a club
type Feedback struct {
	ID        int64     `json:"id" db:"id"`
	SenderID  *int64    `json:"senderId" db:"sender_id"`
	ClubID    int64     `json:"clubId" db:"club_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	IsRead    bool      `json:"isRead" db:"is_read"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Joined for listings
	SenderName string `json:"senderName"`
	ClubName   string `json:"clubName"`
}
