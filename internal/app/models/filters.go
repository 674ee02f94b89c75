package models

import "strings"

// ClubStatus filters clubs by approval
type ClubStatus string

const (
	ClubStatusAll      ClubStatus = "all"
	ClubStatusApproved ClubStatus = "approved"
	ClubStatusPending  ClubStatus = "pending"
)

// ParseClubStatus falls back to ClubStatusAll for unknown values
func ParseClubStatus(s string) ClubStatus {
	switch ClubStatus(strings.ToLower(strings.TrimSpace(s))) {
	case ClubStatusApproved:
		return ClubStatusApproved
	case ClubStatusPending:
		return ClubStatusPending
	default:
		return ClubStatusAll
	}
}

// ClubSort orders club listings
type ClubSort string

const (
	ClubSortName    ClubSort = "name"
	ClubSortMembers ClubSort = "members"
	ClubSortPosts   ClubSort = "posts"
	ClubSortNewest  ClubSort = "newest"
	ClubSortOldest  ClubSort = "oldest"
)

// ParseClubSort falls back to ClubSortName for unknown values
func ParseClubSort(s string) ClubSort {
	switch sort := ClubSort(strings.ToLower(strings.TrimSpace(s))); sort {
	case ClubSortMembers, ClubSortPosts, ClubSortNewest, ClubSortOldest:
		return sort
	default:
		return ClubSortName
	}
}

// ClubFilter selects clubs for listings
type ClubFilter struct {
	Status ClubStatus
	Search string
	Sort   ClubSort
	Limit  uint64 // 0 means no limit
	Offset uint64
}

// PostFilter selects posts for listings
type PostFilter struct {
	// AccountIDs restricts to posts of these authors when not empty
	AccountIDs []int64
	// VisibleOnly keeps posts by admins and approved clubs
	VisibleOnly bool
	Limit       uint64 // 0 means no limit
	Offset      uint64
}

// FeedbackFilter selects feedback entries
type FeedbackFilter struct {
	ClubID *int64
	Limit  uint64 // 0 means no limit
	Offset uint64
}
