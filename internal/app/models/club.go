package models

import (
	"strconv"
	"strings"
	"time"
)

// Club is the public profile of a club account
type Club struct {
	ID           int64     `json:"id" db:"id"`
	AccountID    int64     `json:"accountId" db:"account_id"`
	Name         string    `json:"name" db:"name"`
	Slug         string    `json:"slug" db:"slug"`
	Logo         *string   `json:"logo,omitempty" db:"logo"`
	About        string    `json:"about" db:"about"`
	Achievements string    `json:"achievements" db:"achievements"`
	Location     string    `json:"location" db:"location"`
	MemberCount  int       `json:"memberCount" db:"member_count"`
	Phone        string    `json:"phone" db:"phone"`
	EmailContact string    `json:"emailContact" db:"email_contact"`
	Instagram    string    `json:"instagram" db:"instagram"`
	Twitter      string    `json:"twitter" db:"twitter"`
	LinkedIn     string    `json:"linkedin" db:"linkedin"`
	Facebook     string    `json:"facebook" db:"facebook"`
	Website      string    `json:"website" db:"website"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`

	// Filled by list queries
	IsApproved bool   `json:"isApproved"`
	PostCount  int    `json:"postCount"`
	OwnerEmail string `json:"ownerEmail,omitempty"`
}

// HasSocialMedia is true when any social link or the website is set
func (c *Club) HasSocialMedia() bool {
	for _, link := range []string{c.Instagram, c.Twitter, c.LinkedIn, c.Facebook, c.Website} {
		if strings.TrimSpace(link) != "" {
			return true
		}
	}
	return false
}

// LogoRef returns the logo blob reference or ""
func (c *Club) LogoRef() string {
	if c == nil || c.Logo == nil {
		return ""
	}
	return *c.Logo
}

// ParseMemberCount reads the optional free-text member count; anything that is
// not a non-negative integer counts as zero.
func ParseMemberCount(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
