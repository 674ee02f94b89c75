package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// AdminAuthorName is shown for posts written by administrators
	AdminAuthorName = "University Administration"
	// UnknownAuthorName is shown when the author has no resolvable identity
	UnknownAuthorName = "Unknown"
	// DefaultExcerptLength is the preview length used in feeds
	DefaultExcerptLength = 200

	imageRefSeparator = ","
)

// Post is a piece of content authored by an account
type Post struct {
	ID        int64     `json:"id" db:"id"`
	AccountID int64     `json:"accountId" db:"account_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Images    []string  `json:"images"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Author is joined at read time so renames show up on older posts
	Author *Account `json:"-"`
}

// IsByAdmin reports whether an administrator wrote the post
func (p *Post) IsByAdmin() bool {
	return p.Author.IsAdmin()
}

// AuthorName resolves the display name of the author
func (p *Post) AuthorName() string {
	switch {
	case p.Author.IsAdmin():
		return AdminAuthorName
	case p.Author.IsClub() && p.Author.Club != nil:
		return p.Author.Club.Name
	default:
		return UnknownAuthorName
	}
}

// AuthorLogo returns the club logo reference of the author, or ""
func (p *Post) AuthorLogo() string {
	if p.Author.IsClub() {
		return p.Author.Club.LogoRef()
	}
	return ""
}

// AuthorSlug returns the club slug of the author for profile links, or ""
func (p *Post) AuthorSlug() string {
	if p.Author.IsClub() && p.Author.Club != nil {
		return p.Author.Club.Slug
	}
	return ""
}

// CanEdit is true for administrators and for the owning account
func (p *Post) CanEdit(account *Account) bool {
	if account == nil {
		return false
	}
	return account.IsAdmin() || account.ID == p.AccountID
}

// Excerpt returns at most length runes of the content, marking truncation with "..."
func (p *Post) Excerpt(length int) string {
	if utf8.RuneCountInString(p.Content) <= length {
		return p.Content
	}
	runes := []rune(p.Content)
	return string(runes[:length]) + "..."
}

// JoinImageRefs flattens image references into their delimited form
func JoinImageRefs(refs []string) string {
	return strings.Join(refs, imageRefSeparator)
}

// ParseImageRefs splits a delimited reference list, dropping blank entries
func ParseImageRefs(joined string) []string {
	refs := []string{}
	for _, part := range strings.Split(joined, imageRefSeparator) {
		if ref := strings.TrimSpace(part); ref != "" {
			refs = append(refs, ref)
		}
	}
	return refs
}
