package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Fixed page sizes
const (
	PostsPerPage    = 10
	ClubsPerPage    = 12
	FeedbackPerPage = 10
	SearchLimit     = 10
	RecentLimit     = 5
	DefaultPage     = 1
)

// Page is a 1-based page request with a fixed size
type Page struct {
	Number int
	Size   int
}

// NewPage normalizes page and size
func NewPage(number, size int) Page {
	if number < 1 {
		number = DefaultPage
	}
	if size < 1 {
		size = PostsPerPage
	}
	return Page{Number: number, Size: size}
}

// Offset returns the number of rows to skip
func (p Page) Offset() uint64 {
	return uint64((p.Number - 1) * p.Size)
}

// Limit returns the page size for SQL LIMIT
func (p Page) Limit() uint64 {
	return uint64(p.Size)
}

// ParsePage reads the "page" query parameter; invalid values mean page 1
func ParsePage(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return DefaultPage
	}
	return page
}

// PageFromQuery combines ParsePage with a fixed size
func PageFromQuery(c *gin.Context, size int) Page {
	return NewPage(ParsePage(c), size)
}
