package helpers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestParsePage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query string
		want  int
	}{
		{"", 1},
		{"?page=3", 3},
		{"?page=0", 1},
		{"?page=-2", 1},
		{"?page=abc", 1},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/posts"+tt.query, nil)
		assert.Equal(t, tt.want, ParsePage(c), tt.query)
	}
}

func TestPage_Offset(t *testing.T) {
	assert.Equal(t, uint64(0), NewPage(1, PostsPerPage).Offset())
	assert.Equal(t, uint64(24), NewPage(3, ClubsPerPage).Offset())
	assert.Equal(t, uint64(12), NewPage(3, ClubsPerPage).Limit())

	p := NewPage(0, 0)
	assert.Equal(t, Page{Number: 1, Size: PostsPerPage}, p)
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 5*time.Second, ParseDuration("5s", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("soon", time.Minute))
}
