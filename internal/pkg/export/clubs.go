// Package export renders admin spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/yigit/clubportal/internal/app/models"
)

const (
	ClubsSheet = "Clubs"
	PostsSheet = "Posts"

	// ContentType is the MIME type of the produced workbook
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	timeLayout = "2006-01-02 15:04"
)

var (
	clubHeaders = []interface{}{"ID", "Club Name", "Slug", "Email", "Status", "Member Count", "Location", "Phone", "Created At"}
	postHeaders = []interface{}{"ID", "Club", "Title", "Images", "Created At"}
)

// StatusLabel is the approval column value
func StatusLabel(approved bool) string {
	if approved {
		return "Approved"
	}
	return "Pending"
}

// WriteClubs writes a workbook with one row per club and, when posts is not
// empty, a second sheet listing their posts.
func WriteClubs(w io.Writer, clubs []models.Club, posts []models.Post) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), ClubsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := writeRow(f, ClubsSheet, 1, clubHeaders); err != nil {
		return err
	}
	clubNames := make(map[int64]string, len(clubs))
	for i, club := range clubs {
		clubNames[club.AccountID] = club.Name
		row := []interface{}{
			club.ID,
			club.Name,
			club.Slug,
			club.OwnerEmail,
			StatusLabel(club.IsApproved),
			club.MemberCount,
			club.Location,
			club.Phone,
			formatTime(club.CreatedAt),
		}
		if err := writeRow(f, ClubsSheet, i+2, row); err != nil {
			return err
		}
	}

	if len(posts) > 0 {
		if _, err := f.NewSheet(PostsSheet); err != nil {
			return fmt.Errorf("create posts sheet: %w", err)
		}
		if err := writeRow(f, PostsSheet, 1, postHeaders); err != nil {
			return err
		}
		for i, post := range posts {
			row := []interface{}{
				post.ID,
				clubNames[post.AccountID],
				post.Title,
				models.JoinImageRefs(post.Images),
				formatTime(post.CreatedAt),
			}
			if err := writeRow(f, PostsSheet, i+2, row); err != nil {
				return err
			}
		}
	}

	if err := f.SetColWidth(ClubsSheet, "B", "B", 32); err != nil {
		return err
	}
	return f.Write(w)
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	axis, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, axis, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, rowNum, err)
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}
