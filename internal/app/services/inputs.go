package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"unicode/utf8"

	"github.com/yigit/clubportal/internal/app/models"
	"github.com/yigit/clubportal/internal/pkg/apperrors"
	"github.com/yigit/clubportal/internal/pkg/filestorage"
	"github.com/yigit/clubportal/internal/pkg/validation"
)

// MaxPostImages caps the images attached to one post
const MaxPostImages = 10

// ClubProfileInput carries the editable club profile fields
type ClubProfileInput struct {
	Name         string                `json:"name" form:"name" validate:"required,notblank,min=3,max=200"`
	About        string                `json:"about" form:"about"`
	Achievements string                `json:"achievements" form:"achievements"`
	Location     string                `json:"location" form:"location" validate:"max=255"`
	MemberCount  string                `json:"memberCount" form:"member_count" validate:"max=20"`
	Phone        string                `json:"phone" form:"phone" validate:"max=20"`
	Instagram    string                `json:"instagram" form:"instagram" validate:"max=100"`
	Twitter      string                `json:"twitter" form:"twitter" validate:"max=100"`
	LinkedIn     string                `json:"linkedin" form:"linkedin" validate:"max=100"`
	Facebook     string                `json:"facebook" form:"facebook" validate:"max=100"`
	Website      string                `json:"website" form:"website" validate:"max=200"`
	Logo         *multipart.FileHeader `json:"-" form:"logo" validate:"-" swaggerignore:"true"`
}

// Normalize trims every text field so length rules see the stored values
func (in *ClubProfileInput) Normalize() {
	for _, f := range []*string{
		&in.Name, &in.About, &in.Achievements, &in.Location, &in.MemberCount, &in.Phone,
		&in.Instagram, &in.Twitter, &in.LinkedIn, &in.Facebook, &in.Website,
	} {
		*f = strings.TrimSpace(*f)
	}
}

// Validate checks the profile. Administrators may leave about and location
// empty; clubs editing themselves may not.
func (in *ClubProfileInput) Validate(adminEdit bool) error {
	in.Normalize()
	verr, err := structErrors(in)
	if err != nil {
		return err
	}
	in.checkExtras(adminEdit, verr)
	if verr.HasErrors() {
		return verr
	}
	return nil
}

func (in *ClubProfileInput) checkExtras(adminEdit bool, verr *apperrors.ValidationError) {
	if !adminEdit {
		if utf8.RuneCountInString(strings.TrimSpace(in.About)) < validation.AboutMinLength {
			verr.Add("about", fmt.Sprintf("about must be at least %d characters", validation.AboutMinLength))
		}
		if strings.TrimSpace(in.Location) == "" {
			verr.Add("location", "location is required")
		}
	}
	if in.Logo != nil && !filestorage.AllowedFile(in.Logo.Filename) {
		verr.Add("logo", "logo must be one of: "+validation.AllowedImageFormat)
	}
}

// structErrors runs the tag rules and always returns a usable ValidationError
func structErrors(s interface{}) (*apperrors.ValidationError, error) {
	err := validation.Struct(s)
	if err == nil {
		return &apperrors.ValidationError{}, nil
	}
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		return verr, nil
	}
	return nil, err
}

// ApplyTo copies the profile fields onto club, leaving name, slug and logo alone
func (in *ClubProfileInput) ApplyTo(club *models.Club) {
	club.About = strings.TrimSpace(in.About)
	club.Achievements = strings.TrimSpace(in.Achievements)
	club.Location = strings.TrimSpace(in.Location)
	club.MemberCount = models.ParseMemberCount(in.MemberCount)
	club.Phone = strings.TrimSpace(in.Phone)
	club.Instagram = strings.TrimSpace(in.Instagram)
	club.Twitter = strings.TrimSpace(in.Twitter)
	club.LinkedIn = strings.TrimSpace(in.LinkedIn)
	club.Facebook = strings.TrimSpace(in.Facebook)
	club.Website = strings.TrimSpace(in.Website)
}

// ClubRegistration is the sign-up form of a club. The club name doubles as the
// login username and the email as the public contact address.
type ClubRegistration struct {
	ClubProfileInput
	Email           string `json:"email" form:"email" validate:"required,email,max=120"`
	Password        string `json:"password" form:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" form:"confirm_password" validate:"required,eqfield=Password"`
}

// Validate checks credentials and the profile with self-edit rules
func (in *ClubRegistration) Validate() error {
	in.Normalize()
	in.Email = strings.TrimSpace(in.Email)
	verr, err := structErrors(in)
	if err != nil {
		return err
	}
	in.checkExtras(false, verr)
	if verr.HasErrors() {
		return verr
	}
	return nil
}

// PostInput is shared by post creation and editing. With IsEdit set the
// uploaded images are appended to the existing ones instead of forming the list.
type PostInput struct {
	Title   string                  `json:"title" form:"title" validate:"required,notblank,min=5,max=255"`
	Content string                  `json:"content" form:"content" validate:"required,notblank,min=10"`
	Images  []*multipart.FileHeader `json:"-" form:"images" validate:"-" swaggerignore:"true"`
	IsEdit  bool                    `json:"-" form:"-" validate:"-"`
}

// Normalize trims title and content
func (in *PostInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
}

// Validate checks the fields; existing is the image count already on the post
func (in *PostInput) Validate(existing int) error {
	in.Normalize()
	verr, err := structErrors(in)
	if err != nil {
		return err
	}

	for _, img := range in.Images {
		if img == nil || !filestorage.AllowedFile(img.Filename) {
			verr.Add("images", "images must be one of: "+validation.AllowedImageFormat)
			break
		}
	}
	if !in.IsEdit {
		existing = 0
	}
	if existing+len(in.Images) > MaxPostImages {
		verr.Add("images", fmt.Sprintf("a post can have at most %d images", MaxPostImages))
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// ApplyTo writes title and content and merges refs into the image list
func (in *PostInput) ApplyTo(post *models.Post, refs []string) {
	post.Title = strings.TrimSpace(in.Title)
	post.Content = strings.TrimSpace(in.Content)
	if in.IsEdit {
		post.Images = append(post.Images, refs...)
	} else {
		post.Images = refs
	}
}

// MessageInput is the body of a direct message
type MessageInput struct {
	Content string `json:"content" form:"content" validate:"required,notblank,max=5000"`
}

// FeedbackInput is feedback addressed to a club
type FeedbackInput struct {
	ClubID  int64  `json:"clubId" form:"club_id" validate:"required,gt=0"`
	Title   string `json:"title" form:"title" validate:"required,notblank,min=5,max=255"`
	Content string `json:"content" form:"content" validate:"required,notblank,min=10"`
}
