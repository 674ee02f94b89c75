package filestorage

import (
	"context"
	"errors"
	"mime/multipart"
)

// Category is the fixed set of folders a blob may be stored under
type Category string

const (
	CategoryClubLogo  Category = "club_logos"
	CategoryPostImage Category = "post_images"
)

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	return c == CategoryClubLogo || c == CategoryPostImage
}

var (
	ErrUnsupportedType = errors.New("unsupported file type, allowed: jpg, jpeg, png, gif, webp")
	ErrFileTooLarge    = errors.New("file is too large")
	ErrInvalidRef      = errors.New("invalid blob reference")
)

// BlobStore saves uploaded files and returns references of the form
// "{category}/{unique-name}". Delete of a missing reference is not an error.
type BlobStore interface {
	Save(ctx context.Context, file *multipart.FileHeader, category Category) (string, error)
	Delete(ctx context.Context, ref string) error
}
