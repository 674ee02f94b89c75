package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/clubportal/internal/pkg/logger"
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string
	maxBytes int64
}

// NewLocalStorage creates a new LocalStorage rooted at basePath. maxBytes <= 0
// disables the size check.
func NewLocalStorage(basePath string, maxBytes int64) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{basePath: basePath, maxBytes: maxBytes}, nil
}

// AllowedFile reports whether filename carries an accepted image extension
func AllowedFile(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Save stores the upload under category and returns its reference
func (ls *LocalStorage) Save(ctx context.Context, fileHeader *multipart.FileHeader, category Category) (string, error) {
	if fileHeader == nil || fileHeader.Filename == "" {
		return "", errors.New("no file provided")
	}
	if !category.Valid() {
		return "", fmt.Errorf("unknown blob category %q", category)
	}
	if !AllowedFile(fileHeader.Filename) {
		return "", ErrUnsupportedType
	}
	if ls.maxBytes > 0 && fileHeader.Size > ls.maxBytes {
		return "", ErrFileTooLarge
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	dir := filepath.Join(ls.basePath, string(category))
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	name := uuid.New().String() + strings.ToLower(filepath.Ext(fileHeader.Filename))
	dstPath := filepath.Join(dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	ref := string(category) + "/" + name
	logger.Debug().Str("filename", fileHeader.Filename).Str("ref", ref).Msg("File saved")
	return ref, nil
}

// Delete removes the file behind ref. Missing files are ignored.
func (ls *LocalStorage) Delete(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	physicalPath, err := ls.resolve(ref)
	if err != nil {
		return err
	}

	if err := os.Remove(physicalPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn().Str("ref", ref).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Path returns the filesystem path of ref
func (ls *LocalStorage) Path(ref string) (string, error) {
	return ls.resolve(ref)
}

// resolve accepts only "{category}/{name}" so a reference cannot escape basePath
func (ls *LocalStorage) resolve(ref string) (string, error) {
	category, name, ok := strings.Cut(ref, "/")
	if !ok || !Category(category).Valid() || name == "" || name != filepath.Base(name) || name == ".." {
		return "", fmt.Errorf("%w: %s", ErrInvalidRef, ref)
	}
	return filepath.Join(ls.basePath, category, name), nil
}
