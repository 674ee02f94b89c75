// Package services holds the portal's business operations. Services depend on
// the narrow store interfaces in ports.go so they can run against fakes.
package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/rs/zerolog"
	"github.com/yigit/clubportal/internal/app/models"
	"github.com/yigit/clubportal/internal/pkg/apperrors"
	"github.com/yigit/clubportal/internal/pkg/filestorage"
	"github.com/yigit/clubportal/internal/pkg/metrics"
	"github.com/yigit/clubportal/internal/pkg/slugs"
)

// maxSlugAttempts bounds retries after losing a slug race at commit time
const maxSlugAttempts = 3

// saveUploads stores every file under category. On failure the files saved so
// far are removed and the error is returned.
func saveUploads(ctx context.Context, blobs filestorage.BlobStore, files []*multipart.FileHeader, category filestorage.Category, log zerolog.Logger) ([]string, error) {
	refs := make([]string, 0, len(files))
	for _, fh := range files {
		if fh == nil {
			continue
		}
		ref, err := blobs.Save(ctx, fh, category)
		if err != nil {
			deleteBlobs(ctx, blobs, refs, log)
			if errors.Is(err, filestorage.ErrUnsupportedType) || errors.Is(err, filestorage.ErrFileTooLarge) {
				return nil, apperrors.NewValidationError(fieldForCategory(category), err.Error())
			}
			return nil, apperrors.NewStorageError("save upload", err)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func fieldForCategory(category filestorage.Category) string {
	if category == filestorage.CategoryClubLogo {
		return "logo"
	}
	return "images"
}

// deleteBlobs removes refs best-effort; failures are logged and counted, never returned
func deleteBlobs(ctx context.Context, blobs filestorage.BlobStore, refs []string, log zerolog.Logger) {
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if err := blobs.Delete(ctx, ref); err != nil {
			metrics.BlobCleanupFailures.Inc()
			log.Warn().Err(err).Str("ref", ref).Msg("Failed to delete blob")
		}
	}
}

// saveClubWithSlug persists club through write, generating the slug from its
// name first when regenerate is set. A slug lost to a concurrent writer is
// re-probed and retried.
func saveClubWithSlug(ctx context.Context, clubs ClubStore, club *models.Club, regenerate bool, write func(ctx context.Context) error) error {
	for attempt := 1; ; attempt++ {
		if regenerate {
			slug, err := slugs.Generate(ctx, club.Name, func(ctx context.Context, candidate string) (bool, error) {
				return clubs.SlugExists(ctx, candidate, club.ID)
			})
			if err != nil {
				return fmt.Errorf("generate slug: %w", err)
			}
			club.Slug = slug
		}

		err := write(ctx)
		if !errors.Is(err, apperrors.ErrDuplicateSlug) || !regenerate || attempt >= maxSlugAttempts {
			return err
		}
		metrics.SlugConflicts.Inc()
	}
}

func clubLogoRefs(club *models.Club) []string {
	if ref := club.LogoRef(); ref != "" {
		return []string{ref}
	}
	return nil
}
