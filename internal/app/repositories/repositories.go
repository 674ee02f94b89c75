package repositories

import (
	"github.com/Masterminds/squirrel"
	"github.com/yigit/clubportal/internal/db"
	"github.com/yigit/clubportal/internal/pkg/apperrors"
	"github.com/yigit/clubportal/internal/pkg/dberrors"
)

// Repositories holds all the repository instances
type Repositories struct {
	AccountRepository  *AccountRepository
	ClubRepository     *ClubRepository
	PostRepository     *PostRepository
	MessageRepository  *MessageRepository
	FeedbackRepository *FeedbackRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		AccountRepository:  NewAccountRepository(database),
		ClubRepository:     NewClubRepository(database),
		PostRepository:     NewPostRepository(database),
		MessageRepository:  NewMessageRepository(database),
		FeedbackRepository: NewFeedbackRepository(database),
	}
}

func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// mapUniqueViolation turns a unique constraint violation into the matching
// duplicate error. Other errors are returned unchanged.
func mapUniqueViolation(err error) error {
	switch dberrors.UniqueConstraint(err) {
	case dberrors.ConstraintAccountUsername:
		return apperrors.ErrDuplicateUsername
	case dberrors.ConstraintAccountEmail:
		return apperrors.ErrDuplicateEmail
	case dberrors.ConstraintClubSlug:
		return apperrors.ErrDuplicateSlug
	case dberrors.ConstraintClubAccount:
		return apperrors.ErrDuplicate
	default:
		return err
	}
}
