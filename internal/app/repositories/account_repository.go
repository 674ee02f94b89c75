package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/clubportal/internal/app/models"
	"github.com/yigit/clubportal/internal/db"
	"github.com/yigit/clubportal/internal/pkg/apperrors"
	"github.com/yigit/clubportal/internal/pkg/dberrors"
	"github.com/yigit/clubportal/internal/pkg/logger"
)

var accountColumns = []string{"id", "username", "email", "password_hash", "account_type", "is_approved", "created_at"}

// AccountRepository handles account database operations
type AccountRepository struct {
	db    *db.PostgresDB
	sb    squirrel.StatementBuilderType
	clubs *ClubRepository
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(database *db.PostgresDB) *AccountRepository {
	return &AccountRepository{db: database, sb: statementBuilder(), clubs: NewClubRepository(database)}
}

// Create inserts the account and fills its ID and CreatedAt. Unique violations
// surface as apperrors.ErrDuplicateUsername or apperrors.ErrDuplicateEmail.
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	sql, args, err := r.sb.Insert("accounts").
		Columns("username", "email", "password_hash", "account_type", "is_approved").
		Values(account.Username, account.Email, account.PasswordHash, account.AccountType, account.IsApproved).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create account query: %w", err)
	}

	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&account.ID, &account.CreatedAt); err != nil {
		if mapped := mapUniqueViolation(err); mapped != err {
			return mapped
		}
		logger.Error().Err(err).Str("username", account.Username).Msg("Error creating account")
		return fmt.Errorf("error creating account: %w", err)
	}
	return nil
}

// GetByID loads an account and, for clubs, its club profile
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByUsername loads an account by its login name
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	return r.getOne(ctx, squirrel.Eq{"username": username})
}

func (r *AccountRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.Account, error) {
	sql, args, err := r.sb.Select(accountColumns...).From("accounts").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get account query: %w", err)
	}

	account := &models.Account{}
	err = r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(
		&account.ID, &account.Username, &account.Email, &account.PasswordHash,
		&account.AccountType, &account.IsApproved, &account.CreatedAt)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error getting account: %w", err)
	}

	if account.IsClub() {
		club, err := r.clubs.GetByAccountID(ctx, account.ID)
		switch {
		case err == nil:
			account.Club = club
		case !errors.Is(err, apperrors.ErrResourceNotFound):
			return nil, err
		}
	}
	return account, nil
}

// UsernameExists checks if a username is already taken
func (r *AccountRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"username": username})
}

// EmailExists checks if an email is already registered
func (r *AccountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"email": email})
}

func (r *AccountRepository) exists(ctx context.Context, where squirrel.Eq) (bool, error) {
	sql, args, err := r.sb.Select("1").From("accounts").Where(where).
		Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build exists query: %w", err)
	}

	var exists bool
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking account existence: %w", err)
	}
	return exists, nil
}

// SetApproved sets the approval flag
func (r *AccountRepository) SetApproved(ctx context.Context, id int64, approved bool) error {
	sql, args, err := r.sb.Update("accounts").Set("is_approved", approved).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build approve query: %w", err)
	}

	tag, err := r.db.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating approval: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// Delete removes the account. The schema cascades to its club, posts, post
// images and the club's feedback.
func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("accounts").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete account query: %w", err)
	}

	tag, err := r.db.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// CountClubs counts club accounts; approved filters on the approval flag when not nil
func (r *AccountRepository) CountClubs(ctx context.Context, approved *bool) (int64, error) {
	q := r.sb.Select("COUNT(*)").From("accounts").Where(squirrel.Eq{"account_type": models.AccountClub})
	if approved != nil {
		q = q.Where(squirrel.Eq{"is_approved": *approved})
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count clubs query: %w", err)
	}

	var count int64
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting clubs: %w", err)
	}
	return count, nil
}
