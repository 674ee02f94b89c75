package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/clubportal/internal/app/models"
	"github.com/yigit/clubportal/internal/db"
	"github.com/yigit/clubportal/internal/pkg/apperrors"
	"github.com/yigit/clubportal/internal/pkg/dberrors"
	"github.com/yigit/clubportal/internal/pkg/logger"
)

var clubColumns = []string{
	"c.id", "c.account_id", "c.name", "c.slug", "c.logo", "c.about", "c.achievements",
	"c.location", "c.member_count", "c.phone", "c.email_contact", "c.instagram",
	"c.twitter", "c.linkedin", "c.facebook", "c.website", "c.created_at", "c.updated_at",
	"a.is_approved", "a.email",
	"(SELECT COUNT(*) FROM posts p WHERE p.account_id = c.account_id) AS post_count",
}

// ClubRepository handles club profile database operations
type ClubRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewClubRepository creates a new ClubRepository
func NewClubRepository(database *db.PostgresDB) *ClubRepository {
	return &ClubRepository{db: database, sb: statementBuilder()}
}

func (r *ClubRepository) selectClubs() squirrel.SelectBuilder {
	return r.sb.Select(clubColumns...).
		From("clubs c").
		Join("accounts a ON a.id = c.account_id")
}

func scanClub(row pgx.Row, club *models.Club) error {
	return row.Scan(
		&club.ID, &club.AccountID, &club.Name, &club.Slug, &club.Logo, &club.About,
		&club.Achievements, &club.Location, &club.MemberCount, &club.Phone,
		&club.EmailContact, &club.Instagram, &club.Twitter, &club.LinkedIn,
		&club.Facebook, &club.Website, &club.CreatedAt, &club.UpdatedAt,
		&club.IsApproved, &club.OwnerEmail, &club.PostCount,
	)
}

// Create inserts a club profile. A taken slug yields apperrors.ErrDuplicateSlug.
func (r *ClubRepository) Create(ctx context.Context, club *models.Club) error {
	sql, args, err := r.sb.Insert("clubs").
		Columns("account_id", "name", "slug", "logo", "about", "achievements", "location",
			"member_count", "phone", "email_contact", "instagram", "twitter", "linkedin",
			"facebook", "website").
		Values(club.AccountID, club.Name, club.Slug, club.Logo, club.About, club.Achievements,
			club.Location, club.MemberCount, club.Phone, club.EmailContact, club.Instagram,
			club.Twitter, club.LinkedIn, club.Facebook, club.Website).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create club query: %w", err)
	}

	err = r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&club.ID, &club.CreatedAt, &club.UpdatedAt)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != err {
			return mapped
		}
		logger.Error().Err(err).Str("slug", club.Slug).Msg("Error creating club")
		return fmt.Errorf("error creating club: %w", err)
	}
	return nil
}

// Update writes every editable profile field including name, slug and logo
func (r *ClubRepository) Update(ctx context.Context, club *models.Club) error {
	sql, args, err := r.sb.Update("clubs").
		SetMap(map[string]interface{}{
			"name":          club.Name,
			"slug":          club.Slug,
			"logo":          club.Logo,
			"about":         club.About,
			"achievements":  club.Achievements,
			"location":      club.Location,
			"member_count":  club.MemberCount,
			"phone":         club.Phone,
			"email_contact": club.EmailContact,
			"instagram":     club.Instagram,
			"twitter":       club.Twitter,
			"linkedin":      club.LinkedIn,
			"facebook":      club.Facebook,
			"website":       club.Website,
			"updated_at":    squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": club.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update club query: %w", err)
	}

	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&club.UpdatedAt); err != nil {
		if dberrors.IsNoRows(err) {
			return apperrors.ErrResourceNotFound
		}
		if mapped := mapUniqueViolation(err); mapped != err {
			return mapped
		}
		logger.Error().Err(err).Int64("clubID", club.ID).Msg("Error updating club")
		return fmt.Errorf("error updating club: %w", err)
	}
	return nil
}

// GetByID retrieves a club by ID
func (r *ClubRepository) GetByID(ctx context.Context, id int64) (*models.Club, error) {
	return r.getOne(ctx, squirrel.Eq{"c.id": id})
}

// GetByAccountID retrieves the club owned by an account
func (r *ClubRepository) GetByAccountID(ctx context.Context, accountID int64) (*models.Club, error) {
	return r.getOne(ctx, squirrel.Eq{"c.account_id": accountID})
}

// GetBySlug retrieves a club by slug regardless of approval
func (r *ClubRepository) GetBySlug(ctx context.Context, slug string) (*models.Club, error) {
	return r.getOne(ctx, squirrel.Eq{"c.slug": slug})
}

func (r *ClubRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.Club, error) {
	sql, args, err := r.selectClubs().Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get club query: %w", err)
	}

	club := &models.Club{}
	if err := scanClub(r.db.Conn(ctx).QueryRow(ctx, sql, args...), club); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error getting club: %w", err)
	}
	return club, nil
}

// SlugExists reports whether another club than excludeID uses slug
func (r *ClubRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	return r.exists(ctx, squirrel.And{squirrel.Eq{"slug": slug}, squirrel.NotEq{"id": excludeID}})
}

// NameTaken reports whether another club than excludeID uses name
func (r *ClubRepository) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	return r.exists(ctx, squirrel.And{squirrel.Eq{"name": name}, squirrel.NotEq{"id": excludeID}})
}

func (r *ClubRepository) exists(ctx context.Context, where squirrel.Sqlizer) (bool, error) {
	sql, args, err := r.sb.Select("1").From("clubs").Where(where).
		Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build club exists query: %w", err)
	}

	var exists bool
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking club existence: %w", err)
	}
	return exists, nil
}

func applyClubFilter(q squirrel.SelectBuilder, filter models.ClubFilter) squirrel.SelectBuilder {
	switch filter.Status {
	case models.ClubStatusApproved:
		q = q.Where(squirrel.Eq{"a.is_approved": true})
	case models.ClubStatusPending:
		q = q.Where(squirrel.Eq{"a.is_approved": false})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		q = q.Where(squirrel.ILike{"c.name": "%" + escapeLike(search) + "%"})
	}
	return q
}

func clubOrder(sort models.ClubSort) []string {
	switch sort {
	case models.ClubSortMembers:
		return []string{"c.member_count DESC", "c.name ASC"}
	case models.ClubSortPosts:
		return []string{"post_count DESC", "c.name ASC"}
	case models.ClubSortNewest:
		return []string{"c.created_at DESC", "c.name ASC"}
	case models.ClubSortOldest:
		return []string{"c.created_at ASC", "c.name ASC"}
	default:
		return []string{"c.name ASC"}
	}
}

// List returns one page of clubs matching filter and the total match count
func (r *ClubRepository) List(ctx context.Context, filter models.ClubFilter) ([]models.Club, int64, error) {
	countSQL, countArgs, err := applyClubFilter(
		r.sb.Select("COUNT(*)").From("clubs c").Join("accounts a ON a.id = c.account_id"), filter,
	).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count clubs query: %w", err)
	}

	var total int64
	if err := r.db.Conn(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting clubs: %w", err)
	}

	q := applyClubFilter(r.selectClubs(), filter).OrderBy(clubOrder(filter.Sort)...)
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list clubs query: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list clubs query")
		return nil, 0, fmt.Errorf("error querying clubs: %w", err)
	}
	defer rows.Close()

	clubs := []models.Club{}
	for rows.Next() {
		var club models.Club
		if err := scanClub(rows, &club); err != nil {
			return nil, 0, fmt.Errorf("error scanning club row: %w", err)
		}
		clubs = append(clubs, club)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating club rows: %w", err)
	}

	return clubs, total, nil
}

// Search finds approved clubs whose name contains query
func (r *ClubRepository) Search(ctx context.Context, query string, limit uint64) ([]models.Club, error) {
	clubs, _, err := r.List(ctx, models.ClubFilter{
		Status: models.ClubStatusApproved,
		Search: query,
		Sort:   models.ClubSortName,
		Limit:  limit,
	})
	return clubs, err
}

// escapeLike escapes LIKE wildcards so user input matches literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
