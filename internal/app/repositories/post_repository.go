package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/clubportal/internal/app/models"
	"github.com/yigit/clubportal/internal/db"
	"github.com/yigit/clubportal/internal/pkg/apperrors"
	"github.com/yigit/clubportal/internal/pkg/dberrors"
	"github.com/yigit/clubportal/internal/pkg/logger"
)

// postImagesAggregate collects the ordered image rows of a post as a text array
const postImagesAggregate = "COALESCE((SELECT array_agg(pi.ref::text ORDER BY pi.position) " +
	"FROM post_images pi WHERE pi.post_id = p.id), '{}'::text[]) AS images"

var postColumns = []string{
	"p.id", "p.account_id", "p.title", "p.content", "p.created_at", "p.updated_at",
	postImagesAggregate,
	"a.username", "a.email", "a.account_type", "a.is_approved",
	"c.id", "c.name", "c.slug", "c.logo",
}

// PostRepository handles post database operations
type PostRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(database *db.PostgresDB) *PostRepository {
	return &PostRepository{db: database, sb: statementBuilder()}
}

func (r *PostRepository) selectPosts() squirrel.SelectBuilder {
	return r.sb.Select(postColumns...).
		From("posts p").
		Join("accounts a ON a.id = p.account_id").
		LeftJoin("clubs c ON c.account_id = p.account_id")
}

func scanPost(row pgx.Row) (*models.Post, error) {
	var (
		post     models.Post
		author   models.Account
		images   []string
		clubID   *int64
		clubName *string
		clubSlug *string
		clubLogo *string
	)
	err := row.Scan(
		&post.ID, &post.AccountID, &post.Title, &post.Content, &post.CreatedAt, &post.UpdatedAt,
		&images,
		&author.Username, &author.Email, &author.AccountType, &author.IsApproved,
		&clubID, &clubName, &clubSlug, &clubLogo,
	)
	if err != nil {
		return nil, err
	}

	author.ID = post.AccountID
	if clubID != nil {
		author.Club = &models.Club{
			ID:        *clubID,
			AccountID: post.AccountID,
			Name:      deref(clubName),
			Slug:      deref(clubSlug),
			Logo:      clubLogo,
		}
	}
	post.Author = &author
	if images == nil {
		images = []string{}
	}
	post.Images = images
	return &post, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Create inserts the post together with its ordered image references
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.RunInTx(ctx, func(ctx context.Context) error {
		sql, args, err := r.sb.Insert("posts").
			Columns("account_id", "title", "content").
			Values(post.AccountID, post.Title, post.Content).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create post query: %w", err)
		}

		if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt); err != nil {
			logger.Error().Err(err).Int64("accountID", post.AccountID).Msg("Error creating post")
			return fmt.Errorf("error creating post: %w", err)
		}

		return r.insertImages(ctx, post.ID, 0, post.Images)
	})
}

func (r *PostRepository) insertImages(ctx context.Context, postID int64, start int, refs []string) error {
	if len(refs) == 0 {
		return nil
	}

	q := r.sb.Insert("post_images").Columns("post_id", "position", "ref")
	for i, ref := range refs {
		q = q.Values(postID, start+i, ref)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert images query: %w", err)
	}

	if _, err := r.db.Conn(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error inserting post images: %w", err)
	}
	return nil
}

// AppendImages adds refs after the existing images of the post
func (r *PostRepository) AppendImages(ctx context.Context, postID int64, refs []string) error {
	if len(refs) == 0 {
		return nil
	}
	return r.db.RunInTx(ctx, func(ctx context.Context) error {
		sql, args, err := r.sb.Select("COALESCE(MAX(position) + 1, 0)").
			From("post_images").
			Where(squirrel.Eq{"post_id": postID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build image position query: %w", err)
		}

		var next int
		if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&next); err != nil {
			return fmt.Errorf("error reading image position: %w", err)
		}
		return r.insertImages(ctx, postID, next, refs)
	})
}

// GetByID retrieves a post with its author and images
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	sql, args, err := r.selectPosts().Where(squirrel.Eq{"p.id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get post query: %w", err)
	}

	post, err := scanPost(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error getting post: %w", err)
	}
	return post, nil
}

// Update writes title and content and bumps updated_at
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	sql, args, err := r.sb.Update("posts").
		Set("title", post.Title).
		Set("content", post.Content).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": post.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update post query: %w", err)
	}

	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&post.UpdatedAt); err != nil {
		if dberrors.IsNoRows(err) {
			return apperrors.ErrResourceNotFound
		}
		return fmt.Errorf("error updating post: %w", err)
	}
	return nil
}

// Delete removes a post; its image rows cascade
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("posts").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete post query: %w", err)
	}

	tag, err := r.db.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

func applyPostFilter(q squirrel.SelectBuilder, filter models.PostFilter) squirrel.SelectBuilder {
	if len(filter.AccountIDs) > 0 {
		q = q.Where(squirrel.Eq{"p.account_id": filter.AccountIDs})
	}
	if filter.VisibleOnly {
		q = q.Where(squirrel.Or{
			squirrel.Eq{"a.account_type": models.AccountAdmin},
			squirrel.Eq{"a.is_approved": true},
		})
	}
	return q
}

// List returns posts newest first with the total match count
func (r *PostRepository) List(ctx context.Context, filter models.PostFilter) ([]models.Post, int64, error) {
	countSQL, countArgs, err := applyPostFilter(
		r.sb.Select("COUNT(*)").From("posts p").Join("accounts a ON a.id = p.account_id"), filter,
	).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count posts query: %w", err)
	}

	var total int64
	if err := r.db.Conn(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting posts: %w", err)
	}

	q := applyPostFilter(r.selectPosts(), filter).OrderBy("p.created_at DESC", "p.id DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list posts query: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list posts query")
		return nil, 0, fmt.Errorf("error querying posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning post row: %w", err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, total, nil
}

// ImageRefsByAccount lists every image reference across the account's posts
func (r *PostRepository) ImageRefsByAccount(ctx context.Context, accountID int64) ([]string, error) {
	sql, args, err := r.sb.Select("pi.ref").
		From("post_images pi").
		Join("posts p ON p.id = pi.post_id").
		Where(squirrel.Eq{"p.account_id": accountID}).
		OrderBy("pi.post_id", "pi.position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build image refs query: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying image refs: %w", err)
	}
	refs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("error collecting image refs: %w", err)
	}
	return refs, nil
}

// Count returns the number of posts
func (r *PostRepository) Count(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("posts").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count posts query: %w", err)
	}

	var count int64
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting posts: %w", err)
	}
	return count, nil
}
