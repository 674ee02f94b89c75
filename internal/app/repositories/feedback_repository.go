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

var feedbackColumns = []string{
	"f.id", "f.sender_id", "f.club_id", "f.title", "f.content", "f.is_read", "f.created_at",
	"c.name",
	"s.username", "s.account_type", "sc.name",
}

// FeedbackRepository handles feedback database operations
type FeedbackRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewFeedbackRepository creates a new FeedbackRepository
func NewFeedbackRepository(database *db.PostgresDB) *FeedbackRepository {
	return &FeedbackRepository{db: database, sb: statementBuilder()}
}

func (r *FeedbackRepository) selectFeedback() squirrel.SelectBuilder {
	return r.sb.Select(feedbackColumns...).
		From("feedbacks f").
		Join("clubs c ON c.id = f.club_id").
		LeftJoin("accounts s ON s.id = f.sender_id").
		LeftJoin("clubs sc ON sc.account_id = f.sender_id")
}

func scanFeedback(row pgx.Row) (*models.Feedback, error) {
	var (
		fb             models.Feedback
		senderUsername *string
		senderType     *string
		senderClub     *string
	)
	err := row.Scan(&fb.ID, &fb.SenderID, &fb.ClubID, &fb.Title, &fb.Content, &fb.IsRead, &fb.CreatedAt,
		&fb.ClubName, &senderUsername, &senderType, &senderClub)
	if err != nil {
		return nil, err
	}

	var sender *models.Account
	if senderUsername != nil && senderType != nil {
		accountType, err := models.ParseAccountType(*senderType)
		if err != nil {
			return nil, err
		}
		sender = &models.Account{Username: *senderUsername, AccountType: accountType}
		if senderClub != nil {
			sender.Club = &models.Club{Name: *senderClub}
		}
	}
	fb.SenderName = sender.PublicName()
	return &fb, nil
}

// Create stores a feedback entry
func (r *FeedbackRepository) Create(ctx context.Context, fb *models.Feedback) error {
	sql, args, err := r.sb.Insert("feedbacks").
		Columns("sender_id", "club_id", "title", "content").
		Values(fb.SenderID, fb.ClubID, fb.Title, fb.Content).
		Suffix("RETURNING id, is_read, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create feedback query: %w", err)
	}

	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&fb.ID, &fb.IsRead, &fb.CreatedAt); err != nil {
		logger.Error().Err(err).Int64("clubID", fb.ClubID).Msg("Error creating feedback")
		return fmt.Errorf("error creating feedback: %w", err)
	}
	return nil
}

// GetByID retrieves a feedback entry with sender and club names
func (r *FeedbackRepository) GetByID(ctx context.Context, id int64) (*models.Feedback, error) {
	sql, args, err := r.selectFeedback().Where(squirrel.Eq{"f.id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get feedback query: %w", err)
	}

	fb, err := scanFeedback(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error getting feedback: %w", err)
	}
	return fb, nil
}

// List returns feedback newest first with the total match count
func (r *FeedbackRepository) List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, int64, error) {
	count := r.sb.Select("COUNT(*)").From("feedbacks f")
	q := r.selectFeedback().OrderBy("f.created_at DESC", "f.id DESC")
	if filter.ClubID != nil {
		count = count.Where(squirrel.Eq{"f.club_id": *filter.ClubID})
		q = q.Where(squirrel.Eq{"f.club_id": *filter.ClubID})
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}

	countSQL, countArgs, err := count.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count feedback query: %w", err)
	}
	var total int64
	if err := r.db.Conn(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting feedback: %w", err)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list feedback query: %w", err)
	}
	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying feedback: %w", err)
	}
	defer rows.Close()

	feedback := []models.Feedback{}
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning feedback row: %w", err)
		}
		feedback = append(feedback, *fb)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating feedback rows: %w", err)
	}
	return feedback, total, nil
}

// MarkRead flags feedback id as read when it is addressed to clubID
func (r *FeedbackRepository) MarkRead(ctx context.Context, id, clubID int64) error {
	sql, args, err := r.sb.Update("feedbacks").
		Set("is_read", true).
		Where(squirrel.Eq{"id": id, "club_id": clubID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build mark feedback read query: %w", err)
	}

	tag, err := r.db.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error marking feedback read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// Delete removes a feedback entry
func (r *FeedbackRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("feedbacks").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete feedback query: %w", err)
	}

	tag, err := r.db.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting feedback: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}
