package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/clubportal/internal/app/models"
	"github.com/yigit/clubportal/internal/db"
	"github.com/yigit/clubportal/internal/pkg/logger"
)

var messageColumns = []string{"id", "sender_id", "recipient_id", "content", "is_read", "created_at"}

// MessageRepository handles direct message database operations
type MessageRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(database *db.PostgresDB) *MessageRepository {
	return &MessageRepository{db: database, sb: statementBuilder()}
}

// Create stores a message
func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	sql, args, err := r.sb.Insert("messages").
		Columns("sender_id", "recipient_id", "content").
		Values(msg.SenderID, msg.RecipientID, msg.Content).
		Suffix("RETURNING id, is_read, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create message query: %w", err)
	}

	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&msg.ID, &msg.IsRead, &msg.CreatedAt); err != nil {
		logger.Error().Err(err).Msg("Error creating message")
		return fmt.Errorf("error creating message: %w", err)
	}
	return nil
}

func (r *MessageRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]models.Message, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list messages query: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying messages: %w", err)
	}
	messages, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Message, error) {
		var m models.Message
		err := row.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Content, &m.IsRead, &m.CreatedAt)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning messages: %w", err)
	}
	return messages, nil
}

// ListBetween returns the conversation of two accounts, oldest first
func (r *MessageRepository) ListBetween(ctx context.Context, a, b int64) ([]models.Message, error) {
	return r.list(ctx, r.sb.Select(messageColumns...).From("messages").
		Where(squirrel.Or{
			squirrel.Eq{"sender_id": a, "recipient_id": b},
			squirrel.Eq{"sender_id": b, "recipient_id": a},
		}).
		OrderBy("created_at ASC", "id ASC"))
}

// ListInvolving returns every message sent or received by accountID, newest first
func (r *MessageRepository) ListInvolving(ctx context.Context, accountID int64) ([]models.Message, error) {
	return r.list(ctx, r.sb.Select(messageColumns...).From("messages").
		Where(squirrel.Or{
			squirrel.Eq{"sender_id": accountID},
			squirrel.Eq{"recipient_id": accountID},
		}).
		OrderBy("created_at DESC", "id DESC"))
}

// MarkRead flags every unread message from sender to recipient as read and
// returns how many changed
func (r *MessageRepository) MarkRead(ctx context.Context, recipientID, senderID int64) (int64, error) {
	sql, args, err := r.sb.Update("messages").
		Set("is_read", true).
		Where(squirrel.Eq{"recipient_id": recipientID, "sender_id": senderID, "is_read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build mark read query: %w", err)
	}

	tag, err := r.db.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error marking messages read: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CountUnread counts unread messages addressed to accountID
func (r *MessageRepository) CountUnread(ctx context.Context, accountID int64) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("messages").
		Where(squirrel.Eq{"recipient_id": accountID, "is_read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build unread count query: %w", err)
	}

	var count int64
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting unread messages: %w", err)
	}
	return count, nil
}

// DeleteInvolving removes every message sent or received by accountID
func (r *MessageRepository) DeleteInvolving(ctx context.Context, accountID int64) (int64, error) {
	sql, args, err := r.sb.Delete("messages").
		Where(squirrel.Or{
			squirrel.Eq{"sender_id": accountID},
			squirrel.Eq{"recipient_id": accountID},
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete messages query: %w", err)
	}

	tag, err := r.db.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error deleting messages: %w", err)
	}
	return tag.RowsAffected(), nil
}
