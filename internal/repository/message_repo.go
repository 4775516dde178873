package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/datera/datera-backend/internal/db"
	"github.com/datera/datera-backend/internal/utils/pagination"
)

// MessageRepository provides data access for persisted messages.
// Messages are append-only; rows exist only for sends the gate approved.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new repository bound to the given DB connection.
func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{db: database}
}

// Create persists a message in a thread.
func (r *MessageRepository) Create(ctx context.Context, threadID, senderID uint64, body string) (*db.Message, error) {
	msg := db.Message{
		ThreadID: threadID,
		SenderID: senderID,
		Body:     body,
	}
	if err := r.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListByThread returns a thread's messages newest-first with cursor
// pagination. Cursor.ID carries the last message ID.
func (r *MessageRepository) ListByThread(
	ctx context.Context,
	threadID uint64,
	paginationToken *string,
	limit int,
) ([]db.Message, *string, error) {
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at DESC, id DESC").
		Limit(limit + 1)

	if cursor.ID > 0 && cursor.UnixMs > 0 {
		ts := time.UnixMilli(cursor.UnixMs)
		query = query.Where(
			"(created_at < ? OR (created_at = ? AND id < ?))",
			ts, ts, cursor.ID,
		)
	}

	var messages []db.Message
	if err := query.Find(&messages).Error; err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(messages) > limit {
		last := messages[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			ID:     last.ID,
			UnixMs: last.CreatedAt.UnixMilli(),
		})
		nextToken = &token
		messages = messages[:limit]
	}

	return messages, nextToken, nil
}

// CountByThread returns the number of messages in a thread.
func (r *MessageRepository) CountByThread(ctx context.Context, threadID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Message{}).
		Where("thread_id = ?", threadID).
		Count(&count).Error
	return count, err
}
