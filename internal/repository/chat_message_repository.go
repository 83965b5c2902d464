package repository

import (
	"context"
	"database/sql"
	"fmt"

	"freshmind/internal/domain"
)

// ChatMessageRepository defines the interface for chat-log persistence.
type ChatMessageRepository interface {
	Create(ctx context.Context, message *domain.ChatMessage) error
	ListBySession(ctx context.Context, sessionID string) ([]domain.ChatMessage, error)
}

type chatMessageRepository struct {
	db *sql.DB
}

// NewChatMessageRepository creates a new instance of ChatMessageRepository
func NewChatMessageRepository(db *sql.DB) ChatMessageRepository {
	return &chatMessageRepository{db: db}
}

// Create inserts a chat message using parameterized queries
func (r *chatMessageRepository) Create(ctx context.Context, message *domain.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (session_id, user_id, role, content, sentiment, sentiment_score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING message_id
	`

	var userID sql.NullInt64
	if message.UserID != nil {
		userID = sql.NullInt64{Int64: int64(*message.UserID), Valid: true}
	}

	err := r.db.QueryRowContext(
		ctx,
		query,
		message.SessionID,
		userID,
		message.Role,
		message.Content,
		message.Sentiment,
		message.SentimentScore,
		message.CreatedAt,
	).Scan(&message.ID)

	if err != nil {
		return fmt.Errorf("failed to create chat message: %w", err)
	}

	return nil
}

// ListBySession retrieves a session's chat log in chronological order.
func (r *chatMessageRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	query := `
		SELECT message_id, session_id, user_id, role, content,
		       COALESCE(sentiment, ''), COALESCE(sentiment_score, 0), created_at
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY message_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	defer rows.Close()

	messages := []domain.ChatMessage{}
	for rows.Next() {
		var (
			m      domain.ChatMessage
			userID sql.NullInt64
		)
		err := rows.Scan(&m.ID, &m.SessionID, &userID, &m.Role, &m.Content, &m.Sentiment, &m.SentimentScore, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		if userID.Valid {
			v := int(userID.Int64)
			m.UserID = &v
		}
		messages = append(messages, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat messages: %w", err)
	}

	return messages, nil
}
