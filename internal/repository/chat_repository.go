package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"leadership-chatbot-server/internal/domain"
)

type ChatRepository interface {
	Create(ctx context.Context, entry *domain.ChatEntry) error
	FindByID(ctx context.Context, id int64) (*domain.ChatEntry, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.ChatEntry, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
}

type chatRepository struct {
	db *sql.DB
}

func NewChatRepository(db *sql.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, entry *domain.ChatEntry) error {
	query := `
		INSERT INTO chat_history (user_id, question, response)
		VALUES ($1, $2, $3)
		RETURNING id, timestamp
	`

	err := r.db.QueryRowContext(ctx, query, entry.UserID, entry.Question, entry.Response).
		Scan(&entry.ID, &entry.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to create chat entry: %w", err)
	}

	return nil
}

func (r *chatRepository) FindByID(ctx context.Context, id int64) (*domain.ChatEntry, error) {
	query := `
		SELECT id, user_id, question, response, timestamp
		FROM chat_history
		WHERE id = $1
	`

	var entry domain.ChatEntry
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&entry.ID, &entry.UserID, &entry.Question, &entry.Response, &entry.Timestamp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan chat entry: %w", err)
	}

	return &entry, nil
}

// ListByUser returns entries newest-first. The id tie-break keeps pages
// stable when two entries share a timestamp.
func (r *chatRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.ChatEntry, error) {
	query := `
		SELECT id, user_id, question, response, timestamp
		FROM chat_history
		WHERE user_id = $1
		ORDER BY timestamp DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.ChatEntry, 0, limit)
	for rows.Next() {
		var entry domain.ChatEntry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Question, &entry.Response, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan chat entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chat entries: %w", err)
	}

	return entries, nil
}

func (r *chatRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chat_history WHERE user_id = $1`, userID).
		Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count chat entries: %w", err)
	}

	return total, nil
}
