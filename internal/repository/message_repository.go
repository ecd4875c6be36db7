package repository

import (
	"context"
	"errors"
	"time"

	"skill-swap/internal/database"
	"skill-swap/internal/domain/message"

	"github.com/google/uuid"
)

var ErrNotParticipant = errors.New("not a participant of the swap")

type MessageRepository interface {
	// Append stores a message only when senderID participates in the swap.
	Append(ctx context.Context, swapID, senderID uuid.UUID, content string) (message.Message, error)
	// ListBySwap returns up to limit messages older than before (all when nil),
	// oldest first.
	ListBySwap(ctx context.Context, swapID uuid.UUID, limit int, before *time.Time) ([]message.Message, error)
}

type PostgresMessageRepository struct {
	db database.DB
}

func NewPostgresMessageRepository(db database.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

func scanMessage(row database.Row) (message.Message, error) {
	var m message.Message
	err := row.Scan(&m.ID, &m.SwapID, &m.SenderID, &m.Content, &m.CreatedAt)
	return m, err
}

func (r *PostgresMessageRepository) Append(ctx context.Context, swapID, senderID uuid.UUID, content string) (message.Message, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO messages (id, swap_id, sender_id, content)
		 SELECT $1, s.id, $3, $4
		 FROM swaps s
		 WHERE s.id = $2 AND (s.sender_id = $3 OR s.receiver_id = $3)
		 RETURNING id, swap_id, sender_id, content, created_at`,
		uuid.New(), swapID, senderID, content,
	)
	m, err := scanMessage(row)
	if err == nil {
		return m, nil
	}
	if !database.IsNoRows(err) {
		return message.Message{}, err
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM swaps WHERE id = $1)`, swapID).Scan(&exists); err != nil {
		return message.Message{}, err
	}
	if !exists {
		return message.Message{}, ErrSwapNotFound
	}
	return message.Message{}, ErrNotParticipant
}

func (r *PostgresMessageRepository) ListBySwap(ctx context.Context, swapID uuid.UUID, limit int, before *time.Time) ([]message.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, swap_id, sender_id, content, created_at
		 FROM messages
		 WHERE swap_id = $1 AND ($2::timestamptz IS NULL OR created_at < $2)
		 ORDER BY created_at DESC, id DESC
		 LIMIT $3`,
		swapID, before, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]message.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
