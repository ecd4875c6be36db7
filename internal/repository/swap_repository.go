package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"skill-swap/internal/database"
	"skill-swap/internal/domain/message"
	"skill-swap/internal/domain/profile"
	"skill-swap/internal/domain/swap"

	"github.com/google/uuid"
)

var (
	ErrSwapNotFound = errors.New("swap not found")
	// ErrSwapConflict means the row exists but no longer holds the expected status.
	ErrSwapConflict = errors.New("swap status changed concurrently")
)

type Direction string

const (
	DirectionAll      Direction = "all"
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

type SwapListFilter struct {
	UserID    uuid.UUID
	Direction Direction
	Status    *swap.Status
	Limit     int
	Offset    int
}

// RequestSwapResult mirrors the JSON verdict returned by the request_swap procedure.
type RequestSwapResult struct {
	Success bool      `json:"success"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	SwapID  uuid.UUID `json:"swap_id"`
}

const (
	RequestCodeOK                  = "ok"
	RequestCodeSelfSwap            = "self_swap"
	RequestCodeInvalidHours        = "invalid_hours"
	RequestCodeReceiverNotFound    = "receiver_not_found"
	RequestCodeInsufficientBalance = "insufficient_balance"
)

type ProfileSummary struct {
	ID        uuid.UUID
	Username  string
	AvatarURL *string
}

type Conversation struct {
	Swap        swap.Swap
	Counterpart ProfileSummary
	LastMessage *message.Message
}

type SwapRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (swap.Swap, error)
	RequestSwap(ctx context.Context, senderID, receiverID uuid.UUID, serviceName string, hours int) (RequestSwapResult, error)
	// UpdateStatus writes next only while the row still holds expected, and
	// settles reserved credits in the same transaction.
	UpdateStatus(ctx context.Context, id uuid.UUID, expected, next swap.Status) (swap.Swap, error)
	ListForUser(ctx context.Context, f SwapListFilter) ([]swap.Swap, error)
	CountPendingIncoming(ctx context.Context, userID uuid.UUID) (int, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]Conversation, error)
	GetUserStats(ctx context.Context, userID uuid.UUID) (profile.Stats, error)
}

type PostgresSwapRepository struct {
	db database.DB
}

func NewPostgresSwapRepository(db database.DB) *PostgresSwapRepository {
	return &PostgresSwapRepository{db: db}
}

const swapColumns = `id, sender_id, receiver_id, service_name, status, hours, scheduled_at, created_at, updated_at`

func scanSwap(row database.Row) (swap.Swap, error) {
	var s swap.Swap
	var status string
	if err := row.Scan(&s.ID, &s.SenderID, &s.ReceiverID, &s.ServiceName, &status, &s.Hours, &s.ScheduledAt, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return swap.Swap{}, err
	}
	st, err := swap.ParseStatus(status)
	if err != nil {
		return swap.Swap{}, err
	}
	s.Status = st
	return s, nil
}

func (r *PostgresSwapRepository) GetByID(ctx context.Context, id uuid.UUID) (swap.Swap, error) {
	row := r.db.QueryRow(ctx, `SELECT `+swapColumns+` FROM swaps WHERE id = $1`, id)
	s, err := scanSwap(row)
	if err != nil {
		if database.IsNoRows(err) {
			return swap.Swap{}, ErrSwapNotFound
		}
		return swap.Swap{}, err
	}
	return s, nil
}

func (r *PostgresSwapRepository) RequestSwap(ctx context.Context, senderID, receiverID uuid.UUID, serviceName string, hours int) (RequestSwapResult, error) {
	var raw []byte
	row := r.db.QueryRow(ctx, `SELECT request_swap($1, $2, $3, $4)::text`, senderID, receiverID, serviceName, hours)
	if err := row.Scan(&raw); err != nil {
		return RequestSwapResult{}, err
	}
	var res RequestSwapResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return RequestSwapResult{}, fmt.Errorf("decode request_swap result: %w", err)
	}
	return res, nil
}

func (r *PostgresSwapRepository) UpdateStatus(ctx context.Context, id uuid.UUID, expected, next swap.Status) (swap.Swap, error) {
	var updated swap.Swap
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		row := tx.QueryRow(ctx,
			`UPDATE swaps
			 SET status = $1, updated_at = now()
			 WHERE id = $2 AND status = $3
			 RETURNING `+swapColumns,
			next.String(), id, expected.String(),
		)
		s, err := scanSwap(row)
		if err != nil {
			if !database.IsNoRows(err) {
				return err
			}
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM swaps WHERE id = $1)`, id).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return ErrSwapNotFound
			}
			return ErrSwapConflict
		}

		if err := settle(ctx, tx, s); err != nil {
			return err
		}
		updated = s
		return nil
	})
	if err != nil {
		return swap.Swap{}, err
	}
	return updated, nil
}

// settle moves the hours reserved by request_swap: back to the sender on
// cancellation, on to the receiver on completion.
func settle(ctx context.Context, tx database.Tx, s swap.Swap) error {
	var beneficiary uuid.UUID
	switch s.Status {
	case swap.StatusCanceled:
		beneficiary = s.SenderID
	case swap.StatusCompleted:
		beneficiary = s.ReceiverID
	default:
		return nil
	}

	affected, err := tx.Exec(ctx,
		`UPDATE profiles SET time_balance = time_balance + $1, updated_at = now() WHERE id = $2`,
		s.Hours, beneficiary,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("settle swap %s: profile %s missing", s.ID, beneficiary)
	}
	return nil
}

func (r *PostgresSwapRepository) ListForUser(ctx context.Context, f SwapListFilter) ([]swap.Swap, error) {
	where := `(sender_id = $1 OR receiver_id = $1)`
	switch f.Direction {
	case DirectionIncoming:
		where = `receiver_id = $1`
	case DirectionOutgoing:
		where = `sender_id = $1`
	}

	args := []any{f.UserID}
	if f.Status != nil {
		args = append(args, f.Status.String())
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, f.Offset)

	rows, err := r.db.Query(ctx,
		`SELECT `+swapColumns+`
		 FROM swaps
		 WHERE `+where+`
		 ORDER BY created_at DESC, id DESC
		 LIMIT $`+fmt.Sprint(len(args)-1)+` OFFSET $`+fmt.Sprint(len(args)),
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]swap.Swap, 0)
	for rows.Next() {
		s, err := scanSwap(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSwapRepository) CountPendingIncoming(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	row := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM swaps WHERE receiver_id = $1 AND status = 'pending'`, userID)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresSwapRepository) ListConversations(ctx context.Context, userID uuid.UUID) ([]Conversation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT s.id, s.sender_id, s.receiver_id, s.service_name, s.status, s.hours, s.scheduled_at, s.created_at, s.updated_at,
		        p.id, p.username, p.avatar_url,
		        m.id, m.sender_id, m.content, m.created_at
		 FROM swaps s
		 JOIN profiles p ON p.id = CASE WHEN s.sender_id = $1 THEN s.receiver_id ELSE s.sender_id END
		 LEFT JOIN LATERAL (
		     SELECT id, sender_id, content, created_at
		     FROM messages
		     WHERE swap_id = s.id
		     ORDER BY created_at DESC, id DESC
		     LIMIT 1
		 ) m ON true
		 WHERE (s.sender_id = $1 OR s.receiver_id = $1)
		   AND s.status IN ('accepted', 'completed')
		 ORDER BY s.updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Conversation, 0)
	for rows.Next() {
		var (
			c      Conversation
			status string
			msgID  *uuid.UUID
			msgBy  *uuid.UUID
			msgTxt *string
			msgAt  *time.Time
		)
		if err := rows.Scan(
			&c.Swap.ID, &c.Swap.SenderID, &c.Swap.ReceiverID, &c.Swap.ServiceName, &status, &c.Swap.Hours,
			&c.Swap.ScheduledAt, &c.Swap.CreatedAt, &c.Swap.UpdatedAt,
			&c.Counterpart.ID, &c.Counterpart.Username, &c.Counterpart.AvatarURL,
			&msgID, &msgBy, &msgTxt, &msgAt,
		); err != nil {
			return nil, err
		}
		st, err := swap.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		c.Swap.Status = st
		if msgID != nil && msgBy != nil && msgTxt != nil && msgAt != nil {
			c.LastMessage = &message.Message{ID: *msgID, SwapID: c.Swap.ID, SenderID: *msgBy, Content: *msgTxt, CreatedAt: *msgAt}
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSwapRepository) GetUserStats(ctx context.Context, userID uuid.UUID) (profile.Stats, error) {
	var raw []byte
	if err := r.db.QueryRow(ctx, `SELECT get_user_stats($1)::text`, userID).Scan(&raw); err != nil {
		return profile.Stats{}, err
	}
	var st profile.Stats
	if err := json.Unmarshal(raw, &st); err != nil {
		return profile.Stats{}, fmt.Errorf("decode get_user_stats result: %w", err)
	}
	return st, nil
}
