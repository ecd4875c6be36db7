package repository

import (
	"context"
	"errors"

	"skill-swap/internal/database"
	"skill-swap/internal/database/postgres"
	"skill-swap/internal/domain/review"

	"github.com/google/uuid"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrReviewExists   = errors.New("review already exists")
)

type ReviewRepository interface {
	Insert(ctx context.Context, rv review.Review) (review.Review, error)
	FindBySwapAndReviewer(ctx context.Context, swapID, reviewerID uuid.UUID) (review.Review, error)
	// ListReceived returns reviews written about userID by the other participant of their swaps.
	ListReceived(ctx context.Context, userID uuid.UUID) ([]review.Review, error)
}

type PostgresReviewRepository struct {
	db database.DB
}

func NewPostgresReviewRepository(db database.DB) *PostgresReviewRepository {
	return &PostgresReviewRepository{db: db}
}

const reviewColumns = `id, swap_id, reviewer_id, rating, comment, created_at`

func scanReview(row database.Row) (review.Review, error) {
	var rv review.Review
	err := row.Scan(&rv.ID, &rv.SwapID, &rv.ReviewerID, &rv.Rating, &rv.Comment, &rv.CreatedAt)
	return rv, err
}

func (r *PostgresReviewRepository) Insert(ctx context.Context, rv review.Review) (review.Review, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO reviews (id, swap_id, reviewer_id, rating, comment)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+reviewColumns,
		rv.ID, rv.SwapID, rv.ReviewerID, rv.Rating, rv.Comment,
	)
	created, err := scanReview(row)
	if err != nil {
		switch {
		case postgres.IsUniqueViolation(err):
			return review.Review{}, ErrReviewExists
		case postgres.IsForeignKeyViolation(err):
			return review.Review{}, ErrSwapNotFound
		}
		return review.Review{}, err
	}
	return created, nil
}

func (r *PostgresReviewRepository) FindBySwapAndReviewer(ctx context.Context, swapID, reviewerID uuid.UUID) (review.Review, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE swap_id = $1 AND reviewer_id = $2`,
		swapID, reviewerID,
	)
	rv, err := scanReview(row)
	if err != nil {
		if database.IsNoRows(err) {
			return review.Review{}, ErrReviewNotFound
		}
		return review.Review{}, err
	}
	return rv, nil
}

func (r *PostgresReviewRepository) ListReceived(ctx context.Context, userID uuid.UUID) ([]review.Review, error) {
	rows, err := r.db.Query(ctx,
		`SELECT r.id, r.swap_id, r.reviewer_id, r.rating, r.comment, r.created_at
		 FROM reviews r
		 JOIN swaps s ON s.id = r.swap_id
		 WHERE (s.sender_id = $1 OR s.receiver_id = $1)
		   AND r.reviewer_id <> $1
		 ORDER BY r.created_at DESC, r.id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]review.Review, 0)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
