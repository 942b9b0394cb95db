package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LikeRepository persists (user, event) likes.
type LikeRepository interface {
	Create(ctx context.Context, userID, eventID int64) error
	Delete(ctx context.Context, userID, eventID int64) error
	Exists(ctx context.Context, userID, eventID int64) (bool, error)
}

type likeRepository struct {
	pool *pgxpool.Pool
}

// NewLikeRepository instantiates repository.
func NewLikeRepository(pool *pgxpool.Pool) LikeRepository {
	return &likeRepository{pool: pool}
}

func (r *likeRepository) Create(ctx context.Context, userID, eventID int64) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO likes (user_id, event_id) VALUES ($1, $2)`, userID, eventID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *likeRepository) Delete(ctx context.Context, userID, eventID int64) error {
	return execAffecting(ctx, r.pool, `DELETE FROM likes WHERE user_id=$1 AND event_id=$2`, userID, eventID)
}

func (r *likeRepository) Exists(ctx context.Context, userID, eventID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM likes WHERE user_id=$1 AND event_id=$2)`,
		userID, eventID,
	).Scan(&exists)
	return exists, err
}
