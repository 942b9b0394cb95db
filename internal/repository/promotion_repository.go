package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventhub/event-service/internal/domain"
)

// PromotionRepository persists requests to become an organizer.
type PromotionRepository interface {
	Create(ctx context.Context, req *domain.PromotionRequest) error
	GetPending(ctx context.Context, userID int64) (*domain.PromotionRequest, error)
	ListPending(ctx context.Context, limit, offset int) ([]domain.PromotionRequestView, error)
	// Accept promotes the user and closes their pending request atomically.
	Accept(ctx context.Context, userID int64, promotionDate time.Time) (*domain.PromotionRequest, error)
	Reject(ctx context.Context, userID int64) error
}

type promotionRepository struct {
	pool *pgxpool.Pool
}

// NewPromotionRepository instantiates repository.
func NewPromotionRepository(pool *pgxpool.Pool) PromotionRepository {
	return &promotionRepository{pool: pool}
}

const promotionColumns = `id, user_id, status, request_date, requested_organizer_name, why_message`

func scanPromotion(row pgx.Row) (*domain.PromotionRequest, error) {
	var req domain.PromotionRequest
	if err := row.Scan(
		&req.ID,
		&req.UserID,
		&req.Status,
		&req.RequestDate,
		&req.RequestedOrganizerName,
		&req.WhyMessage,
	); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *promotionRepository) Create(ctx context.Context, req *domain.PromotionRequest) error {
	const query = `
        INSERT INTO promotion_requests (user_id, status, request_date, requested_organizer_name, why_message)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`
	err := r.pool.QueryRow(ctx, query,
		req.UserID,
		req.Status,
		req.RequestDate,
		req.RequestedOrganizerName,
		req.WhyMessage,
	).Scan(&req.ID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *promotionRepository) GetPending(ctx context.Context, userID int64) (*domain.PromotionRequest, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotion_requests
        WHERE user_id=$1 AND status='pending'
        ORDER BY request_date DESC, id DESC LIMIT 1`
	return scanPromotion(r.pool.QueryRow(ctx, query, userID))
}

func (r *promotionRepository) ListPending(ctx context.Context, limit, offset int) ([]domain.PromotionRequestView, error) {
	const query = `
        SELECT pr.id, pr.user_id, pr.status, pr.request_date, pr.requested_organizer_name, pr.why_message,
               u.fullname, u.profile_pic
        FROM promotion_requests pr
        JOIN users u ON u.id = pr.user_id
        WHERE pr.status='pending'
        ORDER BY pr.request_date ASC, pr.id ASC
        LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]domain.PromotionRequestView, 0)
	for rows.Next() {
		var v domain.PromotionRequestView
		if err := rows.Scan(
			&v.ID,
			&v.UserID,
			&v.Status,
			&v.RequestDate,
			&v.RequestedOrganizerName,
			&v.WhyMessage,
			&v.Fullname,
			&v.ProfilePic,
		); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

func (r *promotionRepository) Accept(ctx context.Context, userID int64, promotionDate time.Time) (*domain.PromotionRequest, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + promotionColumns + ` FROM promotion_requests
        WHERE user_id=$1 AND status='pending'
        ORDER BY request_date DESC, id DESC LIMIT 1 FOR UPDATE`
	req, err := scanPromotion(tx.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, err
	}

	const promote = `
        UPDATE users SET account_type='organizer', organizer_name=$1, promotion_date=$2
        WHERE id=$3`
	if err := execAffecting(ctx, tx, promote, req.RequestedOrganizerName, promotionDate, userID); err != nil {
		return nil, err
	}
	if err := execAffecting(ctx, tx,
		`UPDATE promotion_requests SET status='accepted' WHERE user_id=$1 AND status='pending'`,
		userID,
	); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	req.Status = domain.PromotionAccepted
	return req, nil
}

func (r *promotionRepository) Reject(ctx context.Context, userID int64) error {
	return execAffecting(ctx, r.pool,
		`UPDATE promotion_requests SET status='rejected' WHERE user_id=$1 AND status='pending'`,
		userID,
	)
}
