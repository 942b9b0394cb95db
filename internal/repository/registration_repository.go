package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventhub/event-service/internal/domain"
)

// RegistrationUpdate is an organizer-side change to one registration.
type RegistrationUpdate struct {
	Status     *domain.RegistrationStatus
	Attendance *string
}

// RegistrationRepository persists (user, event) registrations.
type RegistrationRepository interface {
	Get(ctx context.Context, userID, eventID int64) (*domain.Registration, error)
	// Create inserts an active registration when fewer than capacity active
	// registrations exist. A nil capacity is unlimited.
	Create(ctx context.Context, reg *domain.Registration, capacity *int) error
	Cancel(ctx context.Context, userID, eventID int64) error
	Update(ctx context.Context, userID, eventID int64, update RegistrationUpdate) error
	ListByEvent(ctx context.Context, eventID int64, limit, offset int) ([]domain.RegistrationView, error)
	// HasRegistrationWithOrganizer reports whether userID holds a non-cancelled
	// registration on any event owned by organizerID.
	HasRegistrationWithOrganizer(ctx context.Context, userID, organizerID int64) (bool, error)
}

type registrationRepository struct {
	pool *pgxpool.Pool
}

// NewRegistrationRepository instantiates repository.
func NewRegistrationRepository(pool *pgxpool.Pool) RegistrationRepository {
	return &registrationRepository{pool: pool}
}

func (r *registrationRepository) Get(ctx context.Context, userID, eventID int64) (*domain.Registration, error) {
	const query = `
        SELECT user_id, event_id, registration_date, status, attendance
        FROM registrations WHERE user_id=$1 AND event_id=$2`

	var reg domain.Registration
	if err := r.pool.QueryRow(ctx, query, userID, eventID).Scan(
		&reg.UserID,
		&reg.EventID,
		&reg.RegistrationDate,
		&reg.Status,
		&reg.Attendance,
	); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration, capacity *int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// The event row lock serialises concurrent registrations for one event.
	var locked int64
	if err := tx.QueryRow(ctx, `SELECT id FROM events WHERE id=$1 FOR UPDATE`, reg.EventID).Scan(&locked); err != nil {
		return err
	}

	if capacity != nil {
		var active int
		if err := tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM registrations WHERE event_id=$1 AND status='active'`,
			reg.EventID,
		).Scan(&active); err != nil {
			return err
		}
		if active >= *capacity {
			return ErrCapacityReached
		}
	}

	const insert = `
        INSERT INTO registrations (user_id, event_id, registration_date, status)
        VALUES ($1, $2, $3, $4)`
	if _, err := tx.Exec(ctx, insert, reg.UserID, reg.EventID, reg.RegistrationDate, reg.Status); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return tx.Commit(ctx)
}

func (r *registrationRepository) Cancel(ctx context.Context, userID, eventID int64) error {
	const query = `
        UPDATE registrations SET status='cancelled'
        WHERE user_id=$1 AND event_id=$2 AND status <> 'cancelled'`
	return execAffecting(ctx, r.pool, query, userID, eventID)
}

func (r *registrationRepository) Update(ctx context.Context, userID, eventID int64, update RegistrationUpdate) error {
	sets := []string{}
	args := []any{}
	if update.Status != nil {
		args = append(args, *update.Status)
		sets = append(sets, fmt.Sprintf("status=$%d", len(args)))
	}
	if update.Attendance != nil {
		args = append(args, *update.Attendance)
		sets = append(sets, fmt.Sprintf("attendance=$%d", len(args)))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, userID, eventID)
	query := fmt.Sprintf("UPDATE registrations SET %s WHERE user_id=$%d AND event_id=$%d",
		strings.Join(sets, ", "), len(args)-1, len(args))
	return execAffecting(ctx, r.pool, query, args...)
}

func (r *registrationRepository) ListByEvent(ctx context.Context, eventID int64, limit, offset int) ([]domain.RegistrationView, error) {
	const query = `
        SELECT r.user_id, r.event_id, r.registration_date, r.status, r.attendance,
               u.fullname, u.email, u.phone_number, u.profile_pic
        FROM registrations r
        JOIN users u ON u.id = r.user_id
        WHERE r.event_id=$1
        ORDER BY r.registration_date ASC, r.user_id ASC
        LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, eventID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]domain.RegistrationView, 0)
	for rows.Next() {
		var v domain.RegistrationView
		if err := rows.Scan(
			&v.UserID,
			&v.EventID,
			&v.RegistrationDate,
			&v.Status,
			&v.Attendance,
			&v.Fullname,
			&v.Email,
			&v.PhoneNumber,
			&v.ProfilePic,
		); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

func (r *registrationRepository) HasRegistrationWithOrganizer(ctx context.Context, userID, organizerID int64) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM registrations r
            JOIN events e ON e.id = r.event_id
            WHERE r.user_id=$1 AND e.organizer_id=$2 AND r.status <> 'cancelled'
        )`
	var exists bool
	err := r.pool.QueryRow(ctx, query, userID, organizerID).Scan(&exists)
	return exists, err
}
