package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventhub/event-service/internal/domain"
)

// EventPatch lists the organizer-editable columns. Nil fields are left unchanged.
type EventPatch struct {
	Banner                   *string
	Description              *string
	Status                   *domain.EventStatus
	City                     *string
	FullAddress              *string
	StartDate                *time.Time
	StartTime                *string
	EndDate                  *time.Time
	EndTime                  *string
	Tags                     *string
	MaxCapacity              *int
	RegistrationDeadlineDate *time.Time
	RegistrationDeadlineTime *string
	CancellationDeadlineDate *time.Time
	CancellationDeadlineTime *string
}

func (p EventPatch) columns() ([]string, []any) {
	var cols []string
	var vals []any
	add := func(col string, set bool, val any) {
		if set {
			cols = append(cols, col)
			vals = append(vals, val)
		}
	}
	add("event_banner", p.Banner != nil, p.Banner)
	add("description", p.Description != nil, p.Description)
	add("status", p.Status != nil, p.Status)
	add("city", p.City != nil, p.City)
	add("full_address", p.FullAddress != nil, p.FullAddress)
	add("start_date", p.StartDate != nil, p.StartDate)
	add("start_time", p.StartTime != nil, p.StartTime)
	add("end_date", p.EndDate != nil, p.EndDate)
	add("end_time", p.EndTime != nil, p.EndTime)
	add("tags", p.Tags != nil, p.Tags)
	add("max_capacity", p.MaxCapacity != nil, p.MaxCapacity)
	add("registration_deadline_date", p.RegistrationDeadlineDate != nil, p.RegistrationDeadlineDate)
	add("registration_deadline_time", p.RegistrationDeadlineTime != nil, p.RegistrationDeadlineTime)
	add("cancellation_deadline_date", p.CancellationDeadlineDate != nil, p.CancellationDeadlineDate)
	add("cancellation_deadline_time", p.CancellationDeadlineTime != nil, p.CancellationDeadlineTime)
	return cols, vals
}

// Empty reports whether the patch changes nothing.
func (p EventPatch) Empty() bool {
	cols, _ := p.columns()
	return len(cols) == 0
}

// EventRepository encapsulates event persistence.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
	// GetView loads the event with display fields and viewerID's like and
	// registration state.
	GetView(ctx context.Context, id, viewerID int64) (*domain.EventView, error)
	List(ctx context.Context, filter EventFilter) ([]domain.EventView, error)
	Update(ctx context.Context, id int64, patch EventPatch) error
	SetSuspended(ctx context.Context, id int64, suspended bool) error
	IncrementViews(ctx context.Context, id int64) error
}

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository instantiates repository.
func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &eventRepository{pool: pool}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	const query = `
        INSERT INTO events (organizer_id, event_banner, category, title, description, country, city,
            full_address, start_date, start_time, end_date, end_time, tags, max_capacity,
            registration_deadline_date, registration_deadline_time,
            cancellation_deadline_date, cancellation_deadline_time)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
        RETURNING id, date_created, views_count, status, suspended`
	return r.pool.QueryRow(ctx, query,
		event.OrganizerID,
		event.Banner,
		event.CategoryID,
		event.Title,
		event.Description,
		event.Country,
		event.City,
		event.FullAddress,
		event.StartDate,
		event.StartTime,
		event.EndDate,
		event.EndTime,
		event.Tags,
		event.MaxCapacity,
		event.RegistrationDeadlineDate,
		event.RegistrationDeadlineTime,
		event.CancellationDeadlineDate,
		event.CancellationDeadlineTime,
	).Scan(&event.ID, &event.DateCreated, &event.ViewsCount, &event.Status, &event.Suspended)
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e WHERE e.id=$1`

	var event domain.Event
	if err := r.pool.QueryRow(ctx, query, id).Scan(eventTargets(&event)...); err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) GetView(ctx context.Context, id, viewerID int64) (*domain.EventView, error) {
	query := `SELECT ` + eventColumns + `,
       u.organizer_name, u.profile_pic, c.category_name,
       (l.user_id IS NOT NULL) AS is_liked,
       r.status, r.registration_date, r.attendance
FROM events e
JOIN users u ON u.id = e.organizer_id
JOIN categories c ON c.id = e.category
LEFT JOIN likes l ON l.event_id = e.id AND l.user_id = $2
LEFT JOIN registrations r ON r.event_id = e.id AND r.user_id = $2
WHERE e.id = $1`

	var view domain.EventView
	if err := r.pool.QueryRow(ctx, query, id, viewerID).Scan(viewTargets(&view)...); err != nil {
		return nil, err
	}
	return &view, nil
}

func (r *eventRepository) List(ctx context.Context, filter EventFilter) ([]domain.EventView, error) {
	query, args := BuildEventListQuery(filter)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]domain.EventView, 0)
	for rows.Next() {
		var view domain.EventView
		if err := rows.Scan(viewTargets(&view)...); err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, id int64, patch EventPatch) error {
	cols, vals := patch.columns()
	if len(cols) == 0 {
		return nil
	}
	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = fmt.Sprintf("%s=$%d", col, i+1)
	}
	vals = append(vals, id)
	query := fmt.Sprintf("UPDATE events SET %s WHERE id=$%d", strings.Join(sets, ", "), len(vals))
	return execAffecting(ctx, r.pool, query, vals...)
}

func (r *eventRepository) SetSuspended(ctx context.Context, id int64, suspended bool) error {
	return execAffecting(ctx, r.pool, `UPDATE events SET suspended=$1 WHERE id=$2`, suspended, id)
}

func (r *eventRepository) IncrementViews(ctx context.Context, id int64) error {
	return execAffecting(ctx, r.pool, `UPDATE events SET views_count = views_count + 1 WHERE id=$1`, id)
}

func eventTargets(e *domain.Event) []any {
	return []any{
		&e.ID,
		&e.OrganizerID,
		&e.DateCreated,
		&e.Banner,
		&e.CategoryID,
		&e.Title,
		&e.Description,
		&e.Country,
		&e.City,
		&e.FullAddress,
		&e.StartDate,
		&e.StartTime,
		&e.EndDate,
		&e.EndTime,
		&e.Tags,
		&e.MaxCapacity,
		&e.RegistrationDeadlineDate,
		&e.RegistrationDeadlineTime,
		&e.CancellationDeadlineDate,
		&e.CancellationDeadlineTime,
		&e.ViewsCount,
		&e.Status,
		&e.Suspended,
	}
}

func viewTargets(v *domain.EventView) []any {
	return append(eventTargets(&v.Event),
		&v.OrganizerName,
		&v.OrganizerProfilePic,
		&v.CategoryName,
		&v.IsLikedByUser,
		&v.RegistrationStatus,
		&v.RegistrationDate,
		&v.Attendance,
	)
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// execAffecting runs a statement and reports pgx.ErrNoRows when it touched nothing.
func execAffecting(ctx context.Context, db execer, query string, args ...any) error {
	cmd, err := db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
