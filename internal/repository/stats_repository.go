package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventhub/event-service/internal/domain"
)

// StatsScope narrows an aggregate to one event or one organizer's events.
// The zero value is platform-wide.
type StatsScope struct {
	EventID     int64
	OrganizerID int64
}

func (s StatsScope) predicate(q *queryArgs) string {
	switch {
	case s.EventID != 0:
		return "e.id = " + q.bind(s.EventID)
	case s.OrganizerID != 0:
		return "e.organizer_id = " + q.bind(s.OrganizerID)
	}
	return "TRUE"
}

// RegistrationBreakdown counts registrations by status, attendance and
// registrant gender.
type RegistrationBreakdown struct {
	Total      int
	Active     int
	Cancelled  int
	Denied     int
	Attendants int
	Female     int
	Male       int
}

// UserCounts are the account totals of the platform report.
type UserCounts struct {
	Total        int
	NewThisMonth int
	Organizers   int
	Female       int
	Male         int
}

// StatsRepository runs the independent aggregate queries behind the
// dashboards. Nothing is cached.
type StatsRepository interface {
	CountLikes(ctx context.Context, scope StatsScope) (int, error)
	SumViews(ctx context.Context, scope StatsScope) (int64, error)
	CountEvents(ctx context.Context, scope StatsScope) (int, error)
	Registrations(ctx context.Context, scope StatsScope) (RegistrationBreakdown, error)
	RegistrationsByMonth(ctx context.Context, scope StatsScope, since time.Time) ([]domain.MonthCount, error)
	RegistrationsByCategory(ctx context.Context, scope StatsScope) ([]domain.CategoryCount, error)
	EventsByCategory(ctx context.Context, scope StatsScope) ([]domain.CategoryCount, error)
	EventsByMonth(ctx context.Context, since time.Time) ([]domain.MonthCount, error)
	EventsStartingBetween(ctx context.Context, from, to time.Time) (int, error)
	Users(ctx context.Context, monthStart time.Time) (UserCounts, error)
	UsersByMonth(ctx context.Context, since time.Time) ([]domain.MonthCount, error)
}

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository instantiates repository.
func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) CountLikes(ctx context.Context, scope StatsScope) (int, error) {
	q := &queryArgs{}
	query := fmt.Sprintf(`SELECT COUNT(*) FROM likes l JOIN events e ON e.id = l.event_id WHERE %s`, scope.predicate(q))
	var count int
	err := r.pool.QueryRow(ctx, query, q.args...).Scan(&count)
	return count, err
}

func (r *statsRepository) SumViews(ctx context.Context, scope StatsScope) (int64, error) {
	q := &queryArgs{}
	query := fmt.Sprintf(`SELECT COALESCE(SUM(e.views_count), 0)::bigint FROM events e WHERE %s`, scope.predicate(q))
	var views int64
	err := r.pool.QueryRow(ctx, query, q.args...).Scan(&views)
	return views, err
}

func (r *statsRepository) CountEvents(ctx context.Context, scope StatsScope) (int, error) {
	q := &queryArgs{}
	query := fmt.Sprintf(`SELECT COUNT(*) FROM events e WHERE %s`, scope.predicate(q))
	var count int
	err := r.pool.QueryRow(ctx, query, q.args...).Scan(&count)
	return count, err
}

func (r *statsRepository) Registrations(ctx context.Context, scope StatsScope) (RegistrationBreakdown, error) {
	q := &queryArgs{}
	query := fmt.Sprintf(`
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE r.status = 'active'),
               COUNT(*) FILTER (WHERE r.status = 'cancelled'),
               COUNT(*) FILTER (WHERE r.status = 'denied'),
               COUNT(*) FILTER (WHERE r.attendance = 'true'),
               COUNT(*) FILTER (WHERE u.gender = 'female'),
               COUNT(*) FILTER (WHERE u.gender = 'male')
        FROM registrations r
        JOIN events e ON e.id = r.event_id
        JOIN users u ON u.id = r.user_id
        WHERE %s`, scope.predicate(q))

	var b RegistrationBreakdown
	err := r.pool.QueryRow(ctx, query, q.args...).Scan(
		&b.Total,
		&b.Active,
		&b.Cancelled,
		&b.Denied,
		&b.Attendants,
		&b.Female,
		&b.Male,
	)
	return b, err
}

func (r *statsRepository) RegistrationsByMonth(ctx context.Context, scope StatsScope, since time.Time) ([]domain.MonthCount, error) {
	q := &queryArgs{}
	where := scope.predicate(q)
	query := fmt.Sprintf(`
        SELECT to_char(r.registration_date, 'YYYY-MM') AS month, COUNT(*)
        FROM registrations r
        JOIN events e ON e.id = r.event_id
        WHERE %s AND r.registration_date >= %s
        GROUP BY month
        ORDER BY month`, where, q.bind(since))
	return r.monthSeries(ctx, query, q.args...)
}

func (r *statsRepository) RegistrationsByCategory(ctx context.Context, scope StatsScope) ([]domain.CategoryCount, error) {
	q := &queryArgs{}
	query := fmt.Sprintf(`
        SELECT c.category_name, COUNT(*)
        FROM registrations r
        JOIN events e ON e.id = r.event_id
        JOIN categories c ON c.id = e.category
        WHERE %s
        GROUP BY c.category_name
        ORDER BY c.category_name`, scope.predicate(q))
	return r.categorySeries(ctx, query, q.args...)
}

func (r *statsRepository) EventsByCategory(ctx context.Context, scope StatsScope) ([]domain.CategoryCount, error) {
	q := &queryArgs{}
	query := fmt.Sprintf(`
        SELECT c.category_name, COUNT(e.id)
        FROM events e
        JOIN categories c ON c.id = e.category
        WHERE %s
        GROUP BY c.category_name
        ORDER BY c.category_name`, scope.predicate(q))
	return r.categorySeries(ctx, query, q.args...)
}

func (r *statsRepository) EventsByMonth(ctx context.Context, since time.Time) ([]domain.MonthCount, error) {
	const query = `
        SELECT to_char(start_date, 'YYYY-MM') AS month, COUNT(*)
        FROM events
        WHERE start_date >= $1
        GROUP BY month
        ORDER BY month`
	return r.monthSeries(ctx, query, since)
}

func (r *statsRepository) EventsStartingBetween(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM events WHERE start_date BETWEEN $1 AND $2`,
		from, to,
	).Scan(&count)
	return count, err
}

func (r *statsRepository) Users(ctx context.Context, monthStart time.Time) (UserCounts, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE date_joined >= $1),
               COUNT(*) FILTER (WHERE account_type = 'organizer'),
               COUNT(*) FILTER (WHERE gender = 'female'),
               COUNT(*) FILTER (WHERE gender = 'male')
        FROM users`

	var c UserCounts
	err := r.pool.QueryRow(ctx, query, monthStart).Scan(
		&c.Total,
		&c.NewThisMonth,
		&c.Organizers,
		&c.Female,
		&c.Male,
	)
	return c, err
}

func (r *statsRepository) UsersByMonth(ctx context.Context, since time.Time) ([]domain.MonthCount, error) {
	const query = `
        SELECT to_char(date_joined, 'YYYY-MM') AS month, COUNT(*)
        FROM users
        WHERE date_joined >= $1
        GROUP BY month
        ORDER BY month`
	return r.monthSeries(ctx, query, since)
}

func (r *statsRepository) monthSeries(ctx context.Context, query string, args ...any) ([]domain.MonthCount, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.MonthCount, error) {
		var mc domain.MonthCount
		err := row.Scan(&mc.Month, &mc.Count)
		return mc, err
	})
}

func (r *statsRepository) categorySeries(ctx context.Context, query string, args ...any) ([]domain.CategoryCount, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CategoryCount, error) {
		var cc domain.CategoryCount
		err := row.Scan(&cc.CategoryName, &cc.Count)
		return cc, err
	})
}
