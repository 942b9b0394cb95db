package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/eventhub/event-service/internal/domain"
)

// EventFilter is the typed parameter object for event listings. Zero values
// disable the corresponding predicate.
type EventFilter struct {
	ViewerID   int64
	Suspended  domain.SuspendedVisibility
	Search     string
	Categories []int64
	City       string
	StartFrom  *time.Time
	EndUntil   *time.Time
	Ongoing    bool
	Completed  domain.CompletedFilter
	Today      time.Time
	LikedOnly  bool
	OwnerID    int64
	// OrganizerScopeID restricts rows to one organizer's events, set when an
	// organizer lists another user's registrations.
	OrganizerScopeID int64
	// RegisteredUserID joins that user's non-cancelled registration.
	RegisteredUserID int64
	Sort             domain.EventSort
	Limit            int
	Offset           int
}

const eventColumns = `e.id, e.organizer_id, e.date_created, e.event_banner, e.category, e.title,
       e.description, e.country, e.city, e.full_address, e.start_date, e.start_time,
       e.end_date, e.end_time, e.tags, e.max_capacity, e.registration_deadline_date,
       e.registration_deadline_time, e.cancellation_deadline_date,
       e.cancellation_deadline_time, e.views_count, e.status, e.suspended`

type queryArgs struct {
	args []any
}

func (q *queryArgs) bind(value any) string {
	q.args = append(q.args, value)
	return fmt.Sprintf("$%d", len(q.args))
}

// BuildEventListQuery compiles filter into a parameterised listing query.
// Soft-deleted events are excluded unconditionally.
func BuildEventListQuery(filter EventFilter) (string, []any) {
	q := &queryArgs{}

	likeJoin := "LEFT JOIN"
	if filter.LikedOnly {
		likeJoin = "JOIN"
	}
	joins := []string{
		"JOIN users u ON u.id = e.organizer_id",
		"JOIN categories c ON c.id = e.category",
		fmt.Sprintf("%s likes l ON l.event_id = e.id AND l.user_id = %s", likeJoin, q.bind(filter.ViewerID)),
	}

	registrationColumns := "NULL::text, NULL::date, NULL::text"
	if filter.RegisteredUserID != 0 {
		registrationColumns = "r.status, r.registration_date, r.attendance"
		joins = append(joins, fmt.Sprintf(
			"JOIN registrations r ON r.event_id = e.id AND r.user_id = %s AND r.status <> 'cancelled'",
			q.bind(filter.RegisteredUserID)))
	}

	clauses := []string{"e.status <> 'deleted'"}

	switch filter.Suspended {
	case domain.SuspendedHidden:
		clauses = append(clauses, "NOT e.suspended")
	case domain.SuspendedOwnOnly:
		clauses = append(clauses, fmt.Sprintf("(NOT e.suspended OR e.organizer_id = %s)", q.bind(filter.ViewerID)))
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		keyword := q.bind("%" + strings.ToLower(search) + "%")
		clauses = append(clauses, fmt.Sprintf("(LOWER(e.title) LIKE %s OR LOWER(u.organizer_name) LIKE %s)", keyword, keyword))
	}
	if len(filter.Categories) > 0 {
		placeholders := make([]string, len(filter.Categories))
		for i, id := range filter.Categories {
			placeholders[i] = q.bind(id)
		}
		clauses = append(clauses, fmt.Sprintf("e.category IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.StartFrom != nil {
		clauses = append(clauses, "e.start_date >= "+q.bind(*filter.StartFrom))
	}
	if filter.EndUntil != nil {
		clauses = append(clauses, "e.end_date <= "+q.bind(*filter.EndUntil))
	}
	if filter.Ongoing {
		today := q.bind(filter.Today)
		clauses = append(clauses, "e.start_date <= "+today, "e.end_date >= "+today)
	}
	switch filter.Completed {
	case domain.CompletedOnly:
		clauses = append(clauses, "e.end_date < "+q.bind(filter.Today))
	case domain.CompletedExclude:
		clauses = append(clauses, "e.end_date >= "+q.bind(filter.Today))
	}
	if city := strings.TrimSpace(filter.City); city != "" {
		clauses = append(clauses, "LOWER(e.city) = "+q.bind(strings.ToLower(city)))
	}
	if filter.OwnerID != 0 {
		clauses = append(clauses, "e.organizer_id = "+q.bind(filter.OwnerID))
	}
	if filter.OrganizerScopeID != 0 {
		clauses = append(clauses, "e.organizer_id = "+q.bind(filter.OrganizerScopeID))
	}

	var orderBy string
	switch filter.Sort {
	case domain.SortPopular:
		orderBy = "(SELECT COUNT(*) FROM registrations rc WHERE rc.event_id = e.id) DESC"
	case domain.SortDeadline:
		orderBy = "e.registration_deadline_date ASC"
	default:
		orderBy = "e.start_date ASC"
	}

	query := fmt.Sprintf(`SELECT %s,
       u.organizer_name, u.profile_pic, c.category_name,
       (l.user_id IS NOT NULL) AS is_liked,
       %s
FROM events e
%s
WHERE %s
ORDER BY %s
LIMIT %s OFFSET %s`,
		eventColumns,
		registrationColumns,
		strings.Join(joins, "\n"),
		strings.Join(clauses, " AND "),
		orderBy,
		q.bind(filter.Limit),
		q.bind(filter.Offset),
	)
	return query, q.args
}
