package domain

import "math"

// MonthCount is one bucket of a per-month series, month formatted YYYY-MM.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// CategoryCount is one bucket of a per-category series.
type CategoryCount struct {
	CategoryName string `json:"category_name"`
	Count        int    `json:"count"`
}

// EventStats is the dashboard report for a single event.
type EventStats struct {
	TotalLikes                  int          `json:"total_likes"`
	TotalViews                  int64        `json:"total_views"`
	TotalRegistrations          int          `json:"total_registrations"`
	TotalActiveRegistrations    int          `json:"total_active_registrations"`
	TotalCancelledRegistrations int          `json:"total_cancelled_registrations"`
	TotalDeniedRegistrations    int          `json:"total_denied_registrations"`
	ConversionRate              float64      `json:"conversion_rate"`
	RegistrationsLast6Months    []MonthCount `json:"registrations_last_6_months"`
	TotalAttendants             int          `json:"total_attendants"`
	AttendanceRate              float64      `json:"attendance_rate"`
	FemaleRegistrations         int          `json:"female_registrations"`
	MaleRegistrations           int          `json:"male_registrations"`
}

// OrganizerStats aggregates every event owned by one organizer.
type OrganizerStats struct {
	TotalEvents                 int             `json:"total_events"`
	TotalViews                  int64           `json:"total_views"`
	TotalLikes                  int             `json:"total_likes"`
	EventsPerCategory           []CategoryCount `json:"events_per_category"`
	TotalRegistrations          int             `json:"total_registrations"`
	TotalActiveRegistrations    int             `json:"total_active_registrations"`
	TotalCancelledRegistrations int             `json:"total_cancelled_registrations"`
	TotalDeniedRegistrations    int             `json:"total_denied_registrations"`
	AvgRegistrantsPerEvent      float64         `json:"avg_registrants_per_event"`
	ConversionRate              float64         `json:"conversion_rate"`
	FemaleRegistrations         int             `json:"female_registrations"`
	MaleRegistrations           int             `json:"male_registrations"`
	RegistrationsLast6Months    []MonthCount    `json:"registrations_last_6_months"`
	TotalAttendants             int             `json:"total_attendants"`
	AvgAttendantsPerEvent       float64         `json:"avg_attendants_per_event"`
	AttendanceRate              float64         `json:"attendance_rate"`
}

// PlatformStats is the admin-wide analytics report.
type PlatformStats struct {
	UsersCount                   int             `json:"users_count"`
	NewUsersThisMonth            int             `json:"new_users_this_month"`
	OrganizersCount              int             `json:"organizers_count"`
	NewUsersByMonth              []MonthCount    `json:"new_users_by_month"`
	FemaleUsers                  int             `json:"female_users"`
	MaleUsers                    int             `json:"male_users"`
	EventsCount                  int             `json:"events_count"`
	EventsNextMonth              int             `json:"events_next_month"`
	RegistrationsCount           int             `json:"registrations_count"`
	ActiveRegistrations          int             `json:"-"`
	TotalAttendants              int             `json:"total_attendants"`
	AttendanceRate               float64         `json:"attendance_rate"`
	EventsCountPerMonth          []MonthCount    `json:"events_count_per_month"`
	EventsCountByCategory        []CategoryCount `json:"events_count_by_category"`
	RegistrationsCountByCategory []CategoryCount `json:"registrations_count_by_category"`
	RegistrationsByMonth         []MonthCount    `json:"registrations_by_month"`
}

// Percent returns part/whole as a whole-number percentage. A zero whole
// yields 0.
func Percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(part / whole * 100)
}

// Average returns total/count rounded to two decimals; zero count yields 0.
func Average(total, count float64) float64 {
	if count == 0 {
		return 0
	}
	return math.Round(total/count*100) / 100
}
