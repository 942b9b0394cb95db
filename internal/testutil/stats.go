package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/eventhub/event-service/internal/domain"
	"github.com/eventhub/event-service/internal/repository"
)

type stats struct{ s *Store }

// inScope must be called with the lock held.
func (r *stats) inScope(scope repository.StatsScope, e domain.Event) bool {
	switch {
	case scope.EventID != 0:
		return e.ID == scope.EventID
	case scope.OrganizerID != 0:
		return e.OrganizerID == scope.OrganizerID
	}
	return true
}

func months(counts map[string]int) []domain.MonthCount {
	out := make([]domain.MonthCount, 0, len(counts))
	for month, count := range counts {
		out = append(out, domain.MonthCount{Month: month, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

func byCategory(counts map[string]int) []domain.CategoryCount {
	out := make([]domain.CategoryCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, domain.CategoryCount{CategoryName: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CategoryName < out[j].CategoryName })
	return out
}

func (r *stats) CountLikes(_ context.Context, scope repository.StatsScope) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	count := 0
	for key := range r.s.likes {
		if e, ok := r.s.events[key.eventID]; ok && r.inScope(scope, e) {
			count++
		}
	}
	return count, nil
}

func (r *stats) SumViews(_ context.Context, scope repository.StatsScope) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var views int64
	for _, e := range r.s.events {
		if r.inScope(scope, e) {
			views += e.ViewsCount
		}
	}
	return views, nil
}

func (r *stats) CountEvents(_ context.Context, scope repository.StatsScope) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	count := 0
	for _, e := range r.s.events {
		if r.inScope(scope, e) {
			count++
		}
	}
	return count, nil
}

func (r *stats) Registrations(_ context.Context, scope repository.StatsScope) (repository.RegistrationBreakdown, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var b repository.RegistrationBreakdown
	for key, reg := range r.s.registrations {
		e, ok := r.s.events[key.eventID]
		if !ok || !r.inScope(scope, e) {
			continue
		}
		b.Total++
		switch reg.Status {
		case domain.RegistrationActive:
			b.Active++
		case domain.RegistrationCancelled:
			b.Cancelled++
		case domain.RegistrationDenied:
			b.Denied++
		}
		if reg.Attendance != nil && *reg.Attendance == domain.AttendancePresent {
			b.Attendants++
		}
		switch r.s.users[key.userID].Gender {
		case domain.GenderFemale:
			b.Female++
		case domain.GenderMale:
			b.Male++
		}
	}
	return b, nil
}

func (r *stats) RegistrationsByMonth(_ context.Context, scope repository.StatsScope, since time.Time) ([]domain.MonthCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := map[string]int{}
	for key, reg := range r.s.registrations {
		e, ok := r.s.events[key.eventID]
		if !ok || !r.inScope(scope, e) || reg.RegistrationDate.Before(since) {
			continue
		}
		counts[reg.RegistrationDate.Format("2006-01")]++
	}
	return months(counts), nil
}

func (r *stats) RegistrationsByCategory(_ context.Context, scope repository.StatsScope) ([]domain.CategoryCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := map[string]int{}
	for key := range r.s.registrations {
		e, ok := r.s.events[key.eventID]
		if !ok || !r.inScope(scope, e) {
			continue
		}
		counts[r.s.categories[e.CategoryID].Name]++
	}
	return byCategory(counts), nil
}

func (r *stats) EventsByCategory(_ context.Context, scope repository.StatsScope) ([]domain.CategoryCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := map[string]int{}
	for _, e := range r.s.events {
		if r.inScope(scope, e) {
			counts[r.s.categories[e.CategoryID].Name]++
		}
	}
	return byCategory(counts), nil
}

func (r *stats) EventsByMonth(_ context.Context, since time.Time) ([]domain.MonthCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := map[string]int{}
	for _, e := range r.s.events {
		if !e.StartDate.Before(since) {
			counts[e.StartDate.Format("2006-01")]++
		}
	}
	return months(counts), nil
}

func (r *stats) EventsStartingBetween(_ context.Context, from, to time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	count := 0
	for _, e := range r.s.events {
		if !e.StartDate.Before(from) && !e.StartDate.After(to) {
			count++
		}
	}
	return count, nil
}

func (r *stats) Users(_ context.Context, monthStart time.Time) (repository.UserCounts, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var c repository.UserCounts
	for _, u := range r.s.users {
		c.Total++
		if !u.DateJoined.Before(monthStart) {
			c.NewThisMonth++
		}
		if u.AccountType == domain.AccountOrganizer {
			c.Organizers++
		}
		switch u.Gender {
		case domain.GenderFemale:
			c.Female++
		case domain.GenderMale:
			c.Male++
		}
	}
	return c, nil
}

func (r *stats) UsersByMonth(_ context.Context, since time.Time) ([]domain.MonthCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := map[string]int{}
	for _, u := range r.s.users {
		if !u.DateJoined.Before(since) {
			counts[u.DateJoined.Format("2006-01")]++
		}
	}
	return months(counts), nil
}
