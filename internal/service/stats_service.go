package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/eventhub/event-service/internal/domain"
	"github.com/eventhub/event-service/internal/repository"
)

// nextMonthDays is the look-ahead of the events_next_month figure.
const nextMonthDays = 30

// StatsService assembles the admin platform report.
type StatsService struct {
	stats repository.StatsRepository
	now   Clock
}

// NewStatsService builds the service.
func NewStatsService(stats repository.StatsRepository, clock Clock) *StatsService {
	return &StatsService{stats: stats, now: clock.orDefault()}
}

// Platform runs the independent aggregates concurrently and fails when any
// of them fails. Nothing is cached.
func (s *StatsService) Platform(ctx context.Context) (*domain.PlatformStats, error) {
	today := domain.DateOf(s.now())
	monthStart := today.AddDate(0, 0, 1-today.Day())
	since := today.AddDate(0, -statsWindow, 0)
	all := repository.StatsScope{}

	var (
		out        domain.PlatformStats
		users      repository.UserCounts
		regs       repository.RegistrationBreakdown
		usersMonth []domain.MonthCount
		evMonth    []domain.MonthCount
		regMonth   []domain.MonthCount
		evCategory []domain.CategoryCount
		rgCategory []domain.CategoryCount
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = s.stats.Users(ctx, monthStart)
		return err
	})
	g.Go(func() (err error) {
		usersMonth, err = s.stats.UsersByMonth(ctx, since)
		return err
	})
	g.Go(func() (err error) {
		out.EventsCount, err = s.stats.CountEvents(ctx, all)
		return err
	})
	g.Go(func() (err error) {
		out.EventsNextMonth, err = s.stats.EventsStartingBetween(ctx, today, today.AddDate(0, 0, nextMonthDays))
		return err
	})
	g.Go(func() (err error) {
		evMonth, err = s.stats.EventsByMonth(ctx, since)
		return err
	})
	g.Go(func() (err error) {
		evCategory, err = s.stats.EventsByCategory(ctx, all)
		return err
	})
	g.Go(func() (err error) {
		regs, err = s.stats.Registrations(ctx, all)
		return err
	})
	g.Go(func() (err error) {
		rgCategory, err = s.stats.RegistrationsByCategory(ctx, all)
		return err
	})
	g.Go(func() (err error) {
		regMonth, err = s.stats.RegistrationsByMonth(ctx, all, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.UsersCount = users.Total
	out.NewUsersThisMonth = users.NewThisMonth
	out.OrganizersCount = users.Organizers
	out.FemaleUsers = users.Female
	out.MaleUsers = users.Male
	out.NewUsersByMonth = nonNilMonths(usersMonth)
	out.EventsCountPerMonth = nonNilMonths(evMonth)
	out.EventsCountByCategory = nonNilCategories(evCategory)
	out.RegistrationsCount = regs.Total
	out.ActiveRegistrations = regs.Active
	out.TotalAttendants = regs.Attendants
	out.AttendanceRate = domain.Percent(float64(regs.Attendants), float64(regs.Active))
	out.RegistrationsCountByCategory = nonNilCategories(rgCategory)
	out.RegistrationsByMonth = nonNilMonths(regMonth)
	return &out, nil
}
