package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhub/event-service/internal/domain"
	"github.com/eventhub/event-service/internal/service"
	"github.com/eventhub/event-service/internal/testutil"
)

func TestPlatformStats(t *testing.T) {
	f := newFixture(t)
	svc := service.NewStatsService(f.repos.Stats, f.clock.Now)
	soon := f.addEvent(func(e *domain.Event) { e.StartDate = testutil.Date(2025, 1, 20) })
	f.addEvent(func(e *domain.Event) { e.StartDate = testutil.Date(2025, 3, 1) })
	present := domain.AttendancePresent
	f.store.AddRegistration(domain.Registration{UserID: f.regular.ID, EventID: soon.ID, RegistrationDate: testutil.Date(2025, 1, 3), Attendance: &present})
	f.store.AddRegistration(domain.Registration{UserID: f.second.ID, EventID: soon.ID, RegistrationDate: testutil.Date(2024, 12, 30)})
	f.store.AddRegistration(domain.Registration{UserID: f.other.ID, EventID: soon.ID, RegistrationDate: testutil.Date(2024, 12, 30), Status: domain.RegistrationCancelled})

	stats, err := svc.Platform(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, stats.UsersCount)
	assert.Equal(t, 1, stats.NewUsersThisMonth)
	assert.Equal(t, 2, stats.OrganizersCount)
	assert.Equal(t, 3, stats.FemaleUsers)
	assert.Equal(t, 2, stats.MaleUsers)
	// The window starts on 2024-07-05, so the July 1st sign-up is outside it.
	assert.Equal(t, []domain.MonthCount{
		{Month: "2024-12", Count: 1},
		{Month: "2025-01", Count: 1},
	}, stats.NewUsersByMonth)

	assert.Equal(t, 2, stats.EventsCount)
	assert.Equal(t, 1, stats.EventsNextMonth)
	assert.Equal(t, []domain.CategoryCount{{CategoryName: "tech", Count: 2}}, stats.EventsCountByCategory)

	assert.Equal(t, 3, stats.RegistrationsCount)
	assert.Equal(t, 1, stats.TotalAttendants)
	assert.Equal(t, 50.0, stats.AttendanceRate)
	assert.Equal(t, []domain.CategoryCount{{CategoryName: "tech", Count: 3}}, stats.RegistrationsCountByCategory)
	assert.Equal(t, []domain.MonthCount{{Month: "2024-12", Count: 2}, {Month: "2025-01", Count: 1}}, stats.RegistrationsByMonth)
}

func TestPlatformStatsEmpty(t *testing.T) {
	store := testutil.NewStore()
	svc := service.NewStatsService(store.Repos().Stats, testutil.NewClock(testutil.Date(2025, 1, 5)).Now)

	stats, err := svc.Platform(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.AttendanceRate)
	assert.NotNil(t, stats.NewUsersByMonth)
	assert.NotNil(t, stats.EventsCountByCategory)
	assert.NotNil(t, stats.RegistrationsByMonth)
}
