package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhub/event-service/internal/domain"
	"github.com/eventhub/event-service/internal/events"
	"github.com/eventhub/event-service/internal/testutil"
	apperrors "github.com/eventhub/event-service/pkg/util/errorutil"
)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func (r *recorder) last() events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

type fixture struct {
	store      *testutil.Store
	repos      testutil.Repositories
	clock      *testutil.Clock
	dispatcher events.Dispatcher
	published  *recorder

	category  domain.Category
	organizer domain.User
	other     domain.User
	regular   domain.User
	second    domain.User
	admin     domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore()
	f := &fixture{
		store:      store,
		repos:      store.Repos(),
		clock:      testutil.NewClock(time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)),
		dispatcher: events.NewInMemoryDispatcher(),
		published:  &recorder{},
	}
	for _, eventType := range []events.EventType{
		events.EventUserSuspended,
		events.EventUserActivated,
		events.EventEventSuspended,
		events.EventEventUnsuspended,
		events.EventPromotionAccepted,
		events.EventPromotionRejected,
		events.EventRegistrationUpdated,
	} {
		f.dispatcher.Subscribe(eventType, f.published.handle)
	}

	organizerName := "Gophers Inc"
	otherName := "Other Org"
	f.category = store.AddCategory("tech")
	f.organizer = store.AddUser(domain.User{
		AccountType: domain.AccountOrganizer, Fullname: "Olga Organizer", Email: "olga@example.com",
		OrganizerName: &organizerName, DateJoined: testutil.Date(2024, 6, 1),
	})
	f.other = store.AddUser(domain.User{
		AccountType: domain.AccountOrganizer, Fullname: "Oscar Other", Email: "oscar@example.com",
		OrganizerName: &otherName, Gender: domain.GenderMale, DateJoined: testutil.Date(2024, 7, 1),
	})
	f.regular = store.AddUser(domain.User{
		AccountType: domain.AccountRegular, Fullname: "Rita Regular", Email: "rita@example.com",
		DateJoined: testutil.Date(2025, 1, 2),
	})
	f.second = store.AddUser(domain.User{
		AccountType: domain.AccountRegular, Fullname: "Sam Second", Email: "sam@example.com",
		Gender: domain.GenderMale, DateJoined: testutil.Date(2024, 12, 20),
	})
	f.admin = store.AddUser(domain.User{
		AccountType: domain.AccountAdmin, Fullname: "Ada Admin", Email: "ada@example.com",
		DateJoined: testutil.Date(2024, 1, 1),
	})
	return f
}

func principal(u domain.User) domain.Principal {
	return domain.Principal{ID: u.ID, AccountType: u.AccountType}
}

// addEvent seeds an active event of the fixture organizer starting on
// 2025-02-01 with a 2025-01-10 registration deadline.
func (f *fixture) addEvent(mutate func(*domain.Event)) domain.Event {
	e := domain.Event{
		OrganizerID:              f.organizer.ID,
		CategoryID:               f.category.ID,
		Title:                    "Go Meetup",
		Description:              "Talks and pizza",
		Banner:                   "banner.png",
		Country:                  "Germany",
		City:                     "Berlin",
		FullAddress:              "Main St 1",
		DateCreated:              testutil.Date(2024, 12, 1),
		StartDate:                testutil.Date(2025, 2, 1),
		StartTime:                "18:00",
		EndDate:                  testutil.Date(2025, 2, 1),
		EndTime:                  "22:00",
		RegistrationDeadlineDate: testutil.Date(2025, 1, 10),
		RegistrationDeadlineTime: "23:59",
		CancellationDeadlineDate: testutil.Date(2025, 1, 20),
		CancellationDeadlineTime: "23:59",
	}
	if mutate != nil {
		mutate(&e)
	}
	return f.store.AddEvent(e)
}

func requireStatus(t *testing.T, err error, status int, message string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, status, domainErr.HTTPStatus)
	if message != "" {
		assert.Equal(t, message, domainErr.Message)
	}
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func datePtr(v time.Time) *time.Time { return &v }
