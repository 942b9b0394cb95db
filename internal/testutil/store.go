// Package testutil provides in-memory repository fakes backed by one shared
// store, mirroring the constraints of the Postgres schema.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/eventhub/event-service/internal/domain"
	"github.com/eventhub/event-service/internal/repository"
)

type pair struct {
	userID  int64
	eventID int64
}

// Store holds every fake table.
type Store struct {
	mu            sync.Mutex
	nextID        int64
	users         map[int64]domain.User
	events        map[int64]domain.Event
	categories    map[int64]domain.Category
	registrations map[pair]domain.Registration
	likes         map[pair]bool
	promotions    []domain.PromotionRequest
	revoked       map[string]time.Time

	// LastEventFilter is the filter passed to the most recent event listing.
	LastEventFilter repository.EventFilter
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:         make(map[int64]domain.User),
		events:        make(map[int64]domain.Event),
		categories:    make(map[int64]domain.Category),
		registrations: make(map[pair]domain.Registration),
		likes:         make(map[pair]bool),
		revoked:       make(map[string]time.Time),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// AddUser seeds an account, assigning an id when zero.
func (s *Store) AddUser(u domain.User) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.id()
	}
	if u.AccountStatus == "" {
		u.AccountStatus = domain.AccountActive
	}
	if u.Gender == "" {
		u.Gender = domain.GenderFemale
	}
	s.users[u.ID] = u
	return u
}

// User returns a copy of the stored account.
func (s *Store) User(id int64) (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	return u, ok
}

// AddCategory seeds a category.
func (s *Store) AddCategory(name string) domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := domain.Category{ID: s.id(), Name: name, DateCreated: Date(2024, 1, 1)}
	s.categories[c.ID] = c
	return c
}

// AddEvent seeds an event, defaulting status to active.
func (s *Store) AddEvent(e domain.Event) domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == 0 {
		e.ID = s.id()
	}
	if e.Status == "" {
		e.Status = domain.EventActive
	}
	if e.StartTime == "" {
		e.StartTime = "10:00"
	}
	if e.EndTime == "" {
		e.EndTime = "18:00"
	}
	s.events[e.ID] = e
	return e
}

// Event returns a copy of the stored event.
func (s *Store) Event(id int64) (domain.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	return e, ok
}

// AddRegistration seeds a registration row.
func (s *Store) AddRegistration(r domain.Registration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.Status == "" {
		r.Status = domain.RegistrationActive
	}
	s.registrations[pair{r.UserID, r.EventID}] = r
}

// Registration returns a copy of the stored registration.
func (s *Store) Registration(userID, eventID int64) (domain.Registration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.registrations[pair{userID, eventID}]
	return r, ok
}

// AddLike seeds a like row.
func (s *Store) AddLike(userID, eventID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.likes[pair{userID, eventID}] = true
}

// AddPromotion seeds a promotion request.
func (s *Store) AddPromotion(p domain.PromotionRequest) domain.PromotionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.id()
	}
	if p.Status == "" {
		p.Status = domain.PromotionPending
	}
	s.promotions = append(s.promotions, p)
	return p
}

// Promotions returns copies of every stored request.
func (s *Store) Promotions() []domain.PromotionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.PromotionRequest(nil), s.promotions...)
}

// Repositories bundles fakes over one store.
type Repositories struct {
	Users         repository.UserRepository
	Events        repository.EventRepository
	Registrations repository.RegistrationRepository
	Likes         repository.LikeRepository
	Categories    repository.CategoryRepository
	Promotions    repository.PromotionRepository
	Stats         repository.StatsRepository
	Revocations   *Revocations
}

// Repos returns repository fakes sharing s.
func (s *Store) Repos() Repositories {
	return Repositories{
		Users:         &users{s},
		Events:        &events{s},
		Registrations: &registrations{s},
		Likes:         &likes{s},
		Categories:    &categories{s},
		Promotions:    &promotions{s},
		Stats:         &stats{s},
		Revocations:   &Revocations{s},
	}
}

func page[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

// --- users

type users struct{ s *Store }

func (r *users) Create(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrDuplicate
		}
	}
	u.ID = r.s.id()
	r.s.users[u.ID] = *u
	return nil
}

func (r *users) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

func (r *users) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *users) UpdateProfile(_ context.Context, id int64, patch repository.UserProfilePatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if patch.PhoneNumber != nil {
		u.PhoneNumber = patch.PhoneNumber
	}
	if patch.Birthday != nil {
		u.Birthday = patch.Birthday
	}
	if patch.ProfilePic != nil {
		u.ProfilePic = patch.ProfilePic
	}
	if patch.Gender != nil {
		u.Gender = *patch.Gender
	}
	r.s.users[id] = u
	return nil
}

func (r *users) SetStatus(_ context.Context, id int64, status domain.AccountStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.AccountStatus = status
	r.s.users[id] = u
	return nil
}

func (r *users) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.User{}
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, u := range r.s.users {
		if u.AccountType == domain.AccountAdmin {
			continue
		}
		if filter.Role != "" && u.AccountType != filter.Role {
			continue
		}
		if filter.Gender != nil && u.Gender != *filter.Gender {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(u.Fullname), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if filter.Sort == repository.UserSortNameAsc {
			return strings.ToLower(out[i].Fullname) < strings.ToLower(out[j].Fullname)
		}
		return out[i].ID > out[j].ID
	})
	return page(out, filter.Limit, filter.Offset), nil
}
