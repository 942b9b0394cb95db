package testutil

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/eventhub/event-service/internal/domain"
	"github.com/eventhub/event-service/internal/repository"
)

// --- events

type events struct{ s *Store }

func (r *events) Create(_ context.Context, e *domain.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.ID = r.s.id()
	e.Status = domain.EventActive
	r.s.events[e.ID] = *e
	return nil
}

func (r *events) GetByID(_ context.Context, id int64) (*domain.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &e, nil
}

// view must be called with the lock held.
func (r *events) view(e domain.Event, viewerID, registrantID int64) domain.EventView {
	v := domain.EventView{Event: e, IsLikedByUser: r.s.likes[pair{viewerID, e.ID}]}
	if organizer, ok := r.s.users[e.OrganizerID]; ok {
		v.OrganizerName = organizer.OrganizerName
		v.OrganizerProfilePic = organizer.ProfilePic
	}
	v.CategoryName = r.s.categories[e.CategoryID].Name
	if registrantID != 0 {
		if reg, ok := r.s.registrations[pair{registrantID, e.ID}]; ok {
			status := reg.Status
			date := reg.RegistrationDate
			v.RegistrationStatus = &status
			v.RegistrationDate = &date
			v.Attendance = reg.Attendance
		}
	}
	return v
}

func (r *events) GetView(_ context.Context, id, viewerID int64) (*domain.EventView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	v := r.view(e, viewerID, viewerID)
	return &v, nil
}

func (r *events) List(_ context.Context, f repository.EventFilter) ([]domain.EventView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.LastEventFilter = f

	categories := map[int64]bool{}
	for _, id := range f.Categories {
		categories[id] = true
	}

	out := []domain.EventView{}
	for _, e := range r.s.events {
		if e.Status == domain.EventDeleted {
			continue
		}
		if e.Suspended {
			if f.Suspended == domain.SuspendedHidden {
				continue
			}
			if f.Suspended == domain.SuspendedOwnOnly && e.OrganizerID != f.ViewerID {
				continue
			}
		}
		if f.OwnerID != 0 && e.OrganizerID != f.OwnerID {
			continue
		}
		if f.OrganizerScopeID != 0 && e.OrganizerID != f.OrganizerScopeID {
			continue
		}
		if len(categories) > 0 && !categories[e.CategoryID] {
			continue
		}
		if f.City != "" && !strings.EqualFold(e.City, f.City) {
			continue
		}
		if f.LikedOnly && !r.s.likes[pair{f.ViewerID, e.ID}] {
			continue
		}
		switch f.Completed {
		case domain.CompletedExclude:
			if e.EndDate.Before(f.Today) {
				continue
			}
		case domain.CompletedOnly:
			if !e.EndDate.Before(f.Today) {
				continue
			}
		}
		if f.RegisteredUserID != 0 {
			reg, ok := r.s.registrations[pair{f.RegisteredUserID, e.ID}]
			if !ok || reg.Status == domain.RegistrationCancelled {
				continue
			}
		}
		out = append(out, r.view(e, f.ViewerID, f.RegisteredUserID))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return page(out, f.Limit, f.Offset), nil
}

func (r *events) Update(_ context.Context, id int64, p repository.EventPatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return pgx.ErrNoRows
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setDate := func(dst *time.Time, src *time.Time) {
		if src != nil {
			*dst = *src
		}
	}
	set(&e.Banner, p.Banner)
	set(&e.Description, p.Description)
	set(&e.City, p.City)
	set(&e.FullAddress, p.FullAddress)
	set(&e.StartTime, p.StartTime)
	set(&e.EndTime, p.EndTime)
	set(&e.RegistrationDeadlineTime, p.RegistrationDeadlineTime)
	set(&e.CancellationDeadlineTime, p.CancellationDeadlineTime)
	setDate(&e.StartDate, p.StartDate)
	setDate(&e.EndDate, p.EndDate)
	setDate(&e.RegistrationDeadlineDate, p.RegistrationDeadlineDate)
	setDate(&e.CancellationDeadlineDate, p.CancellationDeadlineDate)
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.Tags != nil {
		e.Tags = p.Tags
	}
	if p.MaxCapacity != nil {
		e.MaxCapacity = p.MaxCapacity
	}
	r.s.events[id] = e
	return nil
}

func (r *events) SetSuspended(_ context.Context, id int64, suspended bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return pgx.ErrNoRows
	}
	e.Suspended = suspended
	r.s.events[id] = e
	return nil
}

func (r *events) IncrementViews(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return pgx.ErrNoRows
	}
	e.ViewsCount++
	r.s.events[id] = e
	return nil
}

// --- registrations

type registrations struct{ s *Store }

func (r *registrations) Get(_ context.Context, userID, eventID int64) (*domain.Registration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	reg, ok := r.s.registrations[pair{userID, eventID}]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &reg, nil
}

func (r *registrations) Create(_ context.Context, reg *domain.Registration, capacity *int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[reg.EventID]; !ok {
		return pgx.ErrNoRows
	}
	if capacity != nil {
		active := 0
		for key, existing := range r.s.registrations {
			if key.eventID == reg.EventID && existing.Status == domain.RegistrationActive {
				active++
			}
		}
		if active >= *capacity {
			return repository.ErrCapacityReached
		}
	}
	key := pair{reg.UserID, reg.EventID}
	if _, ok := r.s.registrations[key]; ok {
		return repository.ErrDuplicate
	}
	r.s.registrations[key] = *reg
	return nil
}

func (r *registrations) Cancel(_ context.Context, userID, eventID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := pair{userID, eventID}
	reg, ok := r.s.registrations[key]
	if !ok || reg.Status == domain.RegistrationCancelled {
		return pgx.ErrNoRows
	}
	reg.Status = domain.RegistrationCancelled
	r.s.registrations[key] = reg
	return nil
}

func (r *registrations) Update(_ context.Context, userID, eventID int64, u repository.RegistrationUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := pair{userID, eventID}
	reg, ok := r.s.registrations[key]
	if !ok {
		return pgx.ErrNoRows
	}
	if u.Status != nil {
		reg.Status = *u.Status
	}
	if u.Attendance != nil {
		attendance := *u.Attendance
		reg.Attendance = &attendance
	}
	r.s.registrations[key] = reg
	return nil
}

func (r *registrations) ListByEvent(_ context.Context, eventID int64, limit, offset int) ([]domain.RegistrationView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.RegistrationView{}
	for key, reg := range r.s.registrations {
		if key.eventID != eventID {
			continue
		}
		u := r.s.users[key.userID]
		out = append(out, domain.RegistrationView{
			Registration: reg,
			Fullname:     u.Fullname,
			Email:        u.Email,
			PhoneNumber:  u.PhoneNumber,
			ProfilePic:   u.ProfilePic,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return page(out, limit, offset), nil
}

func (r *registrations) HasRegistrationWithOrganizer(_ context.Context, userID, organizerID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for key, reg := range r.s.registrations {
		if key.userID != userID || reg.Status == domain.RegistrationCancelled {
			continue
		}
		if r.s.events[key.eventID].OrganizerID == organizerID {
			return true, nil
		}
	}
	return false, nil
}

// --- likes

type likes struct{ s *Store }

func (r *likes) Create(_ context.Context, userID, eventID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := pair{userID, eventID}
	if r.s.likes[key] {
		return repository.ErrDuplicate
	}
	r.s.likes[key] = true
	return nil
}

func (r *likes) Delete(_ context.Context, userID, eventID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := pair{userID, eventID}
	if !r.s.likes[key] {
		return pgx.ErrNoRows
	}
	delete(r.s.likes, key)
	return nil
}

func (r *likes) Exists(_ context.Context, userID, eventID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.likes[pair{userID, eventID}], nil
}

// --- categories

type categories struct{ s *Store }

func (r *categories) Create(_ context.Context, c *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.categories {
		if existing.Name == c.Name {
			return repository.ErrDuplicate
		}
	}
	c.ID = r.s.id()
	r.s.categories[c.ID] = *c
	return nil
}

func (r *categories) List(_ context.Context) ([]domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *categories) Exists(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.categories[id]
	return ok, nil
}

// --- promotions

type promotions struct{ s *Store }

func (r *promotions) Create(_ context.Context, p *domain.PromotionRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = r.s.id()
	r.s.promotions = append(r.s.promotions, *p)
	return nil
}

// pending must be called with the lock held.
func (r *promotions) pending(userID int64) int {
	for i := len(r.s.promotions) - 1; i >= 0; i-- {
		p := r.s.promotions[i]
		if p.UserID == userID && p.Status == domain.PromotionPending {
			return i
		}
	}
	return -1
}

func (r *promotions) GetPending(_ context.Context, userID int64) (*domain.PromotionRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.pending(userID)
	if i < 0 {
		return nil, pgx.ErrNoRows
	}
	p := r.s.promotions[i]
	return &p, nil
}

func (r *promotions) ListPending(_ context.Context, limit, offset int) ([]domain.PromotionRequestView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.PromotionRequestView{}
	for _, p := range r.s.promotions {
		if p.Status != domain.PromotionPending {
			continue
		}
		u := r.s.users[p.UserID]
		out = append(out, domain.PromotionRequestView{PromotionRequest: p, Fullname: u.Fullname, ProfilePic: u.ProfilePic})
	}
	return page(out, limit, offset), nil
}

func (r *promotions) Accept(_ context.Context, userID int64, date time.Time) (*domain.PromotionRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.pending(userID)
	if i < 0 {
		return nil, pgx.ErrNoRows
	}
	u, ok := r.s.users[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	name := r.s.promotions[i].RequestedOrganizerName
	u.AccountType = domain.AccountOrganizer
	u.OrganizerName = &name
	u.PromotionDate = &date
	r.s.users[userID] = u
	r.s.promotions[i].Status = domain.PromotionAccepted
	p := r.s.promotions[i]
	return &p, nil
}

func (r *promotions) Reject(_ context.Context, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.pending(userID)
	if i < 0 {
		return pgx.ErrNoRows
	}
	r.s.promotions[i].Status = domain.PromotionRejected
	return nil
}

// --- revocations

// Revocations is an in-memory auth.RevocationStore.
type Revocations struct{ s *Store }

// Revoke records tokenID.
func (r *Revocations) Revoke(_ context.Context, tokenID string, until time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.revoked[tokenID] = until
	return nil
}

// IsRevoked reports whether tokenID was revoked.
func (r *Revocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.revoked[tokenID]
	return ok, nil
}
