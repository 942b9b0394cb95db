// Package policy holds the role-based access rules consulted by handlers and
// services. Every role gate in the API resolves through the table below.
package policy

import (
	"github.com/eventhub/event-service/internal/domain"
	apperrors "github.com/eventhub/event-service/pkg/util/errorutil"
)

// Resource names a protected entity.
type Resource string

const (
	ResourceEvent        Resource = "event"
	ResourceRegistration Resource = "registration"
	ResourceLike         Resource = "like"
	ResourceCategory     Resource = "category"
	ResourcePromotion    Resource = "promotion"
	ResourceUser         Resource = "user"
	ResourceStats        Resource = "stats"
)

// Action names an operation on a resource.
type Action string

const (
	ActionCreate         Action = "create"
	ActionUpdate         Action = "update"
	ActionStats          Action = "stats"
	ActionRegistrations  Action = "registrations"
	ActionManage         Action = "manage"
	ActionDetailed       Action = "detailed"
	ActionView           Action = "view"
	ActionList           Action = "list"
	ActionAccept         Action = "accept"
	ActionReject         Action = "reject"
	ActionSuspend        Action = "suspend"
	ActionActivate       Action = "activate"
	ActionOrganizerStats Action = "organizer_stats"
	ActionPlatform       Action = "platform"
)

// Effect is the outcome of a table lookup.
type Effect int

const (
	Deny Effect = iota
	Allow
	// AllowIfOwner requires the principal to own the target resource.
	AllowIfOwner
	// AllowIfNotOwner requires the principal not to own the target resource.
	AllowIfNotOwner
	// AllowIfSelf requires the target to be the principal's own account.
	AllowIfSelf
)

type rule struct {
	resource Resource
	action   Action
}

type effects map[domain.AccountType]Effect

const (
	regular   = domain.AccountRegular
	organizer = domain.AccountOrganizer
	admin     = domain.AccountAdmin
)

var table = map[rule]effects{
	{ResourceEvent, ActionCreate}:        {organizer: Allow},
	{ResourceEvent, ActionUpdate}:        {organizer: AllowIfOwner, admin: Allow},
	{ResourceEvent, ActionStats}:         {organizer: AllowIfOwner, admin: Allow},
	{ResourceEvent, ActionRegistrations}: {organizer: AllowIfOwner, admin: Allow},
	{ResourceRegistration, ActionManage}: {organizer: AllowIfOwner},
	{ResourceRegistration, ActionCreate}: {regular: Allow, organizer: AllowIfNotOwner},
	{ResourceLike, ActionCreate}:         {regular: Allow, organizer: Allow},
	{ResourceCategory, ActionCreate}:     {admin: Allow},
	{ResourceCategory, ActionDetailed}:   {admin: Allow},
	{ResourcePromotion, ActionCreate}:    {regular: Allow},
	{ResourcePromotion, ActionView}:      {regular: AllowIfSelf, organizer: AllowIfSelf, admin: Allow},
	{ResourcePromotion, ActionList}:      {admin: Allow},
	{ResourcePromotion, ActionAccept}:    {admin: Allow},
	{ResourcePromotion, ActionReject}:    {admin: Allow},
	{ResourceUser, ActionList}:           {admin: Allow},
	{ResourceUser, ActionSuspend}:        {admin: Allow},
	{ResourceUser, ActionActivate}:       {admin: Allow},
	{ResourceUser, ActionUpdate}:         {regular: AllowIfSelf, organizer: AllowIfSelf, admin: AllowIfSelf},
	{ResourceUser, ActionOrganizerStats}: {organizer: AllowIfSelf, admin: Allow},
	{ResourceStats, ActionPlatform}:      {admin: Allow},
}

// EffectFor returns the table entry for role on resource.action. Unknown
// combinations are denied.
func EffectFor(role domain.AccountType, resource Resource, action Action) Effect {
	byRole, ok := table[rule{resource, action}]
	if !ok {
		return Deny
	}
	return byRole[role]
}

// Permits evaluates the effect for principal against the id owning the target:
// an event's organizer id, or the target account id for self rules.
func Permits(p domain.Principal, resource Resource, action Action, ownerID int64) bool {
	switch EffectFor(p.AccountType, resource, action) {
	case Allow:
		return true
	case AllowIfOwner, AllowIfSelf:
		return p.ID == ownerID
	case AllowIfNotOwner:
		return p.ID != ownerID
	}
	return false
}

// Authorize is Permits returning a 403 domain error on denial.
func Authorize(p domain.Principal, resource Resource, action Action, ownerID int64) error {
	if Permits(p, resource, action, ownerID) {
		return nil
	}
	return apperrors.NewForbidden("Access denied")
}

// SuspendedVisibility reports which suspended events a role may list. Admins
// moderate suspended content and therefore see all of it.
func SuspendedVisibility(role domain.AccountType) domain.SuspendedVisibility {
	switch role {
	case domain.AccountAdmin:
		return domain.SuspendedVisible
	case domain.AccountOrganizer:
		return domain.SuspendedOwnOnly
	}
	return domain.SuspendedHidden
}

// CanViewEvent applies suspension visibility to a single event.
func CanViewEvent(p domain.Principal, event *domain.Event) bool {
	if !event.Suspended {
		return true
	}
	switch SuspendedVisibility(p.AccountType) {
	case domain.SuspendedVisible:
		return true
	case domain.SuspendedOwnOnly:
		return event.OrganizerID == p.ID
	}
	return false
}

// RegisterScope is the resolved form of a listing's registerId parameter.
// A zero UserID means no registration join. A non-zero OrganizerID restricts
// the listing to that organizer's events.
type RegisterScope struct {
	UserID      int64
	OrganizerID int64
}

// ResolveRegisterScope honours registerID for admins, for the requester's own
// id, and for organizers (restricted to their own events). Any other
// combination is a conflict.
func ResolveRegisterScope(p domain.Principal, registerID int64) (RegisterScope, error) {
	if registerID == 0 {
		return RegisterScope{}, nil
	}
	switch {
	case p.Is(domain.AccountAdmin), p.ID == registerID:
		return RegisterScope{UserID: registerID}, nil
	case p.Is(domain.AccountOrganizer):
		return RegisterScope{UserID: registerID, OrganizerID: p.ID}, nil
	}
	return RegisterScope{}, apperrors.NewConflict("denied access register")
}

// Projection selects how much of a profile a requester may see.
type Projection int

const (
	ProjectionDenied Projection = iota
	ProjectionFull
	// ProjectionOrganizerPublic is the reduced organizer card shown to regular users.
	ProjectionOrganizerPublic
	// ProjectionFullIfRegistrant grants the full record only when the target
	// holds a non-cancelled registration on one of the requester's events.
	ProjectionFullIfRegistrant
)

// ProfileProjection resolves the requester/target pair for profile reads.
// Admins are opaque to every other account, other admins included.
func ProfileProjection(requester domain.Principal, targetID int64, target domain.AccountType) Projection {
	if requester.ID == targetID {
		return ProjectionFull
	}
	if target == domain.AccountAdmin {
		return ProjectionDenied
	}
	switch {
	case requester.Is(domain.AccountAdmin):
		return ProjectionFull
	case requester.Is(domain.AccountRegular) && target == domain.AccountOrganizer:
		return ProjectionOrganizerPublic
	case requester.Is(domain.AccountOrganizer) && target == domain.AccountRegular:
		return ProjectionFullIfRegistrant
	}
	return ProjectionDenied
}
