package policy

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhub/event-service/internal/domain"
	apperrors "github.com/eventhub/event-service/pkg/util/errorutil"
)

func principal(id int64, role domain.AccountType) domain.Principal {
	return domain.Principal{ID: id, AccountType: role}
}

func TestPermits(t *testing.T) {
	tests := []struct {
		name     string
		p        domain.Principal
		resource Resource
		action   Action
		ownerID  int64
		want     bool
	}{
		{"organizer creates event", principal(1, organizer), ResourceEvent, ActionCreate, 0, true},
		{"admin cannot create event", principal(1, admin), ResourceEvent, ActionCreate, 0, false},
		{"regular cannot create event", principal(1, regular), ResourceEvent, ActionCreate, 0, false},
		{"owner updates event", principal(7, organizer), ResourceEvent, ActionUpdate, 7, true},
		{"other organizer cannot update", principal(8, organizer), ResourceEvent, ActionUpdate, 7, false},
		{"admin reads any event stats", principal(1, admin), ResourceEvent, ActionStats, 7, true},
		{"admin cannot like", principal(1, admin), ResourceLike, ActionCreate, 0, false},
		{"regular registers", principal(3, regular), ResourceRegistration, ActionCreate, 7, true},
		{"organizer registers elsewhere", principal(3, organizer), ResourceRegistration, ActionCreate, 7, true},
		{"organizer cannot register own event", principal(7, organizer), ResourceRegistration, ActionCreate, 7, false},
		{"admin cannot register", principal(1, admin), ResourceRegistration, ActionCreate, 7, false},
		{"admin cannot manage registrations", principal(1, admin), ResourceRegistration, ActionManage, 7, false},
		{"self update", principal(4, regular), ResourceUser, ActionUpdate, 4, true},
		{"admin cannot update others", principal(1, admin), ResourceUser, ActionUpdate, 4, false},
		{"organizer own stats", principal(7, organizer), ResourceUser, ActionOrganizerStats, 7, true},
		{"regular no organizer stats", principal(7, regular), ResourceUser, ActionOrganizerStats, 7, false},
		{"only regular requests promotion", principal(7, organizer), ResourcePromotion, ActionCreate, 0, false},
		{"unknown rule denied", principal(1, admin), ResourceStats, ActionCreate, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Permits(tc.p, tc.resource, tc.action, tc.ownerID))
		})
	}
}

func TestAuthorizeReturnsForbidden(t *testing.T) {
	err := Authorize(principal(2, regular), ResourceStats, ActionPlatform, 0)
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusForbidden, domainErr.HTTPStatus)
	assert.NoError(t, Authorize(principal(1, admin), ResourceStats, ActionPlatform, 0))
}

func TestCanViewEvent(t *testing.T) {
	suspended := &domain.Event{OrganizerID: 7, Suspended: true}
	visible := &domain.Event{OrganizerID: 7}

	assert.True(t, CanViewEvent(principal(1, regular), visible))
	assert.False(t, CanViewEvent(principal(1, regular), suspended))
	assert.False(t, CanViewEvent(principal(8, organizer), suspended))
	assert.True(t, CanViewEvent(principal(7, organizer), suspended))
	assert.True(t, CanViewEvent(principal(1, admin), suspended))
}

func TestResolveRegisterScope(t *testing.T) {
	t.Run("zero means no join", func(t *testing.T) {
		scope, err := ResolveRegisterScope(principal(5, regular), 0)
		require.NoError(t, err)
		assert.Equal(t, RegisterScope{}, scope)
	})

	t.Run("self", func(t *testing.T) {
		scope, err := ResolveRegisterScope(principal(5, regular), 5)
		require.NoError(t, err)
		assert.Equal(t, RegisterScope{UserID: 5}, scope)
	})

	t.Run("admin any user", func(t *testing.T) {
		scope, err := ResolveRegisterScope(principal(1, admin), 5)
		require.NoError(t, err)
		assert.Equal(t, RegisterScope{UserID: 5}, scope)
	})

	t.Run("organizer restricted to own events", func(t *testing.T) {
		scope, err := ResolveRegisterScope(principal(7, organizer), 5)
		require.NoError(t, err)
		assert.Equal(t, RegisterScope{UserID: 5, OrganizerID: 7}, scope)
	})

	t.Run("regular for someone else conflicts", func(t *testing.T) {
		_, err := ResolveRegisterScope(principal(5, regular), 6)
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, apperrors.ToDomainError(err).HTTPStatus)
	})
}

func TestProfileProjection(t *testing.T) {
	tests := []struct {
		name      string
		requester domain.Principal
		targetID  int64
		target    domain.AccountType
		want      Projection
	}{
		{"self", principal(4, regular), 4, regular, ProjectionFull},
		{"admin self", principal(1, admin), 1, admin, ProjectionFull},
		{"admin views another admin", principal(1, admin), 2, admin, ProjectionDenied},
		{"admin views regular", principal(1, admin), 4, regular, ProjectionFull},
		{"admin views organizer", principal(1, admin), 7, organizer, ProjectionFull},
		{"regular views organizer", principal(4, regular), 7, organizer, ProjectionOrganizerPublic},
		{"regular views regular", principal(4, regular), 5, regular, ProjectionDenied},
		{"regular views admin", principal(4, regular), 1, admin, ProjectionDenied},
		{"organizer views regular", principal(7, organizer), 4, regular, ProjectionFullIfRegistrant},
		{"organizer views organizer", principal(7, organizer), 8, organizer, ProjectionDenied},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ProfileProjection(tc.requester, tc.targetID, tc.target))
		})
	}
}

func TestSuspendedVisibility(t *testing.T) {
	assert.Equal(t, domain.SuspendedHidden, SuspendedVisibility(regular))
	assert.Equal(t, domain.SuspendedOwnOnly, SuspendedVisibility(organizer))
	assert.Equal(t, domain.SuspendedVisible, SuspendedVisibility(admin))
}
