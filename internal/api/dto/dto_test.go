package dto

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhub/event-service/internal/domain"
	"github.com/eventhub/event-service/internal/policy"
	apperrors "github.com/eventhub/event-service/pkg/util/errorutil"
)

func TestValidateReportsFirstField(t *testing.T) {
	err := Validate(RegisterRequest{Email: "a@b.co", Password: "pw", Gender: "male"})
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus)
	assert.Equal(t, "Missing required field: fullname", domainErr.Message)

	err = Validate(RegisterRequest{Fullname: "A", Email: "a@b.co", Password: "pw", Gender: "other"})
	assert.Equal(t, "Invalid value for field: gender", apperrors.ToDomainError(err).Message)

	bad := "12/01/1990"
	err = Validate(RegisterRequest{Fullname: "A", Email: "a@b.co", Password: "pw", Gender: "female", Birthday: &bad})
	assert.Equal(t, "Invalid value for field: birthday", apperrors.ToDomainError(err).Message)

	assert.NoError(t, Validate(LoginRequest{Email: "a@b.co", Password: "pw"}))
}

func TestValidateEventTimes(t *testing.T) {
	late := "25:00"
	assert.Error(t, Validate(UpdateEventRequest{StartTime: &late}))
	ok := "09:30"
	assert.NoError(t, Validate(UpdateEventRequest{StartTime: &ok}))
}

func TestFlexStringAcceptsStringsAndBooleans(t *testing.T) {
	cases := map[string]string{
		`{"suspended":"true"}`:  "true",
		`{"suspended":false}`:   "false",
		`{"suspended":"maybe"}`: "maybe",
		`{"suspended":1}`:       "1",
	}
	for body, want := range cases {
		var req UpdateEventRequest
		require.NoError(t, json.Unmarshal([]byte(body), &req), body)
		require.NotNil(t, req.SuspendedValue(), body)
		assert.Equal(t, want, *req.SuspendedValue(), body)
	}

	var req UpdateEventRequest
	require.NoError(t, json.Unmarshal([]byte(`{"city":"Oslo"}`), &req))
	assert.Nil(t, req.SuspendedValue())
}

func TestProfileProjection(t *testing.T) {
	name := "Gophers Inc"
	u := &domain.User{
		ID:            7,
		AccountType:   domain.AccountOrganizer,
		AccountStatus: domain.AccountActive,
		Fullname:      "Olga",
		Email:         "olga@example.com",
		OrganizerName: &name,
		DateJoined:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		PasswordHash:  "secret-hash",
	}

	card, err := json.Marshal(Profile(u, policy.ProjectionOrganizerPublic))
	require.NoError(t, err)
	assert.NotContains(t, string(card), "email")
	assert.Contains(t, string(card), `"organizer_name":"Gophers Inc"`)

	full, err := json.Marshal(Profile(u, policy.ProjectionFull))
	require.NoError(t, err)
	assert.Contains(t, string(full), `"email":"olga@example.com"`)
	assert.Contains(t, string(full), `"date_joined":"2024-06-01"`)
	assert.NotContains(t, string(full), "secret-hash")
}

func TestCategoriesHideDateForNonAdmins(t *testing.T) {
	rows := []domain.Category{{ID: 1, Name: "tech", DateCreated: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}}

	plain, err := json.Marshal(Categories(rows, false))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"category_name":"tech"}]`, string(plain))

	detailed, err := json.Marshal(Categories(rows, true))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"category_name":"tech","date_created":"2024-01-02"}]`, string(detailed))
}
