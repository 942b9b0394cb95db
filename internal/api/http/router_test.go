package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/eventhub/event-service/internal/api/http"
	"github.com/eventhub/event-service/internal/api/http/handlers"
	"github.com/eventhub/event-service/internal/auth"
	"github.com/eventhub/event-service/internal/config"
	"github.com/eventhub/event-service/internal/domain"
	"github.com/eventhub/event-service/internal/events"
	"github.com/eventhub/event-service/internal/observability"
	"github.com/eventhub/event-service/internal/service"
	"github.com/eventhub/event-service/internal/testutil"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type harness struct {
	app    *fiber.App
	store  *testutil.Store
	tokens *auth.TokenManager

	category  domain.Category
	organizer domain.User
	regular   domain.User
	admin     domain.User
}

func newHarness(t *testing.T, deps map[string]handlers.Pinger) *harness {
	t.Helper()
	store := testutil.NewStore()
	repos := store.Repos()
	clock := testutil.NewClock(time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC))
	dispatcher := events.NewInMemoryDispatcher()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	authCfg := config.AuthConfig{JWTSecret: "test-secret", BcryptCost: 4, CookieName: "token"}
	tokens := auth.NewTokenManager(authCfg.JWTSecret, time.Hour)
	authService := service.NewAuthService(authCfg, service.AuthDependencies{
		UserRepo:    repos.Users,
		Revocations: repos.Revocations,
		Tokens:      tokens,
		Clock:       clock.Now,
	})

	if deps == nil {
		deps = map[string]handlers.Pinger{"postgres": pinger{}}
	}

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:     time.Second,
		CORSOrigins: "http://localhost:5173",
	})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler("event-service", "test", deps),
		Auth:   handlers.NewAuthHandler(authService, handlers.CookieSettings{Name: "token"}),
		Events: handlers.NewEventsHandler(service.NewEventService(service.EventDependencies{
			EventRepo:    repos.Events,
			CategoryRepo: repos.Categories,
			StatsRepo:    repos.Stats,
			Dispatcher:   dispatcher,
			Clock:        clock.Now,
		})),
		Registrations: handlers.NewRegistrationsHandler(service.NewRegistrationService(service.RegistrationDependencies{
			RegistrationRepo: repos.Registrations,
			EventRepo:        repos.Events,
			Dispatcher:       dispatcher,
			Clock:            clock.Now,
		})),
		Likes: handlers.NewLikesHandler(service.NewLikeService(repos.Likes, repos.Events)),
		Users: handlers.NewUsersHandler(service.NewUserService(service.UserDependencies{
			UserRepo:         repos.Users,
			RegistrationRepo: repos.Registrations,
			StatsRepo:        repos.Stats,
			Dispatcher:       dispatcher,
			Clock:            clock.Now,
		})),
		Categories: handlers.NewCategoriesHandler(service.NewCategoryService(repos.Categories, clock.Now)),
		Promotions: handlers.NewPromotionsHandler(service.NewPromotionService(service.PromotionDependencies{
			PromotionRepo: repos.Promotions,
			Dispatcher:    dispatcher,
			Clock:         clock.Now,
		})),
		Stats:          handlers.NewStatsHandler(service.NewStatsService(repos.Stats, clock.Now)),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, repos.Users, repos.Revocations, "token", logger),
		LoginLimiter:   auth.NewLoginLimiter(100, 100, logger),
		Metrics:        metrics,
	})

	orgName := "Gophers Inc"
	h := &harness{app: app, store: store, tokens: tokens}
	h.category = store.AddCategory("tech")
	h.organizer = store.AddUser(domain.User{
		AccountType: domain.AccountOrganizer, Fullname: "Olga Organizer", Email: "olga@example.com",
		OrganizerName: &orgName, DateJoined: testutil.Date(2024, 6, 1),
	})
	h.regular = store.AddUser(domain.User{
		AccountType: domain.AccountRegular, Fullname: "Rita Regular", Email: "rita@example.com",
		DateJoined: testutil.Date(2025, 1, 2),
	})
	h.admin = store.AddUser(domain.User{
		AccountType: domain.AccountAdmin, Fullname: "Ada Admin", Email: "ada@example.com",
		DateJoined: testutil.Date(2024, 1, 1),
	})
	return h
}

// do sends a JSON request, authenticated as user when non-nil.
func (h *harness) do(t *testing.T, method, path string, body any, user *domain.User) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		token, err := h.tokens.GenerateToken(user.ID, user.AccountType)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: "token", Value: token.Value})
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func errorText(t *testing.T, resp *http.Response) string {
	t.Helper()
	return decode[map[string]string](t, resp)["error"]
}

func eventBody(categoryID int64) map[string]any {
	return map[string]any{
		"title":                      "Go Meetup",
		"description":                "<p>Talks</p>",
		"category":                   categoryID,
		"event_banner":               "banner.png",
		"start_date":                 "2025-03-01",
		"start_time":                 "18:00",
		"end_date":                   "2025-03-01",
		"end_time":                   "22:00",
		"country":                    "Germany",
		"city":                       "Berlin",
		"full_address":               "Main St 1",
		"registration_deadline_date": "2025-02-20",
		"registration_deadline_time": "23:59",
		"cancellation_deadline_date": "2025-02-25",
		"cancellation_deadline_time": "23:59",
		"max_capacity":               10,
	}
}

func TestErrorsRenderAsPlainText(t *testing.T) {
	h := newHarness(t, nil)

	resp := h.do(t, http.MethodGet, "/api/events", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Unauthorized: No token provided", errorText(t, resp))

	resp = h.do(t, http.MethodGet, "/api/events/abc", nil, &h.regular)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid value for field: id", errorText(t, resp))

	resp = h.do(t, http.MethodGet, "/api/events/999", nil, &h.regular)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Event not found.", errorText(t, resp))
}

func TestAuthFlow(t *testing.T) {
	h := newHarness(t, nil)

	resp := h.do(t, http.MethodPost, "/api/auth/register", map[string]any{
		"email": "new@example.com", "password": "pw", "gender": "male",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing required field: fullname", errorText(t, resp))

	resp = h.do(t, http.MethodPost, "/api/auth/register", map[string]any{
		"fullname": "New User", "email": "new@example.com", "password": "pw", "gender": "male", "birthday": "1990-04-02",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	cookie := resp.Header.Get("Set-Cookie")
	assert.Contains(t, cookie, "token=")
	assert.Contains(t, strings.ToLower(cookie), "httponly")
	assert.Contains(t, strings.ToLower(cookie), "samesite=lax")
	created := decode[map[string]any](t, resp)
	assert.Equal(t, "User created successfully", created["message"])
	assert.Equal(t, "regular", created["user"].(map[string]any)["account_type"])

	resp = h.do(t, http.MethodPost, "/api/auth/register", map[string]any{
		"fullname": "Again", "email": "new@example.com", "password": "pw", "gender": "female",
	}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = h.do(t, http.MethodPost, "/api/auth/login", map[string]any{"email": "new@example.com"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email and Password are required.", errorText(t, resp))

	resp = h.do(t, http.MethodPost, "/api/auth/login", map[string]any{"email": "new@example.com", "password": "nope"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid email or password.", errorText(t, resp))

	resp = h.do(t, http.MethodPost, "/api/auth/login", map[string]any{"email": "new@example.com", "password": "pw"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "token" {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.Equal(t, "Login successful", decode[map[string]any](t, resp)["message"])

	withSession := func(method, path string) *http.Response {
		req := httptest.NewRequest(method, path, nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: session.Value})
		resp, err := h.app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	resp = withSession(http.MethodGet, "/api/auth/validate-user")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "regular", decode[map[string]any](t, resp)["user"].(map[string]any)["account_type"])

	resp = withSession(http.MethodPost, "/api/auth/logout")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = withSession(http.MethodGet, "/api/auth/validate-user")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = h.do(t, http.MethodPost, "/api/auth/logout", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No token found. Already logged out?", errorText(t, resp))
}

func TestEventLifecycle(t *testing.T) {
	h := newHarness(t, nil)

	resp := h.do(t, http.MethodPost, "/api/events", map[string]any{}, &h.regular)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Only organizers can create events.", errorText(t, resp))

	bad := eventBody(h.category.ID)
	bad["start_time"] = "25:00"
	resp = h.do(t, http.MethodPost, "/api/events", bad, &h.organizer)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid value for field: start_time", errorText(t, resp))

	resp = h.do(t, http.MethodPost, "/api/events", eventBody(h.category.ID), &h.organizer)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[map[string]any](t, resp)
	assert.Equal(t, "Event created successfully.", created["message"])
	eventID := int64(created["event_id"].(float64))
	path := "/api/events/" + itoa(eventID)

	resp = h.do(t, http.MethodGet, "/api/events", nil, &h.regular)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]map[string]any](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, "Gophers Inc", list[0]["organizer_name"])
	assert.Equal(t, "tech", list[0]["category_name"])
	assert.Equal(t, "2025-03-01", list[0]["start_date"])
	assert.Equal(t, false, list[0]["isLikedByUser"])

	resp = h.do(t, http.MethodPost, path+"/register", nil, &h.regular)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = h.do(t, http.MethodPost, path+"/register", nil, &h.regular)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = h.do(t, http.MethodPost, path+"/like", nil, &h.regular)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = h.do(t, http.MethodPost, path+"/like", nil, &h.admin)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = h.do(t, http.MethodGet, path, nil, &h.regular)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := decode[map[string]any](t, resp)
	assert.Equal(t, "active", detail["user_registration_status"])
	assert.Equal(t, true, detail["isLikedByUser"])

	resp = h.do(t, http.MethodGet, path+"/registrations", nil, &h.organizer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	regs := decode[[]map[string]any](t, resp)
	require.Len(t, regs, 1)
	assert.Equal(t, "Rita Regular", regs[0]["fullname"])

	resp = h.do(t, http.MethodPatch, path, map[string]any{"city": "Munich"}, &h.admin)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Admin can only update 'suspended' field", errorText(t, resp))

	resp = h.do(t, http.MethodPatch, path, map[string]any{"suspended": true}, &h.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Event updated by admin (suspended changed)", decode[map[string]string](t, resp)["message"])

	resp = h.do(t, http.MethodGet, path, nil, &h.regular)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Not authorized to view this event.", errorText(t, resp))

	resp = h.do(t, http.MethodGet, path+"/stats", nil, &h.regular)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = h.do(t, http.MethodGet, path+"/stats", nil, &h.organizer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decode[map[string]any](t, resp)
	assert.Equal(t, float64(1), stats["total_registrations"])
	assert.Equal(t, float64(1), stats["total_likes"])
}

func TestRegisterIDConflict(t *testing.T) {
	h := newHarness(t, nil)

	resp := h.do(t, http.MethodGet, "/api/events?registerId="+itoa(h.organizer.ID), nil, &h.regular)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAdminOnlyRoutes(t *testing.T) {
	h := newHarness(t, nil)

	for _, path := range []string{"/api/users?role=regular", "/api/stats/platform", "/api/promotion-requests"} {
		resp := h.do(t, http.MethodGet, path, nil, &h.regular)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
		assert.Equal(t, "Access denied", errorText(t, resp), path)

		resp = h.do(t, http.MethodGet, path, nil, &h.admin)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}

	resp := h.do(t, http.MethodGet, "/api/users", nil, &h.admin)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "role (regular/organizer) field is required", errorText(t, resp))

	resp = h.do(t, http.MethodPatch, "/api/users/"+itoa(h.regular.ID)+"/suspend", nil, &h.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "User suspended.", decode[map[string]string](t, resp)["message"])

	resp = h.do(t, http.MethodGet, "/api/categories", nil, &h.regular)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Account suspended", errorText(t, resp))
}

func TestUserProfiles(t *testing.T) {
	h := newHarness(t, nil)

	resp := h.do(t, http.MethodGet, "/api/users/"+itoa(h.organizer.ID), nil, &h.regular)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	card := decode[map[string]any](t, resp)
	assert.Equal(t, "Gophers Inc", card["organizer_name"])
	assert.NotContains(t, card, "email")

	resp = h.do(t, http.MethodGet, "/api/users/"+itoa(h.admin.ID), nil, &h.regular)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = h.do(t, http.MethodPatch, "/api/users/"+itoa(h.regular.ID), map[string]any{"phone_number": "555-0100"}, &h.organizer)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = h.do(t, http.MethodPatch, "/api/users/"+itoa(h.regular.ID), map[string]any{"phone_number": "555-0100", "birthday": "1995-05-06"}, &h.regular)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = h.do(t, http.MethodGet, "/api/users/"+itoa(h.regular.ID), nil, &h.regular)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	self := decode[map[string]any](t, resp)
	assert.Equal(t, "555-0100", self["phone_number"])
	assert.Equal(t, "1995-05-06", self["birthday"])
	assert.NotContains(t, self, "password_hash")
}

func TestCategories(t *testing.T) {
	h := newHarness(t, nil)

	resp := h.do(t, http.MethodGet, "/api/categories", nil, &h.regular)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	plain := decode[[]map[string]any](t, resp)
	require.Len(t, plain, 1)
	assert.NotContains(t, plain[0], "date_created")

	resp = h.do(t, http.MethodGet, "/api/categories", nil, &h.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, decode[[]map[string]any](t, resp)[0], "date_created")

	resp = h.do(t, http.MethodPost, "/api/categories", map[string]any{"category_name": "Music"}, &h.organizer)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = h.do(t, http.MethodPost, "/api/categories", map[string]any{"category_name": " Music "}, &h.admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[map[string]any](t, resp)
	assert.Equal(t, "Category created", created["message"])
	assert.Equal(t, "music", created["category_name"])
	assert.Equal(t, "2025-01-05", created["date_created"])

	resp = h.do(t, http.MethodPost, "/api/categories", map[string]any{"category_name": "music"}, &h.admin)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestPromotionFlow(t *testing.T) {
	h := newHarness(t, nil)
	pendingPath := "/api/promotion-requests/" + itoa(h.regular.ID)

	resp := h.do(t, http.MethodGet, pendingPath, nil, &h.regular)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "null", strings.TrimSpace(string(raw)))

	resp = h.do(t, http.MethodPost, "/api/promotion-requests", nil, &h.organizer)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = h.do(t, http.MethodPost, "/api/promotion-requests", map[string]any{"requested_organizer_name": "Rita Events"}, &h.regular)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing required fields", errorText(t, resp))

	body := map[string]any{"requested_organizer_name": "Rita Events", "why_message": "I run meetups"}
	resp = h.do(t, http.MethodPost, "/api/promotion-requests", body, &h.regular)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = h.do(t, http.MethodGet, pendingPath, nil, &h.regular)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pending", decode[map[string]any](t, resp)["status"])

	resp = h.do(t, http.MethodGet, "/api/promotion-requests", nil, &h.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	queue := decode[[]map[string]any](t, resp)
	require.Len(t, queue, 1)
	assert.Equal(t, "Rita Regular", queue[0]["fullname"])

	resp = h.do(t, http.MethodPatch, pendingPath+"/accept", nil, &h.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "User promoted to organizer", decode[map[string]string](t, resp)["message"])

	promoted, ok := h.store.User(h.regular.ID)
	require.True(t, ok)
	assert.Equal(t, domain.AccountOrganizer, promoted.AccountType)

	resp = h.do(t, http.MethodPatch, pendingPath+"/reject", nil, &h.admin)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t, map[string]handlers.Pinger{
		"postgres": pinger{},
		"redis":    pinger{err: errors.New("connection refused")},
	})

	resp := h.do(t, http.MethodGet, "/health/live", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = h.do(t, http.MethodGet, "/health/ready", nil, nil)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	ready := decode[map[string]any](t, resp)
	deps := ready["dependencies"].(map[string]any)
	assert.Equal(t, "ok", deps["postgres"])
	assert.Equal(t, "connection refused", deps["redis"])

	resp = h.do(t, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "http_requests_total")
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
