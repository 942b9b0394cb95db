package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/eventhub/event-service/internal/api/dto"
	"github.com/eventhub/event-service/internal/domain"
	"github.com/eventhub/event-service/internal/repository"
	"github.com/eventhub/event-service/internal/service"
)

// EventsHandler serves listing, detail, management and stats endpoints.
type EventsHandler struct {
	service *service.EventService
}

// NewEventsHandler constructs handler.
func NewEventsHandler(eventService *service.EventService) *EventsHandler {
	return &EventsHandler{service: eventService}
}

// List handles GET /api/events.
func (h *EventsHandler) List(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	views, err := h.service.List(c.UserContext(), p, parseEventListQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.EventList(views))
}

// Get handles GET /api/events/:id.
func (h *EventsHandler) Get(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	view, err := h.service.Get(c.UserContext(), p, id)
	if err != nil {
		return err
	}
	return c.JSON(dto.EventDetail(view))
}

// Create handles POST /api/events.
func (h *EventsHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.service.CanCreate(p); err != nil {
		return err
	}
	var req dto.CreateEventRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	// Layouts were checked by the validate tags.
	input := service.EventCreateInput{
		Title:                    req.Title,
		Description:              req.Description,
		CategoryID:               req.Category,
		Banner:                   req.Banner,
		StartDate:                mustDate(req.StartDate),
		StartTime:                req.StartTime,
		EndDate:                  mustDate(req.EndDate),
		EndTime:                  req.EndTime,
		Country:                  req.Country,
		City:                     req.City,
		FullAddress:              req.FullAddress,
		RegistrationDeadlineDate: mustDate(req.RegistrationDeadlineDate),
		RegistrationDeadlineTime: req.RegistrationDeadlineTime,
		CancellationDeadlineDate: mustDate(req.CancellationDeadlineDate),
		CancellationDeadlineTime: req.CancellationDeadlineTime,
		Tags:                     req.Tags,
		MaxCapacity:              req.MaxCapacity,
	}
	event, err := h.service.Create(c.UserContext(), p, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.EventCreatedResponse{
		Message: "Event created successfully.",
		EventID: event.ID,
	})
}

// Update handles PATCH /api/events/:id.
func (h *EventsHandler) Update(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateEventRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	patch := repository.EventPatch{
		Banner:                   req.Banner,
		Description:              req.Description,
		City:                     req.City,
		FullAddress:              req.FullAddress,
		StartTime:                req.StartTime,
		EndTime:                  req.EndTime,
		Tags:                     req.Tags,
		MaxCapacity:              req.MaxCapacity,
		RegistrationDeadlineTime: req.RegistrationDeadlineTime,
		CancellationDeadlineTime: req.CancellationDeadlineTime,
		StartDate:                mustDatePtr(req.StartDate),
		EndDate:                  mustDatePtr(req.EndDate),
		RegistrationDeadlineDate: mustDatePtr(req.RegistrationDeadlineDate),
		CancellationDeadlineDate: mustDatePtr(req.CancellationDeadlineDate),
	}
	if req.Status != nil {
		status := domain.EventStatus(*req.Status)
		patch.Status = &status
	}

	err = h.service.Update(c.UserContext(), p, id, service.EventUpdateInput{
		Suspended: req.SuspendedValue(),
		Fields:    patch,
	})
	if err != nil {
		return err
	}
	message := "Event updated successfully"
	if p.Is(domain.AccountAdmin) {
		message = "Event updated by admin (suspended changed)"
	}
	return c.JSON(dto.MessageResponse{Message: message})
}

// Stats handles GET /api/events/:id/stats.
func (h *EventsHandler) Stats(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	stats, err := h.service.Stats(c.UserContext(), p, id)
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// parseEventListQuery maps query parameters onto the listing input.
// Unparseable values fall back to their defaults.
func parseEventListQuery(c *fiber.Ctx) service.EventListInput {
	return service.EventListInput{
		Search:     strings.TrimSpace(c.Query("search")),
		Categories: parseIDList(c.Query("categories")),
		City:       strings.TrimSpace(c.Query("city")),
		StartDate:  parseDateQuery(c.Query("start_date")),
		EndDate:    parseDateQuery(c.Query("end_date")),
		Ongoing:    queryBool(c, "ongoing"),
		Completed:  domain.ParseCompletedFilter(c.Query("completed")),
		Sort:       domain.ParseEventSort(c.Query("sort")),
		LikedOnly:  queryBool(c, "liked"),
		OwnerID:    queryInt64(c, "owner"),
		Owned:      queryBool(c, "owned"),
		RegisterID: queryInt64(c, "registerId"),
		Page:       pageFromQuery(c),
	}
}

// parseIDList parses a comma separated id list, dropping zero and
// non-numeric entries.
func parseIDList(raw string) []int64 {
	if raw == "" {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id == 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func parseDateQuery(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := domain.ParseDate(raw)
	if err != nil {
		return nil
	}
	return &t
}

func mustDate(value string) time.Time {
	t, _ := domain.ParseDate(value)
	return t
}

func mustDatePtr(value *string) *time.Time {
	if value == nil {
		return nil
	}
	t := mustDate(*value)
	return &t
}
