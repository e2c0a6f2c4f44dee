package calendar

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fleetdesk/fleetdesk/internal/platform/middleware"
	requestutil "github.com/fleetdesk/fleetdesk/internal/platform/request"
	"github.com/fleetdesk/fleetdesk/internal/platform/respond"
	"github.com/fleetdesk/fleetdesk/internal/platform/sec"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.With(middleware.RequirePermission(sec.PermViewCalendar)).
		Get("/", handler.listEvents)

	router.Group(func(write chi.Router) {
		write.Use(middleware.RequirePermission(sec.PermEditCalendar))
		write.Post("/events", handler.createEvent)
		write.Put("/events/{id}", handler.updateEvent)
		write.Delete("/events/{id}", handler.deleteEvent)
	})
}

// monthWindow parses the "year" and "month" query parameters, defaulting to
// the current month, and returns the [from, to) bounds.
func monthWindow(request *http.Request) (time.Time, time.Time) {
	now := time.Now()
	year, month := now.Year(), int(now.Month())

	query := request.URL.Query()
	if raw := query.Get("year"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 1970 && value <= 9999 {
			year = value
		}
	}
	if raw := query.Get("month"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 1 && value <= 12 {
			month = value
		}
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

func (handler *Handler) listEvents(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	from, to := monthWindow(request)
	events, err := handler.service.ListEvents(request.Context(), identity, from, to)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, events)
}

// eventInput is the transport shape shared by create and update.
type eventInput struct {
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Date        time.Time `json:"date"`
	Color       string    `json:"color"`
}

func (input eventInput) toInput() EventInput {
	return EventInput{
		Title:       input.Title,
		Description: input.Description,
		Date:        input.Date,
		Color:       input.Color,
	}
}

func (handler *Handler) createEvent(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input eventInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	event, err := handler.service.CreateEvent(request.Context(), identity, input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, event)
}

func (handler *Handler) updateEvent(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input eventInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	event, err := handler.service.UpdateEvent(request.Context(), identity, requestutil.ID(request, "id"), input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, event)
}

func (handler *Handler) deleteEvent(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteEvent(request.Context(), identity, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
