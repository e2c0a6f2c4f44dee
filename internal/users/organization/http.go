package organization

import (
	"net/http"

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
	router.With(middleware.RequirePermission(sec.PermViewSettings)).Get("/", handler.getOrganization)
	router.With(middleware.RequirePermission(sec.PermEditSettings)).Put("/", handler.renameOrganization)
}

func (handler *Handler) getOrganization(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	org, err := handler.service.GetOrganization(request.Context(), identity.OrganizationID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, org)
}

func (handler *Handler) renameOrganization(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		Name string `json:"name"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	org, err := handler.service.RenameOrganization(request.Context(), identity.OrganizationID, input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, org)
}
