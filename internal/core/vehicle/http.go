package vehicle

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fleetdesk/fleetdesk/internal/platform/middleware"
	requestutil "github.com/fleetdesk/fleetdesk/internal/platform/request"
	"github.com/fleetdesk/fleetdesk/internal/platform/respond"
	"github.com/fleetdesk/fleetdesk/internal/platform/sec"
	"github.com/fleetdesk/fleetdesk/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(read chi.Router) {
		read.Use(middleware.RequirePermission(sec.PermViewVehicles))
		read.Get("/", handler.listVehicles)
		read.Get("/{id}", handler.getVehicle)
	})

	router.Group(func(write chi.Router) {
		write.Use(middleware.RequirePermission(sec.PermEditVehicles))
		write.Post("/", handler.createVehicle)
		write.Put("/{id}", handler.updateVehicle)
		write.Delete("/{id}", handler.deleteVehicle)
	})
}

// vehicleInput is the transport shape shared by create and update.
type vehicleInput struct {
	VehicleType        string `json:"vehicle_type"`
	RegistrationNumber string `json:"registration_number"`

	InspectionExpiryDate       *time.Time `json:"inspection_expiry_date"`
	RegistrationExpiryDate     *time.Time `json:"registration_expiry_date"`
	FireExtinguisherExpiryDate *time.Time `json:"fire_extinguisher_expiry_date"`
}

func (input vehicleInput) toInput() Input {
	return Input{
		VehicleType:                Type(input.VehicleType),
		RegistrationNumber:         input.RegistrationNumber,
		InspectionExpiryDate:       input.InspectionExpiryDate,
		RegistrationExpiryDate:     input.RegistrationExpiryDate,
		FireExtinguisherExpiryDate: input.FireExtinguisherExpiryDate,
	}
}

func (handler *Handler) createVehicle(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input vehicleInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	vehicle, err := handler.service.CreateVehicle(request.Context(), identity, input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, vehicle)
}

func (handler *Handler) getVehicle(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	vehicle, err := handler.service.GetVehicle(request.Context(), identity, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, vehicle)
}

func (handler *Handler) listVehicles(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter := ListFilter{}
	if raw := request.URL.Query().Get("type"); raw != "" {
		vehicleType := Type(raw)
		filter.VehicleType = &vehicleType
	}

	params := pagination.FromRequest(request)
	vehicles, meta, err := handler.service.ListVehicles(request.Context(), identity, filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, vehicles, meta)
}

func (handler *Handler) updateVehicle(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input vehicleInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	vehicle, err := handler.service.UpdateVehicle(request.Context(), identity, requestutil.ID(request, "id"), input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, vehicle)
}

func (handler *Handler) deleteVehicle(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteVehicle(request.Context(), identity, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
