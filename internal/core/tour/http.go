package tour

import (
	"encoding/json"
	"net/http"
	"strconv"
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
		read.Use(middleware.RequirePermission(sec.PermViewTours))
		read.Get("/", handler.listTours)
		read.Get("/{id}", handler.getTour)
	})

	router.Group(func(write chi.Router) {
		write.Use(middleware.RequirePermission(sec.PermEditTours))
		write.Post("/", handler.createTour)
		write.Put("/{id}", handler.updateTour)
		write.Patch("/{id}", handler.patchTour)
		write.Delete("/{id}", handler.deleteTour)
		write.Put("/{id}/assign-driver", handler.assignDriver)
		write.Put("/{id}/assign-vehicle", handler.assignVehicle)
		write.Put("/{id}/complete", handler.completeTour)
	})

	router.With(middleware.RequirePermission(sec.PermInvoiceTours)).
		Put("/{id}/invoice", handler.invoiceTour)
}

// optionalID distinguishes an absent JSON field from an explicit null.
type optionalID struct {
	Set   bool
	Value *string
}

func (o *optionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}

	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	o.Value = &value
	return nil
}

func (o optionalID) toPatchField() PatchField {
	return PatchField{Set: o.Set, Value: o.Value}
}

// tourInput is the transport shape shared by create and full edit.
type tourInput struct {
	TourType        string     `json:"tour_type"`
	LoadingLocation string     `json:"loading_location"`
	LoadingDate     *time.Time `json:"loading_date"`
	ExportCustoms   *string    `json:"export_customs"`
	ImportCustoms   *string    `json:"import_customs"`
	Price           float64    `json:"price"`
	Company         string     `json:"company"`
	IsADR           bool       `json:"is_adr"`

	UnloadingStops []struct {
		Location      string     `json:"location"`
		UnloadingDate *time.Time `json:"unloading_date"`
	} `json:"unloading_stops"`
}

func (input tourInput) toInput() Input {
	stops := make([]StopInput, 0, len(input.UnloadingStops))
	for _, stop := range input.UnloadingStops {
		stops = append(stops, StopInput{
			Location:      stop.Location,
			UnloadingDate: stop.UnloadingDate,
		})
	}

	return Input{
		TourType:        Type(input.TourType),
		LoadingLocation: input.LoadingLocation,
		LoadingDate:     input.LoadingDate,
		ExportCustoms:   input.ExportCustoms,
		ImportCustoms:   input.ImportCustoms,
		Price:           input.Price,
		Company:         input.Company,
		IsADR:           input.IsADR,
		Stops:           stops,
	}
}

func (handler *Handler) createTour(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input tourInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tour, err := handler.service.CreateTour(request.Context(), identity, input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, tour)
}

func (handler *Handler) getTour(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tour, err := handler.service.GetTour(request.Context(), identity, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tour)
}

func (handler *Handler) listTours(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter := ListFilter{}
	query := request.URL.Query()
	if raw := query.Get("completed"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			filter.Completed = &value
		}
	}
	if raw := query.Get("invoiced"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			filter.Invoiced = &value
		}
	}
	if raw := query.Get("type"); raw != "" {
		tourType := Type(raw)
		filter.TourType = &tourType
	}

	params := pagination.FromRequest(request)
	tours, meta, err := handler.service.ListTours(request.Context(), identity, filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, tours, meta)
}

func (handler *Handler) updateTour(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input tourInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tour, err := handler.service.UpdateTour(request.Context(), identity, requestutil.ID(request, "id"), input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tour)
}

func (handler *Handler) patchTour(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		ParentTourID optionalID `json:"parent_tour_id"`
		DriverID     optionalID `json:"driver_id"`
		TruckID      optionalID `json:"truck_id"`
		TrailerID    optionalID `json:"trailer_id"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tour, err := handler.service.PatchTour(request.Context(), identity, requestutil.ID(request, "id"), PatchInput{
		ParentTourID: input.ParentTourID.toPatchField(),
		DriverID:     input.DriverID.toPatchField(),
		TruckID:      input.TruckID.toPatchField(),
		TrailerID:    input.TrailerID.toPatchField(),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tour)
}

func (handler *Handler) deleteTour(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteTour(request.Context(), identity, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) assignDriver(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		DriverID *string `json:"driver_id"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tour, err := handler.service.AssignDriver(request.Context(), identity, requestutil.ID(request, "id"), input.DriverID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tour)
}

func (handler *Handler) assignVehicle(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		TruckID   optionalID `json:"truck_id"`
		TrailerID optionalID `json:"trailer_id"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tour, err := handler.service.AssignVehicle(request.Context(), identity, requestutil.ID(request, "id"), VehicleAssignment{
		TruckID:   input.TruckID.toPatchField(),
		TrailerID: input.TrailerID.toPatchField(),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tour)
}

func (handler *Handler) completeTour(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tour, err := handler.service.CompleteTour(request.Context(), identity, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tour)
}

func (handler *Handler) invoiceTour(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		IsInvoiced    bool    `json:"is_invoiced"`
		InvoiceNumber *string `json:"invoice_number"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tour, err := handler.service.InvoiceTour(request.Context(), identity, requestutil.ID(request, "id"), InvoiceInput{
		IsInvoiced:    input.IsInvoiced,
		InvoiceNumber: input.InvoiceNumber,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tour)
}
