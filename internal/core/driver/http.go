package driver

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
		read.Use(middleware.RequirePermission(sec.PermViewDrivers))
		read.Get("/", handler.listDrivers)
		read.Get("/{id}", handler.getDriver)
		read.Get("/{id}/notes", handler.listNotes)
	})

	router.Group(func(write chi.Router) {
		write.Use(middleware.RequirePermission(sec.PermEditDrivers))
		write.Post("/", handler.createDriver)
		write.Put("/{id}", handler.updateDriver)
		write.Delete("/{id}", handler.deleteDriver)
		write.Post("/{id}/notes", handler.addNote)
		write.Delete("/{id}/notes/{noteID}", handler.deleteNote)
	})
}

// driverInput is the transport shape shared by create and update.
type driverInput struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	LicenseNumber string `json:"license_number"`

	LicenseExpiryDate     *time.Time `json:"license_expiry_date"`
	MedicalExamExpiryDate *time.Time `json:"medical_exam_expiry_date"`
	DriverCardExpiryDate  *time.Time `json:"driver_card_expiry_date"`
}

func (input driverInput) toInput() Input {
	return Input{
		FirstName:             input.FirstName,
		LastName:              input.LastName,
		Phone:                 input.Phone,
		Email:                 input.Email,
		LicenseNumber:         input.LicenseNumber,
		LicenseExpiryDate:     input.LicenseExpiryDate,
		MedicalExamExpiryDate: input.MedicalExamExpiryDate,
		DriverCardExpiryDate:  input.DriverCardExpiryDate,
	}
}

func (handler *Handler) createDriver(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input driverInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	driver, err := handler.service.CreateDriver(request.Context(), identity, input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, driver)
}

func (handler *Handler) getDriver(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	driver, err := handler.service.GetDriver(request.Context(), identity, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, driver)
}

func (handler *Handler) listDrivers(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	drivers, meta, err := handler.service.ListDrivers(request.Context(), identity, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, drivers, meta)
}

func (handler *Handler) updateDriver(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input driverInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	driver, err := handler.service.UpdateDriver(request.Context(), identity, requestutil.ID(request, "id"), input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, driver)
}

func (handler *Handler) deleteDriver(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteDriver(request.Context(), identity, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Notes

func (handler *Handler) addNote(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		NoteType string `json:"note_type"`
		Content  string `json:"content"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	note, err := handler.service.AddNote(request.Context(), identity, requestutil.ID(request, "id"), NoteInput{
		NoteType: NoteType(input.NoteType),
		Content:  input.Content,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, note)
}

func (handler *Handler) listNotes(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	notes, err := handler.service.ListNotes(request.Context(), identity, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, notes)
}

func (handler *Handler) deleteNote(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteNote(request.Context(), identity,
		requestutil.ID(request, "id"), requestutil.ID(request, "noteID")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
