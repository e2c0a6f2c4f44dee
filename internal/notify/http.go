package notify

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/fleetdesk/fleetdesk/internal/platform/request"
	"github.com/fleetdesk/fleetdesk/internal/platform/respond"
)

type Handler struct {
	scanner *Scanner
}

func NewHandler(scanner *Scanner) *Handler {
	return &Handler{scanner: scanner}
}

// RegisterRoutes mounts the badge endpoint. Any resolved member may read it;
// it only reveals documents of their own organization.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.getBadge)
}

func (handler *Handler) getBadge(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	badge, err := handler.scanner.GetBadge(request.Context(), identity)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, badge)
}
