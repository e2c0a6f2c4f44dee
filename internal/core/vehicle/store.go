package vehicle

import (
	"context"

	"github.com/fleetdesk/fleetdesk/pkg/pagination"
)

// ListFilter narrows a vehicle listing. A nil field means no filtering.
type ListFilter struct {
	VehicleType *Type
}

// Repository is the persistent store for vehicles. All methods are scoped to
// one organization.
type Repository interface {
	Create(context context.Context, vehicle *Vehicle) error
	FindByID(context context.Context, organizationID, id string) (*Vehicle, error)
	List(context context.Context, organizationID string, filter ListFilter, params pagination.Params) ([]*Vehicle, int, error)

	// ListAll returns every vehicle of the organization. Used by the calendar
	// synthesis and the expiry scan, which need the whole fleet.
	ListAll(context context.Context, organizationID string) ([]*Vehicle, error)
	Update(context context.Context, vehicle *Vehicle) error
	Delete(context context.Context, organizationID, id string) error
}
