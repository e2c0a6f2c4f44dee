package driver

import (
	"context"

	"github.com/fleetdesk/fleetdesk/pkg/pagination"
)

// Repository is the persistent store for drivers and their notes. All methods
// are scoped to one organization.
type Repository interface {
	Create(context context.Context, driver *Driver) error
	FindByID(context context.Context, organizationID, id string) (*Driver, error)
	List(context context.Context, organizationID string, params pagination.Params) ([]*Driver, int, error)

	// ListAll returns every driver of the organization. Used by the calendar
	// synthesis and the expiry scan.
	ListAll(context context.Context, organizationID string) ([]*Driver, error)
	Update(context context.Context, driver *Driver) error
	Delete(context context.Context, organizationID, id string) error

	// Notes are ordered newest first.
	CreateNote(context context.Context, note *Note) error
	ListNotes(context context.Context, organizationID, driverID string) ([]*Note, error)
	DeleteNote(context context.Context, organizationID, driverID, noteID string) error
}
