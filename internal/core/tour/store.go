package tour

import (
	"context"
	"time"

	"github.com/fleetdesk/fleetdesk/pkg/pagination"
)

// ListFilter narrows a tour listing. A nil field means no filtering.
type ListFilter struct {
	Completed *bool
	Invoiced  *bool
	TourType  *Type
}

// Repository is the persistent store for tours and their unloading stops.
// All methods are scoped to one organization.
//
// # Atomicity
//
// The Assign* methods are conditional writes: the exclusivity predicate and
// the update execute as one statement, so two concurrent assignments of the
// same resource cannot both pass the check. They report false when the guard
// (or the tour lookup) rejected the write; the caller classifies which.
type Repository interface {
	Create(context context.Context, tour *Tour) error
	FindByID(context context.Context, organizationID, id string) (*Tour, error)
	ListChildren(context context.Context, organizationID, parentTourID string) ([]*Tour, error)
	List(context context.Context, organizationID string, filter ListFilter, params pagination.Params) ([]*Tour, int, error)

	// ListAll returns every tour of the organization with its stops. Used by
	// the calendar synthesis.
	ListAll(context context.Context, organizationID string) ([]*Tour, error)

	// Update replaces the contract fields and the whole unloading-stop set in
	// one transaction. Lifecycle and assignment columns are left untouched.
	Update(context context.Context, tour *Tour) error

	// SetParent attaches or detaches the tour from a group.
	SetParent(context context.Context, organizationID, id string, parentTourID *string) error

	Delete(context context.Context, organizationID, id string) error

	// AssignDriver sets the driver unless another not-completed tour in the
	// organization already holds the same driver. Nil always succeeds (detach).
	AssignDriver(context context.Context, organizationID, id string, driverID *string) (bool, error)

	// AssignTruck and AssignTrailer set the vehicle unless another *active*
	// tour (driver assigned, not completed) already holds it. Contracted
	// tours referencing the same vehicle do not block each other.
	AssignTruck(context context.Context, organizationID, id string, truckID *string) (bool, error)
	AssignTrailer(context context.Context, organizationID, id string, trailerID *string) (bool, error)

	// MarkCompleted stamps the given tours completed. Resources stay attached.
	MarkCompleted(context context.Context, organizationID string, ids []string, completedAt time.Time) error

	// CompleteGroup stamps the given tours completed and clears their
	// driver/truck/trailer references in one transaction.
	CompleteGroup(context context.Context, organizationID string, ids []string, completedAt time.Time) error

	// ReleaseResources clears driver/truck/trailer on the given tours.
	ReleaseResources(context context.Context, organizationID string, ids []string) error

	// SetInvoiced persists the invoicing flag and number.
	SetInvoiced(context context.Context, tour *Tour) error
}
