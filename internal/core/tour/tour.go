package tour

import "time"

// Type discriminates the direction of a contracted tour.
type Type string

const (
	TypeImport Type = "IMPORT"
	TypeExport Type = "EXPORT"
	TypeInter  Type = "INTER_TOUR"
)

// Types lists every valid tour type.
var Types = []Type{TypeImport, TypeExport, TypeInter}

// Tour is a contracted transport job.
//
// # Lifecycle
//
// A tour starts contracted (no driver). Assigning a driver is the sole
// trigger into the active state. Completion freezes it, and invoicing is a
// reversible flag on top of completion:
//
//	CONTRACTED -> ACTIVE -> COMPLETED <-> INVOICED
//
// There is no reopen: a completed tour never returns to active.
//
// # Grouping
//
// ParentTourID forms a one-level tour group. A parent with children behaves
// as a unit on completion: completing the parent cascades, and once every
// member is complete the group's drivers and vehicles are released for reuse.
type Tour struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	TourType       Type   `json:"tour_type"`

	LoadingLocation string     `json:"loading_location"`
	LoadingDate     *time.Time `json:"loading_date"`
	ExportCustoms   *string    `json:"export_customs"`
	ImportCustoms   *string    `json:"import_customs"`
	Price           float64    `json:"price"`
	Company         string     `json:"company"`
	IsADR           bool       `json:"is_adr"`

	DriverID  *string `json:"driver_id"`
	TruckID   *string `json:"truck_id"`
	TrailerID *string `json:"trailer_id"`

	IsCompleted   bool       `json:"is_completed"`
	CompletedAt   *time.Time `json:"completed_at"`
	IsInvoiced    bool       `json:"is_invoiced"`
	InvoiceNumber *string    `json:"invoice_number"`

	ParentTourID *string `json:"parent_tour_id"`

	Stops []*UnloadingStop `json:"unloading_stops"`

	// Children is populated on single-tour reads for parents of a group.
	Children []*Tour `json:"children,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive reports whether the tour currently holds its resources
// exclusively: a driver is assigned and the tour is not completed.
func (t *Tour) IsActive() bool {
	return t.DriverID != nil && !t.IsCompleted
}

// UnloadingStop is one ordered delivery point of a tour.
type UnloadingStop struct {
	ID            string     `json:"id"`
	TourID        string     `json:"tour_id"`
	Position      int        `json:"position"`
	Location      string     `json:"location"`
	UnloadingDate *time.Time `json:"unloading_date"`
}

// Field names for validation
const (
	FieldTourType        = "tour_type"
	FieldLoadingLocation = "loading_location"
	FieldPrice           = "price"
	FieldCompany         = "company"
	FieldUnloadingStops  = "unloading_stops"
	FieldParentTourID    = "parent_tour_id"
	FieldInvoiceNumber   = "invoice_number"
)
