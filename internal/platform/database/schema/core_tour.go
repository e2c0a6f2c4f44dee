package schema

// TourTable represents the 'core.tour' table
type TourTable struct {
	Table           string
	ID              string
	OrganizationID  string
	TourType        string
	LoadingLocation string
	LoadingDate     string
	ExportCustoms   string
	ImportCustoms   string
	Price           string
	Company         string
	IsADR           string
	DriverID        string
	TruckID         string
	TrailerID       string
	IsCompleted     string
	CompletedAt     string
	IsInvoiced      string
	InvoiceNumber   string
	ParentTourID    string
	CreatedAt       string
	UpdatedAt       string
}

// Tour is the schema definition for core.tour
var Tour = TourTable{
	Table:           "core.tour",
	ID:              "id",
	OrganizationID:  "organizationid",
	TourType:        "tourtype",
	LoadingLocation: "loadinglocation",
	LoadingDate:     "loadingdate",
	ExportCustoms:   "exportcustoms",
	ImportCustoms:   "importcustoms",
	Price:           "price",
	Company:         "company",
	IsADR:           "isadr",
	DriverID:        "driverid",
	TruckID:         "truckid",
	TrailerID:       "trailerid",
	IsCompleted:     "iscompleted",
	CompletedAt:     "completedat",
	IsInvoiced:      "isinvoiced",
	InvoiceNumber:   "invoicenumber",
	ParentTourID:    "parenttourid",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
}

// Columns returns all standard column names
func (t TourTable) Columns() []string {
	return []string{
		t.ID, t.OrganizationID, t.TourType, t.LoadingLocation, t.LoadingDate,
		t.ExportCustoms, t.ImportCustoms, t.Price, t.Company, t.IsADR,
		t.DriverID, t.TruckID, t.TrailerID,
		t.IsCompleted, t.CompletedAt, t.IsInvoiced, t.InvoiceNumber,
		t.ParentTourID, t.CreatedAt, t.UpdatedAt,
	}
}
