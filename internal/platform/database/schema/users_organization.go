package schema

// OrganizationTable represents the 'users.organization' table
type OrganizationTable struct {
	Table     string
	ID        string
	Name      string
	Slug      string
	CreatedAt string
	UpdatedAt string
}

// Organization is the schema definition for users.organization
var Organization = OrganizationTable{
	Table:     "users.organization",
	ID:        "id",
	Name:      "name",
	Slug:      "slug",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t OrganizationTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug, t.CreatedAt, t.UpdatedAt}
}
