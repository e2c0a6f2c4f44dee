package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table                     string
	ID                        string
	Email                     string
	Password                  string
	FirstName                 string
	LastName                  string
	Role                      string
	OrganizationID            string
	EmailNotificationsEnabled string
	NotificationDaysBefore    string
	CreatedAt                 string
	UpdatedAt                 string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:                     "users.account",
	ID:                        "id",
	Email:                     "email",
	Password:                  "passwordhash",
	FirstName:                 "firstname",
	LastName:                  "lastname",
	Role:                      "role",
	OrganizationID:            "organizationid",
	EmailNotificationsEnabled: "emailnotificationsenabled",
	NotificationDaysBefore:    "notificationdaysbefore",
	CreatedAt:                 "createdat",
	UpdatedAt:                 "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.Password, t.FirstName, t.LastName, t.Role,
		t.OrganizationID, t.EmailNotificationsEnabled, t.NotificationDaysBefore,
		t.CreatedAt, t.UpdatedAt,
	}
}
