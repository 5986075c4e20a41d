package domain

// Role determines the broad visibility tier of a user.
type Role string

const (
	// RoleEmployee is the default role; visibility limited to own requests.
	RoleEmployee Role = "Employee"
	// RolePartner is the elevated role with cross-user visibility over all requests.
	RolePartner Role = "Partner"
)

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	return r == RoleEmployee || r == RolePartner
}

// User represents a user of the application in the domain.
type User struct {
	UserID       string `json:"user_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Role         Role   `json:"role"`
	PasswordHash string `json:"-"`
	AuditFields
}

// FullName returns the user's display name as "First Last".
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
