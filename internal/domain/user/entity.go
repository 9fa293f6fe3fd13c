package user

type Role string

const (
	RoleUser    Role = "user"    // Field sales rep
	RoleManager Role = "manager" // Reviews work plans for direct reports
	RoleAdmin   Role = "admin"   // Full access
)

// Actor identifies the authenticated caller of a service operation.
type Actor struct {
	ID   string
	Name string
	Role Role
}

// IsAdmin checks if the actor is an admin
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsReviewer checks if the actor may review work plans
func (a Actor) IsReviewer() bool {
	return a.Role == RoleAdmin || a.Role == RoleManager
}

// IsPrivileged checks if the actor may use the role-gated assistant tools
func (a Actor) IsPrivileged() bool {
	return a.IsReviewer()
}
