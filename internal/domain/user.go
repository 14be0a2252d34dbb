package domain

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RoleEndUser  Role = "end_user"
)

// IsAgent reports whether the role belongs to resolver-side staff.
// Agents see work notes and the full incident list; portal personas do not.
func (r Role) IsAgent() bool {
	return r == RoleAdmin
}

// IsValid reports whether the role is one of the known personas.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleEmployee, RoleEndUser:
		return true
	}
	return false
}

// User is a persona session identity. There are no credentials: selecting a
// persona is the whole login.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
