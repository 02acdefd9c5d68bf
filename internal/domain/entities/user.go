package entities

// User roles
const (
	UserRoleUser  = "user"
	UserRoleAdmin = "admin"
)

// User represents a user in the system
type User struct {
	ID    string `json:"id" db:"id"`
	Email string `json:"email" db:"email"`
	Name  string `json:"name" db:"name"`
	Role  string `json:"role" db:"role"`
}

// IsAdmin reports whether the user may administer content
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
