package Models

// Role is the closed set of account roles. master_admin is a superuser for
// attendance marking only; it is NOT implicitly allowed on every gated route
// and must be listed explicitly wherever it should pass.
type Role string

const (
	RoleMasterAdmin Role = "master_admin"
	RoleAdmin       Role = "admin"
	RoleEmployee    Role = "employee"
)

// ParseRole maps a stored role string onto the closed role set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleMasterAdmin, RoleAdmin, RoleEmployee:
		return Role(s), true
	}
	return "", false
}

// User lives under users/<id>. The password hash never leaves the backend.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  []byte `json:"password,omitempty"`
	Role      Role   `json:"role"`
	CreatedAt string `json:"created_at"`
}

// Public returns a copy safe to return to clients.
func (u User) Public() User {
	u.Password = nil
	return u
}

const UsersPath = "users"
