package domain

// Role distinguishes clients submitting queries from support staff.
type Role string

const (
	RoleClient  Role = "client"
	RoleSupport Role = "support"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	return r == RoleClient || r == RoleSupport
}

// User is a registered account. PasswordHash holds the derived credential
// digest, never the plaintext. Rows are created at bootstrap or registration
// and are otherwise immutable.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
}

// Identity is the authenticated caller passed explicitly into every gated
// operation. It is rebuilt per request from the session token, never held
// as process-wide state.
type Identity struct {
	Username string
	Role     Role
}
