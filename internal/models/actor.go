package models

// Role is the privilege level of an authenticated user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Actor is the caller of a gated operation. The zero value is an anonymous caller.
type Actor struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

// Anonymous is the actor used for requests without valid credentials.
var Anonymous = Actor{}

// IsAuthenticated reports whether the actor has logged in.
func (a Actor) IsAuthenticated() bool {
	return a.UserID != ""
}

// CurrentRole returns the actor's role, or false for anonymous callers.
func (a Actor) CurrentRole() (Role, bool) {
	if !a.IsAuthenticated() {
		return "", false
	}
	return a.Role, true
}

// HasRole reports whether the actor is authenticated with the given role.
func (a Actor) HasRole(role Role) bool {
	current, ok := a.CurrentRole()
	return ok && current == role
}
