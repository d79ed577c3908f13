package models

// Account is one of the fixed login identities.
type Account struct {
	UserID   string
	Password string
	Role     Role
}

// Actor returns the actor an authenticated account acts as.
func (a Account) Actor() Actor {
	return Actor{UserID: a.UserID, Role: a.Role}
}
