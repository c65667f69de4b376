package models

// Actor is the authenticated caller as asserted by the upstream auth proxy.
type Actor struct {
	ID   uint
	Role Role
}

func (a Actor) IsCustomer() bool { return a.Role == RoleCustomer }
func (a Actor) IsAgent() bool    { return a.Role == RoleAgent }
func (a Actor) IsAdmin() bool    { return a.Role == RoleAdmin }
