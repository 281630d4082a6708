package domain

// Actor is the authenticated caller of a state machine operation.
// It is always passed explicitly; services never read it from ambient request state.
type Actor struct {
	UserID string
	Roles  []string
}

// NewActor builds an Actor from a user id and role names.
func NewActor(userID string, roles ...string) Actor {
	return Actor{UserID: userID, Roles: roles}
}

// HasRole reports whether the actor holds role.
func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}
