package auth

// Access is the outcome of an ownership check.
type Access int

const (
	// Denied covers both "not the owner" and "no such resource".
	Denied Access = iota
	Allowed
)

func (a Access) String() string {
	if a == Allowed {
		return "allowed"
	}
	return "denied"
}

// RequireOwnership allows id only when it is authenticated as ownerID.
func RequireOwnership(id Identity, ownerID uint) Access {
	user, ok := UserOf(id)
	if !ok || ownerID == 0 || user.UserID != ownerID {
		return Denied
	}
	return Allowed
}
