package auth

import "time"

// Identity is the actor of a request: either Authenticated or Anonymous.
// The interface is sealed; use a type switch to handle both cases.
type Identity interface {
	identity()
}

// Authenticated is an identity derived from a verified session token.
type Authenticated struct {
	UserID    uint
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Anonymous is the identity of a request without a valid session.
type Anonymous struct{}

func (Authenticated) identity() {}
func (Anonymous) identity()     {}

// UserOf returns the authenticated user behind id, if any.
func UserOf(id Identity) (Authenticated, bool) {
	switch v := id.(type) {
	case Authenticated:
		return v, true
	case *Authenticated:
		if v != nil {
			return *v, true
		}
	}
	return Authenticated{}, false
}
