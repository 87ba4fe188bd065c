package types

import (
	"fmt"
	"strings"

	"github.com/rbeltranc/stitchmarket-backend/pkg/enums"
)

// Actor identifies the owner of a cart: a guest session or an authenticated
// user. It is passed explicitly into every cart operation; business logic
// never reaches into ambient session state.
type Actor struct {
	Kind enums.ActorKind
	ID   string
}

// GuestActor builds an Actor for an anonymous session.
func GuestActor(sessionID string) Actor {
	return Actor{Kind: enums.ActorKindGuest, ID: sessionID}
}

// UserActor builds an Actor for an authenticated user.
func UserActor(userID string) Actor {
	return Actor{Kind: enums.ActorKindUser, ID: userID}
}

// IsZero reports whether the actor carries no identity.
func (a Actor) IsZero() bool {
	return a.ID == "" || !a.Kind.IsValid()
}

// IsUser reports whether the actor is an authenticated user.
func (a Actor) IsUser() bool {
	return a.Kind == enums.ActorKindUser
}

// String implements fmt.Stringer.
func (a Actor) String() string {
	return fmt.Sprintf("%s:%s", a.Kind, a.ID)
}

// VariantKey identifies a sellable variant of a product.
type VariantKey struct {
	Size  string `json:"size"`
	Color string `json:"color"`
}

// Normalize lowercases and trims the key components.
func (v VariantKey) Normalize() VariantKey {
	return VariantKey{
		Size:  strings.ToLower(strings.TrimSpace(v.Size)),
		Color: strings.ToLower(strings.TrimSpace(v.Color)),
	}
}

// IsZero reports whether both components are empty.
func (v VariantKey) IsZero() bool {
	return v.Size == "" && v.Color == ""
}
