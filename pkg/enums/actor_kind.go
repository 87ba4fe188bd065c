package enums

import "fmt"

// ActorKind distinguishes guest-session carts from authenticated-user carts.
type ActorKind string

const (
	ActorKindGuest ActorKind = "guest"
	ActorKindUser  ActorKind = "user"
)

var validActorKinds = []ActorKind{
	ActorKindGuest,
	ActorKindUser,
}

// String implements fmt.Stringer.
func (a ActorKind) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ActorKind.
func (a ActorKind) IsValid() bool {
	for _, candidate := range validActorKinds {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseActorKind converts raw input into an ActorKind.
func ParseActorKind(value string) (ActorKind, error) {
	for _, candidate := range validActorKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid actor kind %q", value)
}
