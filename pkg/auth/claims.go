package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rbeltranc/stitchmarket-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	Role     enums.MemberRole
	ArtistID *uuid.UUID
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID   uuid.UUID        `json:"user_id"`
	Role     enums.MemberRole `json:"role"`
	ArtistID *uuid.UUID       `json:"artist_id,omitempty"`
	jwt.RegisteredClaims
}

// Capability is the verified authority a request carries into admin-facing
// operations. It is derived from claims exactly once at the boundary; services
// check it instead of re-deriving roles per call.
type Capability struct {
	UserID uuid.UUID
	Role   enums.MemberRole
}

// CapabilityFromClaims lifts parsed claims into a Capability value.
func CapabilityFromClaims(claims *AccessTokenClaims) Capability {
	if claims == nil {
		return Capability{}
	}
	return Capability{UserID: claims.UserID, Role: claims.Role}
}

// CanManageOrders reports whether the capability allows admin order mutation.
func (c Capability) CanManageOrders() bool {
	return c.Role == enums.MemberRoleAdmin
}
