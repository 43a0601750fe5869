package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/grocerlane/gateway/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID    int64
	Role      enums.UserRole
	SessionID string
}

// AccessTokenClaims represents the typed JWT issued to clients. The
// registered ID claim carries the session identifier.
type AccessTokenClaims struct {
	UserID int64          `json:"user_id"`
	Role   enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}
