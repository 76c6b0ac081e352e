package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents JWT custom claims. Subject carries the actor id.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ActorID returns the id of the authenticated actor
func (c *Claims) ActorID() string {
	return c.Subject
}
