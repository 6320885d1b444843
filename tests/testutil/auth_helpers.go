package testutil

import (
	"fmt"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gee-graphics/gee-graphics-api/middleware"
	"github.com/gin-gonic/gin"
)

// MockValidatedClaims creates the claims structure the auth middleware
// produces for a validated session token.
func MockValidatedClaims(userID uint, username string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  "gee-graphics-api",
			Subject: fmt.Sprintf("%d", userID),
		},
		CustomClaims: &middleware.CustomClaims{
			Username: username,
		},
	}
}

// MockAuthMiddleware returns a middleware that populates the Gin context
// the way EnsureValidToken does, without requiring a signed token.
func MockAuthMiddleware(userID uint, username string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", fmt.Sprintf("%d", userID))
		c.Set("validated_claims", MockValidatedClaims(userID, username))
		c.Next()
	}
}
