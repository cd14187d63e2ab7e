package middleware

import (
	"strings"

	"courier-booking/constants"
	"courier-booking/logger"
	"courier-booking/services/auth"
	"courier-booking/types"

	"github.com/gofiber/fiber/v2"
)

// TokenVerifier is satisfied by *auth.TokenIssuer
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
		Message: message,
		Status:  fiber.StatusUnauthorized,
	})
}

// bearerToken reads the Authorization header, falling back to the access cookie
func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		token := c.Cookies(constants.AccessCookie)
		return token, token != ""
	}
	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "Bearer") || tokenParts[1] == "" {
		return "", false
	}
	return tokenParts[1], true
}

// RequireAuthentication only requires a valid access token
func RequireAuthentication(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return unauthorized(c, "Authorization token missing or malformed")
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			logger.Debug("Rejected access token: " + err.Error())
			return unauthorized(c, "Session expired. Login again.")
		}

		c.Locals(constants.LocalsClaims, claims)
		c.Locals(constants.LocalsUserUUID, claims.UUID())
		return c.Next()
	}
}

// RequireAdmin must run after RequireAuthentication
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFrom(c)
		if !ok {
			return unauthorized(c, "Invalid user claims")
		}
		if !claims.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
				Message: "Insufficient permissions",
				Status:  fiber.StatusForbidden,
			})
		}
		return c.Next()
	}
}

// ClaimsFrom returns the verified claims attached by RequireAuthentication
func ClaimsFrom(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals(constants.LocalsClaims).(*auth.Claims)
	return claims, ok && claims != nil
}
