package middleware

import (
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"Helios/Auth"
	"Helios/Models"
)

func JWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "secret"
	}
	return []byte(secret)
}

// Verify gates a route to the listed roles. The list is literal: a route
// that should admit master_admin must say so, it is never implied.
//
// Identity comes from the session cookie issued by Login, or from a Firebase
// ID token in the Authorization header for clients that authenticated against
// Firebase directly.
func Verify(allowed ...Models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := resolveUser(c)
		if !ok {
			denial := Auth.Deny(false)
			return c.Status(denial.Status).JSON(denial)
		}

		if !Auth.IsAuthorized(user.Role, allowed) {
			denial := Auth.Deny(true)
			return c.Status(denial.Status).JSON(denial)
		}

		c.Locals("user", user)
		return c.Next()
	}
}

// CurrentUser returns the identity Verify stored on the request.
func CurrentUser(c *fiber.Ctx) Models.User {
	user, _ := c.Locals("user").(Models.User)
	return user
}

func resolveUser(c *fiber.Ctx) (Models.User, bool) {
	id, ok := sessionUserID(c)
	if !ok {
		id, ok = bearerUserID(c)
	}
	if !ok {
		return Models.User{}, false
	}

	var user Models.User
	found, err := Models.DB.Read(c.Context(), Models.UsersPath+"/"+id, &user)
	if err != nil || !found {
		return Models.User{}, false
	}
	if user.ID == "" {
		user.ID = id
	}
	return user, true
}

func sessionUserID(c *fiber.Ctx) (string, bool) {
	cookie := c.Cookies("jwt")
	if cookie == "" {
		return "", false
	}

	token, err := jwt.ParseWithClaims(cookie, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return JWTSecret(), nil
	})
	if err != nil {
		return "", false
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Issuer == "" {
		return "", false
	}
	return claims.Issuer, true
}

func bearerUserID(c *fiber.Ctx) (string, bool) {
	header := c.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") || Models.AuthClient == nil {
		return "", false
	}
	token, err := Models.AuthClient.VerifyIDToken(c.Context(), strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return "", false
	}
	return token.UID, true
}
