package Controllers

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"Helios/Models"
	"Helios/middleware"
)

var validate = validator.New()

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login checks credentials against the users tree and issues the session
// cookie. Connectivity is probed first so an unreachable store reads as
// "offline" on the client, not as a generic failure.
func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body", "message": err.Error()})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "message": err.Error()})
	}

	if !Models.IsOnline(Models.DB) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":   "offline",
			"message": "Cannot reach the database, check your connection",
		})
	}

	matches, err := Models.DB.QueryByEqualField(c.Context(), Models.UsersPath, "email", req.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed", "message": "Could not look up user"})
	}

	var user Models.User
	var found bool
	for key, raw := range matches {
		if err := json.Unmarshal(raw, &user); err != nil {
			continue
		}
		if user.ID == "" {
			user.ID = key
		}
		found = true
		break
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}

	if err := bcrypt.CompareHashAndPassword(user.Password, []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Incorrect Password"})
	}

	expires := time.Now().Add(24 * time.Hour)
	claims := jwt.RegisteredClaims{
		Issuer:    user.ID,
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(middleware.JWTSecret())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not log in"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "jwt",
		Value:    token,
		Expires:  expires,
		HTTPOnly: true,
	})
	return c.JSON(user.Public())
}

// Logout expires the session cookie.
func Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "jwt",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// User returns the identity behind the current session.
func User(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c).Public())
}

// ValidateToken reports whether the session cookie is still good.
func ValidateToken(c *fiber.Ctx) error {
	cookie := c.Cookies("jwt")
	if cookie == "" {
		return c.JSON(fiber.Map{"valid": false})
	}
	_, err := jwt.ParseWithClaims(cookie, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return middleware.JWTSecret(), nil
	})
	return c.JSON(fiber.Map{"valid": err == nil})
}
