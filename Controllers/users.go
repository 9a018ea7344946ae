package Controllers

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"Helios/Models"
)

// UserController handles account management. Every route it serves is gated
// to master_admin in the route table. Accounts are never deleted; an account
// that should stop working gets its role changed instead.
type UserController struct {
	Store Models.Store
}

func NewUserController(store Models.Store) *UserController {
	return &UserController{Store: store}
}

type RegisterUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required"`
}

func (u *UserController) RegisterUser(c *fiber.Ctx) error {
	var req RegisterUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body", "message": err.Error()})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "message": err.Error()})
	}
	role, ok := Models.ParseRole(req.Role)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "message": "role must be master_admin, admin or employee"})
	}

	existing, err := u.Store.QueryByEqualField(c.Context(), Models.UsersPath, "email", req.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed", "message": "Could not check existing users"})
	}
	if len(existing) > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A user with this email already exists"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed", "message": "Could not hash password"})
	}

	user := Models.User{
		Name:      req.Name,
		Email:     req.Email,
		Password:  hash,
		Role:      role,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	key, err := u.Store.PushNewChild(c.Context(), Models.UsersPath, user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed", "message": "Could not create user"})
	}
	user.ID = key
	if err := u.Store.Update(c.Context(), Models.UsersPath+"/"+key, map[string]interface{}{"id": key}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed", "message": "Could not create user"})
	}
	return c.Status(fiber.StatusCreated).JSON(user.Public())
}

func (u *UserController) FetchUsers(c *fiber.Ctx) error {
	var all map[string]json.RawMessage
	found, err := u.Store.Read(c.Context(), Models.UsersPath, &all)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed", "message": "Could not load users"})
	}

	users := make([]Models.User, 0, len(all))
	if found {
		for key, raw := range all {
			var user Models.User
			if err := json.Unmarshal(raw, &user); err != nil {
				continue
			}
			if user.ID == "" {
				user.ID = key
			}
			users = append(users, user.Public())
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return c.JSON(users)
}

type UpdateUserRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// UpdateUser renames a user or moves it to another role. Role mutation is a
// master_admin-only operation, enforced by the route gate.
func (u *UserController) UpdateUser(c *fiber.Ctx) error {
	id := c.Params("id")

	var user Models.User
	found, err := u.Store.Read(c.Context(), Models.UsersPath+"/"+id, &user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed", "message": "Could not load user"})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body", "message": err.Error()})
	}

	partial := make(map[string]interface{})
	if req.Name != "" {
		user.Name = req.Name
		partial["name"] = req.Name
	}
	if req.Role != "" {
		role, ok := Models.ParseRole(req.Role)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "message": "role must be master_admin, admin or employee"})
		}
		user.Role = role
		partial["role"] = role
	}
	if len(partial) == 0 {
		return c.JSON(user.Public())
	}

	if err := u.Store.Update(c.Context(), Models.UsersPath+"/"+id, partial); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed", "message": "Could not update user"})
	}
	return c.JSON(user.Public())
}
