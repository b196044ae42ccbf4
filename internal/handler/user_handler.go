package handler

import (
	"github.com/gofiber/fiber/v2"

	"shopflow/internal/middleware"
	"shopflow/internal/model"
	"shopflow/internal/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func userResponses(users []model.User) []model.UserResponse {
	out := make([]model.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToResponse())
	}
	return out
}

// CreateUser handles user creation
// POST /api/admin/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req service.CreateUserInput
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.userService.Create(c.UserContext(), middleware.ActorFrom(c), req)
	if err != nil {
		return err
	}
	return created(c, user.ToResponse(), "User created successfully")
}

// GetUsers returns all users
// GET /api/admin/users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.userService.List(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, userResponses(users))
}

// GetUser returns a single user
// GET /api/admin/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.userService.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, user.ToResponse())
}

// UpdateUser applies a partial update, password included when present
// PUT /api/admin/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req service.UpdateUserInput
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.userService.Update(c.UserContext(), middleware.ActorFrom(c), id, req)
	if err != nil {
		return err
	}
	return okMessage(c, user.ToResponse(), "User updated successfully")
}

// DeleteUser removes an account other than the caller's
// DELETE /api/admin/users/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.userService.Delete(c.UserContext(), middleware.ActorFrom(c), id); err != nil {
		return err
	}
	return okMessage(c, nil, "User deleted successfully")
}
