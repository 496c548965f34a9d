package api

import (
	"github.com/labstack/echo/v4"

	"labdash-backend/internal/service"
)

type AuthHandler struct {
	userService *service.UserService
}

func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// Register creates a new user --> POST /api/auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	req := struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]interface{}{"success": false, "error": "Invalid request payload"})
	}

	user, err := h.userService.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(201, map[string]interface{}{"success": true, "user": user})
}

// Login issues a JWT for valid credentials --> POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	req := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]interface{}{"success": false, "error": "Invalid request payload"})
	}

	token, err := h.userService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return c.JSON(401, map[string]interface{}{"success": false, "error": "Invalid credentials"})
	}

	return c.JSON(200, map[string]string{"token": token})
}
