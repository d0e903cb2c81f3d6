package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	memberapp "realtime_chat_service/internal/member/app"
	"realtime_chat_service/pkg/logger"
	"realtime_chat_service/pkg/middlewares"
)

// AuthHandler HTTP surface for the login lifecycle
type AuthHandler struct {
	usecase memberapp.MemberUseCase
}

// NewAuthHandler create AuthHandler
func NewAuthHandler(usecase memberapp.MemberUseCase) *AuthHandler {
	return &AuthHandler{usecase: usecase}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login godoc
// @Summary     Log in and receive a chat token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body credentialsRequest true "credentials"
// @Success     200 {object} map[string]string
// @Failure     400 {object} map[string]string
// @Failure     401 {object} map[string]string
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Username and password required"})
	}
	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Username and password required"})
	}

	tokenStr, member, err := h.usecase.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, memberapp.ErrMissingCredentials) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Username and password required"})
		}
		logger.Log.Warn("login rejected", zap.String("username", req.Username))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     middlewares.CookieToken,
		Value:    tokenStr,
		HTTPOnly: true,
	})

	return c.JSON(fiber.Map{
		"token":    tokenStr,
		"username": member.Username,
	})
}

// Register godoc
// @Summary     Create an account (strict auth mode only)
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body credentialsRequest true "credentials"
// @Success     201 {object} map[string]string
// @Failure     400 {object} map[string]string
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Username and password required"})
	}

	if err := h.usecase.Register(c.Context(), req.Username, req.Password); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "registered"})
}

// Logout godoc
// @Summary     End the current session
// @Tags        auth
// @Produce     json
// @Success     200 {object} map[string]string
// @Failure     401 {object} map[string]string
// @Router      /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	tokenStr := c.Cookies(middlewares.CookieToken)
	if tokenStr == "" {
		tokenStr = c.Query(middlewares.QueryToken)
	}

	if err := h.usecase.Logout(c.Context(), tokenStr); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	c.ClearCookie(middlewares.CookieToken)
	return c.JSON(fiber.Map{"message": "logged out"})
}
