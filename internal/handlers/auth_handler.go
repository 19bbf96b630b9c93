package handlers

import (
	"github.com/globetrotterhq/globetrotter-backend/internal/dto"
	"github.com/globetrotterhq/globetrotter-backend/internal/httperr"
	"github.com/globetrotterhq/globetrotter-backend/internal/middleware"
	"github.com/globetrotterhq/globetrotter-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	auth  *services.AuthService
	media *services.MediaService
}

func NewAuthHandler(auth *services.AuthService, media *services.MediaService) *AuthHandler {
	return &AuthHandler{auth: auth, media: media}
}

// Signup handles POST /auth/signup (multipart, optional avatar image).
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := parseBody(c, &req); err != nil {
		return httperr.Respond(c, err)
	}

	var avatarPath *string
	if file, err := c.FormFile("avatar"); err == nil && file != nil {
		path, err := h.media.Save(file, services.PurposeAvatar)
		if err != nil {
			return httperr.Respond(c, err)
		}
		avatarPath = &path
	}

	resp, err := h.auth.Signup(&req, avatarPath)
	if err != nil {
		if avatarPath != nil {
			h.media.Remove(*avatarPath)
		}
		return httperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return httperr.Respond(c, err)
	}

	resp, err := h.auth.Login(&req)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httperr.Respond(c, httperr.Unauthenticated("unauthorized"))
	}

	view, err := h.auth.Profile(userID)
	if err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(view)
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return httperr.Respond(c, err)
	}

	if err := h.auth.ResetPassword(&req); err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "password updated"})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	raw := middleware.BearerToken(c)
	if raw == "" {
		return httperr.Respond(c, httperr.Unauthenticated("missing bearer token"))
	}

	if err := h.auth.Logout(raw); err != nil {
		return httperr.Respond(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "logged out"})
}
