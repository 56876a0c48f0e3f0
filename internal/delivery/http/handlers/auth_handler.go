package handlers

import (
	"errors"
	"strings"

	"artfolio/internal/auth"
	"artfolio/internal/domain/dto"
	"artfolio/pkg/constants"
	apperrors "artfolio/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	provider *auth.Provider
	secure   bool
	log      *zap.Logger
}

func NewAuthHandler(provider *auth.Provider, secureCookie bool, log *zap.Logger) *AuthHandler {
	return &AuthHandler{provider: provider, secure: secureCookie, log: log}
}

// Login
//
// @Summary      Sign in
// @Description  Checks the admin credentials and issues a session token, also set as a cookie
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.HandleError(c, h.log, apperrors.ErrValidation(map[string]string{"body": "Malformed request body"}))
	}
	fields := map[string]string{}
	if strings.TrimSpace(req.Email) == "" {
		fields["email"] = "Email is required"
	}
	if req.Password == "" {
		fields["password"] = "Password is required"
	}
	if len(fields) > 0 {
		return apperrors.HandleError(c, h.log, apperrors.ErrValidation(fields))
	}

	s, err := h.provider.SignIn(c.UserContext(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return apperrors.HandleError(c, h.log, apperrors.ErrUnauthorized(err))
	}
	if err != nil {
		return apperrors.HandleError(c, h.log, apperrors.ErrInternal(err))
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(dto.LoginResponse{Token: s.Token, Email: s.Email, ExpiresAt: s.ExpiresAt})
}

// Logout
//
// @Summary      Sign out
// @Description  Invalidates the current session
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.StatusResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	s, ok := SessionFrom(c)
	if !ok {
		return apperrors.HandleError(c, h.log, apperrors.ErrUnauthorized(nil))
	}
	if err := h.provider.SignOut(c.UserContext(), s.Token); err != nil {
		return apperrors.HandleError(c, h.log, apperrors.ErrUnauthorized(err))
	}
	c.ClearCookie(SessionCookie)
	return c.JSON(dto.StatusResponse{Status: constants.StatusOK})
}

// Me
//
// @Summary      Current session
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.SessionResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	s, ok := SessionFrom(c)
	if !ok {
		return apperrors.HandleError(c, h.log, apperrors.ErrUnauthorized(nil))
	}
	return c.JSON(dto.SessionResponse{Email: s.Email, ExpiresAt: s.ExpiresAt})
}
