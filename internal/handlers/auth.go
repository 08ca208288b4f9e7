package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lookout/internal/middleware"
	"github.com/localnerve/lookout/internal/models"
	"github.com/localnerve/lookout/internal/services"
	"github.com/localnerve/lookout/internal/utils"
)

// LoginResponse is returned by a successful login
type LoginResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	Message   string       `json:"message"`
}

// SessionResponse describes the caller's session
type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *models.User `json:"user,omitempty"`
}

// Register handles POST /api/auth/register
// @Summary Register an account
// @Description Create a user account with the user role
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Account"
// @Success 201 {object} models.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /auth/register [post]
func (h *Handler) Register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := decode(c, &in); err != nil {
		return respondError(c, err)
	}

	user, err := services.Register(h.DB, in)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, user, fiber.StatusCreated)
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Description Verify credentials, set the session cookie and return a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /auth/login [post]
func (h *Handler) Login(c *fiber.Ctx) error {
	var in services.LoginInput
	if err := decode(c, &in); err != nil {
		return respondError(c, err)
	}

	user, err := services.Login(h.DB, in)
	if err != nil {
		return respondError(c, err)
	}

	token, expiresAt, err := h.Tokens.Issue(user)
	if err != nil {
		return respondError(c, err)
	}
	h.setSessionCookie(c, token, expiresAt)

	return utils.SuccessResponse(c, LoginResponse{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
		Message:   "Login successful",
	}, fiber.StatusOK)
}

// Session handles GET /api/auth/session
// @Summary Current session
// @Description Report whether the request carries a valid session
// @Tags Auth
// @Produce json
// @Success 200 {object} SessionResponse
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /auth/session [get]
func (h *Handler) Session(c *fiber.Ctx) error {
	caller, err := middleware.Authenticate(c, h.Tokens)
	if err != nil {
		return utils.SuccessResponse(c, SessionResponse{}, fiber.StatusOK)
	}

	user, err := services.GetUser(h.DB, caller.UserID)
	if err != nil {
		if isNotFound(err) {
			return utils.SuccessResponse(c, SessionResponse{}, fiber.StatusOK)
		}
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, SessionResponse{Authenticated: true, User: user}, fiber.StatusOK)
}

// Logout handles POST /api/auth/logout
// @Summary Log out
// @Description Clear the session cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.MessageResponseStruct
// @Router /auth/logout [post]
func (h *Handler) Logout(c *fiber.Ctx) error {
	h.setSessionCookie(c, "", time.Unix(0, 0))
	return utils.SuccessResponse(c, utils.MessageResponseStruct{Message: "Logged out"}, fiber.StatusOK)
}

func (h *Handler) setSessionCookie(c *fiber.Ctx, token string, expires time.Time) {
	cookie := &fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.Cfg != nil && h.Cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if token == "" {
		cookie.MaxAge = -1
	}
	c.Cookie(cookie)
}
