package echo

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	domain "github.com/geritapp/gerit/internal/domain/auth"
)

type authService interface {
	Login(ctx context.Context, email, password string, remember bool) (domain.Session, error)
	Restore(ctx context.Context, token string) (domain.Session, error)
	Logout(ctx context.Context, token string) error
}

type AuthHandler struct {
	auth authService
}

func NewAuthHandler(auth authService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

type sessionResponse struct {
	Token     string      `json:"token,omitempty"`
	User      domain.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
	Remember  bool        `json:"remember"`
}

func toSessionResponse(s domain.Session, withToken bool) sessionResponse {
	out := sessionResponse{User: s.User, ExpiresAt: s.ExpiresAt().UTC(), Remember: s.Remember}
	if withToken {
		out.Token = s.Token
	}
	return out
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("bad_request", "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest("bad_request", "email and password are required")
	}

	session, err := h.auth.Login(c.Request().Context(), req.Email, req.Password, req.Remember)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, toSessionResponse(session, true))
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.auth.Logout(c.Request().Context(), bearerToken(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) Me(c echo.Context) error {
	session, found := currentSession(c)
	if !found {
		return domain.ErrSessionNotFound
	}
	return ok(c, http.StatusOK, toSessionResponse(session, false))
}
