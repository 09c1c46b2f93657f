package httpserver

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/agrolocal/farmstand/internal/events"
	"github.com/agrolocal/farmstand/internal/logging"
	"github.com/agrolocal/farmstand/internal/models"
	"github.com/agrolocal/farmstand/internal/store"
)

const sessionTTL = 24 * time.Hour

// SessionHandler records the active identity. There are no credentials to
// verify; login simply declares who the single local user is.
type SessionHandler struct {
	Sessions *store.Session
	Producer *events.Producer
	Secret   []byte
}

func createCookie(name, value, path string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *SessionHandler) accessToken(user models.User, expires time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"name": user.Name,
		"role": string(user.Role),
		"exp":  expires.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.Secret)
}

func (h *SessionHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "session.login")

	var req struct {
		Name  string      `json:"name"`
		Email string      `json:"email"`
		Role  models.Role `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" || req.Email == "" {
		l.Warn("login_error", "status", 400, "reason", "name and email required")
		return echo.NewHTTPError(http.StatusBadRequest, "name and email required")
	}
	if !req.Role.Valid() {
		l.Warn("login_error", "status", 400, "reason", "unknown role")
		return echo.NewHTTPError(http.StatusBadRequest, "role must be buyer, seller or admin")
	}

	user := models.User{
		ID:    uuid.NewString(),
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	}
	h.Sessions.Login(ctx, user)

	expires := time.Now().Add(sessionTTL)
	token, err := h.accessToken(user, expires)
	if err != nil {
		l.Error("login_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create session token")
	}
	c.SetCookie(createCookie("accessToken", token, "/", expires))

	h.Producer.Publish(ctx, events.TopicUserEvents, user.ID, map[string]any{
		"type":    "user_logged_in",
		"user_id": user.ID,
		"role":    user.Role,
	})

	l.Info("login_success", "role", user.Role)
	return c.JSON(http.StatusOK, user)
}

func (h *SessionHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "session.logout")

	user, ok := h.Sessions.Current()
	h.Sessions.Logout(ctx)
	c.SetCookie(createCookie("accessToken", "", "/", time.Unix(0, 0)))

	if ok {
		h.Producer.Publish(ctx, events.TopicUserEvents, user.ID, map[string]any{
			"type":    "user_logged_out",
			"user_id": user.ID,
		})
	}

	l.Info("logout_success")
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *SessionHandler) Current(c echo.Context) error {
	user, ok := h.Sessions.Current()
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "no active session")
	}
	return c.JSON(http.StatusOK, user)
}
