package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/liftmate/liftmate/pkg/common"
	"github.com/liftmate/liftmate/pkg/logger"
	"go.uber.org/zap"
)

const (
	stateCookie = "lm_oauth_state"
	nextCookie  = "lm_next"
)

// SessionStarter issues the session cookie once the provider has identified the user
type SessionStarter interface {
	Provider
	StartSession(w http.ResponseWriter, user *User) error
}

// Handler serves the login flow
type Handler struct {
	provider SessionStarter
	secure   bool
}

// NewHandler creates a new auth handler
func NewHandler(provider SessionStarter, secure bool) *Handler {
	return &Handler{provider: provider, secure: secure}
}

// safeNext only allows local paths as post-login destinations
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/post"
	}
	return next
}

func (h *Handler) setCookie(c *gin.Context, name, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/auth",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Login redirects to the provider consent page
// GET /auth/facebook/login?next=/post
func (h *Handler) Login(c *gin.Context) {
	state := uuid.New().String()
	h.setCookie(c, stateCookie, state, 600)
	h.setCookie(c, nextCookie, safeNext(c.DefaultQuery("next", "/post")), 600)
	c.Redirect(http.StatusFound, h.provider.LoginURL(state))
}

// Callback completes the login and starts the session
// GET /auth/facebook/callback?code=...&state=...
func (h *Handler) Callback(c *gin.Context) {
	want, err := c.Cookie(stateCookie)
	got := c.Query("state")
	if err != nil || want == "" || subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
		common.AppErrorResponse(c, common.NewBadRequestError("login expired, please try again", ErrInvalidState))
		return
	}
	h.setCookie(c, stateCookie, "", -1)

	if reason := c.Query("error"); reason != "" {
		logger.WithContext(c.Request.Context()).Info("facebook login declined", zap.String("reason", reason))
		c.Redirect(http.StatusFound, "/")
		return
	}

	code := c.Query("code")
	if code == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "authorization code missing")
		return
	}

	user, err := h.provider.Complete(c.Request.Context(), code)
	if err != nil {
		logger.WithContext(c.Request.Context()).Warn("facebook login failed", zap.Error(err))
		common.ErrorResponse(c, http.StatusBadGateway, "could not log in with Facebook")
		return
	}
	if err := h.provider.StartSession(c.Writer, user); err != nil {
		common.AppErrorResponse(c, common.NewInternalError("failed to start session", err))
		return
	}

	next, err := c.Cookie(nextCookie)
	if err != nil {
		next = "/post"
	}
	h.setCookie(c, nextCookie, "", -1)

	logger.WithContext(c.Request.Context()).Info("user logged in", zap.String("user_id", user.ID))
	c.Redirect(http.StatusFound, safeNext(next))
}

// Logout clears the session
// POST /auth/logout
func (h *Handler) Logout(c *gin.Context) {
	h.provider.Logout(c.Writer)
	c.Redirect(http.StatusSeeOther, "/")
}

// Me returns the logged in user
// GET /auth/me
func (h *Handler) Me(c *gin.Context) {
	user, ok := h.provider.Session(c.Request)
	if !ok {
		common.AppErrorResponse(c, common.NewAppError(http.StatusUnauthorized, "not logged in", ErrNoSession))
		return
	}
	common.SuccessResponse(c, user)
}

// RegisterRoutes mounts the login flow
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/auth")
	g.GET("/facebook/login", h.Login)
	g.GET("/facebook/callback", h.Callback)
	g.POST("/logout", h.Logout)
	g.GET("/me", h.Me)
}

var _ SessionStarter = (*Facebook)(nil)
