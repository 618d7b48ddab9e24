package web

import (
	"context"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/liftmate/liftmate/internal/auth"
	"github.com/liftmate/liftmate/internal/posting"
	"github.com/liftmate/liftmate/internal/rides"
	"github.com/liftmate/liftmate/pkg/common"
	"github.com/liftmate/liftmate/pkg/i18n"
	"github.com/liftmate/liftmate/pkg/logger"
	"go.uber.org/zap"
	g "maragu.dev/gomponents"
)

// RideLister loads the listing shown on the home page
type RideLister interface {
	ListRides(ctx context.Context, filter rides.Filter) (*rides.Listing, error)
	CountryCode() string
}

// Options tunes the page handlers
type Options struct {
	MaxImageBytes int64
	SecureCookies bool
}

// Handler serves the HTML pages
type Handler struct {
	rides    RideLister
	posting  *posting.Service
	provider auth.Provider
	maxImage int64
	secure   bool
}

// NewHandler creates the page handler. provider may be nil, in which case
// posting is open to everyone and no sign-in link is shown.
func NewHandler(lister RideLister, wizard *posting.Service, provider auth.Provider, opts Options) *Handler {
	return &Handler{
		rides:    lister,
		posting:  wizard,
		provider: provider,
		maxImage: opts.MaxImageBytes,
		secure:   opts.SecureCookies,
	}
}

// view is what every page needs to render the shared layout
type view struct {
	Lang      string
	User      *auth.User
	CanSignIn bool
	Path      string
}

func (h *Handler) view(c *gin.Context) view {
	v := view{
		Lang:      i18n.LangFromAcceptLanguage(c.GetHeader("Accept-Language")),
		CanSignIn: h.provider != nil,
		Path:      c.Request.URL.Path,
	}
	if user, ok := auth.CurrentUser(c); ok {
		v.User = user
	}
	return v
}

func (v view) t(key string, args ...interface{}) string {
	return i18n.Translate(key, v.Lang, args...)
}

func render(c *gin.Context, status int, node g.Node) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := node.Render(c.Writer); err != nil {
		logger.WithContext(c.Request.Context()).Warn("failed to render page", zap.Error(err))
	}
}

// RegisterRoutes mounts the pages. submitGuards run before the wizard's
// submit step, typically the rate limiter.
func (h *Handler) RegisterRoutes(r gin.IRouter, submitGuards ...gin.HandlerFunc) {
	assets, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	r.StaticFS("/static", http.FS(assets))

	r.GET("/", auth.Identify(h.provider), h.Home)
	r.GET("/terms", auth.Identify(h.provider), h.Terms)

	wizard := r.Group("/post", auth.Gate(h.provider))
	wizard.GET("", h.ShowWizard)
	wizard.GET("/preview", h.Preview)
	wizard.POST("/category", h.ChooseCategory)
	wizard.POST("/details", h.SubmitDetails)
	wizard.POST("/capture", h.Capture)
	wizard.POST("/retake", h.Retake)
	wizard.POST("/back", h.Back)
	wizard.POST("/cancel", h.Cancel)

	submit := append(append([]gin.HandlerFunc{}, submitGuards...), h.Submit)
	wizard.POST("/submit", submit...)
}

// Home renders the marketing page with the listing
// GET /?ride_type=offer&post_type=passengers&city=Cape%20Town&q=stellenbosch
func (h *Handler) Home(c *gin.Context) {
	v := h.view(c)
	filter := bindFilter(c)

	listing, err := h.rides.ListRides(c.Request.Context(), filter)
	status := http.StatusOK
	if err != nil {
		status = errorStatus(err)
	}

	render(c, status, homePage(v, listingState{
		Filter:      filter,
		Listing:     listing,
		Err:         err,
		CountryCode: h.rides.CountryCode(),
	}))
}

// Terms renders the terms of service
// GET /terms
func (h *Handler) Terms(c *gin.Context) {
	render(c, http.StatusOK, termsPage(h.view(c)))
}

// NotFound renders the 404 page for every unknown path. API paths get the
// JSON envelope instead.
func (h *Handler) NotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		common.ErrorResponse(c, http.StatusNotFound, "not found")
		return
	}
	render(c, http.StatusNotFound, notFoundPage(h.view(c)))
}
