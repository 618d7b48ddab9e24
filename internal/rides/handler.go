package rides

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/liftmate/liftmate/pkg/common"
	"github.com/liftmate/liftmate/pkg/middleware"
)

// Handler handles HTTP requests for rides
type Handler struct {
	service *Service
}

// NewHandler creates a new rides handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func respondError(c *gin.Context, err error, fallback string) {
	if appErr, ok := common.AsAppError(err); ok {
		common.AppErrorResponse(c, appErr)
		return
	}
	common.ErrorResponse(c, http.StatusInternalServerError, fallback)
}

// ListRides returns the filtered listing
// GET /api/v1/rides?ride_type=offer&post_type=passengers&city=Cape%20Town&q=stellenbosch
func (h *Handler) ListRides(c *gin.Context) {
	var filter Filter
	if !middleware.ValidateAndBindQuery(c, &filter) {
		return
	}

	listing, err := h.service.ListRides(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "failed to load rides")
		return
	}

	common.SuccessResponseWithMeta(c, listing, &common.Meta{
		Total:    int64(listing.Total),
		Returned: len(listing.Rides),
	})
}

// ListCities returns the city capsules
// GET /api/v1/rides/cities
func (h *Handler) ListCities(c *gin.Context) {
	cities, err := h.service.ListCities(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to load cities")
		return
	}
	common.SuccessResponse(c, gin.H{"cities": cities})
}

// GetRide returns one ride
// GET /api/v1/rides/:id
func (h *Handler) GetRide(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid ride ID")
		return
	}

	ride, err := h.service.GetRide(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to get ride")
		return
	}
	common.SuccessResponse(c, ride)
}

// Contact redirects to the WhatsApp or tel link of a ride
// GET /api/v1/rides/:id/contact
func (h *Handler) Contact(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid ride ID")
		return
	}

	link, err := h.service.ContactLink(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to get contact link")
		return
	}
	c.Redirect(http.StatusFound, link)
}

// RegisterRoutes mounts the read-only rides API
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rides := rg.Group("/rides")
	rides.GET("", h.ListRides)
	rides.GET("/cities", h.ListCities)
	rides.GET("/:id", h.GetRide)
	rides.GET("/:id/contact", h.Contact)
}
