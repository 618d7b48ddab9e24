package posting

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/liftmate/liftmate/pkg/common"
)

// Handler serves the JSON posting endpoint
type Handler struct {
	service  *Service
	maxImage int64
}

// NewHandler creates a new posting handler. maxImage caps the selfie size in bytes.
func NewHandler(service *Service, maxImage int64) *Handler {
	return &Handler{service: service, maxImage: maxImage}
}

// ReadUpload reads the multipart file in field, or returns nil when the
// field is absent
func ReadUpload(c *gin.Context, field string, maxBytes int64) ([]byte, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := io.Reader(f)
	if maxBytes > 0 {
		reader = io.LimitReader(f, maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%s must be at most %d bytes", field, maxBytes)
	}
	return data, nil
}

// BindDetails binds the trip fields from a form or JSON body. Blank number
// inputs stay nil so the required rules see them as missing rather than zero.
func BindDetails(c *gin.Context) (Details, error) {
	var details Details
	if err := c.ShouldBind(&details); err != nil {
		return details, err
	}
	if c.ContentType() != binding.MIMEJSON {
		if strings.TrimSpace(c.PostForm("seats_available")) == "" {
			details.SeatsAvailable = nil
		}
		if strings.TrimSpace(c.PostForm("price_per_seat")) == "" {
			details.PricePerSeat = nil
		}
	}
	return details, nil
}

// RespondError writes err using the JSON envelope; field errors carry a
// message per field
func RespondError(c *gin.Context, err error) {
	var ferr *FieldErrors
	if errors.As(err, &ferr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    http.StatusBadRequest,
				"message": "Validation failed",
			},
			"fields": ferr.Fields,
		})
		return
	}
	if appErr, ok := common.AsAppError(err); ok {
		common.AppErrorResponse(c, appErr)
		return
	}
	common.ErrorResponse(c, http.StatusInternalServerError, "failed to post ride")
}

// CreateRide posts a ride in one request
// POST /api/v1/rides (multipart: trip fields, selfie file, human_confirmed)
func (h *Handler) CreateRide(c *gin.Context) {
	details, err := BindDetails(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	image, err := ReadUpload(c, "selfie", h.maxImage)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	human, _ := strconv.ParseBool(c.PostForm("human_confirmed"))

	ride, err := h.service.Post(c.Request.Context(), Submission{
		Details:        details,
		Image:          image,
		HumanConfirmed: human,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	common.CreatedResponse(c, ride)
}

// RegisterRoutes mounts the posting API. guards run before the handler,
// typically the rate limiter.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guards ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, guards...), h.CreateRide)
	rg.POST("/rides", handlers...)
}
