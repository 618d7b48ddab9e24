package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/liftmate/liftmate/internal/posting"
	"github.com/liftmate/liftmate/pkg/common"
	"github.com/liftmate/liftmate/pkg/i18n"
)

const (
	draftCookie = "lm_draft"
	wizardPath  = "/post"
)

func (h *Handler) draftID(c *gin.Context) string {
	id, _ := c.Cookie(draftCookie)
	return id
}

func (h *Handler) keepDraft(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(draftCookie, id, 0, wizardPath, "", h.secure, true)
}

func (h *Handler) dropDraft(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(draftCookie, "", -1, wizardPath, "", h.secure, true)
}

// ShowWizard renders the current step, starting a draft when there is none
// GET /post
func (h *Handler) ShowWizard(c *gin.Context) {
	ctx := c.Request.Context()
	v := h.view(c)

	draft, err := h.posting.Get(ctx, h.draftID(c))
	if errors.Is(err, posting.ErrDraftNotFound) {
		name := ""
		if v.User != nil {
			name = v.User.Name
		}
		draft, err = h.posting.Start(ctx, name)
		if err == nil {
			h.keepDraft(c, draft.ID)
		}
	}
	if err != nil {
		h.fail(c, "", nil, err)
		return
	}

	render(c, http.StatusOK, wizardPage(v, wizardState{Draft: draft, MaxImage: h.maxImage}))
}

// advance runs one transition and sends the visitor back to the wizard
func (h *Handler) advance(c *gin.Context, transition func(ctx context.Context, id string) (*posting.Draft, error)) {
	id := h.draftID(c)
	draft, err := transition(c.Request.Context(), id)
	if err != nil {
		h.fail(c, id, draft, err)
		return
	}
	c.Redirect(http.StatusSeeOther, wizardPath)
}

// fail renders the wizard with err. draft may be nil, in which case it is reloaded.
func (h *Handler) fail(c *gin.Context, id string, draft *posting.Draft, err error) {
	v := h.view(c)

	if errors.Is(err, posting.ErrDraftNotFound) {
		h.dropDraft(c)
		render(c, http.StatusNotFound, wizardPage(v, wizardState{Message: errorMessage(err), Expired: true}))
		return
	}

	if draft == nil && id != "" {
		if current, getErr := h.posting.Get(c.Request.Context(), id); getErr == nil {
			draft = current
		}
	}

	st := wizardState{Draft: draft, MaxImage: h.maxImage, Message: errorMessage(err)}
	status := errorStatus(err)

	var ferr *posting.FieldErrors
	if errors.As(err, &ferr) {
		st.Fields = ferr.Fields
		st.Message = "Please fix the highlighted fields."
		status = http.StatusBadRequest
	}
	render(c, status, wizardPage(v, st))
}

// ChooseCategory records passengers or parcel
// POST /post/category
func (h *Handler) ChooseCategory(c *gin.Context) {
	h.advance(c, func(ctx context.Context, id string) (*posting.Draft, error) {
		return h.posting.ChooseCategory(ctx, id, c.PostForm("post_type"))
	})
}

// SubmitDetails validates the trip details
// POST /post/details
func (h *Handler) SubmitDetails(c *gin.Context) {
	details, err := posting.BindDetails(c)
	if err != nil {
		h.fail(c, h.draftID(c), nil, common.NewBadRequestError("Please check the numbers you entered.", posting.ErrValidation))
		return
	}

	h.advance(c, func(ctx context.Context, id string) (*posting.Draft, error) {
		return h.posting.SubmitDetails(ctx, id, details)
	})
}

// Capture stores the selfie taken with the camera or uploaded instead
// POST /post/capture (multipart: selfie)
func (h *Handler) Capture(c *gin.Context) {
	image, err := posting.ReadUpload(c, "selfie", h.maxImage)
	if err != nil {
		h.fail(c, h.draftID(c), nil, common.NewBadRequestError(err.Error(), posting.ErrValidation))
		return
	}
	if len(image) == 0 {
		h.fail(c, h.draftID(c), nil, common.NewBadRequestError(i18n.T("posting.error.capture"), posting.ErrValidation))
		return
	}

	h.advance(c, func(ctx context.Context, id string) (*posting.Draft, error) {
		return h.posting.Capture(ctx, id, image)
	})
}

// Retake discards the selfie
// POST /post/retake
func (h *Handler) Retake(c *gin.Context) {
	h.advance(c, h.posting.Retake)
}

// Back returns to the category step
// POST /post/back
func (h *Handler) Back(c *gin.Context) {
	h.advance(c, h.posting.Back)
}

// Cancel closes the wizard. next may send the visitor straight into a new draft.
// POST /post/cancel
func (h *Handler) Cancel(c *gin.Context) {
	if err := h.posting.Cancel(c.Request.Context(), h.draftID(c)); err != nil {
		h.fail(c, h.draftID(c), nil, err)
		return
	}
	h.dropDraft(c)

	next := "/#find-ride"
	if c.PostForm("next") == wizardPath {
		next = wizardPath
	}
	c.Redirect(http.StatusSeeOther, next)
}

// Submit records the human confirmation and posts the ride
// POST /post/submit
func (h *Handler) Submit(c *gin.Context) {
	ctx := c.Request.Context()
	id := h.draftID(c)
	human, _ := strconv.ParseBool(c.PostForm("human_confirmed"))

	if _, err := h.posting.ConfirmHuman(ctx, id, human); err != nil {
		h.fail(c, id, nil, err)
		return
	}
	if _, err := h.posting.Submit(ctx, id); err != nil {
		if !errors.Is(err, posting.ErrValidation) && !errors.Is(err, posting.ErrDraftNotFound) {
			err = common.NewAppError(errorStatus(err), i18n.T("posting.error.submit", errorMessage(err)), err)
		}
		h.fail(c, id, nil, err)
		return
	}
	c.Redirect(http.StatusSeeOther, wizardPath)
}

// Preview serves the captured selfie back to its owner
// GET /post/preview
func (h *Handler) Preview(c *gin.Context) {
	image, contentType, err := h.posting.Preview(c.Request.Context(), h.draftID(c))
	if err != nil {
		c.AbortWithStatus(errorStatus(err))
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, contentType, image)
}
