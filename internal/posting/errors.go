package posting

import (
	"errors"
	"net/http"

	"github.com/liftmate/liftmate/pkg/common"
	"github.com/liftmate/liftmate/pkg/i18n"
	"github.com/liftmate/liftmate/pkg/validation"
)

var (
	// ErrValidation means the draft or submission is not ready to be posted
	ErrValidation = errors.New("validation failed")
	// ErrDraftNotFound means the draft expired or was cancelled
	ErrDraftNotFound = errors.New("draft not found")
	// ErrWrongStep means the transition is not allowed from the current step
	ErrWrongStep = errors.New("action not allowed at this step")
)

// FieldErrors is a validation failure with a message per form field
type FieldErrors struct {
	Fields map[string]string
}

func (e *FieldErrors) Error() string {
	return (&validation.ValidationError{Errors: e.Fields}).Error()
}

func (e *FieldErrors) Unwrap() error { return ErrValidation }

func fieldErrors(err error) error {
	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		return &FieldErrors{Fields: verr.Errors}
	}
	return err
}

// submitRejected is a pre-network check failure; key names the message
func submitRejected(key string) error {
	return common.NewBadRequestError(i18n.T(key), ErrValidation)
}

func notFound() error {
	return common.NewNotFoundError(i18n.T("posting.error.expired"), ErrDraftNotFound)
}

func wrongStep(step Step) error {
	return common.NewAppError(http.StatusConflict, "action not allowed at step "+string(step), ErrWrongStep)
}
