package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// DateLayout is the wire format of departure dates
	DateLayout = "2006-01-02"
	// ClockLayout is the wire format of departure times
	ClockLayout = "15:04"
)

var (
	validate *validator.Validate
	once     sync.Once

	locMu    sync.RWMutex
	location = time.UTC
	now      = time.Now
)

// SetLocation sets the timezone used to decide what "today" means for notpast
func SetLocation(loc *time.Location) {
	if loc == nil {
		return
	}
	locMu.Lock()
	location = loc
	locMu.Unlock()
}

// Today returns the current date in the configured location, truncated to midnight
func Today() time.Time {
	locMu.RLock()
	loc := location
	locMu.RUnlock()

	t := now().In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report json field names so messages match what clients send
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return fld.Name
		})

		_ = validate.RegisterValidation("ride_type", func(fl validator.FieldLevel) bool {
			v := fl.Field().String()
			return v == "offer" || v == "request"
		})
		_ = validate.RegisterValidation("post_type", func(fl validator.FieldLevel) bool {
			v := fl.Field().String()
			return v == "passengers" || v == "parcel"
		})
		_ = validate.RegisterValidation("phone", validatePhone)
		_ = validate.RegisterValidation("notpast", func(fl validator.FieldLevel) bool {
			d, err := time.ParseInLocation(DateLayout, fl.Field().String(), Today().Location())
			if err != nil {
				return false
			}
			return !d.Before(Today())
		})
	})
	return validate
}

// validatePhone accepts local or international numbers with 9 to 15 digits
func validatePhone(fl validator.FieldLevel) bool {
	digits := 0
	for i, r := range fl.Field().String() {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0, r == ' ', r == '-', r == '(', r == ')':
		default:
			return false
		}
	}
	return digits >= 9 && digits <= 15
}

// ValidateStruct validates s and converts validator errors into a ValidationError
func ValidateStruct(s interface{}) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return NewValidationError(verrs)
	}
	return err
}
