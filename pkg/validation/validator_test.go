package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRide struct {
	RideType string   `json:"ride_type" validate:"required,ride_type"`
	PostType string   `json:"post_type" validate:"required,post_type"`
	Phone    string   `json:"phone_number" validate:"required,phone"`
	Date     string   `json:"departure_date" validate:"required,datetime=2006-01-02,notpast"`
	Time     string   `json:"departure_time" validate:"required,datetime=15:04"`
	Seats    *int     `json:"seats_available" validate:"required_if=PostType passengers,omitempty,min=1,max=10"`
	Price    *float64 `json:"price_per_seat" validate:"required_if=RideType offer PostType passengers,omitempty,gte=0"`
}

func withClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func validSample() sampleRide {
	return sampleRide{
		RideType: "offer",
		PostType: "passengers",
		Phone:    "082 123 4567",
		Date:     "2026-10-20",
		Time:     "08:30",
		Seats:    intPtr(3),
		Price:    floatPtr(150),
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	withClock(t, time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC))

	assert.NoError(t, ValidateStruct(validSample()))
}

func TestValidateStruct_FieldErrors(t *testing.T) {
	withClock(t, time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC))

	tests := []struct {
		name    string
		mutate  func(s *sampleRide)
		field   string
		message string
	}{
		{"bad ride type", func(s *sampleRide) { s.RideType = "lift" }, "ride_type", "Ride type must be offer or request"},
		{"bad post type", func(s *sampleRide) { s.PostType = "cargo" }, "post_type", "Post type must be passengers or parcel"},
		{"phone letters", func(s *sampleRide) { s.Phone = "call me" }, "phone_number", "Phone number must be a valid phone number"},
		{"phone too short", func(s *sampleRide) { s.Phone = "0821" }, "phone_number", "Phone number must be a valid phone number"},
		{"date in past", func(s *sampleRide) { s.Date = "2026-10-14" }, "departure_date", "Departure date cannot be in the past"},
		{"date malformed", func(s *sampleRide) { s.Date = "20/10/2026" }, "departure_date", "Departure date must be a date in YYYY-MM-DD format"},
		{"time malformed", func(s *sampleRide) { s.Time = "8am" }, "departure_time", "Departure time must be a time in HH:MM format"},
		{"seats missing for passengers", func(s *sampleRide) { s.Seats = nil }, "seats_available", "Seats available is required"},
		{"too many seats", func(s *sampleRide) { s.Seats = intPtr(11) }, "seats_available", "Seats available must be at most 10"},
		{"price missing for passenger offer", func(s *sampleRide) { s.Price = nil }, "price_per_seat", "Price per seat is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSample()
			tt.mutate(&s)

			err := ValidateStruct(s)
			require.Error(t, err)

			valErr, ok := err.(*ValidationError)
			require.True(t, ok)
			msg, found := valErr.GetFieldError(tt.field)
			require.True(t, found, "expected error on %s, got %v", tt.field, valErr.Errors)
			assert.Equal(t, tt.message, msg)
		})
	}
}

func TestValidateStruct_ConditionalFieldsNotRequired(t *testing.T) {
	withClock(t, time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC))

	parcel := validSample()
	parcel.PostType = "parcel"
	parcel.Seats = nil
	parcel.Price = nil
	assert.NoError(t, ValidateStruct(parcel))

	request := validSample()
	request.RideType = "request"
	request.Price = nil
	assert.NoError(t, ValidateStruct(request))
}

func TestNotPast_TodayAllowedInLocation(t *testing.T) {
	sast, err := time.LoadLocation("Africa/Johannesburg")
	if err != nil {
		t.Skip("tzdata not available")
	}
	SetLocation(sast)
	t.Cleanup(func() { SetLocation(time.UTC) })

	// 23:30 UTC on the 14th is already the 15th in Johannesburg
	withClock(t, time.Date(2026, 10, 14, 23, 30, 0, 0, time.UTC))

	s := validSample()
	s.Date = "2026-10-15"
	assert.NoError(t, ValidateStruct(s))

	s.Date = "2026-10-14"
	assert.Error(t, ValidateStruct(s))
}

func TestValidationError_ErrorIsSorted(t *testing.T) {
	v := &ValidationError{}
	v.AddError("b", "second")
	v.AddError("a", "first")

	assert.True(t, v.HasErrors())
	assert.Equal(t, "first; second", v.Error())
}
