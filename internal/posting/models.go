package posting

import (
	"time"

	"github.com/liftmate/liftmate/internal/rides"
)

// Step is the position of a draft in the posting wizard
type Step string

const (
	StepCategory Step = "category"
	StepDetails  Step = "details"
	StepVerify   Step = "verify"
	StepDone     Step = "done"
)

// Details are the fields entered on the details step. Seats only apply to
// passenger posts, price to passenger offers, vehicle fields to offers.
type Details struct {
	PostType            string   `form:"post_type" json:"post_type" validate:"required,post_type"`
	RideType            string   `form:"ride_type" json:"ride_type" validate:"required,ride_type"`
	DriverName          string   `form:"driver_name" json:"driver_name" validate:"required,max=100"`
	PhoneNumber         string   `form:"phone_number" json:"phone_number" validate:"required,phone"`
	IsWhatsApp          bool     `form:"is_whatsapp" json:"is_whatsapp"`
	PickupLocation      string   `form:"pickup_location" json:"pickup_location" validate:"required,max=200"`
	PickupArea          string   `form:"pickup_area" json:"pickup_area" validate:"max=100"`
	DropoffLocation     string   `form:"dropoff_location" json:"dropoff_location" validate:"required,max=200"`
	DropoffArea         string   `form:"dropoff_area" json:"dropoff_area" validate:"max=100"`
	DepartureDate       string   `form:"departure_date" json:"departure_date" validate:"required,datetime=2006-01-02,notpast"`
	DepartureTime       string   `form:"departure_time" json:"departure_time" validate:"required,datetime=15:04"`
	SeatsAvailable      *int     `form:"seats_available" json:"seats_available" validate:"required_if=PostType passengers,omitempty,min=1,max=10"`
	PricePerSeat        *float64 `form:"price_per_seat" json:"price_per_seat" validate:"required_if=PostType passengers RideType offer,omitempty,gte=0,lte=100000"`
	Vehicle             string   `form:"vehicle" json:"vehicle" validate:"required_if=RideType offer,max=100"`
	VehicleRegistration string   `form:"vehicle_registration" json:"vehicle_registration" validate:"required_if=RideType offer,max=20"`
	Comments            string   `form:"comments" json:"comments" validate:"max=500"`
}

// Draft is one visitor's progress through the wizard
type Draft struct {
	ID             string    `json:"id"`
	Step           Step      `json:"step"`
	PostType       string    `json:"post_type,omitempty"`
	Details        Details   `json:"details"`
	HasCapture     bool      `json:"has_capture"`
	HumanConfirmed bool      `json:"human_confirmed"`
	Generation     int64     `json:"generation"`
	UserName       string    `json:"user_name,omitempty"`
	RideID         string    `json:"ride_id,omitempty"`
	LastError      string    `json:"last_error,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Submission is everything needed to insert a ride without a draft,
// used by the JSON API
type Submission struct {
	Details        Details
	Image          []byte
	HumanConfirmed bool
}

// ToRide builds the row to insert from the entered details
func (d *Details) ToRide() *rides.RidePost {
	ride := &rides.RidePost{
		RideType:        rides.RideType(d.RideType),
		PostType:        rides.PostType(d.PostType),
		PickupLocation:  d.PickupLocation,
		PickupArea:      optional(d.PickupArea),
		DropoffLocation: d.DropoffLocation,
		DropoffArea:     optional(d.DropoffArea),
		DepartureDate:   d.DepartureDate,
		DepartureTime:   d.DepartureTime,
		SeatsAvailable:  d.SeatsAvailable,
		PricePerSeat:    d.PricePerSeat,
		Vehicle:         optional(d.Vehicle),
		DriverName:      d.DriverName,
		PhoneNumber:     d.PhoneNumber,
		IsWhatsApp:      d.IsWhatsApp,
		Comments:        optional(d.Comments),
	}
	ride.VehicleRegistration = optional(d.VehicleRegistration)
	ride.Normalize()
	return ride
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
