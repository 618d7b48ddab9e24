package rides

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RideType says who is posting: a driver with capacity or someone looking for a ride
type RideType string

// PostType says what is being carried
type PostType string

const (
	RideTypeOffer   RideType = "offer"
	RideTypeRequest RideType = "request"

	PostTypePassengers PostType = "passengers"
	PostTypeParcel     PostType = "parcel"

	// FilterAll disables the ride_type or post_type predicate
	FilterAll = "all"
)

// RidePost is one listing in the rides table
type RidePost struct {
	ID                  uuid.UUID `json:"id" db:"id"`
	RideType            RideType  `json:"ride_type" db:"ride_type"`
	PostType            PostType  `json:"post_type" db:"post_type"`
	PickupLocation      string    `json:"pickup_location" db:"pickup_location"`
	PickupArea          *string   `json:"pickup_area,omitempty" db:"pickup_area"`
	DropoffLocation     string    `json:"dropoff_location" db:"dropoff_location"`
	DropoffArea         *string   `json:"dropoff_area,omitempty" db:"dropoff_area"`
	DepartureDate       string    `json:"departure_date" db:"departure_date"`
	DepartureTime       string    `json:"departure_time" db:"departure_time"`
	SeatsAvailable      *int      `json:"seats_available,omitempty" db:"seats_available"`
	PricePerSeat        *float64  `json:"price_per_seat,omitempty" db:"price_per_seat"`
	Vehicle             *string   `json:"vehicle,omitempty" db:"vehicle"`
	VehicleRegistration *string   `json:"vehicle_registration,omitempty" db:"vehicle_registration"`
	DriverName          string    `json:"driver_name" db:"driver_name"`
	PhoneNumber         string    `json:"phone_number" db:"phone_number"`
	IsWhatsApp          bool      `json:"is_whatsapp" db:"is_whatsapp"`
	SelfieURL           *string   `json:"selfie_url,omitempty" db:"selfie_url"`
	Comments            *string   `json:"comments,omitempty" db:"comments"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
}

// Filter selects a subset of the loaded rides
type Filter struct {
	RideType string `form:"ride_type" json:"ride_type" validate:"omitempty,oneof=all offer request"`
	PostType string `form:"post_type" json:"post_type" validate:"omitempty,oneof=all passengers parcel"`
	City     string `form:"city" json:"city" validate:"max=100"`
	Search   string `form:"q" json:"q" validate:"max=200"`
}

// CityCount is one city capsule
type CityCount struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

// Listing is the result of a filtered listing request
type Listing struct {
	Rides  []RidePost  `json:"rides"`
	Total  int         `json:"total"`
	Cities []CityCount `json:"cities"`
	Filter Filter      `json:"filter"`
}

func withArea(location string, area *string) string {
	if area == nil || strings.TrimSpace(*area) == "" {
		return location
	}
	return location + " (" + strings.TrimSpace(*area) + ")"
}

// PickupDisplay is the pickup location with its area appended
func (r *RidePost) PickupDisplay() string {
	return withArea(r.PickupLocation, r.PickupArea)
}

// DropoffDisplay is the dropoff location with its area appended
func (r *RidePost) DropoffDisplay() string {
	return withArea(r.DropoffLocation, r.DropoffArea)
}

// ShowsSeats reports whether the listing displays a seat count
func (r *RidePost) ShowsSeats() bool {
	return r.PostType == PostTypePassengers && r.SeatsAvailable != nil
}

// ShowsPrice reports whether the listing displays a per-seat price.
// Requests never show a price, nor do parcels.
func (r *RidePost) ShowsPrice() bool {
	return r.PostType == PostTypePassengers && r.RideType == RideTypeOffer && r.PricePerSeat != nil
}

// ShowsVehicle reports whether vehicle details belong on the listing
func (r *RidePost) ShowsVehicle() bool {
	return r.RideType == RideTypeOffer && r.Vehicle != nil && *r.Vehicle != ""
}

// Normalize clears fields that the ride and post type do not allow:
// price only for passenger offers, vehicle fields only for offers, seats only for passengers.
// Empty optional strings become nil.
func (r *RidePost) Normalize() {
	if r.PostType != PostTypePassengers {
		r.SeatsAvailable = nil
	}
	if r.PostType != PostTypePassengers || r.RideType != RideTypeOffer {
		r.PricePerSeat = nil
	}
	if r.RideType != RideTypeOffer {
		r.Vehicle = nil
		r.VehicleRegistration = nil
	}

	r.PickupArea = nilIfBlank(r.PickupArea)
	r.DropoffArea = nilIfBlank(r.DropoffArea)
	r.Vehicle = nilIfBlank(r.Vehicle)
	r.VehicleRegistration = nilIfBlank(r.VehicleRegistration)
	r.SelfieURL = nilIfBlank(r.SelfieURL)
	r.Comments = nilIfBlank(r.Comments)
}

func nilIfBlank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
