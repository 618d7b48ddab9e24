package posting

import (
	"github.com/liftmate/liftmate/pkg/security"
)

// Clean sanitizes every text field and drops values the post and ride type
// do not use, so hidden or stale form inputs never reach validation
func (d *Details) Clean() {
	d.PostType = security.SanitizeLine(d.PostType)
	d.RideType = security.SanitizeLine(d.RideType)
	d.DriverName = security.TruncateString(security.SanitizeLine(d.DriverName), 100)
	d.PhoneNumber = security.SanitizePhone(d.PhoneNumber)
	d.PickupLocation = security.SanitizeLine(d.PickupLocation)
	d.PickupArea = security.SanitizeLine(d.PickupArea)
	d.DropoffLocation = security.SanitizeLine(d.DropoffLocation)
	d.DropoffArea = security.SanitizeLine(d.DropoffArea)
	d.DepartureDate = security.SanitizeLine(d.DepartureDate)
	d.DepartureTime = security.SanitizeLine(d.DepartureTime)
	d.Vehicle = security.SanitizeLine(d.Vehicle)
	d.VehicleRegistration = security.SanitizeLine(d.VehicleRegistration)
	d.Comments = security.TruncateString(security.SanitizeString(d.Comments), 500)

	if d.PostType != "passengers" {
		d.SeatsAvailable = nil
	}
	if d.PostType != "passengers" || d.RideType != "offer" {
		d.PricePerSeat = nil
	}
	if d.RideType != "offer" {
		d.Vehicle = ""
		d.VehicleRegistration = ""
	}
}
