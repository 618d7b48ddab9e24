package rides

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Shared column list for ride queries
const rideColumns = `
	id, ride_type, post_type,
	pickup_location, pickup_area, dropoff_location, dropoff_area,
	departure_date::text, departure_time,
	seats_available, price_per_seat::float8,
	vehicle, vehicle_registration,
	driver_name, phone_number, is_whatsapp,
	selfie_url, comments, created_at`

// scanRide scans a row into a RidePost
func scanRide(scan func(dest ...interface{}) error) (RidePost, error) {
	r := RidePost{}
	err := scan(
		&r.ID, &r.RideType, &r.PostType,
		&r.PickupLocation, &r.PickupArea, &r.DropoffLocation, &r.DropoffArea,
		&r.DepartureDate, &r.DepartureTime,
		&r.SeatsAvailable, &r.PricePerSeat,
		&r.Vehicle, &r.VehicleRegistration,
		&r.DriverName, &r.PhoneNumber, &r.IsWhatsApp,
		&r.SelfieURL, &r.Comments, &r.CreatedAt,
	)
	return r, err
}

// Repository handles rides data access
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new rides repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListAll returns every ride, newest first
func (r *Repository) ListAll(ctx context.Context) ([]RidePost, error) {
	query := fmt.Sprintf(`SELECT %s FROM rides ORDER BY created_at DESC`, rideColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []RidePost
	for rows.Next() {
		ride, err := scanRide(rows.Scan)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

// GetByID returns a single ride
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*RidePost, error) {
	query := fmt.Sprintf(`SELECT %s FROM rides WHERE id = $1`, rideColumns)
	ride, err := scanRide(func(dest ...interface{}) error {
		return r.db.QueryRow(ctx, query, id).Scan(dest...)
	})
	if err != nil {
		return nil, err
	}
	return &ride, nil
}

// Create inserts ride and fills in the store assigned id and created_at
func (r *Repository) Create(ctx context.Context, ride *RidePost) error {
	query := `
		INSERT INTO rides (
			ride_type, post_type,
			pickup_location, pickup_area, dropoff_location, dropoff_area,
			departure_date, departure_time,
			seats_available, price_per_seat,
			vehicle, vehicle_registration,
			driver_name, phone_number, is_whatsapp,
			selfie_url, comments
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7::text::date, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
		)
		RETURNING id, created_at`

	return r.db.QueryRow(ctx, query,
		string(ride.RideType), string(ride.PostType),
		ride.PickupLocation, ride.PickupArea, ride.DropoffLocation, ride.DropoffArea,
		ride.DepartureDate, ride.DepartureTime,
		ride.SeatsAvailable, ride.PricePerSeat,
		ride.Vehicle, ride.VehicleRegistration,
		ride.DriverName, ride.PhoneNumber, ride.IsWhatsApp,
		ride.SelfieURL, ride.Comments,
	).Scan(&ride.ID, &ride.CreatedAt)
}
