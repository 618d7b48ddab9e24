package rides

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/liftmate/liftmate/pkg/common"
	"github.com/liftmate/liftmate/pkg/events"
	"github.com/liftmate/liftmate/pkg/logger"
	"github.com/liftmate/liftmate/pkg/resilience"
	"go.uber.org/zap"
)

// Service handles rides business logic
type Service struct {
	repo        RepositoryInterface
	publisher   Publisher
	breaker     *resilience.Breaker
	countryCode string
}

// NewService creates a new rides service.
// publisher may be nil when nothing listens for refresh signals.
func NewService(repo RepositoryInterface, publisher Publisher, countryCode string) *Service {
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	return &Service{
		repo:        repo,
		publisher:   publisher,
		breaker:     resilience.NewBreaker(resilience.Settings{Name: "rides-store"}, isStoreRejection),
		countryCode: countryCode,
	}
}

// WithBreaker replaces the row store circuit breaker
func (s *Service) WithBreaker(b *resilience.Breaker) *Service {
	s.breaker = b
	return s
}

func (s *Service) loadAll(ctx context.Context) ([]RidePost, error) {
	res, err := s.breaker.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		return s.repo.ListAll(ctx)
	}, resilience.GracefulDegradation("rides-store"))
	if err != nil {
		return nil, err
	}
	rows, _ := res.([]RidePost)
	return rows, nil
}

// ListRides loads every ride, derives the city capsules from the full set and
// applies the filter
func (s *Service) ListRides(ctx context.Context, filter Filter) (*Listing, error) {
	all, err := s.loadAll(ctx)
	if err != nil {
		appErr := classifyStoreError("list rides", err)
		kind := "generic"
		if errors.Is(appErr, ErrBackendPaused) {
			kind = "paused"
		}
		listingErrorsTotal.WithLabelValues(kind).Inc()
		logger.WithContext(ctx).Warn("failed to load rides", zap.String("kind", kind), zap.Error(err))
		return nil, appErr
	}

	return &Listing{
		Rides:  ApplyFilter(all, filter),
		Total:  len(all),
		Cities: CityCounts(all),
		Filter: filter,
	}, nil
}

// ListCities returns the city capsules for every loaded ride
func (s *Service) ListCities(ctx context.Context) ([]CityCount, error) {
	all, err := s.loadAll(ctx)
	if err != nil {
		return nil, classifyStoreError("list cities", err)
	}
	return CityCounts(all), nil
}

// GetRide returns one ride by id
func (s *Service) GetRide(ctx context.Context, id uuid.UUID) (*RidePost, error) {
	res, err := s.breaker.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		return s.repo.GetByID(ctx, id)
	}, nil)
	if err != nil {
		return nil, classifyStoreError("get ride", err)
	}
	ride, _ := res.(*RidePost)
	if ride == nil {
		return nil, common.NewNotFoundError("ride not found", ErrNotFound)
	}
	return ride, nil
}

// ContactLink returns the WhatsApp or tel link for a ride
func (s *Service) ContactLink(ctx context.Context, id uuid.UUID) (string, error) {
	ride, err := s.GetRide(ctx, id)
	if err != nil {
		return "", err
	}
	return ContactLink(ride, s.countryCode), nil
}

// CountryCode is the calling code used for WhatsApp links
func (s *Service) CountryCode() string {
	return s.countryCode
}

// CreateRide normalises ride, inserts it and emits the refresh signal.
// On failure the returned AppError carries the store message.
func (s *Service) CreateRide(ctx context.Context, ride *RidePost) error {
	if ride == nil {
		return common.NewBadRequestError("ride is required", nil)
	}
	ride.Normalize()

	_, err := s.breaker.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, s.repo.Create(ctx, ride)
	}, nil)
	if err != nil {
		logger.WithContext(ctx).Warn("failed to insert ride", zap.Error(err))
		return classifyStoreError("create ride", err)
	}

	ridesPostedTotal.WithLabelValues(string(ride.RideType), string(ride.PostType)).Inc()
	logger.WithContext(ctx).Info("ride posted",
		zap.String("ride_id", ride.ID.String()),
		zap.String("ride_type", string(ride.RideType)),
		zap.String("post_type", string(ride.PostType)),
	)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.RidesChanged(ride.ID.String())); err != nil {
			logger.WithContext(ctx).Warn("failed to publish refresh signal", zap.Error(err))
		}
	}
	return nil
}
