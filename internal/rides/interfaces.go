package rides

import (
	"context"

	"github.com/google/uuid"
	"github.com/liftmate/liftmate/pkg/events"
)

// RepositoryInterface defines the interface for rides repository operations
type RepositoryInterface interface {
	ListAll(ctx context.Context) ([]RidePost, error)
	GetByID(ctx context.Context, id uuid.UUID) (*RidePost, error)
	Create(ctx context.Context, ride *RidePost) error
}

// Publisher emits the refresh signal after a ride is inserted
type Publisher interface {
	Publish(ctx context.Context, evt events.Event) error
}
