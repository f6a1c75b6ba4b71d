package interfaces

import (
	"context"

	"easyride/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	List(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, error)

	// TransitionStatus moves the booking from one status to another only if
	// it is still in the from status, applying extra fields in the same
	// write. It returns ErrConflict when the booking exists in another
	// status and ErrNotFound when it does not exist.
	TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to models.BookingStatus, extra map[string]interface{}) (*models.Booking, error)

	// DeleteIfStatus removes the booking only while it has the given
	// status, with the same error contract as TransitionStatus.
	DeleteIfStatus(ctx context.Context, id primitive.ObjectID, status models.BookingStatus) error

	UpdateSnapshot(ctx context.Context, id primitive.ObjectID, ride *models.Ride) error
	Count(ctx context.Context, status models.BookingStatus) (int64, error)
}
