package interfaces

import (
	"context"

	"easyride/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideRepository interface {
	Create(ctx context.Context, ride *models.Ride) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Ride, error)
	Search(ctx context.Context, search models.RideSearch) ([]*models.Ride, error)
	ListByDriver(ctx context.Context, driverID string) ([]*models.Ride, error)
	List(ctx context.Context) ([]*models.Ride, error)
	Count(ctx context.Context) (int64, error)
	ExistsForCity(ctx context.Context, city string) (bool, error)
}
