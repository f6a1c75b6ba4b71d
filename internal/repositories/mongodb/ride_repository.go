package mongodb

import (
	"context"
	"fmt"
	"time"

	"easyride/internal/models"
	"easyride/internal/repositories/interfaces"
	"easyride/internal/utils"
	"easyride/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type rideRepository struct {
	collection *mongo.Collection
}

func NewRideRepository(db *mongo.Database) interfaces.RideRepository {
	return &rideRepository{
		collection: db.Collection(database.RidesCollection),
	}
}

func (r *rideRepository) Create(ctx context.Context, ride *models.Ride) error {
	ride.ID = primitive.NewObjectID()
	ride.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, ride); err != nil {
		return fmt.Errorf("failed to create ride: %w", err)
	}
	return nil
}

func (r *rideRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error) {
	var ride models.Ride
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&ride)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ride: %w", err)
	}
	return &ride, nil
}

func (r *rideRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Ride, error) {
	result := make(map[primitive.ObjectID]*models.Ride, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to get rides: %w", err)
	}

	rides, err := decodeAll[models.Ride](ctx, cursor)
	if err != nil {
		return nil, err
	}
	for _, ride := range rides {
		result[ride.ID] = ride
	}
	return result, nil
}

func (r *rideRepository) Search(ctx context.Context, search models.RideSearch) ([]*models.Ride, error) {
	filter := bson.M{}
	if search.Origin != "" {
		filter["origin"] = search.Origin
	}
	if search.Destination != "" {
		filter["destination"] = search.Destination
	}
	if search.Date != nil {
		start, end := utils.DayBounds(*search.Date)
		filter["date"] = bson.M{"$gte": start, "$lt": end}
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search rides: %w", err)
	}
	return decodeAll[models.Ride](ctx, cursor)
}

func (r *rideRepository) ListByDriver(ctx context.Context, driverID string) ([]*models.Ride, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"driver_id": driverID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list driver rides: %w", err)
	}
	return decodeAll[models.Ride](ctx, cursor)
}

func (r *rideRepository) List(ctx context.Context) ([]*models.Ride, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list rides: %w", err)
	}
	return decodeAll[models.Ride](ctx, cursor)
}

func (r *rideRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count rides: %w", err)
	}
	return count, nil
}

func (r *rideRepository) ExistsForCity(ctx context.Context, city string) (bool, error) {
	filter := bson.M{"$or": []bson.M{{"origin": city}, {"destination": city}}}
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check city usage: %w", err)
	}
	return count > 0, nil
}
