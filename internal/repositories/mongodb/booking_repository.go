package mongodb

import (
	"context"
	"errors"
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

type bookingRepository struct {
	collection *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) interfaces.BookingRepository {
	return &bookingRepository{
		collection: db.Collection(database.BookingsCollection),
	}
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	booking.ID = primitive.NewObjectID()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	var booking models.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (r *bookingRepository) List(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, error) {
	query := bson.M{}
	if filter.DriverID != "" {
		query["driver_id"] = filter.DriverID
	}
	if filter.PassengerID != "" {
		query["passenger_id"] = filter.PassengerID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Date != nil {
		start, end := utils.DayBounds(*filter.Date)
		query["date"] = bson.M{"$gte": start, "$lt": end}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return decodeAll[models.Booking](ctx, cursor)
}

func (r *bookingRepository) TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to models.BookingStatus, extra map[string]interface{}) (*models.Booking, error) {
	set := bson.M{"status": to}
	for k, v := range extra {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var booking models.Booking
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": set},
		opts,
	).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, r.missOrConflict(ctx, id)
		}
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	return &booking, nil
}

func (r *bookingRepository) DeleteIfStatus(ctx context.Context, id primitive.ObjectID, status models.BookingStatus) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "status": status})
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if res.DeletedCount == 0 {
		return r.missOrConflict(ctx, id)
	}
	return nil
}

func (r *bookingRepository) UpdateSnapshot(ctx context.Context, id primitive.ObjectID, ride *models.Ride) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"origin":                ride.Origin,
		"destination":           ride.Destination,
		"date":                  ride.Date,
		"price":                 ride.Price,
		"snapshot_refreshed_at": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("failed to refresh booking snapshot: %w", err)
	}
	if res.MatchedCount == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

func (r *bookingRepository) Count(ctx context.Context, status models.BookingStatus) (int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *bookingRepository) missOrConflict(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.GetByID(ctx, id)
	if errors.Is(err, interfaces.ErrNotFound) {
		return interfaces.ErrNotFound
	}
	if err != nil {
		return err
	}
	return interfaces.ErrConflict
}
