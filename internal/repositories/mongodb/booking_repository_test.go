package mongodb

import (
	"context"
	"testing"

	"easyride/internal/models"
	"easyride/internal/repositories/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const bookingsNS = "easyride.bookings"

func bookingDoc(id primitive.ObjectID, status models.BookingStatus) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "ride_id", Value: primitive.NewObjectID()},
		{Key: "passenger_id", Value: "p1"},
		{Key: "driver_id", Value: "d1"},
		{Key: "status", Value: string(status)},
	}
}

// noMatch is a findAndModify reply where the filter matched nothing.
func noMatch() bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil})
}

func TestBookingRepository_TransitionStatus(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	id := primitive.NewObjectID()

	mt.Run("applies transition from expected status", func(mt *mtest.T) {
		repo := NewBookingRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: bookingDoc(id, models.BookingStatusAccepted)},
		))

		booking, err := repo.TransitionStatus(context.Background(), id,
			models.BookingStatusPending, models.BookingStatusAccepted, map[string]interface{}{"accepted_by": "d1"})
		require.NoError(mt, err)
		assert.Equal(mt, models.BookingStatusAccepted, booking.Status)

		cmd := mt.GetStartedEvent().Command
		assert.Equal(mt, string(models.BookingStatusPending), cmd.Lookup("query", "status").StringValue())
		assert.Equal(mt, "d1", cmd.Lookup("update", "$set", "accepted_by").StringValue())
	})

	mt.Run("status moved on is a conflict", func(mt *mtest.T) {
		repo := NewBookingRepository(mt.DB)
		mt.AddMockResponses(
			noMatch(),
			mtest.CreateCursorResponse(0, bookingsNS, mtest.FirstBatch, bookingDoc(id, models.BookingStatusAccepted)),
		)

		_, err := repo.TransitionStatus(context.Background(), id,
			models.BookingStatusPending, models.BookingStatusAccepted, nil)
		assert.ErrorIs(mt, err, interfaces.ErrConflict)
	})

	mt.Run("missing booking is not found", func(mt *mtest.T) {
		repo := NewBookingRepository(mt.DB)
		mt.AddMockResponses(
			noMatch(),
			mtest.CreateCursorResponse(0, bookingsNS, mtest.FirstBatch),
		)

		_, err := repo.TransitionStatus(context.Background(), id,
			models.BookingStatusPending, models.BookingStatusAccepted, nil)
		assert.ErrorIs(mt, err, interfaces.ErrNotFound)
	})

	mt.Run("store failure on re-read is surfaced", func(mt *mtest.T) {
		repo := NewBookingRepository(mt.DB)
		mt.AddMockResponses(
			noMatch(),
			mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: "boom"}),
		)

		_, err := repo.TransitionStatus(context.Background(), id,
			models.BookingStatusPending, models.BookingStatusAccepted, nil)
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, interfaces.ErrConflict)
		assert.NotErrorIs(mt, err, interfaces.ErrNotFound)
	})
}

func TestBookingRepository_DeleteIfStatus(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	id := primitive.NewObjectID()

	mt.Run("deletes matching booking", func(mt *mtest.T) {
		repo := NewBookingRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		require.NoError(mt, repo.DeleteIfStatus(context.Background(), id, models.BookingStatusPending))
		assert.Equal(mt, "delete", mt.GetStartedEvent().CommandName)
		// A hit needs no follow-up read.
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("accepted booking is a conflict", func(mt *mtest.T) {
		repo := NewBookingRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
			mtest.CreateCursorResponse(0, bookingsNS, mtest.FirstBatch, bookingDoc(id, models.BookingStatusAccepted)),
		)

		err := repo.DeleteIfStatus(context.Background(), id, models.BookingStatusPending)
		assert.ErrorIs(mt, err, interfaces.ErrConflict)
	})

	mt.Run("already deleted is not found", func(mt *mtest.T) {
		repo := NewBookingRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
			mtest.CreateCursorResponse(0, bookingsNS, mtest.FirstBatch),
		)

		err := repo.DeleteIfStatus(context.Background(), id, models.BookingStatusPending)
		assert.ErrorIs(mt, err, interfaces.ErrNotFound)
	})
}
