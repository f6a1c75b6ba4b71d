package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string

const (
	BookingStatusPending  BookingStatus = "Pending"
	BookingStatusAccepted BookingStatus = "Accepted"
)

// Booking denormalizes the ride fields at creation time. Rejected and
// cancelled bookings are deleted rather than kept with a terminal status.
type Booking struct {
	ID                  primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RideID              primitive.ObjectID `json:"ride_id" bson:"ride_id"`
	DriverID            string             `json:"driver_id" bson:"driver_id"`
	DriverEmail         string             `json:"driver_email" bson:"driver_email"`
	PassengerID         string             `json:"passenger_id" bson:"passenger_id"`
	PassengerEmail      string             `json:"passenger_email" bson:"passenger_email"`
	Origin              string             `json:"origin" bson:"origin"`
	Destination         string             `json:"destination" bson:"destination"`
	Date                time.Time          `json:"date" bson:"date,omitempty"`
	Price               float64            `json:"price" bson:"price"`
	Status              BookingStatus      `json:"status" bson:"status"`
	CreatedAt           time.Time          `json:"created_at" bson:"created_at"`
	AcceptedAt          *time.Time         `json:"accepted_at,omitempty" bson:"accepted_at,omitempty"`
	SnapshotRefreshedAt *time.Time         `json:"snapshot_refreshed_at,omitempty" bson:"snapshot_refreshed_at,omitempty"`
}

func (b *Booking) IsPending() bool {
	return b.Status == BookingStatusPending
}

// ApplyRide copies the ride fields the booking keeps a snapshot of.
func (b *Booking) ApplyRide(ride *Ride) {
	b.Origin = ride.Origin
	b.Destination = ride.Destination
	b.Date = ride.Date
	b.Price = ride.Price
}

type BookingFilter struct {
	DriverID    string
	PassengerID string
	Status      BookingStatus
	Date        *time.Time
}
