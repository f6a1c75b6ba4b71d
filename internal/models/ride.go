package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideStatus string

const (
	RideStatusAvailable RideStatus = "available"
)

type Ride struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	DriverID    string             `json:"driver_id" bson:"driver_id"`
	DriverEmail string             `json:"driver_email" bson:"driver_email"`
	Origin      string             `json:"origin" bson:"origin"`
	Destination string             `json:"destination" bson:"destination"`
	Date        time.Time          `json:"date" bson:"date"`
	Seats       int                `json:"seats" bson:"seats"`
	Price       float64            `json:"price" bson:"price"`
	Status      RideStatus         `json:"status" bson:"status"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

type RideSearch struct {
	Origin      string
	Destination string
	Date        *time.Time
}
