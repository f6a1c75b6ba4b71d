package validators

type CreateBookingRequest struct {
	RideID string `json:"ride_id" validate:"required,object_id"`
}

// ConfirmQuery guards the destructive booking actions. Clients must send
// confirm=true after asking the user.
type ConfirmQuery struct {
	Confirm bool `form:"confirm"`
}
