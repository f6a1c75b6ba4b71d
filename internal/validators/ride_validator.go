package validators

import (
	"strings"
	"time"

	"easyride/internal/utils"
)

type PostRideRequest struct {
	Origin      string  `json:"origin" validate:"not_blank,max=100"`
	Destination string  `json:"destination" validate:"not_blank,max=100"`
	Date        string  `json:"date" validate:"required,calendar_day"`
	Seats       int     `json:"seats" validate:"required,min=1,max=8"`
	Price       float64 `json:"price" validate:"required,gt=0"`
}

type RideSearchQuery struct {
	Origin      string `form:"origin" validate:"not_blank"`
	Destination string `form:"destination" validate:"not_blank"`
	Date        string `form:"date" validate:"required,calendar_day"`
}

// DayQuery is the optional calendar-day filter of the booking lists.
type DayQuery struct {
	Date string `form:"date" validate:"omitempty,calendar_day"`
}

func ValidatePostRide(req *PostRideRequest) ValidationErrors {
	req.Origin = strings.TrimSpace(req.Origin)
	req.Destination = strings.TrimSpace(req.Destination)
	return ValidateStruct(req)
}

// Day returns the parsed date. Call it only after validation passed.
func (r *PostRideRequest) Day() time.Time {
	day, _ := utils.ParseDay(r.Date)
	return day
}

func (q *RideSearchQuery) Day() time.Time {
	day, _ := utils.ParseDay(q.Date)
	return day
}

// Day returns nil when no filter was given.
func (q *DayQuery) Day() *time.Time {
	if q.Date == "" {
		return nil
	}
	day, err := utils.ParseDay(q.Date)
	if err != nil {
		return nil
	}
	return &day
}
