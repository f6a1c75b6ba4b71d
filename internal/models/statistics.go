package models

type PlatformStatistics struct {
	TotalUsers      int64   `json:"total_users"`
	ActiveUsers     int64   `json:"active_users"`
	TotalRides      int64   `json:"total_rides"`
	TotalBookings   int64   `json:"total_bookings"`
	PendingBookings int64   `json:"pending_bookings"`
	Revenue         float64 `json:"revenue"`
}
