package validators

import "strings"

type BroadcastRequest struct {
	Title    string `json:"title" validate:"not_blank,max=120"`
	Message  string `json:"message" validate:"not_blank,max=1000"`
	Audience string `json:"audience" validate:"omitempty,oneof=all passenger driver admin"`
}

type CityRequest struct {
	Name string `json:"name" validate:"not_blank,max=100"`
}

type UserListQuery struct {
	Role   string `form:"role" validate:"user_role"`
	Search string `form:"search" validate:"max=100"`
}

type BookingListQuery struct {
	Status string `form:"status" validate:"omitempty,oneof=Pending Accepted"`
}

func ValidateBroadcast(req *BroadcastRequest) ValidationErrors {
	req.Audience = strings.ToLower(strings.TrimSpace(req.Audience))
	if req.Audience == "" {
		req.Audience = "all"
	}
	return ValidateStruct(req)
}
