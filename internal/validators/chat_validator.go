package validators

type StartChatRequest struct {
	RideID      string `json:"ride_id" validate:"required,object_id"`
	OtherUserID string `json:"other_user_id" validate:"required,max=128"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"not_blank,max=2000"`
}
