package push

import "context"

type PushProvider interface {
	// SendToTokens delivers one notification to every device token and
	// reports which tokens the provider no longer accepts.
	SendToTokens(ctx context.Context, tokens []string, request *NotificationRequest) (*BatchResponse, error)
}

type NotificationRequest struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Link  string            `json:"link,omitempty"`
	Data  map[string]string `json:"data,omitempty"`
}

type BatchResponse struct {
	SuccessCount  int      `json:"success_count"`
	FailureCount  int      `json:"failure_count"`
	InvalidTokens []string `json:"invalid_tokens,omitempty"`
}

// NoopProvider is used when push delivery is disabled.
type NoopProvider struct{}

func (NoopProvider) SendToTokens(_ context.Context, tokens []string, _ *NotificationRequest) (*BatchResponse, error) {
	return &BatchResponse{}, nil
}
