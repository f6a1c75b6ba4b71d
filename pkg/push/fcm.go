package push

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
)

// FCMProvider sends through Firebase Cloud Messaging.
type FCMProvider struct {
	client *messaging.Client
}

func NewFCMProvider(client *messaging.Client) *FCMProvider {
	return &FCMProvider{client: client}
}

func (f *FCMProvider) SendToTokens(ctx context.Context, tokens []string, request *NotificationRequest) (*BatchResponse, error) {
	if len(tokens) == 0 {
		return &BatchResponse{}, nil
	}

	batch, err := f.client.SendEachForMulticast(ctx, buildMulticast(tokens, request))
	if err != nil {
		return nil, fmt.Errorf("failed to send push notification: %w", err)
	}

	result := &BatchResponse{
		SuccessCount: batch.SuccessCount,
		FailureCount: batch.FailureCount,
	}
	for i, resp := range batch.Responses {
		if resp.Success || resp.Error == nil {
			continue
		}
		if messaging.IsUnregistered(resp.Error) || messaging.IsInvalidArgument(resp.Error) {
			result.InvalidTokens = append(result.InvalidTokens, tokens[i])
		}
	}

	return result, nil
}

func buildMulticast(tokens []string, request *NotificationRequest) *messaging.MulticastMessage {
	data := make(map[string]string, len(request.Data)+1)
	for k, v := range request.Data {
		data[k] = v
	}
	if request.Link != "" {
		data["link"] = request.Link
	}

	return &messaging.MulticastMessage{
		Tokens: tokens,
		Data:   data,
		Notification: &messaging.Notification{
			Title: request.Title,
			Body:  request.Body,
		},
		Webpush: &messaging.WebpushConfig{
			FCMOptions: &messaging.WebpushFCMOptions{Link: request.Link},
		},
	}
}
