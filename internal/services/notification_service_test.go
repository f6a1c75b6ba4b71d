package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"easyride/internal/models"
	"easyride/internal/utils"
	"easyride/pkg/push"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakePush struct {
	mu      sync.Mutex
	sent    [][]string
	invalid []string
}

func (p *fakePush) SendToTokens(_ context.Context, tokens []string, _ *push.NotificationRequest) (*push.BatchResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, append([]string(nil), tokens...))
	return &push.BatchResponse{SuccessCount: len(tokens) - len(p.invalid), InvalidTokens: p.invalid}, nil
}

func (p *fakePush) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sent)
}

func newNotificationFixture(provider push.PushProvider) (NotificationService, *fakeNotificationRepo, *fakeUserRepo, *fakeEvents) {
	repo := &fakeNotificationRepo{}
	users := newFakeUserRepo(
		completeUser("passenger-1", models.RolePassenger),
		completeUser("passenger-2", models.RolePassenger),
		completeUser("driver-1", models.RoleDriver),
	)
	events := &fakeEvents{}
	svc := NewNotificationService(repo, users, events, provider, time.Second, testLogger())
	return svc, repo, users, events
}

func TestNotification_NotifyStoresAndPublishes(t *testing.T) {
	svc, repo, _, events := newNotificationFixture(nil)

	notification, err := svc.Notify(context.Background(), "passenger-1", models.NotificationTypeBookingAccepted,
		" Booking accepted ", "Your ride was accepted", "/passenger-bookings")
	require.NoError(t, err)

	assert.Equal(t, "Booking accepted", notification.Title)
	assert.Equal(t, models.NotificationStatusUnread, notification.Status)
	assert.Len(t, repo.all(), 1)

	published := events.ofType(utils.EventNotification)
	require.Len(t, published, 1)
	assert.Equal(t, utils.UserRoom("passenger-1"), published[0].Room)
}

func TestNotification_NotifyRequiresContent(t *testing.T) {
	svc, _, _, _ := newNotificationFixture(nil)

	_, err := svc.Notify(context.Background(), "passenger-1", models.NotificationTypeAdmin, "", "text", "")
	assert.ErrorIs(t, err, ErrMissingData)

	_, err = svc.Notify(context.Background(), "", models.NotificationTypeAdmin, "title", "text", "")
	assert.ErrorIs(t, err, ErrMissingData)
}

func TestNotification_MarkReadOnlyForRecipient(t *testing.T) {
	svc, _, _, _ := newNotificationFixture(nil)
	ctx := context.Background()

	notification, err := svc.Notify(ctx, "passenger-1", models.NotificationTypeAdmin, "Hello", "World", PathDashboard)
	require.NoError(t, err)

	err = svc.MarkRead(ctx, "passenger-2", notification.ID.Hex())
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	require.NoError(t, svc.MarkRead(ctx, "passenger-1", notification.ID.Hex()))
	unread, err := svc.UnreadCount(ctx, "passenger-1")
	require.NoError(t, err)
	assert.Zero(t, unread)

	assert.ErrorIs(t, svc.MarkRead(ctx, "passenger-1", "not-an-id"), ErrInvalidID)
	assert.ErrorIs(t, svc.MarkRead(ctx, "passenger-1", primitive.NewObjectID().Hex()), ErrNotificationNotFound)
}

func TestNotification_MarkAllRead(t *testing.T) {
	svc, _, _, _ := newNotificationFixture(nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Notify(ctx, "passenger-1", models.NotificationTypeAdmin, "Hello", "World", PathDashboard)
		require.NoError(t, err)
	}
	_, err := svc.Notify(ctx, "passenger-2", models.NotificationTypeAdmin, "Hello", "World", PathDashboard)
	require.NoError(t, err)

	count, err := svc.MarkAllRead(ctx, "passenger-1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	unread, _ := svc.UnreadCount(ctx, "passenger-2")
	assert.EqualValues(t, 1, unread)
}

func TestNotification_BroadcastAudience(t *testing.T) {
	tests := []struct {
		name     string
		audience string
		want     int
		err      error
	}{
		{name: "everyone", audience: AudienceAll, want: 3},
		{name: "empty means everyone", audience: "", want: 3},
		{name: "passengers", audience: "passenger", want: 2},
		{name: "drivers", audience: "driver", want: 1},
		{name: "unknown role", audience: "pilot", err: ErrInvalidAudience},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _, _ := newNotificationFixture(nil)

			sent, err := svc.Broadcast(context.Background(), "Maintenance", "Back soon", tt.audience)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, sent)

			for _, notification := range repo.all() {
				assert.Equal(t, models.NotificationTypeAdmin, notification.Type)
				assert.Equal(t, PathDashboard, notification.Link)
			}
		})
	}
}

func TestNotification_PushPrunesInvalidTokens(t *testing.T) {
	provider := &fakePush{invalid: []string{"stale"}}
	svc, _, users, _ := newNotificationFixture(provider)
	ctx := context.Background()
	require.NoError(t, users.AddFCMToken(ctx, "passenger-1", "fresh"))
	require.NoError(t, users.AddFCMToken(ctx, "passenger-1", "stale"))

	_, err := svc.Notify(ctx, "passenger-1", models.NotificationTypeAdmin, "Hello", "World", PathDashboard)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		user, err := users.GetByID(ctx, "passenger-1")
		return err == nil && len(user.FCMTokens) == 1 && user.FCMTokens[0] == "fresh"
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, provider.calls())
}
