package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"easyride/internal/models"
	"easyride/internal/repositories/interfaces"
	"easyride/internal/utils"
	"easyride/pkg/identity"
	"easyride/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errStore = errors.New("store unavailable")

func testLogger() *logger.Logger {
	return logger.NewNop()
}

func syncRunner(f func()) { f() }

// userRepo

type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[string]*models.User
	failGet bool
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failGet {
		return nil, errStore
	}
	user, ok := r.users[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	result := make(map[string]*models.User)
	for _, id := range ids {
		if user, err := r.GetByID(ctx, id); err == nil {
			result[id] = user
		}
	}
	return result, nil
}

func (r *fakeUserRepo) Update(_ context.Context, id string, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	for key, value := range updates {
		switch key {
		case "full_name":
			user.FullName = value.(string)
		case "phone":
			user.Phone = value.(string)
		case "address":
			user.Address = value.(string)
		case "verified":
			user.Verified = value.(bool)
		case "blocked":
			user.Blocked = value.(bool)
		}
	}
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, filter models.UserFilter) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.User
	for _, user := range r.users {
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		if filter.Search != "" && !strings.Contains(user.Email, filter.Search) && !strings.Contains(user.FullName, filter.Search) {
			continue
		}
		result = append(result, user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeUserRepo) ListIDsByRole(_ context.Context, role models.UserRole) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for id, user := range r.users {
		if user.Role == role {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *fakeUserRepo) AddFCMToken(_ context.Context, id, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	if !containsString(user.FCMTokens, token) {
		user.FCMTokens = append(user.FCMTokens, token)
	}
	return nil
}

func (r *fakeUserRepo) RemoveFCMTokens(_ context.Context, id string, tokens []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	kept := user.FCMTokens[:0]
	for _, token := range user.FCMTokens {
		if !containsString(tokens, token) {
			kept = append(kept, token)
		}
	}
	user.FCMTokens = kept
	return nil
}

func (r *fakeUserRepo) TouchLastActive(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		user.LastActiveAt = &at
	}
	return nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) CountActiveSince(_ context.Context, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, user := range r.users {
		if user.LastActiveAt != nil && !user.LastActiveAt.Before(since) {
			count++
		}
	}
	return count, nil
}

// rideRepo

type fakeRideRepo struct {
	mu    sync.Mutex
	rides map[primitive.ObjectID]*models.Ride
}

func newFakeRideRepo(rides ...*models.Ride) *fakeRideRepo {
	repo := &fakeRideRepo{rides: make(map[primitive.ObjectID]*models.Ride)}
	for _, ride := range rides {
		repo.rides[ride.ID] = ride
	}
	return repo
}

func (r *fakeRideRepo) Create(_ context.Context, ride *models.Ride) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ride.ID.IsZero() {
		ride.ID = primitive.NewObjectID()
	}
	clone := *ride
	r.rides[ride.ID] = &clone
	return nil
}

func (r *fakeRideRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Ride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ride, ok := r.rides[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	clone := *ride
	return &clone, nil
}

func (r *fakeRideRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Ride, error) {
	result := make(map[primitive.ObjectID]*models.Ride)
	for _, id := range ids {
		if ride, err := r.GetByID(ctx, id); err == nil {
			result[id] = ride
		}
	}
	return result, nil
}

func (r *fakeRideRepo) Search(_ context.Context, search models.RideSearch) ([]*models.Ride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Ride
	for _, ride := range r.rides {
		if ride.Origin != search.Origin || ride.Destination != search.Destination {
			continue
		}
		if search.Date != nil && !utils.SameDay(ride.Date, *search.Date) {
			continue
		}
		result = append(result, ride)
	}
	return result, nil
}

func (r *fakeRideRepo) ListByDriver(_ context.Context, driverID string) ([]*models.Ride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Ride
	for _, ride := range r.rides {
		if ride.DriverID == driverID {
			result = append(result, ride)
		}
	}
	return result, nil
}

func (r *fakeRideRepo) List(_ context.Context) ([]*models.Ride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Ride
	for _, ride := range r.rides {
		result = append(result, ride)
	}
	return result, nil
}

func (r *fakeRideRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rides)), nil
}

func (r *fakeRideRepo) ExistsForCity(_ context.Context, city string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ride := range r.rides {
		if ride.Origin == city || ride.Destination == city {
			return true, nil
		}
	}
	return false, nil
}

// bookingRepo

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[primitive.ObjectID]*models.Booking
}

func newFakeBookingRepo(bookings ...*models.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{bookings: make(map[primitive.ObjectID]*models.Booking)}
	for _, booking := range bookings {
		repo.bookings[booking.ID] = booking
	}
	return repo
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking.ID = primitive.NewObjectID()
	clone := *booking
	r.bookings[booking.ID] = &clone
	return nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	clone := *booking
	return &clone, nil
}

func (r *fakeBookingRepo) List(_ context.Context, filter models.BookingFilter) ([]*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Booking
	for _, booking := range r.bookings {
		if filter.DriverID != "" && booking.DriverID != filter.DriverID {
			continue
		}
		if filter.PassengerID != "" && booking.PassengerID != filter.PassengerID {
			continue
		}
		if filter.Status != "" && booking.Status != filter.Status {
			continue
		}
		if filter.Date != nil && !utils.SameDay(booking.Date, *filter.Date) {
			continue
		}
		clone := *booking
		result = append(result, &clone)
	}
	return result, nil
}

func (r *fakeBookingRepo) TransitionStatus(_ context.Context, id primitive.ObjectID, from, to models.BookingStatus, extra map[string]interface{}) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	if booking.Status != from {
		return nil, interfaces.ErrConflict
	}
	booking.Status = to
	if at, ok := extra["accepted_at"].(time.Time); ok {
		booking.AcceptedAt = &at
	}
	clone := *booking
	return &clone, nil
}

func (r *fakeBookingRepo) DeleteIfStatus(_ context.Context, id primitive.ObjectID, status models.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	if booking.Status != status {
		return interfaces.ErrConflict
	}
	delete(r.bookings, id)
	return nil
}

func (r *fakeBookingRepo) UpdateSnapshot(_ context.Context, id primitive.ObjectID, ride *models.Ride) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	booking.ApplyRide(ride)
	return nil
}

func (r *fakeBookingRepo) Count(_ context.Context, status models.BookingStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, booking := range r.bookings {
		if status == "" || booking.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *fakeBookingRepo) get(id primitive.ObjectID) *models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bookings[id]
}

// chatRepo

type fakeChatRepo struct {
	mu          sync.Mutex
	chats       map[primitive.ObjectID]*models.Chat
	messages    []*models.Message
	failMarkFor map[primitive.ObjectID]bool
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		chats:       make(map[primitive.ObjectID]*models.Chat),
		failMarkFor: make(map[primitive.ObjectID]bool),
	}
}

func (r *fakeChatRepo) add(chat *models.Chat) *models.Chat {
	r.mu.Lock()
	defer r.mu.Unlock()
	if chat.ID.IsZero() {
		chat.ID = primitive.NewObjectID()
	}
	r.chats[chat.ID] = chat
	return chat
}

func (r *fakeChatRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	clone := *chat
	return &clone, nil
}

func (r *fakeChatRepo) FindByRideAndParticipant(_ context.Context, rideID primitive.ObjectID, userID string) ([]*models.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Chat
	for _, chat := range r.chats {
		if chat.RideID == rideID && chat.HasParticipant(userID) {
			clone := *chat
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (r *fakeChatRepo) CreateIfAbsent(_ context.Context, chat *models.Chat) (*models.Chat, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.chats {
		if existing.RideID == chat.RideID && existing.ParticipantKey == chat.ParticipantKey {
			clone := *existing
			return &clone, false, nil
		}
	}
	chat.ID = primitive.NewObjectID()
	clone := *chat
	r.chats[chat.ID] = &clone
	return chat, true, nil
}

func (r *fakeChatRepo) ListByParticipant(_ context.Context, userID string) ([]*models.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Chat
	for _, chat := range r.chats {
		if chat.HasParticipant(userID) {
			clone := *chat
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (r *fakeChatRepo) ListAll(_ context.Context) ([]*models.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Chat
	for _, chat := range r.chats {
		clone := *chat
		result = append(result, &clone)
	}
	return result, nil
}

func (r *fakeChatRepo) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	for key, value := range updates {
		switch key {
		case "last_message":
			chat.LastMessage = value.(string)
		case "last_message_at":
			at := value.(time.Time)
			chat.LastMessageAt = &at
		case "last_message_sender_id":
			chat.LastMessageSenderID = value.(string)
		case "messages_read":
			chat.MessagesRead = value.(bool)
		case "last_read_at":
			at := value.(time.Time)
			chat.LastReadAt = &at
		case "participant_key":
			chat.ParticipantKey = value.(string)
		case "ride_details":
			chat.RideDetails = value.(models.RideDetails)
		}
	}
	return nil
}

func (r *fakeChatRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chats[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(r.chats, id)
	return nil
}

func (r *fakeChatRepo) CreateMessage(_ context.Context, message *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	message.ID = primitive.NewObjectID()
	clone := *message
	r.messages = append(r.messages, &clone)
	return nil
}

func (r *fakeChatRepo) ListMessages(_ context.Context, chatID primitive.ObjectID) ([]*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Message
	for _, message := range r.messages {
		if message.ChatID == chatID {
			clone := *message
			result = append(result, &clone)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Timestamp.Before(result[j].Timestamp) })
	return result, nil
}

func (r *fakeChatRepo) MarkMessageRead(_ context.Context, messageID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failMarkFor[messageID] {
		return errStore
	}
	for _, message := range r.messages {
		if message.ID == messageID {
			message.Read = true
		}
	}
	return nil
}

func (r *fakeChatRepo) MoveMessages(_ context.Context, fromChatID, toChatID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var moved int64
	for _, message := range r.messages {
		if message.ChatID == fromChatID {
			message.ChatID = toChatID
			moved++
		}
	}
	return moved, nil
}

func (r *fakeChatRepo) messagesFor(chatID primitive.ObjectID) []*models.Message {
	messages, _ := r.ListMessages(context.Background(), chatID)
	return messages
}

func (r *fakeChatRepo) chatCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.chats)
}

// notificationRepo

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*models.Notification
}

func (r *fakeNotificationRepo) prepare(notification *models.Notification) {
	notification.ID = primitive.NewObjectID()
	notification.Status = models.NotificationStatusUnread
	if notification.Timestamp.IsZero() {
		notification.Timestamp = time.Now().UTC()
	}
}

func (r *fakeNotificationRepo) Create(_ context.Context, notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prepare(notification)
	r.notifications = append(r.notifications, notification)
	return nil
}

func (r *fakeNotificationRepo) CreateMany(_ context.Context, notifications []*models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, notification := range notifications {
		r.prepare(notification)
		r.notifications = append(r.notifications, notification)
	}
	return nil
}

func (r *fakeNotificationRepo) ListByRecipient(_ context.Context, recipient string) ([]*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Notification
	for i := len(r.notifications) - 1; i >= 0; i-- {
		if r.notifications[i].Recipient == recipient {
			result = append(result, r.notifications[i])
		}
	}
	return result, nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, recipient string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.Recipient == recipient && n.Status == models.NotificationStatusUnread {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id primitive.ObjectID, recipient string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == id && n.Recipient == recipient {
			n.Status = models.NotificationStatusRead
			return nil
		}
	}
	return interfaces.ErrNotFound
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, recipient string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.Recipient == recipient && n.Status == models.NotificationStatusUnread {
			n.Status = models.NotificationStatusRead
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) DeleteByRecipient(_ context.Context, recipient string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.notifications[:0]
	for _, n := range r.notifications {
		if n.Recipient != recipient {
			kept = append(kept, n)
		}
	}
	r.notifications = kept
	return nil
}

func (r *fakeNotificationRepo) all() []*models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.Notification(nil), r.notifications...)
}

// events

type publishedEvent struct {
	Room     string
	Type     string
	SenderID string
	Data     interface{}
}

type fakeEvents struct {
	mu            sync.Mutex
	published     []publishedEvent
	endedSessions []string
}

func (e *fakeEvents) Publish(_ context.Context, room, eventType, senderID string, data interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.published = append(e.published, publishedEvent{Room: room, Type: eventType, SenderID: senderID, Data: data})
}

func (e *fakeEvents) EndSession(_ context.Context, userID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.endedSessions = append(e.endedSessions, userID)
}

func (e *fakeEvents) Run(context.Context) error { return nil }

func (e *fakeEvents) ofType(eventType string) []publishedEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	var result []publishedEvent
	for _, event := range e.published {
		if event.Type == eventType {
			result = append(result, event)
		}
	}
	return result
}

// identity

type fakeIdentity struct {
	mu        sync.Mutex
	accounts  map[string]*identity.Account
	passwords map[string]string
	signedOut []string
	deleted   []string
	sentTo    []string
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		accounts:  make(map[string]*identity.Account),
		passwords: make(map[string]string),
	}
}

func (f *fakeIdentity) SignUp(_ context.Context, email, password string) (*identity.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, account := range f.accounts {
		if account.Email == email {
			return nil, identity.ErrEmailInUse
		}
	}
	account := &identity.Account{UID: "uid-" + email, Email: email}
	f.accounts[account.UID] = account
	f.passwords[account.UID] = password
	return account, nil
}

func (f *fakeIdentity) SignIn(_ context.Context, email, password string) (*identity.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for uid, account := range f.accounts {
		if account.Email == email && f.passwords[uid] == password {
			return &identity.Token{UID: uid, IDToken: "token-" + uid}, nil
		}
	}
	return nil, identity.ErrInvalidCredentials
}

func (f *fakeIdentity) VerifyToken(_ context.Context, idToken string) (*identity.Session, error) {
	return nil, identity.ErrInvalidToken
}

func (f *fakeIdentity) SendVerificationEmail(_ context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sentTo = append(f.sentTo, uid)
	return nil
}

func (f *fakeIdentity) ConfirmEmail(context.Context, string) error { return nil }

func (f *fakeIdentity) Reload(_ context.Context, uid string) (*identity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[uid]
	if !ok {
		return nil, identity.ErrAccountNotFound
	}
	return &identity.Session{UID: uid, Email: account.Email, EmailVerified: account.EmailVerified}, nil
}

func (f *fakeIdentity) Reauthenticate(ctx context.Context, email, password string) (string, error) {
	token, err := f.SignIn(ctx, email, password)
	if err != nil {
		return "", err
	}
	return token.UID, nil
}

func (f *fakeIdentity) SignOut(_ context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signedOut = append(f.signedOut, uid)
	return nil
}

func (f *fakeIdentity) DeleteAccount(_ context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[uid]; !ok {
		return identity.ErrAccountNotFound
	}
	delete(f.accounts, uid)
	f.deleted = append(f.deleted, uid)
	return nil
}

// cities

type fakeCityProvider struct {
	cities []string
	err    error
}

func (f *fakeCityProvider) Cities(context.Context) ([]string, error) {
	return f.cities, f.err
}

// fixtures

func day(value string) time.Time {
	t, err := utils.ParseDay(value)
	if err != nil {
		panic(err)
	}
	return t
}

func completeUser(id string, role models.UserRole) *models.User {
	return &models.User{
		ID:       id,
		Email:    id + "@example.com",
		Role:     role,
		FullName: "User " + id,
		Phone:    "+14165550100",
		Address:  "1 Main St",
	}
}

func sampleRide(driverID string) *models.Ride {
	return &models.Ride{
		ID:          primitive.NewObjectID(),
		DriverID:    driverID,
		DriverEmail: driverID + "@example.com",
		Origin:      "Toronto",
		Destination: "Ottawa",
		Date:        day("2024-06-01"),
		Seats:       3,
		Price:       45,
		Status:      models.RideStatusAvailable,
	}
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
