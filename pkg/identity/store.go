package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Credential is a locally managed account.
type Credential struct {
	ID              string     `bson:"_id"`
	Email           string     `bson:"email"`
	PasswordHash    string     `bson:"password_hash"`
	EmailVerified   bool       `bson:"email_verified"`
	TokenGeneration int        `bson:"token_generation"`
	VerifiedAt      *time.Time `bson:"verified_at,omitempty"`
	CreatedAt       time.Time  `bson:"created_at"`
}

type CredentialStore interface {
	Create(ctx context.Context, credential *Credential) error
	GetByID(ctx context.Context, id string) (*Credential, error)
	GetByEmail(ctx context.Context, email string) (*Credential, error)
	MarkEmailVerified(ctx context.Context, id string, at time.Time) error
	IncrementTokenGeneration(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type mongoCredentialStore struct {
	collection *mongo.Collection
}

func NewMongoCredentialStore(collection *mongo.Collection) CredentialStore {
	return &mongoCredentialStore{collection: collection}
}

func (s *mongoCredentialStore) Create(ctx context.Context, credential *Credential) error {
	_, err := s.collection.InsertOne(ctx, credential)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailInUse
		}
		return fmt.Errorf("failed to create credential: %w", err)
	}
	return nil
}

func (s *mongoCredentialStore) GetByID(ctx context.Context, id string) (*Credential, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *mongoCredentialStore) GetByEmail(ctx context.Context, email string) (*Credential, error) {
	return s.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (s *mongoCredentialStore) MarkEmailVerified(ctx context.Context, id string, at time.Time) error {
	return s.update(ctx, id, bson.M{"$set": bson.M{"email_verified": true, "verified_at": at}})
}

func (s *mongoCredentialStore) IncrementTokenGeneration(ctx context.Context, id string) error {
	return s.update(ctx, id, bson.M{"$inc": bson.M{"token_generation": 1}})
}

func (s *mongoCredentialStore) Delete(ctx context.Context, id string) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (s *mongoCredentialStore) findOne(ctx context.Context, filter bson.M) (*Credential, error) {
	var credential Credential
	if err := s.collection.FindOne(ctx, filter).Decode(&credential); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}
	return &credential, nil
}

func (s *mongoCredentialStore) update(ctx context.Context, id string, update bson.M) error {
	res, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update credential: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrAccountNotFound
	}
	return nil
}
