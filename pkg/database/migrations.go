package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"easyride/pkg/logger"
)

type Migration struct {
	Version     int
	Description string
	Up          func(context.Context, *mongo.Database) error
	Down        func(context.Context, *mongo.Database) error
}

type Migrator struct {
	db         *mongo.Database
	migrations []Migration
	logger     *logger.Logger
}

func NewMigrator(db *mongo.Database, log *logger.Logger) *Migrator {
	return &Migrator{
		db:         db,
		migrations: Migrations(),
		logger:     log,
	}
}

func (m *Migrator) Up(ctx context.Context) error {
	currentVersion, err := m.getCurrentVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range m.migrations {
		if migration.Version <= currentVersion {
			continue
		}

		m.logger.WithField("version", migration.Version).Infof("Running migration: %s", migration.Description)

		if err := migration.Up(ctx, m.db); err != nil {
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if err := m.updateVersion(ctx, migration.Version); err != nil {
			return fmt.Errorf("failed to update migration version: %w", err)
		}
	}

	return nil
}

func (m *Migrator) Down(ctx context.Context, targetVersion int) error {
	currentVersion, err := m.getCurrentVersion(ctx)
	if err != nil {
		return err
	}

	for i := len(m.migrations) - 1; i >= 0; i-- {
		migration := m.migrations[i]
		if migration.Version > currentVersion || migration.Version <= targetVersion {
			continue
		}

		m.logger.WithField("version", migration.Version).Infof("Reverting migration: %s", migration.Description)

		if err := migration.Down(ctx, m.db); err != nil {
			return fmt.Errorf("migration %d rollback failed: %w", migration.Version, err)
		}

		previousVersion := targetVersion
		if i > 0 {
			previousVersion = m.migrations[i-1].Version
		}

		if err := m.updateVersion(ctx, previousVersion); err != nil {
			return fmt.Errorf("failed to update migration version: %w", err)
		}
	}

	return nil
}

func (m *Migrator) getCurrentVersion(ctx context.Context) (int, error) {
	var result struct {
		Version int `bson:"version"`
	}

	err := m.db.Collection(MigrationsCollection).FindOne(ctx, bson.D{}).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, err
	}

	return result.Version, nil
}

func (m *Migrator) updateVersion(ctx context.Context, version int) error {
	_, err := m.db.Collection(MigrationsCollection).ReplaceOne(
		ctx,
		bson.D{},
		bson.D{{Key: "version", Value: version}, {Key: "updated_at", Value: time.Now().UTC()}},
		options.Replace().SetUpsert(true),
	)

	return err
}

// Migrations returns the ordered index migrations.
func Migrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create users indexes",
			Up:          indexUp(UsersCollection, usersIndexes),
			Down:        indexDown(UsersCollection),
		},
		{
			Version:     2,
			Description: "Create rides indexes",
			Up:          indexUp(RidesCollection, ridesIndexes),
			Down:        indexDown(RidesCollection),
		},
		{
			Version:     3,
			Description: "Create bookings indexes",
			Up:          indexUp(BookingsCollection, bookingsIndexes),
			Down:        indexDown(BookingsCollection),
		},
		{
			Version:     4,
			Description: "Create chats and messages indexes",
			Up: func(ctx context.Context, db *mongo.Database) error {
				if err := indexUp(ChatsCollection, chatsIndexes)(ctx, db); err != nil {
					return err
				}
				return indexUp(MessagesCollection, messagesIndexes)(ctx, db)
			},
			Down: func(ctx context.Context, db *mongo.Database) error {
				if err := indexDown(ChatsCollection)(ctx, db); err != nil {
					return err
				}
				return indexDown(MessagesCollection)(ctx, db)
			},
		},
		{
			Version:     5,
			Description: "Create notifications indexes",
			Up:          indexUp(NotificationsCollection, notificationsIndexes),
			Down:        indexDown(NotificationsCollection),
		},
		{
			Version:     6,
			Description: "Create credentials indexes",
			Up:          indexUp(CredentialsCollection, credentialsIndexes),
			Down:        indexDown(CredentialsCollection),
		},
		{
			Version:     7,
			Description: "Make users email unique",
			Up: func(ctx context.Context, db *mongo.Database) error {
				indexes := db.Collection(UsersCollection).Indexes()
				if _, err := indexes.DropOne(ctx, "email_1"); err != nil {
					return err
				}
				_, err := indexes.CreateOne(ctx, usersEmailUniqueIndex())
				return err
			},
			Down: func(ctx context.Context, db *mongo.Database) error {
				indexes := db.Collection(UsersCollection).Indexes()
				if _, err := indexes.DropOne(ctx, usersEmailUniqueName); err != nil {
					return err
				}
				_, err := indexes.CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}})
				return err
			},
		},
	}
}

func indexUp(collection string, indexes func() []mongo.IndexModel) func(context.Context, *mongo.Database) error {
	return func(ctx context.Context, db *mongo.Database) error {
		_, err := db.Collection(collection).Indexes().CreateMany(ctx, indexes())
		return err
	}
}

func indexDown(collection string) func(context.Context, *mongo.Database) error {
	return func(ctx context.Context, db *mongo.Database) error {
		_, err := db.Collection(collection).Indexes().DropAll(ctx)
		return err
	}
}

const usersEmailUniqueName = "users_email_unique"

// One profile per email. A sign-up whose profile insert hits this index
// rolls its identity account back.
func usersEmailUniqueIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(usersEmailUniqueName),
	}
}

func usersIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: "role", Value: 1}}},
		{Keys: bson.D{{Key: "last_active_at", Value: -1}}},
	}
}

func ridesIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "driver_id", Value: 1}}},
		{Keys: bson.D{{Key: "origin", Value: 1}, {Key: "destination", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: -1}}},
	}
}

func bookingsIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "driver_id", Value: 1}}},
		{Keys: bson.D{{Key: "passenger_id", Value: 1}}},
		{Keys: bson.D{{Key: "ride_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
}

// Chats created before participant_key existed are excluded from the
// unique index until the deduplication pass backfills them.
func chatsIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "ride_id", Value: 1}, {Key: "participant_key", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("ride_participants_unique").
				SetPartialFilterExpression(bson.M{"participant_key": bson.M{"$exists": true}}),
		},
		{Keys: bson.D{{Key: "participants", Value: 1}}},
		{Keys: bson.D{{Key: "last_message_at", Value: -1}}},
	}
}

func messagesIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "chat_id", Value: 1}, {Key: "timestamp", Value: 1}}},
	}
}

func notificationsIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "status", Value: 1}}},
	}
}

func credentialsIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
}
