package interfaces

import (
	"context"
	"time"

	"easyride/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, id string) error

	List(ctx context.Context, filter models.UserFilter) ([]*models.User, error)
	ListIDsByRole(ctx context.Context, role models.UserRole) ([]string, error)

	AddFCMToken(ctx context.Context, id, token string) error
	RemoveFCMTokens(ctx context.Context, id string, tokens []string) error
	TouchLastActive(ctx context.Context, id string, at time.Time) error

	Count(ctx context.Context) (int64, error)
	CountActiveSince(ctx context.Context, since time.Time) (int64, error)
}
