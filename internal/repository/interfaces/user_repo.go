package interfaces

import (
	"context"

	"instaclone-backend/internal/model"
)

// UserRepository stores profile documents. Finders return nil, nil when
// nothing matches. Create and Update fail with ErrDuplicateUsername when the
// username is taken.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	// Update writes name, username, bio and image_url.
	Update(ctx context.Context, user *model.User) error
	// ToggleFollowing follows targetID, or unfollows it when already followed,
	// holding the row lock between read and write. It returns the updated
	// profile, or nil, nil for an unknown id.
	ToggleFollowing(ctx context.Context, id, targetID string) (*model.User, error)
	// FindFollowers returns the profiles whose following list contains id.
	FindFollowers(ctx context.Context, id string) ([]*model.User, error)
	FindAll(ctx context.Context, limit int) ([]*model.User, error)
}
