package interfaces

import (
	"context"

	"instaclone-backend/internal/model"
)

// PostRepository stores posts.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	// FindByID returns nil, nil for an unknown id.
	FindByID(ctx context.Context, id string) (*model.Post, error)
	FindByUserID(ctx context.Context, userID string) ([]*model.Post, error)
	FindByUserIDs(ctx context.Context, userIDs []string) ([]*model.Post, error)
	// FindSince returns posts with time strictly greater than sinceMillis.
	FindSince(ctx context.Context, sinceMillis int64) ([]*model.Post, error)
	// FindByTerm returns posts whose search terms contain term exactly.
	FindByTerm(ctx context.Context, term string) ([]*model.Post, error)
	// ToggleLike adds userID to the likes, or removes it when present, holding
	// the row lock between read and write. It returns the updated post, or
	// nil, nil for an unknown id.
	ToggleLike(ctx context.Context, id, userID string) (*model.Post, error)
	// UpdateUserImage sets user_image on every listed post in one batch.
	UpdateUserImage(ctx context.Context, ids []string, imageURL string) error
}
