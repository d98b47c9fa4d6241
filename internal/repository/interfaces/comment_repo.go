package interfaces

import (
	"context"

	"instaclone-backend/internal/model"
)

// CommentRepository stores comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByPostID(ctx context.Context, postID string) ([]*model.Comment, error)
}
