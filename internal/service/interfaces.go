package service

import (
	"context"

	"instaclone-backend/internal/model"
	"instaclone-backend/internal/storage"
)

type UserServiceInterface interface {
	SignUp(ctx context.Context, username, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, error)
	Logout(ctx context.Context, userID, token string) error
	IsTokenBlacklisted(ctx context.Context, token string) bool
	GetProfile(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID, name, username, bio string) (*model.User, error)
	UploadProfileImage(ctx context.Context, userID string, image storage.Object) (*model.User, error)
	ToggleFollow(ctx context.Context, userID, targetID string) (*model.User, error)
	Followers(ctx context.Context, userID string) ([]*model.User, error)
}

type PostServiceInterface interface {
	CreatePost(ctx context.Context, userID string, image storage.Object, description string) (*model.Post, error)
	RefreshPosts(ctx context.Context, userID string) ([]*model.Post, error)
	GetPost(ctx context.Context, postID string) (*model.Post, error)
	SearchPosts(ctx context.Context, userID, term string) ([]*model.Post, error)
	ToggleLike(ctx context.Context, userID, postID string) (*model.Post, error)
}

type FeedServiceInterface interface {
	PersonalizedFeed(ctx context.Context, userID string) ([]*model.Post, error)
	Warm(ctx context.Context, userID string)
}

type CommentServiceInterface interface {
	CreateComment(ctx context.Context, userID, postID, text string) ([]*model.Comment, error)
	GetComments(ctx context.Context, userID, postID string) ([]*model.Comment, error)
}

var (
	_ UserServiceInterface    = (*UserService)(nil)
	_ PostServiceInterface    = (*PostService)(nil)
	_ FeedServiceInterface    = (*FeedService)(nil)
	_ CommentServiceInterface = (*CommentService)(nil)
)
