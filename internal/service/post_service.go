package service

import (
	"context"
	"time"

	"instaclone-backend/internal/errors"
	"instaclone-backend/internal/feed"
	"instaclone-backend/internal/kafka"
	"instaclone-backend/internal/model"
	"instaclone-backend/internal/repository/interfaces"
	"instaclone-backend/internal/search"
	"instaclone-backend/internal/session"
	"instaclone-backend/internal/storage"
	"instaclone-backend/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const msgNoUsername = "Error, username unavailable. Unable to create post"

// PostService publishes posts and keeps the cached post lists of a session
// current.
type PostService struct {
	postRepo  interfaces.PostRepository
	userRepo  interfaces.UserRepository
	blobs     storage.BlobStore
	sessions  *session.Manager
	publisher kafka.Publisher
	now       func() time.Time
}

func NewPostService(postRepo interfaces.PostRepository, userRepo interfaces.UserRepository,
	blobs storage.BlobStore, sessions *session.Manager, publisher kafka.Publisher) *PostService {
	if publisher == nil {
		publisher = kafka.NopPublisher{}
	}
	return &PostService{
		postRepo:  postRepo,
		userRepo:  userRepo,
		blobs:     blobs,
		sessions:  sessions,
		publisher: publisher,
		now:       time.Now,
	}
}

// CreatePost uploads the image and publishes a post pointing at it.
func (s *PostService) CreatePost(ctx context.Context, userID string, image storage.Object, description string) (*model.Post, error) {
	done := s.sessions.Track(ctx, userID, session.FlagInProgress)
	defer done()

	imageURL, err := s.blobs.Put(ctx, util.ImageKey(), image)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStorage, "Unable to upload image", err)
	}
	return s.publish(ctx, userID, imageURL, description)
}

// Publish creates a post for an already uploaded image.
func (s *PostService) Publish(ctx context.Context, userID, imageURL, description string) (*model.Post, error) {
	done := s.sessions.Track(ctx, userID, session.FlagInProgress)
	defer done()
	return s.publish(ctx, userID, imageURL, description)
}

func (s *PostService) publish(ctx context.Context, userID, imageURL, description string) (*model.Post, error) {
	author, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, msgNoUsername, err)
	}
	if author == nil || author.Username == "" {
		return nil, errors.New(errors.ErrProfileMissing, msgNoUsername)
	}

	post := &model.Post{
		ID:          uuid.NewString(),
		UserID:      userID,
		Username:    author.Username,
		UserImage:   author.ImageURL,
		PostImage:   imageURL,
		Description: description,
		Time:        s.now().UnixMilli(),
		Likes:       []string{},
		SearchTerms: search.Terms(description),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Unable to create post", err)
	}

	s.sessions.Notify(ctx, userID, "Post successfully created")
	if _, err := s.RefreshPosts(ctx, userID); err != nil {
		s.sessions.Fail(ctx, userID, err, "")
	}

	if err := s.publisher.PublishPost(ctx, post); err != nil {
		util.Logger.Warn("failed to publish post event", zap.String("post_id", post.ID), zap.Error(err))
	}
	return post, nil
}

// RefreshPosts merges the user's own posts into the cached list.
func (s *PostService) RefreshPosts(ctx context.Context, userID string) ([]*model.Post, error) {
	if userID == "" {
		return nil, errors.New(errors.ErrUnauthorized, "Error, username unavailable. Unable to refresh posts")
	}

	done := s.sessions.Track(ctx, userID, session.FlagRefreshPosts)
	defer done()

	fetched, err := s.postRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Cannot fetch posts", err)
	}

	st, err := s.sessions.Update(ctx, userID, func(st *session.State) error {
		st.Posts = feed.Merge(st.Posts, fetched)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "Cannot fetch posts", err)
	}
	return st.Posts, nil
}

func (s *PostService) GetPost(ctx context.Context, postID string) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Error getting post", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "Post not found")
	}
	return post, nil
}

// SearchPosts merges the posts tagged with term into the cached search
// results. A blank term leaves the results untouched.
func (s *PostService) SearchPosts(ctx context.Context, userID, term string) ([]*model.Post, error) {
	q := search.Normalize(term)
	if q == "" {
		st, err := s.sessions.Load(ctx, userID)
		if err != nil {
			return nil, errors.Wrap(errors.ErrInternal, "Cannot search posts", err)
		}
		return st.Searched, nil
	}

	done := s.sessions.Track(ctx, userID, session.FlagSearch)
	defer done()

	fetched, err := s.postRepo.FindByTerm(ctx, q)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Cannot search posts", err)
	}

	st, err := s.sessions.Update(ctx, userID, func(st *session.State) error {
		st.Searched = feed.Merge(st.Searched, fetched)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "Cannot search posts", err)
	}
	return st.Searched, nil
}

// ToggleLike likes the post for userID, or unlikes it when already liked.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID string) (*model.Post, error) {
	updated, err := s.postRepo.ToggleLike(ctx, postID, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Unable to like post", err)
	}
	if updated == nil {
		return nil, errors.New(errors.ErrPostNotFound, "Post not found")
	}

	if _, err := s.sessions.Update(ctx, userID, func(st *session.State) error {
		st.ReplacePost(updated)
		return nil
	}); err != nil {
		util.Logger.Warn("failed to update cached post", zap.String("post_id", postID), zap.Error(err))
	}
	return updated, nil
}
