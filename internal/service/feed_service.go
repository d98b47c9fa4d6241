package service

import (
	"context"
	"time"

	"instaclone-backend/internal/errors"
	"instaclone-backend/internal/feed"
	"instaclone-backend/internal/model"
	"instaclone-backend/internal/repository/interfaces"
	"instaclone-backend/internal/session"
	"instaclone-backend/internal/util"

	"go.uber.org/zap"
)

// FeedService assembles the home feed of a user.
type FeedService struct {
	postRepo interfaces.PostRepository
	userRepo interfaces.UserRepository
	sessions *session.Manager
	posts    *PostService
	now      func() time.Time
}

func NewFeedService(postRepo interfaces.PostRepository, userRepo interfaces.UserRepository,
	sessions *session.Manager, posts *PostService) *FeedService {
	return &FeedService{
		postRepo: postRepo,
		userRepo: userRepo,
		sessions: sessions,
		posts:    posts,
		now:      time.Now,
	}
}

// PersonalizedFeed merges the posts of followed users into the cached feed.
// When the user follows nobody, or the followed users have no posts, the
// general feed is used instead.
func (s *FeedService) PersonalizedFeed(ctx context.Context, userID string) ([]*model.Post, error) {
	done := s.sessions.Track(ctx, userID, session.FlagFeed)
	defer done()

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Cannot get personalized feed", err)
	}

	var fetched []*model.Post
	if user != nil && len(user.Following) > 0 {
		fetched, err = s.postRepo.FindByUserIDs(ctx, user.Following)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, "Cannot get personalized feed", err)
		}
	}
	if len(fetched) == 0 {
		return s.generalFeed(ctx, userID)
	}
	return s.mergeFeed(ctx, userID, fetched)
}

// GeneralFeed merges every post of the trailing 24 hours into the cached feed.
func (s *FeedService) GeneralFeed(ctx context.Context, userID string) ([]*model.Post, error) {
	done := s.sessions.Track(ctx, userID, session.FlagFeed)
	defer done()
	return s.generalFeed(ctx, userID)
}

func (s *FeedService) generalFeed(ctx context.Context, userID string) ([]*model.Post, error) {
	fetched, err := s.postRepo.FindSince(ctx, feed.Since(s.now()))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Cannot get feed", err)
	}
	return s.mergeFeed(ctx, userID, fetched)
}

func (s *FeedService) mergeFeed(ctx context.Context, userID string, fetched []*model.Post) ([]*model.Post, error) {
	st, err := s.sessions.Update(ctx, userID, func(st *session.State) error {
		st.Feed = feed.Merge(st.Feed, fetched)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "Cannot store feed", err)
	}
	return st.Feed, nil
}

// Warm fills a fresh session with the user's own posts and feed. Failures
// end up as the session popup.
func (s *FeedService) Warm(ctx context.Context, userID string) {
	if _, err := s.posts.RefreshPosts(ctx, userID); err != nil {
		s.sessions.Fail(ctx, userID, err, "")
	}
	if _, err := s.PersonalizedFeed(ctx, userID); err != nil {
		s.sessions.Fail(ctx, userID, err, "")
	}
}

// FanOut adds a new post to the cached feed of every signed-in follower of
// its author.
func (s *FeedService) FanOut(ctx context.Context, post *model.Post) error {
	followers, err := s.userRepo.FindFollowers(ctx, post.UserID)
	if err != nil {
		return err
	}

	delivered := 0
	for _, follower := range followers {
		ok, err := s.sessions.UpdateIfExists(ctx, follower.ID, func(st *session.State) {
			if st.SignedIn {
				st.Feed = feed.Merge(st.Feed, []*model.Post{post})
			}
		})
		if err != nil {
			util.Logger.Warn("feed fan-out failed",
				zap.String("post_id", post.ID),
				zap.String("follower_id", follower.ID),
				zap.Error(err))
			continue
		}
		if ok {
			delivered++
		}
	}

	util.Logger.Debug("post fanned out",
		zap.String("post_id", post.ID),
		zap.Int("followers", len(followers)),
		zap.Int("sessions", delivered))
	return nil
}
