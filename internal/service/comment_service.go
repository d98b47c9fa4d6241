package service

import (
	"context"
	"strings"
	"time"

	"instaclone-backend/internal/errors"
	"instaclone-backend/internal/feed"
	"instaclone-backend/internal/model"
	"instaclone-backend/internal/repository/interfaces"
	"instaclone-backend/internal/session"

	"github.com/google/uuid"
)

type CommentService struct {
	commentRepo interfaces.CommentRepository
	userRepo    interfaces.UserRepository
	sessions    *session.Manager
	now         func() time.Time
}

func NewCommentService(commentRepo interfaces.CommentRepository, userRepo interfaces.UserRepository,
	sessions *session.Manager) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		userRepo:    userRepo,
		sessions:    sessions,
		now:         time.Now,
	}
}

// CreateComment stores a comment by userID and reloads the post's comments.
func (s *CommentService) CreateComment(ctx context.Context, userID, postID, text string) ([]*model.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New(errors.ErrValidation, "Please fill in all the required fields")
	}

	author, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Cannot create comment", err)
	}
	if author == nil || author.Username == "" {
		return nil, errors.New(errors.ErrProfileMissing, "Error, username unavailable. Unable to create comment")
	}

	comment := &model.Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		Username:  author.Username,
		Text:      text,
		Timestamp: s.now().UnixMilli(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Cannot create comment", err)
	}

	return s.GetComments(ctx, userID, postID)
}

// GetComments replaces the cached comments with those of postID, newest
// first.
func (s *CommentService) GetComments(ctx context.Context, userID, postID string) ([]*model.Comment, error) {
	done := s.sessions.Track(ctx, userID, session.FlagComments)
	defer done()

	comments, err := s.commentRepo.FindByPostID(ctx, postID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Cannot retrieve comments", err)
	}
	feed.SortComments(comments)

	if _, err := s.sessions.Update(ctx, userID, func(st *session.State) error {
		st.Comments = comments
		return nil
	}); err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "Cannot retrieve comments", err)
	}
	return comments, nil
}
