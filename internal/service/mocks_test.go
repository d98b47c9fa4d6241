package service

import (
	"context"
	"io"
	"sync"

	"instaclone-backend/internal/model"
	"instaclone-backend/internal/session"
	"instaclone-backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock.Mock backed AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, account *model.Account, profile *model.User) error {
	args := m.Called(ctx, account, profile)
	return args.Error(0)
}

func (m *MockAccountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

// MockUserRepository is a mock.Mock backed UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) ToggleFollowing(ctx context.Context, id, targetID string) (*model.User, error) {
	args := m.Called(ctx, id, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindFollowers(ctx context.Context, id string) ([]*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, limit int) ([]*model.User, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*model.User), args.Error(1)
}

// MockPostRepository is a mock.Mock backed PostRepository.
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *model.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostRepository) posts(args mock.Arguments) ([]*model.Post, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Post), args.Error(1)
}

func (m *MockPostRepository) FindByUserID(ctx context.Context, userID string) ([]*model.Post, error) {
	return m.posts(m.Called(ctx, userID))
}

func (m *MockPostRepository) FindByUserIDs(ctx context.Context, userIDs []string) ([]*model.Post, error) {
	return m.posts(m.Called(ctx, userIDs))
}

func (m *MockPostRepository) FindSince(ctx context.Context, sinceMillis int64) ([]*model.Post, error) {
	return m.posts(m.Called(ctx, sinceMillis))
}

func (m *MockPostRepository) FindByTerm(ctx context.Context, term string) ([]*model.Post, error) {
	return m.posts(m.Called(ctx, term))
}

func (m *MockPostRepository) ToggleLike(ctx context.Context, id, userID string) (*model.Post, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostRepository) UpdateUserImage(ctx context.Context, ids []string, imageURL string) error {
	args := m.Called(ctx, ids, imageURL)
	return args.Error(0)
}

// likeStore keeps posts in memory and holds its lock between reading and
// writing the likes, as the row lock does in MySQL.
type likeStore struct {
	*MockPostRepository
	mu    sync.Mutex
	posts map[string]*model.Post
}

func newLikeStore(posts ...*model.Post) *likeStore {
	s := &likeStore{MockPostRepository: new(MockPostRepository), posts: map[string]*model.Post{}}
	for _, p := range posts {
		s.posts[p.ID] = p.Clone()
	}
	return s
}

func (s *likeStore) ToggleLike(_ context.Context, id, userID string) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, nil
	}
	p.ToggleLike(userID)
	return p.Clone(), nil
}

func (s *likeStore) likes(id string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.posts[id].Likes...)
}

// MockCommentRepository is a mock.Mock backed CommentRepository.
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) FindByPostID(ctx context.Context, postID string) ([]*model.Comment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Comment), args.Error(1)
}

// MockBlobStore records uploads and returns a fixed URL.
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Put(ctx context.Context, key string, obj storage.Object) (string, error) {
	if obj.Body != nil {
		_, _ = io.ReadAll(obj.Body)
	}
	args := m.Called(ctx, key, obj.ContentType)
	return args.String(0), args.Error(1)
}

// MockPublisher records published posts.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishPost(ctx context.Context, post *model.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPublisher) Close() error { return nil }

type fixture struct {
	accounts  *MockAccountRepository
	users     *MockUserRepository
	posts     *MockPostRepository
	comments  *MockCommentRepository
	blobs     *MockBlobStore
	publisher *MockPublisher
	sessions  *session.Manager
	revoked   *session.MemoryRevocations

	postService    *PostService
	feedService    *FeedService
	userService    *UserService
	commentService *CommentService
}

func newFixture() *fixture {
	f := &fixture{
		accounts:  new(MockAccountRepository),
		users:     new(MockUserRepository),
		posts:     new(MockPostRepository),
		comments:  new(MockCommentRepository),
		blobs:     new(MockBlobStore),
		publisher: new(MockPublisher),
		sessions:  session.NewManager(session.NewMemoryStore(0)),
		revoked:   session.NewMemoryRevocations(),
	}
	f.postService = NewPostService(f.posts, f.users, f.blobs, f.sessions, f.publisher)
	f.feedService = NewFeedService(f.posts, f.users, f.sessions, f.postService)
	f.userService = NewUserService(f.accounts, f.users, f.posts, f.blobs, f.sessions,
		f.postService, f.feedService, nil, f.revoked)
	f.commentService = NewCommentService(f.comments, f.users, f.sessions)
	return f
}
