package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"instaclone-backend/config"
	"instaclone-backend/internal/errors"
	"instaclone-backend/internal/model"
	"instaclone-backend/internal/repository/interfaces"
	"instaclone-backend/internal/storage"
	"instaclone-backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSignUp_ExistingUsernameCreatesNoAccount(t *testing.T) {
	f := newFixture()

	f.users.On("FindByUsername", mock.Anything, "alice").Return(&model.User{ID: "u0", Username: "alice"}, nil)

	_, err := f.userService.SignUp(context.Background(), "alice", "a@example.com", "secret")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUserExists))
	assert.Equal(t, "Username already exists", err.Error())
	f.accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignUp_Success(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	var (
		account *model.Account
		profile *model.User
	)
	f.users.On("FindByUsername", mock.Anything, "alice").Return(nil, nil)
	f.accounts.On("FindByEmail", mock.Anything, "a@example.com").Return(nil, nil)
	f.accounts.On("Create", mock.Anything, mock.AnythingOfType("*model.Account"), mock.AnythingOfType("*model.User")).
		Run(func(args mock.Arguments) {
			account = args.Get(1).(*model.Account)
			profile = args.Get(2).(*model.User)
		}).
		Return(nil)

	user, err := f.userService.SignUp(ctx, "alice", "a@example.com", "secret")
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Same(t, profile, user)
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	assert.Equal(t, account.ID, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.Following)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("secret")))

	st, err := f.sessions.Load(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, st.SignedIn)
}

func TestSignUp_MissingFields(t *testing.T) {
	f := newFixture()

	_, err := f.userService.SignUp(context.Background(), "alice", "", "secret")
	require.Error(t, err)
	assert.Equal(t, "Please fill in all the required fields", err.Error())
	f.users.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
}

func TestSignUp_EmailInUse(t *testing.T) {
	f := newFixture()

	f.users.On("FindByUsername", mock.Anything, "alice").Return(nil, nil)
	f.accounts.On("FindByEmail", mock.Anything, "a@example.com").Return(&model.Account{ID: "u0"}, nil)

	_, err := f.userService.SignUp(context.Background(), "alice", "a@example.com", "secret")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrEmailExists))
	f.accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

// Two sign-ups for one username can both pass the lookup; the unique key then
// rejects the slower one, whose account is rolled back with its profile.
func TestSignUp_UsernameClaimedConcurrently(t *testing.T) {
	f := newFixture()

	f.users.On("FindByUsername", mock.Anything, "alice").Return(nil, nil)
	f.accounts.On("FindByEmail", mock.Anything, "b@example.com").Return(nil, nil)
	f.accounts.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(fmt.Errorf("%w: duplicate entry", interfaces.ErrDuplicateUsername))

	_, err := f.userService.SignUp(context.Background(), "alice", "b@example.com", "secret")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUserExists))
	assert.Equal(t, "Username already exists", err.Error())
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignUp_EmailClaimedConcurrently(t *testing.T) {
	f := newFixture()

	f.users.On("FindByUsername", mock.Anything, "alice").Return(nil, nil)
	f.accounts.On("FindByEmail", mock.Anything, "a@example.com").Return(nil, nil)
	f.accounts.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(fmt.Errorf("%w: duplicate entry", interfaces.ErrDuplicateEmail))

	_, err := f.userService.SignUp(context.Background(), "alice", "a@example.com", "secret")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrEmailExists))
}

func TestSignUp_ProfileFailureIsOneError(t *testing.T) {
	f := newFixture()

	f.users.On("FindByUsername", mock.Anything, "alice").Return(nil, nil)
	f.accounts.On("FindByEmail", mock.Anything, "a@example.com").Return(nil, nil)
	f.accounts.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(stderrors.New("lock wait timeout"))

	_, err := f.userService.SignUp(context.Background(), "alice", "a@example.com", "secret")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDatabase))
	f.accounts.AssertNumberOfCalls(t, "Create", 1)
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	f.accounts.On("FindByEmail", mock.Anything, "a@example.com").
		Return(&model.Account{ID: "u1", Email: "a@example.com", PasswordHash: string(hash)}, nil)
	f.users.On("FindByID", mock.Anything, "u1").Return(&model.User{ID: "u1", Username: "alice"}, nil)

	user, err := f.userService.Login(ctx, "a@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = f.userService.Login(ctx, "a@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))
	assert.Equal(t, "Login failed", err.Error())
}

func TestLogin_UnknownEmail(t *testing.T) {
	f := newFixture()

	f.accounts.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, nil)

	_, err := f.userService.Login(context.Background(), "ghost@example.com", "secret")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))
}

func TestLogout_RevokesTokenAndClearsSession(t *testing.T) {
	prev := config.AppConfig
	config.AppConfig.JWTSecret = "test-secret"
	config.AppConfig.TokenTTL = time.Hour
	t.Cleanup(func() { config.AppConfig = prev })

	f := newFixture()
	ctx := context.Background()

	token, err := util.GenerateToken("u1")
	require.NoError(t, err)
	require.NoError(t, f.sessions.SignIn(ctx, "u1"))

	require.NoError(t, f.userService.Logout(ctx, "u1", token))
	assert.True(t, f.userService.IsTokenBlacklisted(ctx, token))
	assert.False(t, f.userService.IsTokenBlacklisted(ctx, "other"))
	assert.Zero(t, f.userService.PruneBlacklist())

	msg, ok, err := f.sessions.TakeNotification(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Logged out", msg)

	st, err := f.sessions.Load(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, st.SignedIn)
}

type failingRevocations struct{}

func (failingRevocations) Revoke(context.Context, string, time.Time) error {
	return stderrors.New("redis down")
}

func (failingRevocations) IsRevoked(context.Context, string) (bool, error) {
	return false, stderrors.New("redis down")
}

func TestRevocationStoreFailures(t *testing.T) {
	f := newFixture()
	f.userService.revocations = failingRevocations{}
	ctx := context.Background()

	assert.True(t, f.userService.IsTokenBlacklisted(ctx, "any"), "unknown status must not let a token through")
	assert.Zero(t, f.userService.PruneBlacklist())

	err := f.userService.Logout(ctx, "u1", "not-a-jwt")
	require.Error(t, err)
	assert.Equal(t, "Logout failed: redis down", err.Error())
}

func TestUpdateProfile_EmptyFieldsKeepStoredValues(t *testing.T) {
	f := newFixture()

	f.users.On("FindByID", mock.Anything, "u1").
		Return(&model.User{ID: "u1", Name: "Alice", Username: "alice", Bio: "old"}, nil)
	f.users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Name == "Alice" && u.Username == "alice" && u.Bio == "new bio"
	})).Return(nil)

	user, err := f.userService.UpdateProfile(context.Background(), "u1", "", "", "new bio")
	require.NoError(t, err)
	assert.Equal(t, "new bio", user.Bio)
	f.users.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
	f.users.AssertExpectations(t)
}

func TestUpdateProfile_UsernameTaken(t *testing.T) {
	f := newFixture()

	f.users.On("FindByID", mock.Anything, "u1").Return(&model.User{ID: "u1", Username: "alice"}, nil)
	f.users.On("FindByUsername", mock.Anything, "bob").Return(&model.User{ID: "u2", Username: "bob"}, nil)

	_, err := f.userService.UpdateProfile(context.Background(), "u1", "", "bob", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUserExists))
	f.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateProfile_UsernameClaimedConcurrently(t *testing.T) {
	f := newFixture()

	f.users.On("FindByID", mock.Anything, "u1").Return(&model.User{ID: "u1", Username: "alice"}, nil)
	f.users.On("FindByUsername", mock.Anything, "bob").Return(nil, nil)
	f.users.On("Update", mock.Anything, mock.Anything).
		Return(fmt.Errorf("%w: duplicate entry", interfaces.ErrDuplicateUsername))

	_, err := f.userService.UpdateProfile(context.Background(), "u1", "", "bob", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUserExists))
}

func TestUpdateProfile_CreatesMissingProfile(t *testing.T) {
	f := newFixture()

	f.users.On("FindByID", mock.Anything, "u1").Return(nil, nil)
	f.users.On("FindByUsername", mock.Anything, "alice").Return(nil, nil)
	f.users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	user, err := f.userService.UpdateProfile(context.Background(), "u1", "Alice", "alice", "")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "", user.Bio)
	assert.Empty(t, user.Following)
}

func TestUploadProfileImage_BackfillsPosts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.users.On("FindByID", mock.Anything, "u1").Return(&model.User{ID: "u1", Username: "alice"}, nil)
	f.blobs.On("Put", mock.Anything, mock.Anything, "image/jpeg").Return("http://cdn/images/avatar", nil)
	f.users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.ImageURL == "http://cdn/images/avatar"
	})).Return(nil)
	f.posts.On("FindByUserID", mock.Anything, "u1").
		Return([]*model.Post{postAt("p1", "u1", 1), postAt("p2", "u1", 2)}, nil)
	f.posts.On("UpdateUserImage", mock.Anything, []string{"p1", "p2"}, "http://cdn/images/avatar").Return(nil)

	user, err := f.userService.UploadProfileImage(ctx, "u1",
		storage.Object{Body: strings.NewReader("jpg"), ContentType: "image/jpeg"})
	require.NoError(t, err)
	assert.Equal(t, "http://cdn/images/avatar", user.ImageURL)
	f.posts.AssertExpectations(t)

	st, err := f.sessions.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p1"}, postIDs(st.Posts))
}

func TestUploadProfileImage_BackfillFailureIsNotFatal(t *testing.T) {
	f := newFixture()

	f.users.On("FindByID", mock.Anything, "u1").Return(&model.User{ID: "u1"}, nil)
	f.blobs.On("Put", mock.Anything, mock.Anything, mock.Anything).Return("http://cdn/a", nil)
	f.users.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.posts.On("FindByUserID", mock.Anything, "u1").Return([]*model.Post{postAt("p1", "u1", 1)}, nil)
	f.posts.On("UpdateUserImage", mock.Anything, []string{"p1"}, "http://cdn/a").Return(stderrors.New("deadlock"))

	user, err := f.userService.UploadProfileImage(context.Background(), "u1",
		storage.Object{Body: strings.NewReader("x")})
	require.NoError(t, err)
	assert.Equal(t, "http://cdn/a", user.ImageURL)
}

func TestToggleFollow_Self(t *testing.T) {
	f := newFixture()

	_, err := f.userService.ToggleFollow(context.Background(), "u1", "u1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
	f.users.AssertNotCalled(t, "ToggleFollowing", mock.Anything, mock.Anything, mock.Anything)
}

func TestToggleFollow_FollowsAndRebuildsFeed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.users.On("FindByID", mock.Anything, "u2").Return(&model.User{ID: "u2"}, nil)
	f.users.On("ToggleFollowing", mock.Anything, "u1", "u2").Return(&model.User{ID: "u1", Following: []string{"u2"}}, nil)
	f.users.On("FindByID", mock.Anything, "u1").Return(&model.User{ID: "u1", Following: []string{"u2"}}, nil).Once()
	f.posts.On("FindByUserIDs", mock.Anything, []string{"u2"}).Return([]*model.Post{postAt("p9", "u2", 9)}, nil)

	user, err := f.userService.ToggleFollow(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.True(t, user.IsFollowing("u2"))

	st, err := f.sessions.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p9"}, postIDs(st.Feed))
	f.users.AssertExpectations(t)
}

func TestToggleFollow_UnknownTarget(t *testing.T) {
	f := newFixture()

	f.users.On("FindByID", mock.Anything, "ghost").Return(nil, nil)

	_, err := f.userService.ToggleFollow(context.Background(), "u1", "ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUserNotFound))
}

func TestToggleFollow_MissingProfile(t *testing.T) {
	f := newFixture()

	f.users.On("FindByID", mock.Anything, "u2").Return(&model.User{ID: "u2"}, nil)
	f.users.On("ToggleFollowing", mock.Anything, "u1", "u2").Return(nil, nil)

	_, err := f.userService.ToggleFollow(context.Background(), "u1", "u2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUserNotFound))
	f.posts.AssertNotCalled(t, "FindByUserIDs", mock.Anything, mock.Anything)
}
