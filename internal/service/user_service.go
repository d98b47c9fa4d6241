package service

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"instaclone-backend/config"
	"instaclone-backend/internal/errors"
	"instaclone-backend/internal/model"
	"instaclone-backend/internal/repository/interfaces"
	"instaclone-backend/internal/session"
	"instaclone-backend/internal/storage"
	"instaclone-backend/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const msgRequiredFields = "Please fill in all the required fields"

var errEmailInUse = stderrors.New("email already in use")

// UserService handles accounts, profiles and follows.
type UserService struct {
	accountRepo  interfaces.AccountRepository
	userRepo     interfaces.UserRepository
	postRepo     interfaces.PostRepository
	blobs        storage.BlobStore
	sessions     *session.Manager
	posts        *PostService
	feeds        *FeedService
	emailService *EmailService
	revocations  session.Revocations
	now          func() time.Time
}

func NewUserService(accountRepo interfaces.AccountRepository, userRepo interfaces.UserRepository,
	postRepo interfaces.PostRepository, blobs storage.BlobStore, sessions *session.Manager,
	posts *PostService, feeds *FeedService, emailService *EmailService,
	revocations session.Revocations) *UserService {
	if revocations == nil {
		revocations = session.NewMemoryRevocations()
	}
	return &UserService{
		accountRepo:  accountRepo,
		userRepo:     userRepo,
		postRepo:     postRepo,
		blobs:        blobs,
		sessions:     sessions,
		posts:        posts,
		feeds:        feeds,
		emailService: emailService,
		revocations:  revocations,
		now:          time.Now,
	}
}

// IsUsernameTaken reports whether a profile already uses username.
func (s *UserService) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

// SignUp creates an account and its profile. An existing username fails
// before any account is created.
func (s *UserService) SignUp(ctx context.Context, username, email, password string) (*model.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, errors.New(errors.ErrValidation, msgRequiredFields)
	}

	taken, err := s.IsUsernameTaken(ctx, username)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Signup failed", err)
	}
	if taken {
		return nil, errors.New(errors.ErrUserExists, "Username already exists")
	}

	existing, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Signup failed", err)
	}
	if existing != nil {
		return nil, errors.Wrap(errors.ErrEmailExists, "Signup failed", errEmailInUse)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "Signup failed", err)
	}

	account := &model.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	user := &model.User{
		ID:        account.ID,
		Username:  username,
		Following: []string{},
	}
	if err := s.accountRepo.Create(ctx, account, user); err != nil {
		switch {
		case stderrors.Is(err, interfaces.ErrDuplicateUsername):
			return nil, errors.New(errors.ErrUserExists, "Username already exists")
		case stderrors.Is(err, interfaces.ErrDuplicateEmail):
			return nil, errors.Wrap(errors.ErrEmailExists, "Signup failed", errEmailInUse)
		}
		return nil, errors.Wrap(errors.ErrDatabase, "Cannot create user", err)
	}

	if err := s.sessions.SignIn(ctx, user.ID); err != nil {
		util.Logger.Warn("failed to mark session signed in", zap.String("user_id", user.ID), zap.Error(err))
	}

	if s.emailService != nil {
		s.emailService.SendWelcomeEmail(email, username)
	}

	util.Logger.Info("user signed up", zap.String("user_id", user.ID), zap.String("username", username))
	return user, nil
}

// Login checks the credentials and returns the profile.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, error) {
	if email == "" || password == "" {
		return nil, errors.New(errors.ErrValidation, msgRequiredFields)
	}

	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Login failed", err)
	}
	if account == nil {
		util.Logger.Info("login failed, unknown email", zap.String("email", email))
		return nil, errors.New(errors.ErrInvalidCredentials, "Login failed")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		util.Logger.Info("login failed, wrong password", zap.String("user_id", account.ID))
		return nil, errors.New(errors.ErrInvalidCredentials, "Login failed")
	}

	user, err := s.GetProfile(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.SignIn(ctx, user.ID); err != nil {
		util.Logger.Warn("failed to mark session signed in", zap.String("user_id", user.ID), zap.Error(err))
	}

	util.Logger.Info("user logged in", zap.String("user_id", user.ID))
	return user, nil
}

// Logout revokes token until it expires and clears the user's session.
func (s *UserService) Logout(ctx context.Context, userID, token string) error {
	expiry, err := util.TokenExpiry(token)
	if err != nil {
		ttl := config.AppConfig.TokenTTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		expiry = s.now().Add(ttl)
	}

	if err := s.revocations.Revoke(ctx, token, expiry); err != nil {
		return errors.Wrap(errors.ErrInternal, "Logout failed", err)
	}

	if err := s.sessions.SignOut(ctx, userID); err != nil {
		return errors.Wrap(errors.ErrInternal, "Logout failed", err)
	}

	util.Logger.Info("user logged out, token revoked", zap.String("user_id", userID))
	return nil
}

// IsTokenBlacklisted reports whether token was revoked by logout. A token
// whose status cannot be read is treated as revoked.
func (s *UserService) IsTokenBlacklisted(ctx context.Context, token string) bool {
	revoked, err := s.revocations.IsRevoked(ctx, token)
	if err != nil {
		util.Logger.Error("failed to check token revocation", zap.Error(err))
		return true
	}
	return revoked
}

// PruneBlacklist forgets revoked tokens that have expired anyway. Stores that
// expire entries on their own report zero.
func (s *UserService) PruneBlacklist() int {
	if p, ok := s.revocations.(interface{ Prune() int }); ok {
		return p.Prune()
	}
	return 0
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Cannot retrieve userdata", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "Cannot retrieve userdata")
	}
	return user, nil
}

// UpdateProfile writes the non-empty fields, creating the profile when it is
// missing. A new username must not be in use.
func (s *UserService) UpdateProfile(ctx context.Context, userID, name, username, bio string) (*model.User, error) {
	done := s.sessions.Track(ctx, userID, session.FlagInProgress)
	defer done()

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Cannot update user", err)
	}

	if username != "" && (user == nil || username != user.Username) {
		taken, err := s.IsUsernameTaken(ctx, username)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, "Cannot update user", err)
		}
		if taken {
			return nil, errors.New(errors.ErrUserExists, "Username already exists")
		}
	}

	if user == nil {
		user = &model.User{
			ID:        userID,
			Name:      name,
			Username:  username,
			Bio:       bio,
			Following: []string{},
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, profileWriteError(err, "Cannot create user")
		}
		return user, nil
	}

	if name != "" {
		user.Name = name
	}
	if username != "" {
		user.Username = username
	}
	if bio != "" {
		user.Bio = bio
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, profileWriteError(err, "Cannot update user")
	}
	return user, nil
}

// profileWriteError reports a username lost to a concurrent writer the same
// way as one found taken up front.
func profileWriteError(err error, message string) error {
	if stderrors.Is(err, interfaces.ErrDuplicateUsername) {
		return errors.New(errors.ErrUserExists, "Username already exists")
	}
	return errors.Wrap(errors.ErrDatabase, message, err)
}

// UploadProfileImage stores a new avatar and copies its URL onto the user's
// posts. The copy is best effort.
func (s *UserService) UploadProfileImage(ctx context.Context, userID string, image storage.Object) (*model.User, error) {
	done := s.sessions.Track(ctx, userID, session.FlagInProgress)
	defer done()

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.blobs.Put(ctx, util.ImageKey(), image)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStorage, "Unable to upload image", err)
	}

	user.ImageURL = imageURL
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Cannot update user", err)
	}

	s.backfillPostImages(ctx, userID, imageURL)
	return user, nil
}

func (s *UserService) backfillPostImages(ctx context.Context, userID, imageURL string) {
	posts, err := s.postRepo.FindByUserID(ctx, userID)
	if err != nil {
		util.Logger.Warn("avatar backfill: cannot list posts", zap.String("user_id", userID), zap.Error(err))
		return
	}
	if len(posts) == 0 {
		return
	}

	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	if err := s.postRepo.UpdateUserImage(ctx, ids, imageURL); err != nil {
		util.Logger.Warn("avatar backfill failed", zap.String("user_id", userID), zap.Int("posts", len(ids)), zap.Error(err))
		return
	}

	if _, err := s.posts.RefreshPosts(ctx, userID); err != nil {
		s.sessions.Fail(ctx, userID, err, "")
	}
}

// ToggleFollow follows targetID, or unfollows it when already followed, then
// rebuilds the feed.
func (s *UserService) ToggleFollow(ctx context.Context, userID, targetID string) (*model.User, error) {
	if strings.TrimSpace(targetID) == "" {
		return nil, errors.New(errors.ErrValidation, msgRequiredFields)
	}
	if targetID == userID {
		return nil, errors.New(errors.ErrValidation, "You cannot follow yourself")
	}

	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Cannot update following", err)
	}
	if target == nil {
		return nil, errors.New(errors.ErrUserNotFound, "User not found")
	}

	user, err := s.userRepo.ToggleFollowing(ctx, userID, targetID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Cannot update following", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "Cannot retrieve userdata")
	}

	util.Logger.Info("following updated",
		zap.String("user_id", userID),
		zap.String("target_id", targetID),
		zap.Bool("following", user.IsFollowing(targetID)))

	if _, err := s.feeds.PersonalizedFeed(ctx, userID); err != nil {
		s.sessions.Fail(ctx, userID, err, "")
	}
	return user, nil
}

// Followers returns the profiles following userID.
func (s *UserService) Followers(ctx context.Context, userID string) ([]*model.User, error) {
	users, err := s.userRepo.FindFollowers(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Cannot retrieve followers", err)
	}
	return users, nil
}
