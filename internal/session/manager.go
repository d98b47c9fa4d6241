package session

import (
	"context"
	"sync"

	"instaclone-backend/internal/event"
	"instaclone-backend/internal/util"

	"go.uber.org/zap"
)

// Manager applies read-modify-write updates to session states. Updates from
// this process are serialised; concurrent writers in other processes are not
// coordinated.
type Manager struct {
	store Store
	mu    sync.Mutex
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Load returns the user's state, or a fresh one when none is stored.
func (m *Manager) Load(ctx context.Context, userID string) (*State, error) {
	st, ok, err := m.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NewState(userID), nil
	}
	return st, nil
}

// Update loads the state, applies fn and stores the result. Nothing is stored
// when fn fails.
func (m *Manager) Update(ctx context.Context, userID string, fn func(*State) error) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, err := m.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(st); err != nil {
		return nil, err
	}
	if err := m.store.Put(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// UpdateIfExists is Update restricted to users that already have a state.
func (m *Manager) UpdateIfExists(ctx context.Context, userID string, fn func(*State)) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok, err := m.store.Get(ctx, userID)
	if err != nil || !ok {
		return false, err
	}
	fn(st)
	return true, m.store.Put(ctx, st)
}

// Track raises flag and returns the func that lowers it again. The returned
// func must always be called, usually deferred.
func (m *Manager) Track(ctx context.Context, userID string, flag Flag) (done func()) {
	m.setFlag(ctx, userID, flag, true)
	return func() { m.setFlag(context.WithoutCancel(ctx), userID, flag, false) }
}

func (m *Manager) setFlag(ctx context.Context, userID string, flag Flag, on bool) {
	_, err := m.Update(ctx, userID, func(st *State) error {
		st.Progress[flag] = on
		return nil
	})
	if err != nil {
		util.Logger.Warn("failed to update progress flag",
			zap.String("user_id", userID),
			zap.String("flag", string(flag)),
			zap.Bool("on", on),
			zap.Error(err))
	}
}

// Notify replaces the pending popup with msg.
func (m *Manager) Notify(ctx context.Context, userID, msg string) {
	_, err := m.Update(ctx, userID, func(st *State) error {
		st.Popup = event.New(msg)
		return nil
	})
	if err != nil {
		util.Logger.Warn("failed to store notification",
			zap.String("user_id", userID),
			zap.String("message", msg),
			zap.Error(err))
	}
}

// TakeNotification hands out the pending popup once.
func (m *Manager) TakeNotification(ctx context.Context, userID string) (string, bool, error) {
	var (
		msg string
		ok  bool
	)
	_, err := m.Update(ctx, userID, func(st *State) error {
		if st.Popup != nil {
			msg, ok = st.Popup.Take()
		}
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return msg, ok, nil
}

// Fail logs err and turns it into the user's popup. The message is
// "custom: err" when both are present, otherwise whichever one is.
func (m *Manager) Fail(ctx context.Context, userID string, err error, custom string) string {
	msg := FailureMessage(err, custom)
	util.Logger.Error("operation failed",
		zap.String("user_id", userID),
		zap.String("message", custom),
		zap.Error(err))
	if userID != "" {
		m.Notify(context.WithoutCancel(ctx), userID, msg)
	}
	return msg
}

// FailureMessage builds the popup text for a failure.
func FailureMessage(err error, custom string) string {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	switch {
	case custom == "":
		return errMsg
	case errMsg == "":
		return custom
	default:
		return custom + ": " + errMsg
	}
}

// SignIn marks the user's state as signed in.
func (m *Manager) SignIn(ctx context.Context, userID string) error {
	_, err := m.Update(ctx, userID, func(st *State) error {
		st.SignedIn = true
		return nil
	})
	return err
}

// SignOut clears cached lists and leaves a "Logged out" popup.
func (m *Manager) SignOut(ctx context.Context, userID string) error {
	_, err := m.Update(ctx, userID, func(st *State) error {
		st.Reset()
		st.Popup = event.New("Logged out")
		return nil
	})
	return err
}
