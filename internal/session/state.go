// Package session keeps the per-user view state: cached post lists, progress
// flags and the pending popup notification.
package session

import (
	"instaclone-backend/internal/event"
	"instaclone-backend/internal/feed"
	"instaclone-backend/internal/model"
)

// Flag names a progress indicator.
type Flag string

const (
	FlagInProgress   Flag = "in_progress"
	FlagRefreshPosts Flag = "refresh_posts"
	FlagFeed         Flag = "feed"
	FlagSearch       Flag = "search"
	FlagComments     Flag = "comments"
)

// State is everything a client screen renders for one signed-in user.
type State struct {
	UserID   string               `json:"user_id"`
	SignedIn bool                 `json:"signed_in"`
	Posts    []*model.Post        `json:"posts"`
	Feed     []*model.Post        `json:"feed"`
	Searched []*model.Post        `json:"searched"`
	Comments []*model.Comment     `json:"comments"`
	Progress map[Flag]bool        `json:"progress"`
	Popup    *event.Event[string] `json:"popup,omitempty"`
}

// NewState returns an empty state for userID.
func NewState(userID string) *State {
	return &State{
		UserID:   userID,
		Posts:    []*model.Post{},
		Feed:     []*model.Post{},
		Searched: []*model.Post{},
		Comments: []*model.Comment{},
		Progress: map[Flag]bool{},
	}
}

// ReplacePost updates every cached copy of p.
func (s *State) ReplacePost(p *model.Post) {
	s.Posts = feed.Replace(s.Posts, p)
	s.Feed = feed.Replace(s.Feed, p)
	s.Searched = feed.Replace(s.Searched, p)
}

// Reset drops cached lists and the signed-in mark, as on logout.
func (s *State) Reset() {
	s.SignedIn = false
	s.Posts = []*model.Post{}
	s.Feed = []*model.Post{}
	s.Searched = []*model.Post{}
	s.Comments = []*model.Comment{}
	s.Progress = map[Flag]bool{}
}

// Snapshot is the read-only view of a state returned to clients. The popup is
// reported as pending or not, never consumed by a snapshot.
type Snapshot struct {
	UserID       string           `json:"user_id"`
	SignedIn     bool             `json:"signed_in"`
	Posts        []*model.Post    `json:"posts"`
	Feed         []*model.Post    `json:"feed"`
	Searched     []*model.Post    `json:"searched"`
	Comments     []*model.Comment `json:"comments"`
	Progress     map[Flag]bool    `json:"progress"`
	PendingPopup bool             `json:"pending_popup"`
}

func (s *State) Snapshot() Snapshot {
	return Snapshot{
		UserID:       s.UserID,
		SignedIn:     s.SignedIn,
		Posts:        s.Posts,
		Feed:         s.Feed,
		Searched:     s.Searched,
		Comments:     s.Comments,
		Progress:     s.Progress,
		PendingPopup: s.Popup != nil && !s.Popup.Handled(),
	}
}
