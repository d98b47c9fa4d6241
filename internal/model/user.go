package model

import "time"

// User is the public profile document of a member.
type User struct {
	ID        string    `json:"user_id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Bio       string    `json:"bio"`
	ImageURL  string    `json:"image_url"`
	Following []string  `json:"following"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Account is the identity provider record behind a profile.
// Its ID is the opaque uid shared with the profile.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsFollowing reports whether u follows userID.
func (u *User) IsFollowing(userID string) bool {
	return Contains(u.Following, userID)
}

// ToggleFollow follows userID, or unfollows it when already followed.
func (u *User) ToggleFollow(userID string) {
	u.Following = Toggle(u.Following, userID)
}
