package model

// Post is an image with a description. Username and UserImage are snapshots
// of the author's profile taken when the post was published.
type Post struct {
	ID          string   `json:"post_id"`
	UserID      string   `json:"user_id"`
	Username    string   `json:"username"`
	UserImage   string   `json:"user_image"`
	PostImage   string   `json:"post_image"`
	Description string   `json:"post_description"`
	Time        int64    `json:"time"` // unix milliseconds
	Likes       []string `json:"likes"`
	SearchTerms []string `json:"search_terms"`
}

// LikedBy reports whether userID likes the post.
func (p *Post) LikedBy(userID string) bool {
	return Contains(p.Likes, userID)
}

// ToggleLike adds userID to the likers, or removes it when already present.
func (p *Post) ToggleLike(userID string) {
	p.Likes = Toggle(p.Likes, userID)
}

// Clone returns a copy that shares no slices with p.
func (p *Post) Clone() *Post {
	c := *p
	c.Likes = append([]string(nil), p.Likes...)
	c.SearchTerms = append([]string(nil), p.SearchTerms...)
	return &c
}
