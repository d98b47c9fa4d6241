package model

// Comment is a text reply on a post.
type Comment struct {
	ID        string `json:"comment_id"`
	PostID    string `json:"post_id"`
	Username  string `json:"username"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
}
