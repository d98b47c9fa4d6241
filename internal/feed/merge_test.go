package feed

import (
	"testing"
	"time"

	"instaclone-backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func post(id string, at int64) *model.Post {
	return &model.Post{ID: id, Time: at}
}

func ids(posts []*model.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func TestMergeAppendsAndSortsNewestFirst(t *testing.T) {
	existing := []*model.Post{post("a", 10), post("b", 30)}
	incoming := []*model.Post{post("c", 20), post("d", 40)}

	merged := Merge(existing, incoming)

	assert.Equal(t, []string{"d", "b", "c", "a"}, ids(merged))
	assert.Equal(t, []string{"a", "b"}, ids(existing))
}

func TestMergeReplacesByID(t *testing.T) {
	old := &model.Post{ID: "a", Time: 10, Likes: []string{}}
	updated := &model.Post{ID: "a", Time: 10, Likes: []string{"u1"}}

	merged := Merge([]*model.Post{old, post("b", 5)}, []*model.Post{updated})

	assert.Len(t, merged, 2)
	assert.Same(t, updated, merged[0])
}

func TestMergeIsIdempotent(t *testing.T) {
	batch := []*model.Post{post("x", 3), post("y", 1), post("z", 2)}

	once := Merge(nil, batch)
	twice := Merge(once, batch)

	assert.Equal(t, ids(once), ids(twice))
	assert.Equal(t, []string{"x", "z", "y"}, ids(twice))

	seen := map[string]bool{}
	for i, p := range twice {
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
		if i > 0 {
			assert.GreaterOrEqual(t, twice[i-1].Time, p.Time)
		}
	}
}

func TestMergeEmptyInputs(t *testing.T) {
	assert.Empty(t, Merge(nil, nil))
	assert.Equal(t, []string{"a"}, ids(Merge(nil, []*model.Post{post("a", 1)})))
}

func TestReplace(t *testing.T) {
	posts := []*model.Post{post("a", 2), post("b", 1)}
	liked := &model.Post{ID: "b", Time: 1, Likes: []string{"me"}}

	out := Replace(posts, liked)

	assert.Same(t, liked, out[1])
	assert.Empty(t, posts[1].Likes)
}

func TestSortComments(t *testing.T) {
	comments := []*model.Comment{
		{ID: "1", Timestamp: 100},
		{ID: "2", Timestamp: 300},
		{ID: "3", Timestamp: 200},
	}

	SortComments(comments)

	assert.Equal(t, "2", comments[0].ID)
	assert.Equal(t, "3", comments[1].ID)
	assert.Equal(t, "1", comments[2].ID)
}

func TestSince(t *testing.T) {
	now := time.UnixMilli(100_000_000)
	assert.Equal(t, int64(100_000_000-24*60*60*1000), Since(now))
}
