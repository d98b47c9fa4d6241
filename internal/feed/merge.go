// Package feed merges post batches into cached, time-ordered lists.
package feed

import (
	"sort"
	"time"

	"instaclone-backend/internal/model"
)

// Window is how far back the general feed looks.
const Window = 24 * time.Hour

// Merge folds incoming into existing: a post whose ID is already present
// replaces it in place, any other post is appended. The result is sorted by
// Time, newest first. Neither input slice is modified.
func Merge(existing, incoming []*model.Post) []*model.Post {
	merged := make([]*model.Post, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	index := make(map[string]int, len(merged))
	for i, p := range merged {
		if _, seen := index[p.ID]; !seen {
			index[p.ID] = i
		}
	}

	for _, p := range incoming {
		if i, ok := index[p.ID]; ok {
			merged[i] = p
			continue
		}
		index[p.ID] = len(merged)
		merged = append(merged, p)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Time > merged[j].Time
	})
	return merged
}

// Replace swaps every cached copy of p for p, leaving order untouched.
func Replace(posts []*model.Post, p *model.Post) []*model.Post {
	out := make([]*model.Post, len(posts))
	for i, cur := range posts {
		if cur.ID == p.ID {
			out[i] = p
		} else {
			out[i] = cur
		}
	}
	return out
}

// SortComments orders comments newest first.
func SortComments(comments []*model.Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].Timestamp > comments[j].Timestamp
	})
}

// Since returns the lower bound, in unix milliseconds, of the general feed.
func Since(now time.Time) int64 {
	return now.Add(-Window).UnixMilli()
}
