package util

import (
	"path"

	"github.com/google/uuid"
)

// ImageKey returns a fresh blob key under images/.
func ImageKey() string {
	return path.Join("images", uuid.NewString())
}
