package interfaces

import (
	"context"

	"instaclone-backend/internal/model"
)

// AccountRepository stores identity provider credentials.
type AccountRepository interface {
	// Create stores the account and its profile in one transaction, so a
	// rejected profile leaves no account behind. A taken username or email
	// fails with ErrDuplicateUsername or ErrDuplicateEmail.
	Create(ctx context.Context, account *model.Account, profile *model.User) error
	// FindByEmail returns nil, nil when no account matches.
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
}
