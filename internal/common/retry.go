package common

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"time"
)

// IsTemporary reports whether err says it may go away on its own.
func IsTemporary(err error) bool {
	var temp interface{ Temporary() bool }
	if errors.As(err, &temp) {
		return temp.Temporary()
	}
	return false
}

// IsRetryable reports whether an operation failing with err is worth
// repeating. Connection errors are, since the database may still be booting.
func IsRetryable(err error) bool {
	var netErr net.Error
	return IsTemporary(err) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.As(err, &netErr)
}

// WithRetry runs operation up to maxRetries times with a linearly growing
// pause, giving up early on non-retryable errors or a done context.
func WithRetry(ctx context.Context, operation func() error, maxRetries int, pause time.Duration) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		if err = operation(); err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pause * time.Duration(i+1)):
		}
	}
	return err
}
