package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"instaclone-backend/internal/repository/interfaces"

	mysqldriver "github.com/go-sql-driver/mysql"
)

const errDuplicateEntry = 1062

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// withTx runs fn inside a transaction and commits when it returns nil.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// translateDuplicate maps a duplicate-entry error onto the sentinel of the
// violated unique key. Other errors are returned unchanged.
func translateDuplicate(err error) error {
	var myErr *mysqldriver.MySQLError
	if !errors.As(err, &myErr) || myErr.Number != errDuplicateEntry {
		return err
	}
	switch {
	case strings.Contains(myErr.Message, "uq_users_username"):
		return fmt.Errorf("%w: %v", interfaces.ErrDuplicateUsername, err)
	case strings.Contains(myErr.Message, "uq_accounts_email"):
		return fmt.Errorf("%w: %v", interfaces.ErrDuplicateEmail, err)
	}
	return err
}
