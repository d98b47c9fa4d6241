package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"instaclone-backend/internal/util"

	"go.uber.org/zap"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id            VARCHAR(36)  NOT NULL PRIMARY KEY,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_accounts_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS users (
		id         VARCHAR(36)  NOT NULL PRIMARY KEY,
		name       VARCHAR(255) NOT NULL DEFAULT '',
		username   VARCHAR(64)  NOT NULL,
		bio        TEXT         NOT NULL,
		image_url  VARCHAR(1024) NOT NULL DEFAULT '',
		following  JSON         NOT NULL,
		created_at DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS posts (
		id               VARCHAR(36)   NOT NULL PRIMARY KEY,
		user_id          VARCHAR(36)   NOT NULL,
		username         VARCHAR(64)   NOT NULL DEFAULT '',
		user_image       VARCHAR(1024) NOT NULL DEFAULT '',
		post_image       VARCHAR(1024) NOT NULL,
		post_description TEXT          NOT NULL,
		time             BIGINT        NOT NULL,
		likes            JSON          NOT NULL,
		search_terms     JSON          NOT NULL,
		KEY idx_posts_user_id (user_id),
		KEY idx_posts_time (time)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS comments (
		id        VARCHAR(36) NOT NULL PRIMARY KEY,
		post_id   VARCHAR(36) NOT NULL,
		username  VARCHAR(64) NOT NULL,
		text      TEXT        NOT NULL,
		timestamp BIGINT      NOT NULL,
		KEY idx_comments_post_id (post_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the tables that do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	util.Logger.Info("database schema ready", zap.Int("tables", len(schema)))
	return nil
}
