package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"instaclone-backend/internal/model"
	"instaclone-backend/internal/util"

	"go.uber.org/zap"
)

const userColumns = `id, name, username, bio, image_url, following, created_at, updated_at`

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		user      model.User
		following []byte
	)
	if err := row.Scan(&user.ID, &user.Name, &user.Username, &user.Bio, &user.ImageURL,
		&following, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, err
	}
	list, err := decodeList(following)
	if err != nil {
		return nil, fmt.Errorf("decode following of user %s: %w", user.ID, err)
	}
	user.Following = list
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return insertUser(ctx, r.db, user)
}

func insertUser(ctx context.Context, db execer, user *model.User) error {
	following, err := encodeList(user.Following)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO users (id, name, username, bio, image_url, following) VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Username, user.Bio, user.ImageURL, following)
	if err != nil {
		util.Logger.Error("failed to create user", zap.Error(err), zap.String("user_id", user.ID))
		return translateDuplicate(err)
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ? LIMIT 1`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET name = ?, username = ?, bio = ?, image_url = ?
		WHERE id = ?`,
		user.Name, user.Username, user.Bio, user.ImageURL, user.ID)
	if err != nil {
		util.Logger.Error("failed to update user", zap.Error(err), zap.String("user_id", user.ID))
		return translateDuplicate(err)
	}
	return nil
}

func (r *userRepository) ToggleFollowing(ctx context.Context, id, targetID string) (*model.User, error) {
	var user *model.User
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		locked, err := scanUser(tx.QueryRowContext(ctx,
			`SELECT `+userColumns+` FROM users WHERE id = ? FOR UPDATE`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		locked.ToggleFollow(targetID)
		following, err := encodeList(locked.Following)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE users SET following = ? WHERE id = ?`, following, id); err != nil {
			return err
		}
		user = locked
		return nil
	})
	if err != nil {
		util.Logger.Error("failed to toggle following", zap.Error(err),
			zap.String("user_id", id), zap.String("target_id", targetID))
		return nil, err
	}
	return user, nil
}

func (r *userRepository) FindFollowers(ctx context.Context, id string) ([]*model.User, error) {
	return r.query(ctx,
		`SELECT `+userColumns+` FROM users WHERE JSON_CONTAINS(following, JSON_QUOTE(?))`, id)
}

func (r *userRepository) FindAll(ctx context.Context, limit int) ([]*model.User, error) {
	return r.query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT ?`, limit)
}

func (r *userRepository) query(ctx context.Context, query string, args ...interface{}) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
