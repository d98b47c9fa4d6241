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

const postColumns = `id, user_id, username, user_image, post_image, post_description, time, likes, search_terms`

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *postRepository {
	return &postRepository{db: db}
}

func scanPost(row rowScanner) (*model.Post, error) {
	var (
		post         model.Post
		likes, terms []byte
	)
	if err := row.Scan(&post.ID, &post.UserID, &post.Username, &post.UserImage, &post.PostImage,
		&post.Description, &post.Time, &likes, &terms); err != nil {
		return nil, err
	}
	var err error
	if post.Likes, err = decodeList(likes); err != nil {
		return nil, fmt.Errorf("decode likes of post %s: %w", post.ID, err)
	}
	if post.SearchTerms, err = decodeList(terms); err != nil {
		return nil, fmt.Errorf("decode search terms of post %s: %w", post.ID, err)
	}
	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	likes, err := encodeList(post.Likes)
	if err != nil {
		return err
	}
	terms, err := encodeList(post.SearchTerms)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO posts (`+postColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID, post.UserID, post.Username, post.UserImage, post.PostImage,
		post.Description, post.Time, likes, terms)
	if err != nil {
		util.Logger.Error("failed to create post", zap.Error(err), zap.String("post_id", post.ID))
		return err
	}
	util.Logger.Info("post created", zap.String("post_id", post.ID), zap.String("user_id", post.UserID))
	return nil
}

func (r *postRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	post, err := scanPost(r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return post, err
}

func (r *postRepository) FindByUserID(ctx context.Context, userID string) ([]*model.Post, error) {
	return r.query(ctx, `SELECT `+postColumns+` FROM posts WHERE user_id = ?`, userID)
}

func (r *postRepository) FindByUserIDs(ctx context.Context, userIDs []string) ([]*model.Post, error) {
	if len(userIDs) == 0 {
		return []*model.Post{}, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM posts WHERE user_id IN (%s)`, postColumns, placeholders(len(userIDs)))
	return r.query(ctx, query, stringArgs(userIDs)...)
}

func (r *postRepository) FindSince(ctx context.Context, sinceMillis int64) ([]*model.Post, error) {
	return r.query(ctx, `SELECT `+postColumns+` FROM posts WHERE time > ?`, sinceMillis)
}

func (r *postRepository) FindByTerm(ctx context.Context, term string) ([]*model.Post, error) {
	return r.query(ctx,
		`SELECT `+postColumns+` FROM posts WHERE JSON_CONTAINS(search_terms, JSON_QUOTE(?))`, term)
}

func (r *postRepository) ToggleLike(ctx context.Context, id, userID string) (*model.Post, error) {
	var post *model.Post
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		locked, err := scanPost(tx.QueryRowContext(ctx,
			`SELECT `+postColumns+` FROM posts WHERE id = ? FOR UPDATE`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		locked.ToggleLike(userID)
		likes, err := encodeList(locked.Likes)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE posts SET likes = ? WHERE id = ?`, likes, id); err != nil {
			return err
		}
		post = locked
		return nil
	})
	if err != nil {
		util.Logger.Error("failed to toggle like", zap.Error(err),
			zap.String("post_id", id), zap.String("user_id", userID))
		return nil, err
	}
	return post, nil
}

func (r *postRepository) UpdateUserImage(ctx context.Context, ids []string, imageURL string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE posts SET user_image = ? WHERE id = ?`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, imageURL, id); err != nil {
			util.Logger.Error("failed to update post user image", zap.Error(err), zap.String("post_id", id))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	util.Logger.Info("post user images updated", zap.Int("posts", len(ids)))
	return nil
}

func (r *postRepository) query(ctx context.Context, query string, args ...interface{}) ([]*model.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []*model.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}
