package mysql

import (
	"context"
	"database/sql"

	"instaclone-backend/internal/model"
	"instaclone-backend/internal/util"

	"go.uber.org/zap"
)

type commentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *commentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (id, post_id, username, text, timestamp) VALUES (?, ?, ?, ?, ?)`,
		comment.ID, comment.PostID, comment.Username, comment.Text, comment.Timestamp)
	if err != nil {
		util.Logger.Error("failed to create comment", zap.Error(err),
			zap.String("comment_id", comment.ID), zap.String("post_id", comment.PostID))
		return err
	}
	return nil
}

func (r *commentRepository) FindByPostID(ctx context.Context, postID string) ([]*model.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, post_id, username, text, timestamp FROM comments WHERE post_id = ?`, postID)
	if err != nil {
		util.Logger.Error("failed to query comments", zap.Error(err), zap.String("post_id", postID))
		return nil, err
	}
	defer rows.Close()

	comments := []*model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.Username, &c.Text, &c.Timestamp); err != nil {
			util.Logger.Error("failed to scan comment", zap.Error(err), zap.String("post_id", postID))
			return nil, err
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}
