package mysql

import (
	"context"
	"database/sql"
	"errors"

	"instaclone-backend/internal/model"
	"instaclone-backend/internal/util"

	"go.uber.org/zap"
)

type accountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *accountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *model.Account, profile *model.User) error {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO accounts (id, email, password_hash) VALUES (?, ?, ?)`,
			account.ID, account.Email, account.PasswordHash); err != nil {
			return translateDuplicate(err)
		}
		return insertUser(ctx, tx, profile)
	})
	if err != nil {
		util.Logger.Error("failed to create account", zap.Error(err), zap.String("account_id", account.ID))
		return err
	}
	util.Logger.Info("account created", zap.String("account_id", account.ID))
	return nil
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM accounts WHERE email = ?`, email,
	).Scan(&account.ID, &account.Email, &account.PasswordHash, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		util.Logger.Error("failed to find account", zap.Error(err))
		return nil, err
	}
	return &account, nil
}
