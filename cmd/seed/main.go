// Command seed fills the database with fake members, follows and posts.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"strings"
	"time"

	"instaclone-backend/config"
	"instaclone-backend/internal/model"
	"instaclone-backend/internal/repository/mysql"
	"instaclone-backend/internal/search"
	"instaclone-backend/internal/util"

	"github.com/brianvoe/gofakeit/v6"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const defaultPassword = "123456"

func main() {
	users := flag.Int("users", 20, "number of members to create")
	postsPerUser := flag.Int("posts", 5, "posts per member")
	follows := flag.Int("follows", 5, "accounts each member follows")
	flag.Parse()

	config.Init()
	cfg := config.AppConfig
	util.InitLogger(cfg.LogLevel)
	defer util.Logger.Sync()

	gofakeit.Seed(time.Now().UnixNano())

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		util.Logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	if err := mysql.EnsureSchema(ctx, db); err != nil {
		util.Logger.Fatal("failed to create schema", zap.Error(err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		util.Logger.Fatal("failed to hash password", zap.Error(err))
	}

	accounts := mysql.NewAccountRepository(db)
	userRepo := mysql.NewUserRepository(db)
	postRepo := mysql.NewPostRepository(db)

	members := make([]*model.User, 0, *users)
	for i := 0; i < *users; i++ {
		id := uuid.NewString()
		account := &model.Account{ID: id, Email: gofakeit.Email(), PasswordHash: string(hash)}
		user := &model.User{
			ID:        id,
			Name:      gofakeit.Name(),
			Username:  fakeUsername(),
			Bio:       gofakeit.Sentence(8),
			ImageURL:  gofakeit.ImageURL(200, 200),
			Following: []string{},
		}
		if err := accounts.Create(ctx, account, user); err != nil {
			util.Logger.Warn("skipping member", zap.String("email", account.Email), zap.Error(err))
			continue
		}
		members = append(members, user)
		util.Logger.Info("created member", zap.String("email", account.Email), zap.String("username", user.Username))
	}

	// Follow targets include members left by earlier runs.
	pool, err := userRepo.FindAll(ctx, 500)
	if err != nil {
		util.Logger.Fatal("failed to list members", zap.Error(err))
	}

	for _, u := range members {
		for _, target := range pick(pool, *follows, u.ID) {
			updated, err := userRepo.ToggleFollowing(ctx, u.ID, target.ID)
			if err != nil {
				util.Logger.Warn("failed to follow", zap.String("user_id", u.ID), zap.Error(err))
				continue
			}
			if updated != nil {
				u.Following = updated.Following
			}
		}
	}

	now := time.Now()
	created := 0
	for _, u := range members {
		for j := 0; j < *postsPerUser; j++ {
			description := gofakeit.Sentence(gofakeit.Number(3, 12)) + " #" + strings.ToLower(gofakeit.Noun())
			post := &model.Post{
				ID:          uuid.NewString(),
				UserID:      u.ID,
				Username:    u.Username,
				UserImage:   u.ImageURL,
				PostImage:   gofakeit.ImageURL(1080, 1080),
				Description: description,
				Time:        now.Add(-time.Duration(gofakeit.Number(0, 72*60)) * time.Minute).UnixMilli(),
				Likes:       likers(members),
				SearchTerms: search.Terms(description),
			}
			if err := postRepo.Create(ctx, post); err != nil {
				util.Logger.Warn("failed to create post", zap.Error(err))
				continue
			}
			created++
		}
	}

	util.Logger.Info("seeding finished",
		zap.Int("members", len(members)),
		zap.Int("posts", created),
		zap.String("password", defaultPassword))
}

func fakeUsername() string {
	name := strings.ToLower(gofakeit.Username())
	name = strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' || r == '.' {
			return r
		}
		return -1
	}, name)
	return fmt.Sprintf("%s%d", name, gofakeit.Number(10, 9999))
}

// pick returns up to n members other than self.
func pick(members []*model.User, n int, self string) []*model.User {
	order := indexes(len(members))
	gofakeit.ShuffleInts(order)
	out := make([]*model.User, 0, n)
	for _, i := range order {
		if len(out) == n {
			break
		}
		if members[i].ID != self {
			out = append(out, members[i])
		}
	}
	return out
}

func likers(members []*model.User) []string {
	likes := []string{}
	for _, m := range pick(members, gofakeit.Number(0, len(members)), "") {
		likes = append(likes, m.ID)
	}
	return likes
}

func indexes(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
