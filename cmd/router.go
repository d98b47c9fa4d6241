package main

import (
	"net/http"
	"strings"

	"instaclone-backend/config"
	"instaclone-backend/internal/api/comment"
	"instaclone-backend/internal/api/feed"
	"instaclone-backend/internal/api/post"
	sessionapi "instaclone-backend/internal/api/session"
	"instaclone-backend/internal/api/user"
	"instaclone-backend/internal/middleware"
	"instaclone-backend/internal/service"
	"instaclone-backend/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type routerDeps struct {
	users    *service.UserService
	posts    *service.PostService
	feeds    *service.FeedService
	comments *service.CommentService
	sessions *session.Manager
}

func newRouter(cfg config.Config, d routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.NewHTTPMetrics(prometheus.DefaultRegisterer).Middleware())
	r.Use(middleware.ErrorMonitorMiddleware(middleware.NewErrorMonitor(prometheus.DefaultRegisterer)))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.ExposeHeaders = []string{"Content-Length", "Content-Type"}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.StorageDriver == "" || cfg.StorageDriver == "local" {
		r.Use(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/uploads/") {
				c.Header("Access-Control-Allow-Origin", cfg.FrontendURL)
			}
			c.Next()
		})
		r.Static("/uploads", cfg.LocalStoragePath)
	}

	authHandler := user.NewAuthHandler(d.users, d.feeds, d.sessions)
	profileHandler := user.NewProfileHandler(d.users, d.sessions)
	postHandler := post.NewPostHandler(d.posts, d.sessions)
	feedHandler := feed.NewFeedHandler(d.feeds, d.sessions)
	commentHandler := comment.NewCommentHandler(d.comments, d.sessions)
	sessionHandler := sessionapi.NewSessionHandler(d.sessions)

	api := r.Group("/api")
	{
		api.POST("/signup", authHandler.SignUp)
		api.POST("/login", authHandler.Login)

		authorized := api.Group("/")
		authorized.Use(middleware.AuthMiddleware(d.users))
		{
			authorized.POST("/logout", authHandler.Logout)
			authorized.POST("/refresh-token", authHandler.RefreshToken)

			authorized.GET("/profile", profileHandler.GetProfile)
			authorized.PUT("/profile", profileHandler.UpdateProfile)
			authorized.POST("/profile/image", profileHandler.UploadProfileImage)
			authorized.POST("/users/:id/follow", profileHandler.ToggleFollow)
			authorized.GET("/users/:id/followers", profileHandler.Followers)

			authorized.GET("/posts/mine", postHandler.MyPosts)
			authorized.POST("/posts", postHandler.CreatePost)
			authorized.GET("/posts/search", postHandler.SearchPosts)
			authorized.GET("/posts/:id", postHandler.GetPost)
			authorized.POST("/posts/:id/like", postHandler.ToggleLike)
			authorized.GET("/posts/:id/comments", commentHandler.ListComments)
			authorized.POST("/posts/:id/comments", commentHandler.CreateComment)

			authorized.GET("/feed", feedHandler.GetFeed)

			authorized.GET("/session", sessionHandler.GetSession)
			authorized.GET("/session/notification", sessionHandler.TakeNotification)
		}
	}

	return r
}
