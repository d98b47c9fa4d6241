package post

import (
	"instaclone-backend/internal/api"
	"instaclone-backend/internal/errors"
	"instaclone-backend/internal/service"
	"instaclone-backend/internal/session"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postService service.PostServiceInterface
	sessions    *session.Manager
}

func NewPostHandler(postService service.PostServiceInterface, sessions *session.Manager) *PostHandler {
	return &PostHandler{postService, sessions}
}

// CreatePost expects a multipart form with an "image" file and a
// "description" field.
func (h *PostHandler) CreatePost(c *gin.Context) {
	image, file, err := api.ImageFromForm(c, "image")
	if err != nil {
		api.Fail(c, h.sessions, err)
		return
	}
	defer file.Close()

	post, err := h.postService.CreatePost(c.Request.Context(), api.UserID(c), image, c.PostForm("description"))
	if err != nil {
		api.Fail(c, h.sessions, err)
		return
	}
	errors.HandleCreated(c, post, "Post successfully created")
}

func (h *PostHandler) MyPosts(c *gin.Context) {
	posts, err := h.postService.RefreshPosts(c.Request.Context(), api.UserID(c))
	if err != nil {
		api.Fail(c, h.sessions, err)
		return
	}
	errors.HandleSuccess(c, posts, "")
}

func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.postService.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.Fail(c, h.sessions, err)
		return
	}
	errors.HandleSuccess(c, post, "")
}

func (h *PostHandler) SearchPosts(c *gin.Context) {
	posts, err := h.postService.SearchPosts(c.Request.Context(), api.UserID(c), c.Query("q"))
	if err != nil {
		api.Fail(c, h.sessions, err)
		return
	}
	errors.HandleSuccess(c, posts, "")
}

func (h *PostHandler) ToggleLike(c *gin.Context) {
	userID := api.UserID(c)
	post, err := h.postService.ToggleLike(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		api.Fail(c, h.sessions, err)
		return
	}
	errors.HandleSuccess(c, gin.H{
		"post":  post,
		"liked": post.LikedBy(userID),
	}, "")
}
