package comment

import (
	"instaclone-backend/internal/api"
	"instaclone-backend/internal/errors"
	"instaclone-backend/internal/service"
	"instaclone-backend/internal/session"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentServiceInterface
	sessions       *session.Manager
}

func NewCommentHandler(commentService service.CommentServiceInterface, sessions *session.Manager) *CommentHandler {
	return &CommentHandler{commentService, sessions}
}

func (h *CommentHandler) ListComments(c *gin.Context) {
	comments, err := h.commentService.GetComments(c.Request.Context(), api.UserID(c), c.Param("id"))
	if err != nil {
		api.Fail(c, h.sessions, err)
		return
	}
	errors.HandleSuccess(c, comments, "")
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	var commentData struct {
		Text string `json:"text" binding:"required,max=2200"`
	}
	if err := c.ShouldBindJSON(&commentData); err != nil {
		api.Fail(c, h.sessions, errors.Wrap(errors.ErrValidation, "Please fill in all the required fields", err))
		return
	}

	comments, err := h.commentService.CreateComment(c.Request.Context(), api.UserID(c), c.Param("id"), commentData.Text)
	if err != nil {
		api.Fail(c, h.sessions, err)
		return
	}
	errors.HandleCreated(c, comments, "")
}
