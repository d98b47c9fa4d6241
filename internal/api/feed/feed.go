package feed

import (
	"instaclone-backend/internal/api"
	"instaclone-backend/internal/errors"
	"instaclone-backend/internal/service"
	"instaclone-backend/internal/session"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	feedService service.FeedServiceInterface
	sessions    *session.Manager
}

func NewFeedHandler(feedService service.FeedServiceInterface, sessions *session.Manager) *FeedHandler {
	return &FeedHandler{feedService, sessions}
}

func (h *FeedHandler) GetFeed(c *gin.Context) {
	posts, err := h.feedService.PersonalizedFeed(c.Request.Context(), api.UserID(c))
	if err != nil {
		api.Fail(c, h.sessions, err)
		return
	}
	errors.HandleSuccess(c, posts, "")
}
