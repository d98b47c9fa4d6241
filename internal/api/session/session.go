package session

import (
	"instaclone-backend/internal/api"
	"instaclone-backend/internal/errors"
	"instaclone-backend/internal/session"

	"github.com/gin-gonic/gin"
)

// SessionHandler exposes the cached view state of the signed-in user.
type SessionHandler struct {
	sessions *session.Manager
}

func NewSessionHandler(sessions *session.Manager) *SessionHandler {
	return &SessionHandler{sessions}
}

// GetSession returns the progress flags and cached lists. It never consumes
// the pending notification.
func (h *SessionHandler) GetSession(c *gin.Context) {
	st, err := h.sessions.Load(c.Request.Context(), api.UserID(c))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "Cannot load session", err))
		return
	}
	errors.HandleSuccess(c, st.Snapshot(), "")
}

// TakeNotification hands out the pending popup message at most once.
func (h *SessionHandler) TakeNotification(c *gin.Context) {
	msg, ok, err := h.sessions.TakeNotification(c.Request.Context(), api.UserID(c))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "Cannot load session", err))
		return
	}
	errors.HandleSuccess(c, gin.H{
		"pending": ok,
		"message": msg,
	}, "")
}
