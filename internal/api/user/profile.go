package user

import (
	"instaclone-backend/internal/api"
	"instaclone-backend/internal/errors"
	"instaclone-backend/internal/service"
	"instaclone-backend/internal/session"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	userService service.UserServiceInterface
	sessions    *session.Manager
}

func NewProfileHandler(userService service.UserServiceInterface, sessions *session.Manager) *ProfileHandler {
	return &ProfileHandler{userService, sessions}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	user, err := h.userService.GetProfile(c.Request.Context(), api.UserID(c))
	if err != nil {
		api.Fail(c, h.sessions, err)
		return
	}
	errors.HandleSuccess(c, user, "")
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var updateData struct {
		Name     string `json:"name" binding:"max=100"`
		Username string `json:"username" binding:"omitempty,handle"`
		Bio      string `json:"bio" binding:"max=500"`
	}

	if err := c.ShouldBindJSON(&updateData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid profile data", err))
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), api.UserID(c),
		updateData.Name, updateData.Username, updateData.Bio)
	if err != nil {
		api.Fail(c, h.sessions, err)
		return
	}
	errors.HandleSuccess(c, user, "Profile updated")
}

func (h *ProfileHandler) UploadProfileImage(c *gin.Context) {
	image, file, err := api.ImageFromForm(c, "image")
	if err != nil {
		api.Fail(c, h.sessions, err)
		return
	}
	defer file.Close()

	user, err := h.userService.UploadProfileImage(c.Request.Context(), api.UserID(c), image)
	if err != nil {
		api.Fail(c, h.sessions, err)
		return
	}
	errors.HandleSuccess(c, user, "Profile image updated")
}

func (h *ProfileHandler) ToggleFollow(c *gin.Context) {
	user, err := h.userService.ToggleFollow(c.Request.Context(), api.UserID(c), c.Param("id"))
	if err != nil {
		api.Fail(c, h.sessions, err)
		return
	}
	errors.HandleSuccess(c, gin.H{
		"user":      user,
		"following": user.IsFollowing(c.Param("id")),
	}, "")
}

func (h *ProfileHandler) Followers(c *gin.Context) {
	users, err := h.userService.Followers(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.Fail(c, h.sessions, err)
		return
	}
	errors.HandleSuccess(c, users, "")
}
