package user

import (
	"strings"

	"instaclone-backend/internal/api"
	"instaclone-backend/internal/errors"
	"instaclone-backend/internal/middleware"
	"instaclone-backend/internal/model"
	"instaclone-backend/internal/service"
	"instaclone-backend/internal/session"
	"instaclone-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const msgRequiredFields = "Please fill in all the required fields"

// AuthHandler serves sign-up, login and token endpoints.
type AuthHandler struct {
	userService service.UserServiceInterface
	feedService service.FeedServiceInterface
	sessions    *session.Manager
}

func NewAuthHandler(userService service.UserServiceInterface, feedService service.FeedServiceInterface,
	sessions *session.Manager) *AuthHandler {
	return &AuthHandler{userService, feedService, sessions}
}

type authResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var signUpData struct {
		Username string `json:"username" binding:"required,handle"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&signUpData); err != nil {
		util.Logger.Info("sign-up rejected, invalid request", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, msgRequiredFields, err))
		return
	}

	user, err := h.userService.SignUp(c.Request.Context(), signUpData.Username, signUpData.Email, signUpData.Password)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	h.issue(c, user, "Signed up")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var loginData struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&loginData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, msgRequiredFields, err))
		return
	}

	user, err := h.userService.Login(c.Request.Context(), loginData.Email, loginData.Password)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	h.issue(c, user, "Logged in")
}

// issue hands out a token for user and fills the new session.
func (h *AuthHandler) issue(c *gin.Context, user *model.User, message string) {
	token, err := util.GenerateToken(user.ID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "Cannot issue token", err))
		return
	}

	h.feedService.Warm(c.Request.Context(), user.ID)

	errors.HandleSuccess(c, authResponse{Token: token, User: user}, message)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	userID := api.UserID(c)
	token := c.GetString(middleware.ContextToken)
	if err := h.userService.Logout(c.Request.Context(), userID, token); err != nil {
		api.Fail(c, h.sessions, err)
		return
	}
	errors.HandleSuccess(c, nil, "Logged out")
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if tokenString == "" {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "Missing token"))
		return
	}

	newToken, err := util.RefreshToken(tokenString)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInvalidToken, "Cannot refresh token", err))
		return
	}

	errors.HandleSuccess(c, gin.H{"token": newToken}, "Token refreshed")
}
