// Package api holds the helpers shared by the HTTP handlers.
package api

import (
	"fmt"
	"mime/multipart"

	"instaclone-backend/internal/errors"
	"instaclone-backend/internal/middleware"
	"instaclone-backend/internal/session"
	"instaclone-backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// MaxImageSize caps multipart image uploads.
const MaxImageSize = 10 << 20

// UserID is the authenticated user of the request.
func UserID(c *gin.Context) string {
	return c.GetString(middleware.ContextUserID)
}

// Fail turns err into the user's popup and writes the error response.
func Fail(c *gin.Context, sessions *session.Manager, err error) {
	if sessions != nil {
		sessions.Fail(c.Request.Context(), UserID(c), err, "")
	}
	errors.HandleError(c, err)
}

// ImageFromForm opens the multipart file in field. The caller closes the
// returned file.
func ImageFromForm(c *gin.Context, field string) (storage.Object, multipart.File, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return storage.Object{}, nil, errors.Wrap(errors.ErrBadRequest, "Please select an image", err)
	}
	if header.Size > MaxImageSize {
		return storage.Object{}, nil, errors.New(errors.ErrValidation,
			fmt.Sprintf("Image is larger than %d MB", MaxImageSize>>20))
	}

	f, err := header.Open()
	if err != nil {
		return storage.Object{}, nil, errors.Wrap(errors.ErrBadRequest, "Cannot read image", err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return storage.Object{Body: f, Size: header.Size, ContentType: contentType}, f, nil
}
