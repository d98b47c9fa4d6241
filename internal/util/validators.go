package util

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var handlePattern = regexp.MustCompile(`^[A-Za-z0-9._]{1,30}$`)

// ValidateHandle accepts usernames made of letters, digits, dots and
// underscores, at most 30 characters long.
func ValidateHandle(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return handlePattern.MatchString(s)
}

// RegisterValidators installs the custom binding tags on gin's validator.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("handle", ValidateHandle)
	}
}
