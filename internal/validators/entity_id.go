package validators

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// IsEntityID reports whether s is a canonical UUID string.
func IsEntityID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// RegisterBindings adds the `entityid` tag to gin's binding validator.
func RegisterBindings() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("validators: unexpected binding engine")
	}

	return v.RegisterValidation("entityid", func(fl validator.FieldLevel) bool {
		return IsEntityID(fl.Field().String())
	})
}
