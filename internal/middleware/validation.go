package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/volunteerhub/internal/pkg/validation"
)

// RegisterValidators adds the custom binding rules to gin's validator engine
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return validation.RegisterCustomRules(v)
}

// ValidateRequest binds the JSON body into a fresh T, running the binding tags. The bound
// value is stored under "validatedBody".
func ValidateRequest[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		obj := new(T)
		if err := c.ShouldBindJSON(obj); err != nil {
			HandleBindError(c, err)
			return
		}
		c.Set("validatedBody", obj)
		c.Next()
	}
}

// ValidatedBody returns the value stored by ValidateRequest
func ValidatedBody[T any](c *gin.Context) (*T, bool) {
	v, ok := c.Get("validatedBody")
	if !ok {
		return nil, false
	}
	obj, ok := v.(*T)
	return obj, ok
}
