package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var alphaSpace = regexp.MustCompile(`^[a-zA-Z\s]+$`)

// v is the package-level singleton validator. Custom rules are registered in
// init() before the first call to Struct.
var v = validator.New()

func init() {
	_ = v.RegisterValidation("alphaspace", func(fl validator.FieldLevel) bool {
		return alphaSpace.MatchString(fl.Field().String())
	})
}

// Struct validates the given struct using its validate tags.
// Returns a human-readable error string or nil.
func Struct(s interface{}) error {
	if err := v.Struct(s); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		var msgs []string
		for _, fe := range ve {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}

// Var validates a single value against a tag expression such as "required,email".
func Var(field interface{}, tag string) error {
	return v.Var(field, tag)
}
