package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// Fields are reported under their form or JSON name, so "password_hint"
// reads as "Password hint".
func NewValidator() *echoValidator {
	v := validator.New()
	v.RegisterTagNameFunc(fieldLabel)
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. Every failing field adds
// one sentence to the returned message.
func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	var b strings.Builder
	for n, fe := range ve {
		if n > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(sentence(fe))
	}
	return errors.New(b.String())
}

func fieldLabel(f reflect.StructField) string {
	name := f.Name
	for _, tag := range []string{"form", "json"} {
		if v, _, _ := strings.Cut(f.Tag.Get(tag), ","); v != "" && v != "-" {
			name = v
			break
		}
	}
	name = strings.ReplaceAll(name, "_", " ")
	return strings.ToUpper(name[:1]) + name[1:]
}

func sentence(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "email":
		return label + " must be a valid email address."
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s may not be longer than %s characters.", label, fe.Param())
	}
	return label + " is invalid."
}
