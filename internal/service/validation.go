package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate = newValidator()
	slugRe   = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their form names so errors line up with the template inputs.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRe.MatchString(fl.Field().String())
	})
	return v
}

var tagMessages = map[string]string{
	"required": "This field is required.",
	"email":    "Enter a valid email address.",
	"alphanum": "Enter a valid username. This value may contain only letters and numbers.",
	"slug":     "Enter a valid slug consisting of letters, numbers, underscores or hyphens.",
	"eqfield":  "The two password fields didn't match.",
}

// validateForm runs the struct's validate tags and converts failures into
// FormErrors keyed by the form field name.
func validateForm(form any) FormErrors {
	errs := FormErrors{}
	err := validate.Struct(form)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add("", err.Error())
		return errs
	}
	for _, fe := range verrs {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

func message(fe validator.FieldError) string {
	if msg, ok := tagMessages[fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	}
	return "Enter a valid value."
}
