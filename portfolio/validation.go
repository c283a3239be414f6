package portfolio

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput is returned before any request is sent when an input fails validation.
var ErrInvalidInput = errors.New("invalid input")

const (
	slugRegex     = `^[a-z0-9]+(?:-[a-z0-9]+)*$`
	slugMaxLength = 255
)

var slugPattern = regexp.MustCompile(slugRegex)

// slugValidator checks an article slug: lower case words joined by single dashes.
func slugValidator(fl validator.FieldLevel) bool {
	slug := fl.Field().String()
	return len(slug) <= slugMaxLength && slugPattern.MatchString(slug)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("slug", slugValidator)
	// Report JSON field names, which is what the API and its users see.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (c *Client) validateInput(kind string, input any) error {
	err := c.validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("%w: %s: %w", ErrInvalidInput, kind, err)
	}
	problems := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		problems = append(problems, fieldProblem(fe))
	}
	return fmt.Errorf("%w: %s: %s", ErrInvalidInput, kind, strings.Join(problems, "; "))
}

func fieldProblem(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "url":
		return fe.Field() + " must be a URL"
	case "email":
		return fe.Field() + " must be an email address"
	case "slug":
		return fe.Field() + " must be lower case words separated by dashes"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}
