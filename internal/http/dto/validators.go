package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	phonePattern = regexp.MustCompile(`^[\d\s\-+()]+$`)
	registerOnce sync.Once
	registerErr  error
)

// Text is a JSON string trimmed of surrounding whitespace when decoded.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*t = Text(strings.TrimSpace(s))
	return nil
}

func (t Text) String() string {
	return string(t)
}

func optionalText(t *Text) *string {
	if t == nil {
		return nil
	}
	s := string(*t)
	return &s
}

func textSlice(in []Text) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		out = append(out, string(t))
	}
	return out
}

// RegisterValidators installs the custom tags on gin's validator engine.
// Field errors are reported under their JSON names.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		if err := v.RegisterValidation("strongpassword", strongPassword); err != nil {
			registerErr = fmt.Errorf("registering strongpassword: %w", err)
			return
		}
		if err := v.RegisterValidation("phone", phone); err != nil {
			registerErr = fmt.Errorf("registering phone: %w", err)
		}
	})
	return registerErr
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// strongPassword requires at least one lowercase letter, one uppercase letter and one digit.
func strongPassword(fl validator.FieldLevel) bool {
	var lower, upper, digit bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

func phone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

var tagMessages = map[string]string{
	"required":       "is required",
	"email":          "must be a valid email address",
	"url":            "must be a valid URL",
	"phone":          "must be a valid phone number",
	"strongpassword": "must contain at least one uppercase letter, one lowercase letter, and one number",
	"oneof":          "must be one of",
}

// ValidationMessages flattens binding errors into one message per failing field.
func ValidationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fieldMessage(fe))
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s item(s)", field, fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	}
	if msg, ok := tagMessages[fe.Tag()]; ok {
		return field + " " + msg
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
