package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"mindgraph/internal/apperr"
)

// Request is the input of one text-to-mindmap run. Text must hold at least ten
// characters once surrounding whitespace is trimmed.
type Request struct {
	Text  string `json:"text" validate:"required,mintrim=10,max=100000"`
	Title string `json:"title,omitempty" validate:"max=200"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("mintrim", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(strings.TrimSpace(fl.Field().String())) >= n
	})
	return v
}

// Validate rejects requests the pipeline must not run on.
func (r Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return apperr.InvalidInput(formatValidationError(err))
	}
	return nil
}

func formatValidationError(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, formatFieldError(e))
	}
	return strings.Join(msgs, "; ")
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "mintrim":
		return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
