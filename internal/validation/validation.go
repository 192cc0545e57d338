// Package validation checks request payloads before they reach a store.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
	rulesMu  sync.Mutex
	pending  = map[string]validator.Func{}
)

// FieldError describes one violated constraint.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// Error is a rejected payload. Handlers answer it with 400 and the field details.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// New returns an Error for a single field, for rules checked outside struct tags.
func New(field, rule, message string) *Error {
	return &Error{Fields: []FieldError{{Field: field, Rule: rule, Message: message}}}
}

// Newf is New with a formatted message.
func Newf(field, rule, format string, args ...any) *Error {
	return New(field, rule, fmt.Sprintf(format, args...))
}

// IsValidationError reports whether err is, or wraps, an *Error.
func IsValidationError(err error) bool {
	var verr *Error
	return errors.As(err, &verr)
}

// RegisterRule adds a string rule usable in validate tags. Must be called before first use,
// typically from an init function.
func RegisterRule(tag string, ok func(string) bool) {
	rulesMu.Lock()
	defer rulesMu.Unlock()
	pending[tag] = func(fl validator.FieldLevel) bool {
		return ok(fl.Field().String())
	}
	if validate != nil {
		_ = validate.RegisterValidation(tag, pending[tag])
	}
}

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		rulesMu.Lock()
		for tag, fn := range pending {
			_ = v.RegisterValidation(tag, fn)
		}
		validate = v
		rulesMu.Unlock()
	})
	return validate
}

// Struct validates s against its validate tags. It returns nil or an *Error.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fieldPath(fe),
			Rule:    fe.Tag(),
			Param:   fe.Param(),
			Message: message(fe),
		})
	}
	return out
}

// fieldPath drops the top-level struct name from the namespace: CreateRequest.items[0].price -> items[0].price.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "ne":
		return fmt.Sprintf("%s must not be %s", field, fe.Param())
	case "currency":
		return fmt.Sprintf("%s is not a supported currency", field)
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
