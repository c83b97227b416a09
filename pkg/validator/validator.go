package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	playground "github.com/go-playground/validator/v10"
)

// TagIndianMobile validates a 10-digit Indian mobile number.
const TagIndianMobile = "in_mobile"

var indianMobilePattern = regexp.MustCompile(`^[6-9][0-9]{9}$`)

// IsIndianMobile reports whether phone is a 10-digit mobile number starting with 6-9.
func IsIndianMobile(phone string) bool {
	return indianMobilePattern.MatchString(phone)
}

// Validator provides validation functionality
type Validator interface {
	Validate(interface{}) error
	ValidateField(field string, value interface{}, rules string) error
}

type validator struct {
	v *playground.Validate
}

func New() Validator {
	v := playground.New()
	register(v)
	return &validator{v: v}
}

func (v *validator) Validate(obj interface{}) error {
	if err := v.v.Struct(obj); err != nil {
		return translate(err)
	}
	return nil
}

func (v *validator) ValidateField(field string, value interface{}, rules string) error {
	if err := v.v.Var(value, rules); err != nil {
		var errs playground.ValidationErrors
		if ok := asValidationErrors(err, &errs); ok && len(errs) > 0 {
			return fmt.Errorf("%s %s", field, describe(errs[0]))
		}
		return fmt.Errorf("%s: %w", field, err)
	}
	return nil
}

// RegisterGinValidators installs the custom tags on gin's binding engine so
// request structs can use them in `binding` tags.
func RegisterGinValidators() error {
	v, ok := binding.Validator.Engine().(*playground.Validate)
	if !ok {
		return fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
	}
	register(v)
	return nil
}

func register(v *playground.Validate) {
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation(TagIndianMobile, func(fl playground.FieldLevel) bool {
		return IsIndianMobile(fl.Field().String())
	})

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

func translate(err error) error {
	var errs playground.ValidationErrors
	if !asValidationErrors(err, &errs) {
		return err
	}

	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, fmt.Sprintf("%s %s", e.Field(), describe(e)))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

func asValidationErrors(err error, target *playground.ValidationErrors) bool {
	errs, ok := err.(playground.ValidationErrors)
	if ok {
		*target = errs
	}
	return ok
}

func describe(e playground.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of %s", e.Param())
	case "datetime":
		return fmt.Sprintf("must match layout %s", e.Param())
	case TagIndianMobile:
		return "must be a 10-digit mobile number starting with 6-9"
	default:
		return fmt.Sprintf("failed %s validation", e.Tag())
	}
}

// Message renders a binding error as a single client-facing sentence.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return translate(err).Error()
}
