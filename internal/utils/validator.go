package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"foodgram/domain"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func InitValidator() {
	if Validate != nil {
		return
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	Validate = v
}

var namespacePattern = regexp.MustCompile(`^([^\[\.]+)(?:\[(\d+)\])?(?:\.(.+))?$`)

// ValidateStruct runs the struct tags of s and converts failures into a
// *domain.ValidationError naming each field and, for collections, the row.
func ValidateStruct(s any) error {
	InitValidator()
	return TranslateValidation(Validate.Struct(s))
}

// TranslateValidation converts the result of validator.Struct into the
// domain error taxonomy. A nil error stays nil.
func TranslateValidation(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	out := &domain.ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, toFieldError(fe))
	}
	return out
}

func toFieldError(fe validator.FieldError) domain.FieldError {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	f := domain.FieldError{Field: ns, Index: -1, Message: message(fe)}
	if m := namespacePattern.FindStringSubmatch(ns); m != nil {
		f.Field = m[1]
		if m[2] != "" {
			f.Index, _ = strconv.Atoi(m[2])
		}
		f.Name = m[3]
	}
	return f
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		switch fe.Kind() {
		case reflect.Slice, reflect.Map:
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		case reflect.String:
			return fmt.Sprintf("must be at least %s characters long", fe.Param())
		default:
			return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
		}
	case "max":
		switch fe.Kind() {
		case reflect.Slice, reflect.Map:
			return fmt.Sprintf("must contain at most %s item(s)", fe.Param())
		case reflect.String:
			return fmt.Sprintf("must be at most %s characters long", fe.Param())
		default:
			return fmt.Sprintf("must be less than or equal to %s", fe.Param())
		}
	case "uuid":
		return "must be a valid UUID"
	case "email":
		return "must be a valid email address"
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}
