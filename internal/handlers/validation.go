package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/SscSPs/disbursement_app/internal/apperrors"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var registerValidatorsOnce sync.Once

// RegisterValidators teaches gin's validator about decimal amounts and makes field
// errors report the wire name of the field. Safe to call more than once.
func RegisterValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(wireName)
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.InexactFloat64()
			}
			return nil
		}, decimal.Decimal{})
	})
}

func wireName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return fld.Name
}

// fieldKey turns "CreateDisbursementRequest.accounts[0].amount" into "accounts.0.amount".
func fieldKey(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		namespace = namespace[i+1:]
	}
	namespace = strings.ReplaceAll(namespace, "[", ".")
	return strings.ReplaceAll(namespace, "]", "")
}

func fieldMessage(fe validator.FieldError) string {
	name := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", name)
	case "max":
		return fmt.Sprintf("The %s field may not be greater than %s.", name, fe.Param())
	case "min":
		return fmt.Sprintf("The %s field must be at least %s.", name, fe.Param())
	case "gt":
		return fmt.Sprintf("The %s field must be greater than %s.", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("The %s field must be one of: %s.", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "datetime":
		return fmt.Sprintf("The %s field must match the format %s.", name, "YYYY-MM-DD")
	default:
		return fmt.Sprintf("The %s field is invalid.", name)
	}
}

// bindingError converts a gin binding failure into a ValidationError. A ValidationError
// raised while binding is returned as is.
func bindingError(err error) error {
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		return verr
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		verr := &apperrors.ValidationError{}
		for _, fe := range ves {
			verr.Add(fieldKey(fe.Namespace()), fieldMessage(fe))
		}
		return verr
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return apperrors.NewValidationError(typeErr.Field, fmt.Sprintf("The %s field has an invalid type.", typeErr.Field))
	case errors.As(err, &syntaxErr):
		return apperrors.NewValidationError("body", "The request body is not valid JSON.")
	}
	return apperrors.NewValidationError("body", err.Error())
}
