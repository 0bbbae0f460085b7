package qrcode

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/prasetyowira/qrcodes/constant"
)

// Input carries the merchant-supplied fields for create and update.
type Input struct {
	Shop             string      `json:"shop"`
	Title            string      `json:"title" validate:"required"`
	ProductID        string      `json:"product_id" validate:"required"`
	ProductVariantID VariantGID  `json:"product_variant_id"`
	ProductHandle    string      `json:"product_handle"`
	Destination      Destination `json:"destination" validate:"required"`
}

// FieldErrors maps a field name to a human-readable error message.
type FieldErrors map[string]string

// ValidationError reports all violated fields together so the admin form can
// re-render every problem in one pass.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Use JSON tag names for field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var fieldMessages = map[string]string{
	"title":       constant.MsgTitleRequired,
	"product_id":  constant.MsgProductRequired,
	"destination": constant.MsgDestinationRequired,
}

// Validate checks the required fields. A nil result means the input is valid.
func (in *Input) Validate() *ValidationError {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	fields := FieldErrors{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			msg, ok := fieldMessages[fe.Field()]
			if !ok {
				msg = "Invalid value"
			}
			fields[fe.Field()] = msg
		}
	}

	return &ValidationError{Fields: fields}
}
