package http

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator adapts go-playground/validator to echo
type Validator struct {
	validator *validator.Validate
}

// NewValidator reports fields by their JSON names
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validator: v}
}

// Validate validates structs
func (v *Validator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}
