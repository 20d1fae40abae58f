package dto

import (
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterValidators teaches v about decimal.Decimal fields and adds the
// decimal_positive and decimal_nonzero tags used by the request types.
func RegisterValidators(v *validator.Validate) error {
	// Validate decimals through their string form so field tags apply to them.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation("decimal_positive", decimalPositive); err != nil {
		return fmt.Errorf("failed to register decimal_positive: %w", err)
	}
	if err := v.RegisterValidation("decimal_nonzero", decimalNonZero); err != nil {
		return fmt.Errorf("failed to register decimal_nonzero: %w", err)
	}
	return nil
}

func decimalPositive(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && d.IsPositive()
}

func decimalNonZero(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && !d.IsZero()
}
