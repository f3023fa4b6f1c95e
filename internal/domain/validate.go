package domain

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"

	"charter_sync/internal/normalize"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("multilingual", func(fl validator.FieldLevel) bool {
			m, ok := fl.Field().Interface().(MultilingualText)
			return ok && m[normalize.EnglishKey] != ""
		})
		v.RegisterStructValidation(func(sl validator.StructLevel) {
			r := sl.Current().Interface().(Reservation)
			if r.PeriodFrom != nil && r.PeriodTo != nil && r.PeriodFrom.After(*r.PeriodTo) {
				sl.ReportError(r.PeriodTo, "PeriodTo", "periodTo", "gtefrom", "")
			}
		}, Reservation{})
		v.RegisterStructValidation(func(sl validator.StructLevel) {
			j := sl.Current().Interface().(Journey)
			if j.PeriodFrom != nil && j.PeriodTo != nil && j.PeriodFrom.After(*j.PeriodTo) {
				sl.ReportError(j.PeriodTo, "PeriodTo", "periodTo", "gtefrom", "")
			}
		}, Journey{})
		validate = v
	})
	return validate
}

// Validate checks an entity against its record schema. Failures wrap
// ErrValidation.
func Validate(v any) error {
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Ptr && rv.IsNil() {
		return fmt.Errorf("%w: nil record", ErrValidation)
	}
	if err := validatorInstance().Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
