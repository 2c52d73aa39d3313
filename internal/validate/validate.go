package validate

import (
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	once     sync.Once
	validate *validator.Validate
)

const TagMoney = "money"

// New returns the shared validator. decimal.Decimal fields are validated as
// float64 so numeric tags like gt and gte apply to prices and totals.
func New() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		_ = validate.RegisterValidation(TagMoney, money)
	})
	return validate
}

// money accepts amounts with at most two decimal places, the precision
// prices are stored with.
func money(fl validator.FieldLevel) bool {
	var amount decimal.Decimal
	field := fl.Field()
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		amount = decimal.NewFromFloat(field.Float())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
	return amount.Equal(amount.Round(2))
}

func decimalValue(v reflect.Value) interface{} {
	d, ok := v.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	f, _ := d.Float64()
	return f
}
