package validator

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

var customs = map[string]validator.Func{
	"comparator": Comparator,
}

var messages = map[string]string{
	"comparator": "{0} must be one of != > >= < <= =",
}

var comparators = map[string]struct{}{
	"!=": {}, ">": {}, ">=": {}, "<": {}, "<=": {}, "=": {},
}

// Comparator accepts the SQL comparators a date filter may use
func Comparator(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, ok = comparators[value]
	return ok
}

func registerMessage(tag string) validator.RegisterTranslationsFunc {
	return func(trans ut.Translator) error {
		return trans.Add(tag, messages[tag], true)
	}
}

func translate(trans ut.Translator, fe validator.FieldError) string {
	msg, err := trans.T(fe.Tag(), fe.Field())
	if err != nil {
		return fe.Error()
	}
	return msg
}
