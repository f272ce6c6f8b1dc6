package validator

import (
	"errors"
	"reflect"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	translations "github.com/go-playground/validator/v10/translations/en"
	"go.uber.org/multierr"
)

type Validator interface {
	ValidateStruct(obj interface{}) error
	Engine() interface{}
}

// New validator reading "binding" tags, with english messages and the
// custom tags of this package registered
func New() (Validator, error) {
	v := &defaultValidator{Validate: validator.New()}
	v.Validate.SetTagName("binding")
	v.translator, _ = ut.New(en.New()).GetTranslator("en")
	if err := translations.RegisterDefaultTranslations(v.Validate, v.translator); err != nil {
		return nil, err
	}
	for tag, fn := range customs {
		if err := v.Validate.RegisterValidation(tag, fn); err != nil {
			return nil, err
		}
		if err := v.Validate.RegisterTranslation(tag, v.translator, registerMessage(tag), translate); err != nil {
			return nil, err
		}
	}
	return v, nil
}

type defaultValidator struct {
	Validate   *validator.Validate
	translator ut.Translator
}

// ValidateStruct receives any kind of type, but only performed struct or pointer to struct type.
func (v *defaultValidator) ValidateStruct(obj interface{}) error {
	err := v.defaultValidateStruct(obj)
	if err == nil {
		return nil
	}
	return v.Translate(err)
}

// Translate receives struct type
func (v *defaultValidator) Translate(err error) error {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err
	}
	var errs error
	for _, s := range vErrs.Translate(v.translator) {
		errs = multierr.Append(errs, errors.New(s))
	}
	return errs
}

// validateStruct receives struct type
func (v *defaultValidator) validateStruct(obj interface{}) error {
	return v.Validate.Struct(obj)
}

// Engine returns the *validator.Validate behind v
func (v *defaultValidator) Engine() interface{} {
	return v.Validate
}

func (v *defaultValidator) defaultValidateStruct(obj interface{}) error {
	if obj == nil {
		return nil
	}
	value := reflect.ValueOf(obj)
	switch value.Kind() { // nolint:exhaustive
	case reflect.Ptr:
		return v.ValidateStruct(value.Elem().Interface())
	case reflect.Struct:
		return v.validateStruct(obj)
	case reflect.Slice, reflect.Array:
		count := value.Len()
		var errs error
		for i := 0; i < count; i++ {
			errs = multierr.Append(errs, v.ValidateStruct(value.Index(i).Interface()))
		}
		return errs
	default:
		return nil
	}
}

func RegisterValidation(v Validator, tag string, fn validator.Func, callValidationEvenIfNull ...bool) error {
	validate, ok := v.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return validate.RegisterValidation(tag, fn, callValidationEvenIfNull...)
}

func Var(v Validator, field interface{}, tag string) error {
	validate, ok := v.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return validate.Var(field, tag)
}
