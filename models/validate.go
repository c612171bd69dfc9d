package models

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/unified-admin-dashboard/errs"
)

var (
	webURLPattern   = regexp.MustCompile(`^https?://(www\.)?[-a-zA-Z0-9@:%._\+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b([-a-zA-Z0-9()@:%_\+.~#?&/=]*)$`)
	mobilePattern   = regexp.MustCompile(`^[\+]?[(]?[0-9]{3}[)]?[-\s\.]?[0-9]{3}[-\s\.]?[0-9]{4,6}$`)
	imageURLPattern = regexp.MustCompile(`(?i)^https?://.*\.(jpg|png|jpeg|gif|bmp|svg|webp)([?#].*)?$`)
)

// Validator checks records against their struct tags and reports one message per field.
type Validator struct {
	v     *validator.Validate
	trans ut.Translator
}

var (
	defaultValidator     *Validator
	defaultValidatorOnce sync.Once
)

// Validate checks value with the shared validator.
func Validate(value any) error {
	defaultValidatorOnce.Do(func() {
		defaultValidator = NewValidator()
	})
	return defaultValidator.Struct(value)
}

func NewValidator() *Validator {
	v := validator.New()
	enT := en.New()
	uni := ut.New(enT, enT)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(v, trans); err != nil {
		log.Fatal().Err(err).Msg("Failed to register validator translations")
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerPattern(v, trans, "weburl", webURLPattern, "{0} must be a valid URL")
	registerPattern(v, trans, "mobile", mobilePattern, "{0} must be a valid mobile number")
	registerPattern(v, trans, "imageurl", imageURLPattern, "{0} must be a link to an image")
	registerMessage(v, trans, "required_unless_working", "{0} is required unless currently working")
	registerMessage(v, trans, "after_start", "{0} must not be before the start date")

	v.RegisterStructValidation(experienceStructLevel, Experience{})
	v.RegisterStructValidation(dateRangeStructLevel, DateRange{})

	return &Validator{v: v, trans: trans}
}

// Struct returns nil or a validation ApiErr keyed by json field path.
func (v *Validator) Struct(value any) error {
	err := v.v.Struct(value)
	if err == nil {
		return nil
	}
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errs.NewBadRequestError(err.Error())
	}

	fields := make(map[string]string, len(validationErrs))
	order := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		key := fieldPath(fe.Namespace())
		if _, seen := fields[key]; seen {
			continue
		}
		fields[key] = fe.Translate(v.trans)
		order = append(order, key)
	}
	return errs.NewValidationError(fields, order)
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func registerPattern(v *validator.Validate, trans ut.Translator, tag string, pattern *regexp.Regexp, msg string) {
	if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	}); err != nil {
		log.Fatal().Err(err).Str("tag", tag).Msg("Failed to register validation")
	}
	registerMessage(v, trans, tag, msg)
}

func registerMessage(v *validator.Validate, trans ut.Translator, tag, msg string) {
	register := func(trans ut.Translator) error {
		return trans.Add(tag, msg, false)
	}
	translate := func(trans ut.Translator, fe validator.FieldError) string {
		out, err := trans.T(fe.Tag(), fe.Field())
		if err != nil {
			return fe.Error()
		}
		return out
	}
	if err := v.RegisterTranslation(tag, trans, register, translate); err != nil {
		log.Fatal().Err(err).Str("tag", tag).Msg("Failed to register translation")
	}
}

func experienceStructLevel(sl validator.StructLevel) {
	exp := sl.Current().Interface().(Experience)
	if exp.CurrentlyWorking {
		return
	}
	if exp.EndDate == nil {
		sl.ReportError(exp.EndDate, "end_date", "EndDate", "required_unless_working", "")
		return
	}
	if exp.EndDate.Before(exp.StartDate) {
		sl.ReportError(exp.EndDate, "end_date", "EndDate", "after_start", "")
	}
}

func dateRangeStructLevel(sl validator.StructLevel) {
	r := sl.Current().Interface().(DateRange)
	if r.End != nil && r.End.Before(r.Start) {
		sl.ReportError(r.End, "end", "End", "after_start", "")
	}
}
