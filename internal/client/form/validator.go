// Package form validates user drafts and models one create or edit dialog.
package form

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/useradmin/internal/client/models"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Field names used as keys of the error map.
const (
	FieldEmail      = "email"
	FieldFirstName  = "firstName"
	FieldLastName   = "lastName"
	FieldRole       = "role"
	FieldDepartment = "department"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// input is the validated shape of a draft. The label tag names the field in
// messages, the key tag names it in the error map.
type input struct {
	Email      string `key:"email" label:"Email" validate:"required,simpleemail"`
	FirstName  string `key:"firstName" label:"First name" validate:"required"`
	LastName   string `key:"lastName" label:"Last name" validate:"required"`
	Role       string `key:"role" label:"Role" validate:"oneof=ROLE_ADMIN ROLE_EMPLOYEE"`
	Department string `key:"department" label:"Department" validate:"oneof=IT HR FINANCE OPERATIONS"`
}

// Result is the outcome of Validate. Errors maps a field name to its message.
type Result struct {
	Errors map[string]string
	OK     bool
}

type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
	keys       map[string]string
}

func NewValidator() (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("label")
	})

	if err := validate.RegisterValidation("simpleemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}); err != nil {
		return nil, err
	}

	eng := en.New()
	uni := ut.New(eng, eng)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	overrides := map[string]string{
		"required":    "{0} is required",
		"simpleemail": "Invalid email format",
	}
	for tag, text := range overrides {
		tag, text := tag, text
		err := validate.RegisterTranslation(tag, trans,
			func(ut ut.Translator) error { return ut.Add(tag, text, true) },
			func(ut ut.Translator, fe validator.FieldError) string {
				msg, err := ut.T(fe.Tag(), fe.Field())
				if err != nil {
					return fe.Error()
				}
				return msg
			})
		if err != nil {
			return nil, fmt.Errorf("register %s translation: %w", tag, err)
		}
	}

	keys := make(map[string]string)
	t := reflect.TypeOf(input{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		keys[f.Name] = f.Tag.Get("key")
	}

	return &Validator{validate: validate, translator: trans, keys: keys}, nil
}

// Normalize trims the free-text fields of d.
func Normalize(d models.Draft) models.Draft {
	d.Email = strings.TrimSpace(d.Email)
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	return d
}

// Validate checks d and reports one message per violated field.
func (v *Validator) Validate(d models.Draft) Result {
	d = Normalize(d)
	in := input{
		Email:      d.Email,
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		Role:       string(d.Role),
		Department: string(d.Department),
	}

	res := Result{Errors: map[string]string{}, OK: true}

	err := v.validate.Struct(in)
	if err == nil {
		return res
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		res.Errors[FieldEmail] = err.Error()
		res.OK = false
		return res
	}
	for _, fe := range verrs {
		key := v.keys[fe.StructField()]
		if _, seen := res.Errors[key]; seen {
			continue
		}
		res.Errors[key] = fe.Translate(v.translator)
	}
	res.OK = len(res.Errors) == 0
	return res
}
