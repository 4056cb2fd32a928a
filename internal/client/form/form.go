package form

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/useradmin/internal/client/models"
)

var (
	ErrEmailLocked  = errors.New("email cannot be changed")
	ErrUnknownField = errors.New("unknown field")
)

// ValidationError blocks a submission. Errors maps field names to messages.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Errors[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields lists the form fields in input order.
var Fields = []string{FieldEmail, FieldFirstName, FieldLastName, FieldRole, FieldDepartment}

// Form is one create or edit dialog. It owns its draft until it is submitted
// or reset.
type Form struct {
	v        *Validator
	initial  models.Draft
	draft    models.Draft
	errors   map[string]string
	editing  bool
	targetID int64
}

func NewCreateForm(v *Validator) *Form {
	d := models.NewDraft()
	return &Form{v: v, initial: d, draft: d, errors: map[string]string{}}
}

// NewEditForm starts from u; its email is locked.
func NewEditForm(v *Validator, u models.User) *Form {
	d := u.Draft()
	return &Form{v: v, initial: d, draft: d, errors: map[string]string{}, editing: true, targetID: u.ID}
}

func (f *Form) Editing() bool { return f.editing }

// TargetID is the id of the edited user, zero for a create form.
func (f *Form) TargetID() int64 { return f.targetID }

func (f *Form) Draft() models.Draft { return f.draft }

// Error returns the current message for field, if any.
func (f *Form) Error(field string) string { return f.errors[field] }

func (f *Form) Errors() map[string]string {
	out := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// Invalid lists the fields that currently carry an error, in input order.
func (f *Form) Invalid() []string {
	var out []string
	for _, field := range Fields {
		if _, ok := f.errors[field]; ok {
			out = append(out, field)
		}
	}
	return out
}

// Set changes one field and clears only that field's error.
func (f *Form) Set(field, value string) error {
	switch field {
	case FieldEmail:
		if f.editing {
			return ErrEmailLocked
		}
		f.draft.Email = value
	case FieldFirstName:
		f.draft.FirstName = value
	case FieldLastName:
		f.draft.LastName = value
	case FieldRole:
		r, err := models.ParseRole(value)
		if err != nil {
			return err
		}
		f.draft.Role = r
	case FieldDepartment:
		d, err := models.ParseDepartment(value)
		if err != nil {
			return err
		}
		f.draft.Department = d
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	delete(f.errors, field)
	return nil
}

// Submit validates the draft. On success it returns the normalized draft;
// otherwise the per-field errors are kept on the form and returned as a
// *ValidationError.
func (f *Form) Submit() (models.Draft, error) {
	res := f.v.Validate(f.draft)
	f.errors = res.Errors
	if !res.OK {
		return models.Draft{}, &ValidationError{Errors: f.Errors()}
	}
	return Normalize(f.draft), nil
}

// Reset discards edits and errors.
func (f *Form) Reset() {
	f.draft = f.initial
	f.errors = map[string]string{}
}
