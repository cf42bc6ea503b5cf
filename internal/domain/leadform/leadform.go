// Package leadform is the multi-step contact form: contact details, project
// details, then a free-text message. Each step is validated before the form
// advances, and the whole form is validated again before submission.
package leadform

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"contractor_site/internal/domain/models"

	"github.com/go-playground/validator/v10"
)

type Step int

const (
	StepContact Step = iota
	StepProject
	StepDetails
)

const DefaultFormSource = "website"

var (
	ErrLastStep  = errors.New("already on the last step")
	ErrSubmitted = errors.New("form already submitted")
)

func (s Step) String() string {
	switch s {
	case StepContact:
		return "contact"
	case StepProject:
		return "project"
	case StepDetails:
		return "details"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// ParseStep accepts the names produced by Step.String.
func ParseStep(name string) (Step, error) {
	for _, s := range Steps() {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown form step %q", name)
}

func Steps() []Step {
	return []Step{StepContact, StepProject, StepDetails}
}

type Fields struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email,max=254"`
	Phone       string `json:"phone" validate:"required,contact_phone"`
	ProjectType string `json:"project_type" validate:"omitempty,max=100"`
	City        string `json:"city" validate:"omitempty,max=100"`
	Timeline    string `json:"timeline" validate:"omitempty,max=100"`
	Message     string `json:"message" validate:"omitempty,max=5000"`
	FormSource  string `json:"form_source" validate:"omitempty,max=100"`
}

var stepFields = map[Step][]string{
	StepContact: {"Name", "Email", "Phone"},
	StepProject: {"ProjectType", "City", "Timeline"},
	StepDetails: {"Message", "FormSource"},
}

func (f Fields) Lead() models.Lead {
	source := strings.TrimSpace(f.FormSource)
	if source == "" {
		source = DefaultFormSource
	}
	return models.Lead{
		Name:        strings.TrimSpace(f.Name),
		Email:       strings.TrimSpace(f.Email),
		Phone:       strings.TrimSpace(f.Phone),
		ProjectType: strings.TrimSpace(f.ProjectType),
		City:        strings.TrimSpace(f.City),
		Timeline:    strings.TrimSpace(f.Timeline),
		Message:     strings.TrimSpace(f.Message),
		FormSource:  source,
	}
}

// ValidationError lists failing fields by their JSON name.
type ValidationError struct {
	Step   Step
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + e.Fields[name]
	}
	return fmt.Sprintf("%s step invalid: %s", e.Step, strings.Join(parts, "; "))
}

// Submitter persists a completed lead.
type Submitter interface {
	Capture(ctx context.Context, lead models.Lead) (models.Lead, error)
}

type Form struct {
	Fields    Fields
	step      Step
	submitted bool
	lastErr   error
	validate  *validator.Validate
}

func New(validate *validator.Validate) *Form {
	return &Form{validate: validate}
}

// Restore puts previously entered data back into a form at step.
func Restore(validate *validator.Validate, fields Fields, step Step) *Form {
	return &Form{Fields: fields, step: step, validate: validate}
}

func (f *Form) Step() Step      { return f.step }
func (f *Form) Submitted() bool { return f.submitted }
func (f *Form) Err() error      { return f.lastErr }

// ValidateStep checks only the fields that belong to step.
func (f *Form) ValidateStep(step Step) error {
	names, ok := stepFields[step]
	if !ok {
		return fmt.Errorf("unknown form step %d", int(step))
	}

	err := f.validate.StructPartial(f.Fields, names...)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{Step: step, Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[jsonName(fe.StructField())] = message(fe)
	}
	return out
}

// Advance moves to the next step if the current one is valid.
func (f *Form) Advance() error {
	if f.step == StepDetails {
		return ErrLastStep
	}
	if err := f.ValidateStep(f.step); err != nil {
		f.lastErr = err
		return err
	}
	f.lastErr = nil
	f.step++
	return nil
}

func (f *Form) Back() {
	if f.step > StepContact {
		f.step--
	}
}

// Submit validates every step and hands the lead to s once. A failed
// submission keeps all entered data so the visitor can retry; a successful
// one clears the form.
func (f *Form) Submit(ctx context.Context, s Submitter) (models.Lead, error) {
	if f.submitted {
		return models.Lead{}, ErrSubmitted
	}

	for _, step := range Steps() {
		if err := f.ValidateStep(step); err != nil {
			f.step = step
			f.lastErr = err
			return models.Lead{}, err
		}
	}

	lead, err := s.Capture(ctx, f.Fields.Lead())
	if err != nil {
		f.lastErr = err
		return models.Lead{}, err
	}

	f.Fields = Fields{}
	f.step = StepContact
	f.submitted = true
	f.lastErr = nil

	return lead, nil
}

// RegisterValidations adds the contact_phone rule to v.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("contact_phone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	})
}

// NewValidator returns a validator with the form's custom rules registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
}

// ValidPhone accepts a 10-digit North American number, optionally prefixed
// with country code 1, in any punctuation, or an E.164 number.
func ValidPhone(phone string) bool {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return false
	}

	international := strings.HasPrefix(phone, "+")
	digits := make([]rune, 0, len(phone))
	for _, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			digits = append(digits, r)
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')' || r == '+':
		default:
			return false
		}
	}

	if international {
		return len(digits) >= 8 && len(digits) <= 15 && digits[0] != '0'
	}
	switch len(digits) {
	case 10:
		return true
	case 11:
		return digits[0] == '1'
	}
	return false
}

func jsonName(field string) string {
	if sf, ok := reflect.TypeOf(Fields{}).FieldByName(field); ok {
		if tag := strings.Split(sf.Tag.Get("json"), ",")[0]; tag != "" {
			return tag
		}
	}
	return strings.ToLower(field)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "contact_phone":
		return "must be a valid phone number"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	}
	return "is invalid"
}
