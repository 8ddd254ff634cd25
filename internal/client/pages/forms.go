package pages

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dmitrijs2005/myjournal/internal/common"
	"github.com/go-playground/validator/v10"
)

const (
	UsernameHint = "5–10 chars, lowercase letters & numbers. Ex: janedoe1"
	PasswordHint = "1–7 letters + 2 digits, end with $. Ex: MyPass12$"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-z0-9]+$`)
	passwordPattern = regexp.MustCompile(`^[A-Za-z]{1,7}\d{2}\$$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("username", matches(usernamePattern))
	_ = v.RegisterValidation("password", matches(passwordPattern))
	return v
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

type LoginForm struct {
	Username string `validate:"required,min=5,max=10,username"`
	Password string `validate:"required,min=4,max=10,password"`
}

func (f LoginForm) Validate() error {
	return check(f, map[string]string{
		"Username": UsernameHint,
		"Password": PasswordHint,
	})
}

// EntryForm is the new-entry form. A blank title is sent as null.
type EntryForm struct {
	Title string `validate:"max=200"`
	Body  string `validate:"required"`
}

func (f EntryForm) Validate() error {
	return check(f, nil)
}

// EditForm edits an existing entry. Blank fields are left unchanged on the
// server; ClearTitle removes the title.
type EditForm struct {
	Title      string `validate:"max=200"`
	Body       string `validate:"required"`
	ClearTitle bool
}

func (f EditForm) Validate() error {
	return check(f, nil)
}

// FormError lists the invalid fields of a form with a message for each.
type FormError struct {
	Fields map[string]string
}

func (e *FormError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, strings.ToLower(name)+": "+e.Fields[name])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

func (e *FormError) Unwrap() error {
	return common.ErrValidation
}

func check(form any, hints map[string]string) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	fe := &FormError{Fields: make(map[string]string, len(verrs))}
	for _, v := range verrs {
		if v.Tag() == "required" {
			fe.Fields[v.Field()] = "required"
			continue
		}
		if hint, ok := hints[v.Field()]; ok {
			fe.Fields[v.Field()] = hint
			continue
		}
		switch v.Tag() {
		case "max":
			fe.Fields[v.Field()] = fmt.Sprintf("at most %s characters", v.Param())
		default:
			fe.Fields[v.Field()] = "invalid"
		}
	}
	return fe
}
