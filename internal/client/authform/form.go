// Package authform holds the login and registration form.
package authform

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/dtroode/storefront/internal/logger"
	"github.com/dtroode/storefront/internal/model"
)

var (
	// ErrValidation is returned by Submit when the draft has field errors.
	ErrValidation = errors.New("form has invalid fields")
	// ErrBusy is returned by Submit while a previous submit is in flight.
	ErrBusy = errors.New("submit already in progress")
)

// Mode selects between signing in and creating an account.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

func (m Mode) String() string {
	if m == ModeRegister {
		return "register"
	}
	return "login"
}

// Field names a form input. FieldSubmit keys the error of the last submit.
type Field string

const (
	FieldEmail    Field = "email"
	FieldPassword Field = "password"
	FieldName     Field = "name"
	FieldAge      Field = "age"
	FieldUsername Field = "username"
	FieldSubmit   Field = "submit"
)

// Draft is the unvalidated form input.
type Draft struct {
	Email    string
	Password string
	Name     string
	Age      string
	Username string
}

// Validate checks d for mode. The result has an entry for each invalid
// field and is empty when d can be submitted.
func Validate(mode Mode, d Draft) model.ValidationErrors {
	errs := model.ValidationErrors{}

	switch {
	case d.Email == "":
		errs[string(FieldEmail)] = "Email is required"
	case !model.ValidEmail(d.Email):
		errs[string(FieldEmail)] = "Email is invalid"
	}

	switch {
	case d.Password == "":
		errs[string(FieldPassword)] = "Password is required"
	case model.PasswordTooShort(d.Password):
		errs[string(FieldPassword)] = "Password must be at least 6 characters"
	}

	if mode == ModeRegister {
		if d.Name == "" {
			errs[string(FieldName)] = "Name is required"
		}
		switch {
		case d.Age == "":
			errs[string(FieldAge)] = "Age is required"
		case !validAge(d.Age):
			errs[string(FieldAge)] = "Age must be a valid number"
		}
		if d.Username == "" {
			errs[string(FieldUsername)] = "Username is required"
		}
	}

	return errs
}

func validAge(age string) bool {
	n, err := strconv.ParseFloat(strings.TrimSpace(age), 64)
	return err == nil && !math.IsNaN(n) && n >= 0
}

// Form is the auth screen controller.
type Form struct {
	sessions model.SessionStore
	records  model.RecordStore
	nav      model.Navigator
	logger   *logger.Logger

	mu           sync.Mutex
	mode         Mode
	draft        Draft
	showPassword bool
	errors       model.ValidationErrors
	success      bool
	busy         bool
}

func New(sessions model.SessionStore, records model.RecordStore, nav model.Navigator, logger *logger.Logger) *Form {
	return &Form{
		sessions: sessions,
		records:  records,
		nav:      nav,
		logger:   logger,
		errors:   model.ValidationErrors{},
	}
}

func (f *Form) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// SetMode switches the form and clears errors and the registration notice.
func (f *Form) SetMode(m Mode) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.mode = m
	f.errors = model.ValidationErrors{}
	f.success = false
}

// Set updates one draft field. Unknown fields are ignored.
func (f *Form) Set(field Field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch field {
	case FieldEmail:
		f.draft.Email = value
	case FieldPassword:
		f.draft.Password = value
	case FieldName:
		f.draft.Name = value
	case FieldAge:
		f.draft.Age = value
	case FieldUsername:
		f.draft.Username = value
	}
}

func (f *Form) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

func (f *Form) TogglePassword() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.showPassword = !f.showPassword
}

func (f *Form) ShowPassword() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.showPassword
}

// Errors returns the errors of the last Validate or Submit.
func (f *Form) Errors() model.ValidationErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyErrors(f.errors)
}

// RegistrationSuccess reports whether the last registration completed.
func (f *Form) RegistrationSuccess() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.success
}

// Busy reports whether a submit is in flight.
func (f *Form) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

// Validate checks the current draft and records the result.
func (f *Form) Validate() model.ValidationErrors {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.errors = Validate(f.mode, f.draft)
	return copyErrors(f.errors)
}

// Submit validates the draft and, when it is valid, signs in or registers.
// A rejected draft returns an error wrapping ErrValidation and the field
// errors, and no store is called.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return ErrBusy
	}
	f.errors = Validate(f.mode, f.draft)
	if len(f.errors) > 0 {
		errs := copyErrors(f.errors)
		f.mu.Unlock()
		return fmt.Errorf("%w: %w", ErrValidation, errs)
	}
	f.busy = true
	mode, draft := f.mode, f.draft
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.busy = false
		f.mu.Unlock()
	}()

	if mode == ModeLogin {
		return f.login(ctx, draft)
	}
	return f.register(ctx, draft)
}

func (f *Form) login(ctx context.Context, d Draft) error {
	if _, err := f.sessions.SignIn(ctx, d.Email, d.Password); err != nil {
		f.submitFailed(err)
		return err
	}

	f.nav.Navigate(model.ScreenHome, nil)
	return nil
}

func (f *Form) register(ctx context.Context, d Draft) error {
	session, err := f.sessions.SignUp(ctx, d.Email, d.Password)
	if err != nil {
		f.submitFailed(err)
		return err
	}

	profile := model.NewProfileValue(d.Name, d.Age, d.Username)
	if err := f.records.Set(ctx, model.UsersPath(session.UserID), profile); err != nil {
		f.logger.Warn("Auth form: account created without profile",
			"user_id", session.UserID,
			"error", err.Error())
		f.submitFailed(err)
		return err
	}

	f.mu.Lock()
	f.mode = ModeLogin
	f.success = true
	f.draft = Draft{}
	f.errors = model.ValidationErrors{}
	f.mu.Unlock()

	return nil
}

func (f *Form) submitFailed(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	errs := copyErrors(f.errors)
	errs[string(FieldSubmit)] = err.Error()
	f.errors = errs
}

func copyErrors(errs model.ValidationErrors) model.ValidationErrors {
	out := make(model.ValidationErrors, len(errs))
	for k, v := range errs {
		out[k] = v
	}
	return out
}
