package authform

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/storefront/internal/mocks"
	"github.com/dtroode/storefront/internal/model"
	"github.com/dtroode/storefront/internal/testutil"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := Draft{Email: "a@b.com", Password: "secret1", Name: "Ann", Age: "30", Username: "ann"}

	tests := []struct {
		name  string
		mode  Mode
		draft func(d Draft) Draft
		want  model.ValidationErrors
	}{
		{name: "valid login", mode: ModeLogin, draft: func(d Draft) Draft { return d }, want: model.ValidationErrors{}},
		{name: "valid register", mode: ModeRegister, draft: func(d Draft) Draft { return d }, want: model.ValidationErrors{}},
		{
			name: "empty email", mode: ModeLogin,
			draft: func(d Draft) Draft { d.Email = ""; return d },
			want:  model.ValidationErrors{"email": "Email is required"},
		},
		{
			name: "invalid email", mode: ModeLogin,
			draft: func(d Draft) Draft { d.Email = "a@b"; return d },
			want:  model.ValidationErrors{"email": "Email is invalid"},
		},
		{
			name: "empty password", mode: ModeLogin,
			draft: func(d Draft) Draft { d.Password = ""; return d },
			want:  model.ValidationErrors{"password": "Password is required"},
		},
		{
			name: "short password", mode: ModeLogin,
			draft: func(d Draft) Draft { d.Password = "12345"; return d },
			want:  model.ValidationErrors{"password": "Password must be at least 6 characters"},
		},
		{
			name: "short multibyte password", mode: ModeLogin,
			draft: func(d Draft) Draft { d.Password = "ééé"; return d },
			want:  model.ValidationErrors{"password": "Password must be at least 6 characters"},
		},
		{
			name: "multibyte password counts characters", mode: ModeLogin,
			draft: func(d Draft) Draft { d.Password = "пароль"; return d },
			want:  model.ValidationErrors{},
		},
		{
			name: "login ignores profile fields", mode: ModeLogin,
			draft: func(d Draft) Draft { d.Name, d.Age, d.Username = "", "x", ""; return d },
			want:  model.ValidationErrors{},
		},
		{
			name: "register requires profile fields", mode: ModeRegister,
			draft: func(d Draft) Draft { d.Name, d.Age, d.Username = "", "", ""; return d },
			want: model.ValidationErrors{
				"name":     "Name is required",
				"age":      "Age is required",
				"username": "Username is required",
			},
		},
		{
			name: "negative age", mode: ModeRegister,
			draft: func(d Draft) Draft { d.Age = "-1"; return d },
			want:  model.ValidationErrors{"age": "Age must be a valid number"},
		},
		{
			name: "non numeric age", mode: ModeRegister,
			draft: func(d Draft) Draft { d.Age = "thirty"; return d },
			want:  model.ValidationErrors{"age": "Age must be a valid number"},
		},
		{
			name: "NaN age", mode: ModeRegister,
			draft: func(d Draft) Draft { d.Age = "NaN"; return d },
			want:  model.ValidationErrors{"age": "Age must be a valid number"},
		},
		{
			name: "fractional and zero age", mode: ModeRegister,
			draft: func(d Draft) Draft { d.Age = "0.5"; return d },
			want:  model.ValidationErrors{},
		},
		{
			name: "everything empty", mode: ModeRegister,
			draft: func(Draft) Draft { return Draft{} },
			want: model.ValidationErrors{
				"email":    "Email is required",
				"password": "Password is required",
				"name":     "Name is required",
				"age":      "Age is required",
				"username": "Username is required",
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Validate(tt.mode, tt.draft(valid)))
		})
	}
}

func fill(f *Form, d Draft) {
	f.Set(FieldEmail, d.Email)
	f.Set(FieldPassword, d.Password)
	f.Set(FieldName, d.Name)
	f.Set(FieldAge, d.Age)
	f.Set(FieldUsername, d.Username)
}

func TestForm_SubmitInvalidTouchesNothing(t *testing.T) {
	t.Parallel()

	f := New(mocks.NewSessionStore(t), mocks.NewRecordStore(t), mocks.NewNavigator(t), testutil.MakeNoopLogger())
	f.Set(FieldEmail, "nope")

	err := f.Submit(context.Background())
	require.ErrorIs(t, err, ErrValidation)

	var errs model.ValidationErrors
	require.True(t, errors.As(err, &errs))
	assert.Equal(t, "Email is invalid", errs["email"])
	assert.Equal(t, errs, f.Errors())
}

func TestForm_LoginSuccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sessions := mocks.NewSessionStore(t)
	sessions.On("SignIn", mock.Anything, "a@b.com", "secret1").Return(model.Session{UserID: uuid.New()}, nil).Once()
	navigator := mocks.NewNavigator(t)
	navigator.On("Navigate", model.ScreenHome, nil).Once()

	f := New(sessions, mocks.NewRecordStore(t), navigator, testutil.MakeNoopLogger())
	fill(f, Draft{Email: "a@b.com", Password: "secret1"})

	require.NoError(t, f.Submit(ctx))
	assert.Empty(t, f.Errors())
	assert.False(t, f.Busy())
}

func TestForm_LoginFailureSurfacesMessage(t *testing.T) {
	t.Parallel()

	authErr := model.NewAuthError(model.AuthErrInvalidCredential)
	sessions := mocks.NewSessionStore(t)
	sessions.On("SignIn", mock.Anything, "a@b.com", "secret1").Return(model.Session{}, authErr).Once()

	f := New(sessions, mocks.NewRecordStore(t), mocks.NewNavigator(t), testutil.MakeNoopLogger())
	fill(f, Draft{Email: "a@b.com", Password: "secret1"})

	err := f.Submit(context.Background())
	assert.ErrorIs(t, err, authErr)
	assert.Equal(t, model.ValidationErrors{"submit": "The supplied credentials are incorrect."}, f.Errors())
	assert.Equal(t, "a@b.com", f.Draft().Email)
}

func TestForm_RegisterWritesProfile(t *testing.T) {
	t.Parallel()

	uid := uuid.New()
	sessions := mocks.NewSessionStore(t)
	sessions.On("SignUp", mock.Anything, "a@b.com", "secret1").Return(model.Session{UserID: uid}, nil).Once()
	records := mocks.NewRecordStore(t)
	records.On("Set", mock.Anything, model.UsersPath(uid), map[string]any{
		"name": "Ann", "age": "30", "username": "ann",
	}).Return(nil).Once()

	f := New(sessions, records, mocks.NewNavigator(t), testutil.MakeNoopLogger())
	f.SetMode(ModeRegister)
	fill(f, Draft{Email: "a@b.com", Password: "secret1", Name: "Ann", Age: "30", Username: "ann"})

	require.NoError(t, f.Submit(context.Background()))
	assert.Equal(t, ModeLogin, f.Mode())
	assert.True(t, f.RegistrationSuccess())
	assert.Equal(t, Draft{}, f.Draft())

	f.SetMode(ModeRegister)
	assert.False(t, f.RegistrationSuccess())
}

func TestForm_RegisterProfileFailureKeepsAccount(t *testing.T) {
	t.Parallel()

	uid := uuid.New()
	storeErr := &model.StoreError{Op: "set", Path: model.UsersPath(uid), Err: errors.New("unavailable")}
	sessions := mocks.NewSessionStore(t)
	sessions.On("SignUp", mock.Anything, "a@b.com", "secret1").Return(model.Session{UserID: uid}, nil).Once()
	records := mocks.NewRecordStore(t)
	records.On("Set", mock.Anything, model.UsersPath(uid), mock.Anything).Return(storeErr).Once()

	f := New(sessions, records, mocks.NewNavigator(t), testutil.MakeNoopLogger())
	f.SetMode(ModeRegister)
	fill(f, Draft{Email: "a@b.com", Password: "secret1", Name: "Ann", Age: "30", Username: "ann"})

	err := f.Submit(context.Background())
	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, ModeRegister, f.Mode())
	assert.False(t, f.RegistrationSuccess())
	assert.Contains(t, f.Errors()["submit"], "unavailable")
}

func TestForm_SubmitWhileBusy(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	release := make(chan struct{})
	sessions := mocks.NewSessionStore(t)
	sessions.On("SignIn", mock.Anything, "a@b.com", "secret1").
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(model.Session{}, model.NewAuthError(model.AuthErrNetwork)).Once()

	f := New(sessions, mocks.NewRecordStore(t), mocks.NewNavigator(t), testutil.MakeNoopLogger())
	fill(f, Draft{Email: "a@b.com", Password: "secret1"})

	done := make(chan error, 1)
	go func() { done <- f.Submit(context.Background()) }()

	<-entered
	assert.True(t, f.Busy())
	assert.ErrorIs(t, f.Submit(context.Background()), ErrBusy)
	close(release)

	assert.Error(t, <-done)
	assert.False(t, f.Busy())
}

func TestForm_TogglesAndModes(t *testing.T) {
	t.Parallel()

	f := New(mocks.NewSessionStore(t), mocks.NewRecordStore(t), mocks.NewNavigator(t), testutil.MakeNoopLogger())
	assert.Equal(t, ModeLogin, f.Mode())
	assert.False(t, f.ShowPassword())

	f.TogglePassword()
	assert.True(t, f.ShowPassword())

	assert.NotEmpty(t, f.Validate())
	f.SetMode(ModeRegister)
	assert.Empty(t, f.Errors())
	assert.Equal(t, "register", ModeRegister.String())
	assert.Equal(t, "login", ModeLogin.String())
}
