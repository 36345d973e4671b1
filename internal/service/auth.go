package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"

	"github.com/dtroode/storefront/internal/logger"
	"github.com/dtroode/storefront/internal/model"
)

const (
	saltSize = 16
	keySize  = 32
)

// Auth signs users up and in with email and password and manages the
// token pairs that make up a session.
type Auth struct {
	userStore    model.UserStore
	tokenService *TokenService
	kdf          model.KDFParams
	logger       *logger.Logger
}

func NewAuth(
	userStore model.UserStore,
	refreshTokenStore model.RefreshTokenStore,
	tokenManager model.TokenManager,
	kdf model.KDFParams,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		tokenService: NewTokenService(tokenManager, refreshTokenStore, logger),
		kdf:          kdf,
		logger:       logger,
	}
}

// SignUp creates an account and returns its first session.
func (a *Auth) SignUp(ctx context.Context, email, password string) (model.Session, error) {
	email = normalizeEmail(email)

	a.logger.Debug("Auth service: starting user registration",
		"email", email)

	if !model.ValidEmail(email) {
		return model.Session{}, model.NewAuthError(model.AuthErrInvalidEmail)
	}
	if model.PasswordTooShort(password) {
		return model.Session{}, model.NewAuthError(model.AuthErrWeakPassword)
	}

	_, err := a.userStore.GetByEmail(ctx, email)
	if err == nil {
		a.logger.Info("Auth service: user already exists",
			"email", email)
		return model.Session{}, model.NewAuthError(model.AuthErrEmailInUse)
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return model.Session{}, fmt.Errorf("failed to generate salt: %w", err)
	}

	marshaledKDF, err := json.Marshal(a.kdf)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to marshal kdf params: %w", err)
	}

	now := time.Now()
	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: derive(password, salt, a.kdf),
		Salt:         salt,
		KDF:          marshaledKDF,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, model.ErrAlreadyExists) {
		return model.Session{}, model.NewAuthError(model.AuthErrEmailInUse)
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to create user: %w", err)
	}

	session, err := a.openSession(ctx, user)
	if err != nil {
		return model.Session{}, err
	}

	a.logger.Info("Auth service: user registration completed successfully",
		"email", email,
		"user_id", user.ID)

	return session, nil
}

// SignIn checks the password of an existing account. Unknown emails and
// wrong passwords are reported the same way.
func (a *Auth) SignIn(ctx context.Context, email, password string) (model.Session, error) {
	email = normalizeEmail(email)

	a.logger.Debug("Auth service: starting user login",
		"email", email)

	if !model.ValidEmail(email) {
		return model.Session{}, model.NewAuthError(model.AuthErrInvalidEmail)
	}

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.Session{}, model.NewAuthError(model.AuthErrInvalidCredential)
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	var kdf model.KDFParams
	if err := json.Unmarshal(user.KDF, &kdf); err != nil {
		return model.Session{}, fmt.Errorf("failed to unmarshal kdf params: %w", err)
	}

	if subtle.ConstantTimeCompare(derive(password, user.Salt, kdf), user.PasswordHash) != 1 {
		a.logger.Info("Auth service: wrong password",
			"user_id", user.ID)
		return model.Session{}, model.NewAuthError(model.AuthErrInvalidCredential)
	}

	session, err := a.openSession(ctx, user)
	if err != nil {
		return model.Session{}, err
	}

	a.logger.Info("Auth service: user login completed successfully",
		"user_id", user.ID)

	return session, nil
}

// SignOut revokes refreshToken. Tokens that cannot be parsed are ignored so
// signing out always succeeds locally.
func (a *Auth) SignOut(ctx context.Context, refreshToken string) error {
	err := a.tokenService.RevokeByToken(ctx, refreshToken)
	if err != nil && !isTokenError(err) {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	if err != nil {
		a.logger.Debug("Auth service: sign out with unusable token",
			"error", err.Error())
	}
	return nil
}

// Refresh rotates refreshToken and returns the renewed session.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (model.Session, error) {
	userID, pair, err := a.tokenService.Refresh(ctx, refreshToken)
	if err != nil {
		if isTokenError(err) {
			return model.Session{}, model.NewAuthError(model.AuthErrSessionExpired)
		}
		return model.Session{}, fmt.Errorf("failed to refresh session: %w", err)
	}

	user, err := a.userStore.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Session{}, model.NewAuthError(model.AuthErrSessionExpired)
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return newSession(user, pair), nil
}

// GetUserID resolves an access token to its user.
func (a *Auth) GetUserID(ctx context.Context, accessToken string) (uuid.UUID, error) {
	return a.tokenService.GetUserID(ctx, accessToken)
}

func (a *Auth) openSession(ctx context.Context, user model.User) (model.Session, error) {
	pair, err := a.tokenService.Issue(ctx, user.ID)
	if err != nil {
		a.logger.Error("Auth service: failed to issue tokens",
			"user_id", user.ID,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return newSession(user, pair), nil
}

func newSession(user model.User, pair model.TokenPair) model.Session {
	return model.Session{
		UserID:       user.ID,
		Email:        user.Email,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
}

func derive(password string, salt []byte, kdf model.KDFParams) []byte {
	return argon2.IDKey([]byte(password), salt, kdf.Time, kdf.MemKiB, kdf.Par, keySize)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isTokenError reports failures caused by the presented token itself rather
// than by the infrastructure.
func isTokenError(err error) bool {
	return errors.Is(err, model.ErrTokenRevoked) ||
		errors.Is(err, model.ErrTokenExpired) ||
		errors.Is(err, model.ErrTokenMismatch) ||
		errors.Is(err, model.ErrNotFound) ||
		errors.Is(err, model.ErrInvalidToken)
}
