package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/storefront/internal/logger"
	"github.com/dtroode/storefront/internal/model"
)

// TokenService issues, rotates and revokes token pairs. Refresh tokens are
// persisted by hash so a stolen database cannot be replayed.
type TokenService struct {
	manager model.TokenManager
	store   model.RefreshTokenStore
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, store model.RefreshTokenStore, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, store: store, logger: logger}
}

// Keep in sync with the token manager; used for persistence only.
const refreshTTL = 30 * 24 * time.Hour

// Issue creates a fresh pair for userID.
func (s *TokenService) Issue(ctx context.Context, userID uuid.UUID) (model.TokenPair, error) {
	return s.issue(ctx, userID, nil)
}

// Refresh validates presented against its stored record, revokes it and
// returns a new pair for the same user.
func (s *TokenService) Refresh(ctx context.Context, presented string) (uuid.UUID, model.TokenPair, error) {
	userID, jti, err := s.manager.ParseRefreshToken(presented)
	if err != nil {
		return uuid.Nil, model.TokenPair{}, err
	}

	rt, err := s.store.GetByJTI(ctx, jti)
	if err != nil {
		return uuid.Nil, model.TokenPair{}, err
	}

	if err := validateRecord(rt, hashRefresh(presented), time.Now()); err != nil {
		s.logger.Warn("Token service: refresh rejected",
			"user_id", userID,
			"jti", jti,
			"error", err)
		return uuid.Nil, model.TokenPair{}, err
	}

	if err := s.store.RevokeByJTI(ctx, jti); err != nil {
		return uuid.Nil, model.TokenPair{}, fmt.Errorf("failed to revoke old refresh token: %w", err)
	}

	pair, err := s.issue(ctx, userID, &rt.JTI)
	if err != nil {
		return uuid.Nil, model.TokenPair{}, err
	}

	s.logger.Debug("Token service: refresh token rotated",
		"user_id", userID,
		"rotated_from", jti)

	return userID, pair, nil
}

// RevokeByToken revokes the stored record of presented.
func (s *TokenService) RevokeByToken(ctx context.Context, presented string) error {
	_, jti, err := s.manager.ParseRefreshToken(presented)
	if err != nil {
		return err
	}
	return s.store.RevokeByJTI(ctx, jti)
}

func (s *TokenService) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	return s.store.RevokeAllByUser(ctx, userID)
}

func (s *TokenService) GetUserID(_ context.Context, token string) (uuid.UUID, error) {
	return s.manager.ParseAccessToken(token)
}

func (s *TokenService) issue(ctx context.Context, userID uuid.UUID, rotatedFrom *string) (model.TokenPair, error) {
	access, err := s.manager.GenerateAccessToken(userID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to issue access token: %w", err)
	}

	refresh, jti, err := s.manager.GenerateRefreshToken(userID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	now := time.Now()
	err = s.store.Create(ctx, model.RefreshToken{
		ID:             uuid.New(),
		JTI:            jti,
		UserID:         userID,
		TokenHash:      hashRefresh(refresh),
		IssuedAt:       now,
		ExpiresAt:      now.Add(refreshTTL),
		RotatedFromJTI: rotatedFrom,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func hashRefresh(token string) []byte {
	h := sha256.Sum256([]byte(token))
	return h[:]
}

func validateRecord(rt model.RefreshToken, presentedHash []byte, now time.Time) error {
	switch {
	case rt.Revoked():
		return model.ErrTokenRevoked
	case rt.Expired(now):
		return model.ErrTokenExpired
	case subtle.ConstantTimeCompare(rt.TokenHash, presentedHash) != 1:
		return model.ErrTokenMismatch
	}
	return nil
}
