package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/storefront/internal/model"
)

var _ model.RefreshTokenStore = (*RefreshTokenRepository)(nil)

type RefreshTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]model.RefreshToken
}

func NewRefreshTokenRepository() *RefreshTokenRepository {
	return &RefreshTokenRepository{tokens: make(map[string]model.RefreshToken)}
}

func (r *RefreshTokenRepository) Create(_ context.Context, token model.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	now := time.Now()
	token.CreatedAt, token.UpdatedAt = now, now
	r.tokens[token.JTI] = token
	return nil
}

func (r *RefreshTokenRepository) GetByJTI(_ context.Context, jti string) (model.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, ok := r.tokens[jti]
	if !ok {
		return model.RefreshToken{}, model.ErrNotFound
	}
	return token, nil
}

func (r *RefreshTokenRepository) RevokeByJTI(_ context.Context, jti string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token, ok := r.tokens[jti]; ok && !token.Revoked() {
		r.tokens[jti] = token.Revoke(time.Now())
	}
	return nil
}

func (r *RefreshTokenRepository) RevokeAllByUser(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for jti, token := range r.tokens {
		if token.UserID == userID && !token.Revoked() {
			r.tokens[jti] = token.Revoke(time.Now())
		}
	}
	return nil
}
