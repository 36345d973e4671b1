package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/storefront/internal/model"
)

var _ model.RefreshTokenStore = (*RefreshTokenRepository)(nil)

type RefreshTokenRepository struct {
	db *Connection
}

func NewRefreshTokenRepository(db *Connection) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token model.RefreshToken) error {
	const query = `
        INSERT INTO refresh_tokens (id, jti, user_id, token_hash, issued_at, expires_at, revoked_at, rotated_from_jti)
        VALUES (@id, @jti, @user_id, @token_hash, @issued_at, @expires_at, @revoked_at, @rotated_from_jti)
    `

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query, pgx.NamedArgs{
		"id":               token.ID,
		"jti":              token.JTI,
		"user_id":          token.UserID,
		"token_hash":       token.TokenHash,
		"issued_at":        token.IssuedAt,
		"expires_at":       token.ExpiresAt,
		"revoked_at":       token.RevokedAt,
		"rotated_from_jti": token.RotatedFromJTI,
	})
	if err != nil {
		return fmt.Errorf("failed to create refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) GetByJTI(ctx context.Context, jti string) (model.RefreshToken, error) {
	const query = `
        SELECT id, jti, user_id, token_hash, issued_at, expires_at, revoked_at, rotated_from_jti, created_at, updated_at
        FROM refresh_tokens WHERE jti = $1
    `

	rows, err := r.db.Query(ctx, query, jti)
	if err != nil {
		return model.RefreshToken{}, fmt.Errorf("failed to get refresh token by jti: %w", err)
	}

	rt, err := pgx.CollectExactlyOneRow(rows, func(row pgx.CollectableRow) (model.RefreshToken, error) {
		var t model.RefreshToken
		err := row.Scan(
			&t.ID, &t.JTI, &t.UserID, &t.TokenHash, &t.IssuedAt, &t.ExpiresAt,
			&t.RevokedAt, &t.RotatedFromJTI, &t.CreatedAt, &t.UpdatedAt,
		)
		return t, err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RefreshToken{}, model.ErrNotFound
		}
		return model.RefreshToken{}, fmt.Errorf("failed to get refresh token by jti: %w", err)
	}
	return rt, nil
}

func (r *RefreshTokenRepository) RevokeByJTI(ctx context.Context, jti string) error {
	return r.revoke(ctx, `jti = $1`, jti)
}

func (r *RefreshTokenRepository) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	return r.revoke(ctx, `user_id = $1`, userID)
}

func (r *RefreshTokenRepository) revoke(ctx context.Context, where string, arg any) error {
	query := `UPDATE refresh_tokens SET revoked_at = NOW(), updated_at = NOW()
              WHERE ` + where + ` AND revoked_at IS NULL`
	if _, err := r.db.Exec(ctx, query, arg); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}
