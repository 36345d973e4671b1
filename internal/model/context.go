package model

import (
	"context"

	"github.com/google/uuid"
)

// ContextManager carries the authenticated caller's uid through request
// contexts. Record rules are evaluated against it.
type ContextManager interface {
	SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context
	GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool)
}
