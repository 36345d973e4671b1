package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/storefront/internal/logger"
	"github.com/dtroode/storefront/internal/model"
)

// Collections a signed-in user may read and write below their own uid.
var ownedCollections = map[string]bool{
	"users":    true,
	"products": true,
}

// Record is the hierarchical record store: JSON-like values addressed by
// path, with change fan-out to watchers.
type Record struct {
	nodes  model.NodeStore
	feed   model.ChangeFeed
	logger *logger.Logger
}

func NewRecord(nodes model.NodeStore, feed model.ChangeFeed, logger *logger.Logger) *Record {
	return &Record{
		nodes:  nodes,
		feed:   feed,
		logger: logger,
	}
}

// Get returns the value at path.
func (s *Record) Get(ctx context.Context, userID uuid.UUID, path model.Path) (model.Snapshot, error) {
	if err := authorize(userID, path); err != nil {
		return model.Snapshot{}, err
	}

	leaves, err := s.nodes.Load(ctx, path)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to load %s: %w", path, err)
	}

	return model.Snapshot{Path: path, Value: model.Assemble(path, leaves)}, nil
}

// Set replaces the value at path. A nil value removes it.
func (s *Record) Set(ctx context.Context, userID uuid.UUID, path model.Path, value any) error {
	if err := authorize(userID, path); err != nil {
		return err
	}

	normalized, err := model.Normalize(value)
	if err != nil {
		return err
	}

	return s.apply(ctx, userID, "set", []model.NodeWrite{
		{Path: path, Leaves: model.Flatten(path, normalized)},
	})
}

// Update sets each field below path, leaving other children untouched.
// Field keys may name nested children with slashes.
func (s *Record) Update(ctx context.Context, userID uuid.UUID, path model.Path, fields map[string]any) error {
	if err := authorize(userID, path); err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}

	writes := make([]model.NodeWrite, 0, len(fields))
	for key, value := range fields {
		rel, err := model.ParsePath(key)
		if err != nil || rel.IsRoot() {
			return fmt.Errorf("%w: update key %q", model.ErrInvalidPath, key)
		}
		child := model.Path(string(path) + "/" + string(rel))
		if len(child.Segments()) > model.MaxPathDepth {
			return fmt.Errorf("%w: %s is too deep", model.ErrInvalidPath, child)
		}

		normalized, err := model.Normalize(value)
		if err != nil {
			return err
		}
		writes = append(writes, model.NodeWrite{Path: child, Leaves: model.Flatten(child, normalized)})
	}

	return s.apply(ctx, userID, "update", writes)
}

// Push stores value under a new child of path and returns its key. Keys
// are time-ordered so collections list in insertion order.
func (s *Record) Push(ctx context.Context, userID uuid.UUID, path model.Path, value any) (string, error) {
	key, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}

	if err := s.Set(ctx, userID, path.Child(key.String()), value); err != nil {
		return "", err
	}

	return key.String(), nil
}

// Remove deletes the value at path.
func (s *Record) Remove(ctx context.Context, userID uuid.UUID, path model.Path) error {
	if err := authorize(userID, path); err != nil {
		return err
	}

	return s.apply(ctx, userID, "remove", []model.NodeWrite{{Path: path}})
}

// Watch streams the value at path until ctx is done.
func (s *Record) Watch(ctx context.Context, userID uuid.UUID, path model.Path) (<-chan model.Snapshot, error) {
	if err := authorize(userID, path); err != nil {
		return nil, err
	}

	s.logger.Debug("Record service: watch started",
		"user_id", userID,
		"path", path)

	return s.feed.Watch(ctx, path), nil
}

func (s *Record) apply(ctx context.Context, userID uuid.UUID, op string, writes []model.NodeWrite) error {
	if err := s.nodes.Apply(ctx, writes); err != nil {
		s.logger.Error("Record service: failed to apply writes",
			"user_id", userID,
			"op", op,
			"error", err.Error())
		return fmt.Errorf("failed to %s: %w", op, err)
	}

	for _, w := range writes {
		s.feed.Notify(ctx, w.Path)
	}

	s.logger.Debug("Record service: writes applied",
		"user_id", userID,
		"op", op,
		"count", len(writes))

	return nil
}

// authorize allows access to users/{uid} and products/{uid} of the caller only.
func authorize(userID uuid.UUID, path model.Path) error {
	if err := model.ValidatePath(path); err != nil {
		return err
	}

	segs := path.Segments()
	if len(segs) < 2 || !ownedCollections[segs[0]] || segs[1] != userID.String() {
		return fmt.Errorf("%w: %s", model.ErrPermissionDenied, path)
	}
	return nil
}
