package remote

import (
	"context"
	"errors"
	"io"
	"reflect"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/storefront/internal/api/proto"
	"github.com/dtroode/storefront/internal/model"
)

const (
	minWatchBackoff = 200 * time.Millisecond
	maxWatchBackoff = 10 * time.Second
)

var _ model.RecordStore = (*RecordStore)(nil)

// RecordStore implements model.RecordStore over the Records service.
type RecordStore struct {
	client proto.RecordsClient
	parent *Client

	minBackoff time.Duration
	maxBackoff time.Duration
}

func newRecordStore(client proto.RecordsClient, parent *Client) *RecordStore {
	return &RecordStore{
		client:     client,
		parent:     parent,
		minBackoff: minWatchBackoff,
		maxBackoff: maxWatchBackoff,
	}
}

func (s *RecordStore) Set(ctx context.Context, path model.Path, value any) error {
	if err := model.ValidatePath(path); err != nil {
		return storeError("set", path, err)
	}

	ctx, cancel := s.parent.callContext(ctx)
	defer cancel()

	_, err := s.client.Set(ctx, &proto.SetRequest{Path: path.String(), Value: value})
	return storeError("set", path, err)
}

func (s *RecordStore) Update(ctx context.Context, path model.Path, fields map[string]any) error {
	if err := model.ValidatePath(path); err != nil {
		return storeError("update", path, err)
	}

	ctx, cancel := s.parent.callContext(ctx)
	defer cancel()

	_, err := s.client.Update(ctx, &proto.UpdateRequest{Path: path.String(), Fields: fields})
	return storeError("update", path, err)
}

func (s *RecordStore) Push(ctx context.Context, path model.Path, value any) (string, error) {
	if err := model.ValidatePath(path); err != nil {
		return "", storeError("push", path, err)
	}

	ctx, cancel := s.parent.callContext(ctx)
	defer cancel()

	resp, err := s.client.Push(ctx, &proto.SetRequest{Path: path.String(), Value: value})
	if err != nil {
		return "", storeError("push", path, err)
	}
	return resp.Key, nil
}

func (s *RecordStore) Remove(ctx context.Context, path model.Path) error {
	if err := model.ValidatePath(path); err != nil {
		return storeError("remove", path, err)
	}

	ctx, cancel := s.parent.callContext(ctx)
	defer cancel()

	_, err := s.client.Remove(ctx, &proto.PathRequest{Path: path.String()})
	return storeError("remove", path, err)
}

// Get reads the value at path once.
func (s *RecordStore) Get(ctx context.Context, path model.Path) (model.Snapshot, error) {
	if err := model.ValidatePath(path); err != nil {
		return model.Snapshot{}, storeError("get", path, err)
	}

	ctx, cancel := s.parent.callContext(ctx)
	defer cancel()

	resp, err := s.client.Get(ctx, &proto.PathRequest{Path: path.String()})
	if err != nil {
		return model.Snapshot{}, storeError("get", path, err)
	}
	return model.Snapshot{Path: path, Value: resp.Value}, nil
}

// Subscribe streams the value at path from a background goroutine. A broken
// stream is reopened with capped exponential backoff; a value equal to the
// last delivered one is not repeated after a reconnect. The subscription
// stops for good when the server denies access to path.
func (s *RecordStore) Subscribe(path model.Path, listener func(model.Snapshot)) model.Unsubscribe {
	ctx, cancel := context.WithCancel(context.Background())
	var once sync.Once

	go s.watch(ctx, path, listener)

	return func() { once.Do(cancel) }
}

// newBackOff returns the reconnect schedule of one subscription. It never
// gives up on its own; only ctx ends it.
func (s *RecordStore) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.minBackoff
	b.MaxInterval = s.maxBackoff
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithContext(b, ctx)
}

func (s *RecordStore) watch(ctx context.Context, path model.Path, listener func(model.Snapshot)) {
	if err := model.ValidatePath(path); err != nil {
		s.parent.logger.Warn("Remote records: watch rejected",
			"path", path,
			"error", err.Error())
		return
	}

	var (
		last      *model.Snapshot
		retry     = s.newBackOff(ctx)
		renewed   bool
		delivered bool
	)

	emit := func(snapshot model.Snapshot) {
		delivered = true
		if last != nil && reflect.DeepEqual(last.Value, snapshot.Value) {
			return
		}
		last = &snapshot
		listener(snapshot)
	}

	for {
		delivered = false
		err := s.stream(ctx, path, emit)
		if ctx.Err() != nil {
			return
		}
		if delivered {
			retry.Reset()
			renewed = false
		}

		switch status.Code(err) {
		case codes.PermissionDenied, codes.InvalidArgument:
			s.parent.logger.Warn("Remote records: watch rejected",
				"path", path,
				"error", err.Error())
			return
		case codes.Unauthenticated:
			if renewed || !s.renew(ctx) {
				s.parent.logger.Info("Remote records: watch stopped without session",
					"path", path)
				return
			}
			renewed = true
			continue
		}

		delay := retry.NextBackOff()
		if delay == backoff.Stop {
			return
		}

		s.parent.logger.Debug("Remote records: watch interrupted",
			"path", path,
			"retry_in", delay,
			"error", errString(err))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (s *RecordStore) stream(ctx context.Context, path model.Path, emit func(model.Snapshot)) error {
	stream, err := s.client.Watch(ctx, &proto.PathRequest{Path: path.String()})
	if err != nil {
		return err
	}

	for {
		msg, err := stream.Recv()
		if err != nil {
			return err
		}
		emit(model.Snapshot{Path: path, Value: msg.Value})
	}
}

func (s *RecordStore) renew(ctx context.Context) bool {
	tokens := s.parent.tokenSource()
	if tokens == nil {
		return false
	}
	stale := tokens.AccessToken()
	if stale == "" {
		return false
	}
	_, err := tokens.Renew(ctx, stale)
	return err == nil
}

func errString(err error) string {
	if err == nil || errors.Is(err, io.EOF) {
		return "stream closed"
	}
	return err.Error()
}
