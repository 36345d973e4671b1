package handler

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	grpcctx "github.com/dtroode/storefront/internal/api/grpc/context"
	"github.com/dtroode/storefront/internal/api/proto"
	"github.com/dtroode/storefront/internal/mocks"
	"github.com/dtroode/storefront/internal/model"
	"github.com/dtroode/storefront/internal/testutil"
)

func authedContext(uid uuid.UUID) context.Context {
	return grpcctx.NewManager().SetUserIDToContext(context.Background(), uid)
}

func newRecordsHandler(t *testing.T) (*Records, *mocks.RecordService) {
	svc := mocks.NewRecordService(t)
	return NewRecords(svc, grpcctx.NewManager(), testutil.MakeNoopLogger()), svc
}

func TestRecords_Unauthenticated(t *testing.T) {
	t.Parallel()

	h, _ := newRecordsHandler(t)

	_, err := h.Get(context.Background(), &proto.PathRequest{Path: "users/x"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestRecords_UsesContextManager(t *testing.T) {
	t.Parallel()

	svc := mocks.NewRecordService(t)
	manager := mocks.NewContextManager(t)
	h := NewRecords(svc, manager, testutil.MakeNoopLogger())

	uid := uuid.New()
	path := model.ProductsPath(uid).Child("p1")
	manager.On("GetUserIDFromContext", mock.Anything).Return(uid, true).Once()
	svc.On("Remove", mock.Anything, uid, path).Return(nil).Once()

	_, err := h.Remove(context.Background(), &proto.PathRequest{Path: string(path)})
	require.NoError(t, err)

	manager.On("GetUserIDFromContext", mock.Anything).Return(uuid.Nil, false).Once()
	_, err = h.Remove(context.Background(), &proto.PathRequest{Path: string(path)})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestRecords_InvalidPath(t *testing.T) {
	t.Parallel()

	h, _ := newRecordsHandler(t)

	_, err := h.Set(authedContext(uuid.New()), &proto.SetRequest{Path: "users/a.b", Value: "x"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestRecords_Get(t *testing.T) {
	t.Parallel()

	h, svc := newRecordsHandler(t)
	uid := uuid.New()
	path := model.UsersPath(uid)
	svc.On("Get", mock.Anything, uid, path).Return(model.Snapshot{Path: path, Value: map[string]any{"name": "Ann"}}, nil)

	out, err := h.Get(authedContext(uid), &proto.PathRequest{Path: "/" + string(path) + "/"})
	require.NoError(t, err)
	assert.Equal(t, string(path), out.Path)
	assert.Equal(t, map[string]any{"name": "Ann"}, out.Value)
}

func TestRecords_Mutations(t *testing.T) {
	t.Parallel()

	h, svc := newRecordsHandler(t)
	uid := uuid.New()
	ctx := authedContext(uid)
	products := model.ProductsPath(uid)
	product := model.ProductPath(uid, "p1")
	value := map[string]any{"name": "Widget"}

	svc.On("Set", mock.Anything, uid, product, value).Return(nil)
	svc.On("Update", mock.Anything, uid, product, value).Return(nil)
	svc.On("Push", mock.Anything, uid, products, value).Return("k1", nil)
	svc.On("Remove", mock.Anything, uid, product).Return(nil)

	_, err := h.Set(ctx, &proto.SetRequest{Path: string(product), Value: value})
	require.NoError(t, err)

	_, err = h.Update(ctx, &proto.UpdateRequest{Path: string(product), Fields: value})
	require.NoError(t, err)

	pushed, err := h.Push(ctx, &proto.SetRequest{Path: string(products), Value: value})
	require.NoError(t, err)
	assert.Equal(t, "k1", pushed.Key)

	_, err = h.Remove(ctx, &proto.PathRequest{Path: string(product)})
	require.NoError(t, err)
}

func TestRecords_PermissionDenied(t *testing.T) {
	t.Parallel()

	h, svc := newRecordsHandler(t)
	uid := uuid.New()
	other := model.ProductsPath(uuid.New())
	svc.On("Remove", mock.Anything, uid, other).Return(fmt.Errorf("%w: %s", model.ErrPermissionDenied, other))

	_, err := h.Remove(authedContext(uid), &proto.PathRequest{Path: string(other)})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
}

type watchStream struct {
	grpc.ServerStream
	ctx  context.Context
	sent []*proto.Snapshot
	err  error
}

func (s *watchStream) Context() context.Context { return s.ctx }

func (s *watchStream) Send(m *proto.Snapshot) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, m)
	return nil
}

func TestRecords_Watch(t *testing.T) {
	t.Parallel()

	h, svc := newRecordsHandler(t)
	uid := uuid.New()
	path := model.ProductsPath(uid)

	ctx, cancel := context.WithCancel(authedContext(uid))
	ch := make(chan model.Snapshot, 2)
	ch <- model.Snapshot{Path: path}
	ch <- model.Snapshot{Path: path, Value: map[string]any{"p1": map[string]any{"name": "Widget"}}}
	close(ch)
	cancel()

	svc.On("Watch", mock.Anything, uid, path).Return((<-chan model.Snapshot)(ch), nil)

	stream := &watchStream{ctx: ctx}
	err := h.Watch(&proto.PathRequest{Path: string(path)}, stream)
	assert.Equal(t, codes.Canceled, status.Code(err))
	require.Len(t, stream.sent, 2)
	assert.Nil(t, stream.sent[0].Value)
	assert.NotNil(t, stream.sent[1].Value)
}

func TestRecords_Watch_SendError(t *testing.T) {
	t.Parallel()

	h, svc := newRecordsHandler(t)
	uid := uuid.New()
	path := model.UsersPath(uid)

	ch := make(chan model.Snapshot, 1)
	ch <- model.Snapshot{Path: path}
	svc.On("Watch", mock.Anything, uid, path).Return((<-chan model.Snapshot)(ch), nil)

	stream := &watchStream{ctx: authedContext(uid), err: assert.AnError}
	err := h.Watch(&proto.PathRequest{Path: string(path)}, stream)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestRecords_Watch_Denied(t *testing.T) {
	t.Parallel()

	h, svc := newRecordsHandler(t)
	uid := uuid.New()
	other := model.UsersPath(uuid.New())
	svc.On("Watch", mock.Anything, uid, other).Return(nil, model.ErrPermissionDenied)

	err := h.Watch(&proto.PathRequest{Path: string(other)}, &watchStream{ctx: authedContext(uid)})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
}
