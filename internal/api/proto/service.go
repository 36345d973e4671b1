package proto

import (
	"context"

	"google.golang.org/grpc"
)

const (
	Auth_SignUp_FullMethodName  = "/storefront.Auth/SignUp"
	Auth_SignIn_FullMethodName  = "/storefront.Auth/SignIn"
	Auth_SignOut_FullMethodName = "/storefront.Auth/SignOut"
	Auth_Refresh_FullMethodName = "/storefront.Auth/Refresh"

	Records_Get_FullMethodName    = "/storefront.Records/Get"
	Records_Set_FullMethodName    = "/storefront.Records/Set"
	Records_Update_FullMethodName = "/storefront.Records/Update"
	Records_Push_FullMethodName   = "/storefront.Records/Push"
	Records_Remove_FullMethodName = "/storefront.Records/Remove"
	Records_Watch_FullMethodName  = "/storefront.Records/Watch"

	Avatars_Upload_FullMethodName   = "/storefront.Avatars/Upload"
	Avatars_Download_FullMethodName = "/storefront.Avatars/Download"
	Avatars_Remove_FullMethodName   = "/storefront.Avatars/Remove"
)

// AuthServicePrefix is the method prefix of the unauthenticated Auth service.
const AuthServicePrefix = "/storefront.Auth/"

// unaryHandler adapts a typed server method to grpc.MethodHandler.
func unaryHandler[S any, Req any, Resp any](method string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(S), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: method,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(S), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// AuthServer is the session provider: account creation, sign-in, sign-out
// and token refresh.
type AuthServer interface {
	SignUp(context.Context, *Credentials) (*Session, error)
	SignIn(context.Context, *Credentials) (*Session, error)
	SignOut(context.Context, *TokenRequest) (*Empty, error)
	Refresh(context.Context, *TokenRequest) (*Session, error)
}

func RegisterAuthServer(s grpc.ServiceRegistrar, srv AuthServer) {
	s.RegisterService(&Auth_ServiceDesc, srv)
}

var Auth_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "storefront.Auth",
	HandlerType: (*AuthServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SignUp", Handler: unaryHandler(Auth_SignUp_FullMethodName, AuthServer.SignUp)},
		{MethodName: "SignIn", Handler: unaryHandler(Auth_SignIn_FullMethodName, AuthServer.SignIn)},
		{MethodName: "SignOut", Handler: unaryHandler(Auth_SignOut_FullMethodName, AuthServer.SignOut)},
		{MethodName: "Refresh", Handler: unaryHandler(Auth_Refresh_FullMethodName, AuthServer.Refresh)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "storefront.proto",
}

type AuthClient interface {
	SignUp(ctx context.Context, in *Credentials, opts ...grpc.CallOption) (*Session, error)
	SignIn(ctx context.Context, in *Credentials, opts ...grpc.CallOption) (*Session, error)
	SignOut(ctx context.Context, in *TokenRequest, opts ...grpc.CallOption) (*Empty, error)
	Refresh(ctx context.Context, in *TokenRequest, opts ...grpc.CallOption) (*Session, error)
}

type authClient struct {
	cc grpc.ClientConnInterface
}

func NewAuthClient(cc grpc.ClientConnInterface) AuthClient {
	return &authClient{cc}
}

func (c *authClient) SignUp(ctx context.Context, in *Credentials, opts ...grpc.CallOption) (*Session, error) {
	return invoke[Session](ctx, c.cc, Auth_SignUp_FullMethodName, in, opts)
}

func (c *authClient) SignIn(ctx context.Context, in *Credentials, opts ...grpc.CallOption) (*Session, error) {
	return invoke[Session](ctx, c.cc, Auth_SignIn_FullMethodName, in, opts)
}

func (c *authClient) SignOut(ctx context.Context, in *TokenRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, Auth_SignOut_FullMethodName, in, opts)
}

func (c *authClient) Refresh(ctx context.Context, in *TokenRequest, opts ...grpc.CallOption) (*Session, error) {
	return invoke[Session](ctx, c.cc, Auth_Refresh_FullMethodName, in, opts)
}

// RecordsServer is the realtime hierarchical record store.
type RecordsServer interface {
	Get(context.Context, *PathRequest) (*Snapshot, error)
	Set(context.Context, *SetRequest) (*Empty, error)
	Update(context.Context, *UpdateRequest) (*Empty, error)
	Push(context.Context, *SetRequest) (*PushResponse, error)
	Remove(context.Context, *PathRequest) (*Empty, error)
	Watch(*PathRequest, grpc.ServerStreamingServer[Snapshot]) error
}

func RegisterRecordsServer(s grpc.ServiceRegistrar, srv RecordsServer) {
	s.RegisterService(&Records_ServiceDesc, srv)
}

func _Records_Watch_Handler(srv any, stream grpc.ServerStream) error {
	m := new(PathRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(RecordsServer).Watch(m, &grpc.GenericServerStream[PathRequest, Snapshot]{ServerStream: stream})
}

var Records_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "storefront.Records",
	HandlerType: (*RecordsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Get", Handler: unaryHandler(Records_Get_FullMethodName, RecordsServer.Get)},
		{MethodName: "Set", Handler: unaryHandler(Records_Set_FullMethodName, RecordsServer.Set)},
		{MethodName: "Update", Handler: unaryHandler(Records_Update_FullMethodName, RecordsServer.Update)},
		{MethodName: "Push", Handler: unaryHandler(Records_Push_FullMethodName, RecordsServer.Push)},
		{MethodName: "Remove", Handler: unaryHandler(Records_Remove_FullMethodName, RecordsServer.Remove)},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Watch",
			Handler:       _Records_Watch_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "storefront.proto",
}

type RecordsClient interface {
	Get(ctx context.Context, in *PathRequest, opts ...grpc.CallOption) (*Snapshot, error)
	Set(ctx context.Context, in *SetRequest, opts ...grpc.CallOption) (*Empty, error)
	Update(ctx context.Context, in *UpdateRequest, opts ...grpc.CallOption) (*Empty, error)
	Push(ctx context.Context, in *SetRequest, opts ...grpc.CallOption) (*PushResponse, error)
	Remove(ctx context.Context, in *PathRequest, opts ...grpc.CallOption) (*Empty, error)
	Watch(ctx context.Context, in *PathRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[Snapshot], error)
}

type recordsClient struct {
	cc grpc.ClientConnInterface
}

func NewRecordsClient(cc grpc.ClientConnInterface) RecordsClient {
	return &recordsClient{cc}
}

func (c *recordsClient) Get(ctx context.Context, in *PathRequest, opts ...grpc.CallOption) (*Snapshot, error) {
	return invoke[Snapshot](ctx, c.cc, Records_Get_FullMethodName, in, opts)
}

func (c *recordsClient) Set(ctx context.Context, in *SetRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, Records_Set_FullMethodName, in, opts)
}

func (c *recordsClient) Update(ctx context.Context, in *UpdateRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, Records_Update_FullMethodName, in, opts)
}

func (c *recordsClient) Push(ctx context.Context, in *SetRequest, opts ...grpc.CallOption) (*PushResponse, error) {
	return invoke[PushResponse](ctx, c.cc, Records_Push_FullMethodName, in, opts)
}

func (c *recordsClient) Remove(ctx context.Context, in *PathRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, Records_Remove_FullMethodName, in, opts)
}

func (c *recordsClient) Watch(ctx context.Context, in *PathRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[Snapshot], error) {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	stream, err := c.cc.NewStream(ctx, &Records_ServiceDesc.Streams[0], Records_Watch_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[PathRequest, Snapshot]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// AvatarsServer stores the profile image of the caller.
type AvatarsServer interface {
	Upload(context.Context, *Avatar) (*Empty, error)
	Download(context.Context, *Empty) (*Avatar, error)
	Remove(context.Context, *Empty) (*Empty, error)
}

func RegisterAvatarsServer(s grpc.ServiceRegistrar, srv AvatarsServer) {
	s.RegisterService(&Avatars_ServiceDesc, srv)
}

var Avatars_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "storefront.Avatars",
	HandlerType: (*AvatarsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Upload", Handler: unaryHandler(Avatars_Upload_FullMethodName, AvatarsServer.Upload)},
		{MethodName: "Download", Handler: unaryHandler(Avatars_Download_FullMethodName, AvatarsServer.Download)},
		{MethodName: "Remove", Handler: unaryHandler(Avatars_Remove_FullMethodName, AvatarsServer.Remove)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "storefront.proto",
}

type AvatarsClient interface {
	Upload(ctx context.Context, in *Avatar, opts ...grpc.CallOption) (*Empty, error)
	Download(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Avatar, error)
	Remove(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error)
}

type avatarsClient struct {
	cc grpc.ClientConnInterface
}

func NewAvatarsClient(cc grpc.ClientConnInterface) AvatarsClient {
	return &avatarsClient{cc}
}

func (c *avatarsClient) Upload(ctx context.Context, in *Avatar, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, Avatars_Upload_FullMethodName, in, opts)
}

func (c *avatarsClient) Download(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Avatar, error) {
	return invoke[Avatar](ctx, c.cc, Avatars_Download_FullMethodName, in, opts)
}

func (c *avatarsClient) Remove(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, Avatars_Remove_FullMethodName, in, opts)
}
