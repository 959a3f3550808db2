package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey        = "myday"
	serviceName         = "myday.notify.v1.NotifierPlugin"
	jsonCodecName       = "json"
	methodGetMetadata   = "/" + serviceName + "/GetMetadata"
	methodNotify        = "/" + serviceName + "/Notify"
	methodScheduleAlert = "/" + serviceName + "/ScheduleAlert"
	methodCancelAlert   = "/" + serviceName + "/CancelAlert"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "MYDAY_PLUGIN",
	MagicCookieValue: "myday",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Capabilities []string `json:"capabilities"`
}

type NotifyRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type ScheduleAlertRequest struct {
	AlertID string `json:"alert_id"`
	Title   string `json:"title"`
	// AtUnix is the delivery time in Unix seconds, host-local wall clock.
	AtUnix int64 `json:"at_unix"`
}

type CancelAlertRequest struct {
	AlertID string `json:"alert_id"`
}

type NotifierPluginServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	Notify(ctx context.Context, in *NotifyRequest) (*Empty, error)
	ScheduleAlert(ctx context.Context, in *ScheduleAlertRequest) (*Empty, error)
	CancelAlert(ctx context.Context, in *CancelAlertRequest) (*Empty, error)
}

type NotifierPluginClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	Notify(ctx context.Context, in *NotifyRequest) error
	ScheduleAlert(ctx context.Context, in *ScheduleAlertRequest) error
	CancelAlert(ctx context.Context, in *CancelAlertRequest) error
}

type notifierPluginClient struct {
	conn *grpc.ClientConn
}

func NewNotifierPluginClient(conn *grpc.ClientConn) NotifierPluginClient {
	return &notifierPluginClient{conn: conn}
}

func (c *notifierPluginClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notifierPluginClient) Notify(ctx context.Context, in *NotifyRequest) error {
	return c.conn.Invoke(ctx, methodNotify, in, &Empty{}, grpc.CallContentSubtype(jsonCodecName))
}

func (c *notifierPluginClient) ScheduleAlert(ctx context.Context, in *ScheduleAlertRequest) error {
	return c.conn.Invoke(ctx, methodScheduleAlert, in, &Empty{}, grpc.CallContentSubtype(jsonCodecName))
}

func (c *notifierPluginClient) CancelAlert(ctx context.Context, in *CancelAlertRequest) error {
	return c.conn.Invoke(ctx, methodCancelAlert, in, &Empty{}, grpc.CallContentSubtype(jsonCodecName))
}

func RegisterNotifierPluginServer(server grpc.ServiceRegistrar, impl NotifierPluginServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*NotifierPluginServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetMetadata(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetMetadata}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetMetadata(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "Notify",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &NotifyRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.Notify(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodNotify}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*NotifyRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.Notify(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "ScheduleAlert",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &ScheduleAlertRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.ScheduleAlert(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodScheduleAlert}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*ScheduleAlertRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.ScheduleAlert(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "CancelAlert",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &CancelAlertRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.CancelAlert(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodCancelAlert}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*CancelAlertRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.CancelAlert(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/notify-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl NotifierPluginServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterNotifierPluginServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewNotifierPluginClient(conn), nil
}

func PluginMap(impl NotifierPluginServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
