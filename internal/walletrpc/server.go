package walletrpc

import (
	"context"

	"google.golang.org/grpc"
)

// CompactTxStreamer_GetBlockRangeServer is the server-side handle for
// the streaming GetBlockRange RPC.
type CompactTxStreamer_GetBlockRangeServer interface {
	Send(*CompactBlock) error
	grpc.ServerStream
}

// CompactTxStreamer_GetTaddressTxidsServer streams transaction ids for
// a transparent address.
type CompactTxStreamer_GetTaddressTxidsServer interface {
	Send(*RawTransaction) error
	grpc.ServerStream
}

// CompactTxStreamer_GetMempoolTxServer streams pending transactions not
// already known to the caller.
type CompactTxStreamer_GetMempoolTxServer interface {
	Send(*CompactTx) error
	grpc.ServerStream
}

// CompactTxStreamer_GetSubtreeRootsServer streams completed note
// commitment subtree roots.
type CompactTxStreamer_GetSubtreeRootsServer interface {
	Send(*SubtreeRoot) error
	grpc.ServerStream
}

// CompactTxStreamerServer is the method set the indexer implements to
// serve wallets, matching the generated-stub surface of the
// CompactTxStreamer service descriptor.
type CompactTxStreamerServer interface {
	GetLatestBlock(ctx context.Context, in *Empty) (*BlockID, error)
	GetBlock(ctx context.Context, in *BlockID) (*CompactBlock, error)
	GetBlockRange(in *BlockRange, stream CompactTxStreamer_GetBlockRangeServer) error
	GetTransaction(ctx context.Context, in *TxFilter) (*RawTransaction, error)
	SendTransaction(ctx context.Context, in *RawTransaction) (*SendResponse, error)
	GetTaddressTxids(in *TransparentAddressBlockFilter, stream CompactTxStreamer_GetTaddressTxidsServer) error
	GetTaddressBalance(ctx context.Context, in *TransparentAddressBlockFilter) (*Balance, error)
	GetMempoolTx(in *Exclude, stream CompactTxStreamer_GetMempoolTxServer) error
	GetTreeState(ctx context.Context, in *BlockID) (*TreeState, error)
	GetAddressUtxos(ctx context.Context, in *GetAddressUtxosArg) (*Utxo, error)
	GetLightdInfo(ctx context.Context, in *Empty) (*LightdInfo, error)
	GetSubtreeRoots(in *SubtreeRootsArg, stream CompactTxStreamer_GetSubtreeRootsServer) error
}

// RegisterCompactTxStreamerServer wires an implementation of
// CompactTxStreamerServer onto a *grpc.Server, mirroring the
// registration call a protoc-generated package exposes.
func RegisterCompactTxStreamerServer(s *grpc.Server, srv CompactTxStreamerServer) {
	s.RegisterService(&compactTxStreamerServiceDesc, srv)
}

var compactTxStreamerServiceDesc = grpc.ServiceDesc{
	ServiceName: "cash.z.wallet.sdk.rpc.CompactTxStreamer",
	HandlerType: (*CompactTxStreamerServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetLatestBlock",
			Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
				in := new(Empty)
				if err := dec(in); err != nil {
					return nil, err
				}
				if interceptor == nil {
					return srv.(CompactTxStreamerServer).GetLatestBlock(ctx, in)
				}
				info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/cash.z.wallet.sdk.rpc.CompactTxStreamer/GetLatestBlock"}
				handler := func(ctx context.Context, req any) (any, error) {
					return srv.(CompactTxStreamerServer).GetLatestBlock(ctx, req.(*Empty))
				}
				return interceptor(ctx, in, info, handler)
			},
		},
		{
			MethodName: "GetBlock",
			Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
				in := new(BlockID)
				if err := dec(in); err != nil {
					return nil, err
				}
				if interceptor == nil {
					return srv.(CompactTxStreamerServer).GetBlock(ctx, in)
				}
				info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/cash.z.wallet.sdk.rpc.CompactTxStreamer/GetBlock"}
				handler := func(ctx context.Context, req any) (any, error) {
					return srv.(CompactTxStreamerServer).GetBlock(ctx, req.(*BlockID))
				}
				return interceptor(ctx, in, info, handler)
			},
		},
		{
			MethodName: "GetTransaction",
			Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
				in := new(TxFilter)
				if err := dec(in); err != nil {
					return nil, err
				}
				if interceptor == nil {
					return srv.(CompactTxStreamerServer).GetTransaction(ctx, in)
				}
				info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/cash.z.wallet.sdk.rpc.CompactTxStreamer/GetTransaction"}
				handler := func(ctx context.Context, req any) (any, error) {
					return srv.(CompactTxStreamerServer).GetTransaction(ctx, req.(*TxFilter))
				}
				return interceptor(ctx, in, info, handler)
			},
		},
		{
			MethodName: "SendTransaction",
			Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
				in := new(RawTransaction)
				if err := dec(in); err != nil {
					return nil, err
				}
				if interceptor == nil {
					return srv.(CompactTxStreamerServer).SendTransaction(ctx, in)
				}
				info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/cash.z.wallet.sdk.rpc.CompactTxStreamer/SendTransaction"}
				handler := func(ctx context.Context, req any) (any, error) {
					return srv.(CompactTxStreamerServer).SendTransaction(ctx, req.(*RawTransaction))
				}
				return interceptor(ctx, in, info, handler)
			},
		},
		{
			MethodName: "GetTaddressBalance",
			Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
				in := new(TransparentAddressBlockFilter)
				if err := dec(in); err != nil {
					return nil, err
				}
				if interceptor == nil {
					return srv.(CompactTxStreamerServer).GetTaddressBalance(ctx, in)
				}
				info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/cash.z.wallet.sdk.rpc.CompactTxStreamer/GetTaddressBalance"}
				handler := func(ctx context.Context, req any) (any, error) {
					return srv.(CompactTxStreamerServer).GetTaddressBalance(ctx, req.(*TransparentAddressBlockFilter))
				}
				return interceptor(ctx, in, info, handler)
			},
		},
		{
			MethodName: "GetTreeState",
			Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
				in := new(BlockID)
				if err := dec(in); err != nil {
					return nil, err
				}
				if interceptor == nil {
					return srv.(CompactTxStreamerServer).GetTreeState(ctx, in)
				}
				info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/cash.z.wallet.sdk.rpc.CompactTxStreamer/GetTreeState"}
				handler := func(ctx context.Context, req any) (any, error) {
					return srv.(CompactTxStreamerServer).GetTreeState(ctx, req.(*BlockID))
				}
				return interceptor(ctx, in, info, handler)
			},
		},
		{
			MethodName: "GetAddressUtxos",
			Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
				in := new(GetAddressUtxosArg)
				if err := dec(in); err != nil {
					return nil, err
				}
				if interceptor == nil {
					return srv.(CompactTxStreamerServer).GetAddressUtxos(ctx, in)
				}
				info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/cash.z.wallet.sdk.rpc.CompactTxStreamer/GetAddressUtxos"}
				handler := func(ctx context.Context, req any) (any, error) {
					return srv.(CompactTxStreamerServer).GetAddressUtxos(ctx, req.(*GetAddressUtxosArg))
				}
				return interceptor(ctx, in, info, handler)
			},
		},
		{
			MethodName: "GetLightdInfo",
			Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
				in := new(Empty)
				if err := dec(in); err != nil {
					return nil, err
				}
				if interceptor == nil {
					return srv.(CompactTxStreamerServer).GetLightdInfo(ctx, in)
				}
				info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/cash.z.wallet.sdk.rpc.CompactTxStreamer/GetLightdInfo"}
				handler := func(ctx context.Context, req any) (any, error) {
					return srv.(CompactTxStreamerServer).GetLightdInfo(ctx, req.(*Empty))
				}
				return interceptor(ctx, in, info, handler)
			},
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName: "GetBlockRange",
			Handler: func(srv any, stream grpc.ServerStream) error {
				in := new(BlockRange)
				if err := stream.RecvMsg(in); err != nil {
					return err
				}
				return srv.(CompactTxStreamerServer).GetBlockRange(in, &getBlockRangeServer{stream})
			},
			ServerStreams: true,
		},
		{
			StreamName: "GetTaddressTxids",
			Handler: func(srv any, stream grpc.ServerStream) error {
				in := new(TransparentAddressBlockFilter)
				if err := stream.RecvMsg(in); err != nil {
					return err
				}
				return srv.(CompactTxStreamerServer).GetTaddressTxids(in, &getTaddressTxidsServer{stream})
			},
			ServerStreams: true,
		},
		{
			StreamName: "GetMempoolTx",
			Handler: func(srv any, stream grpc.ServerStream) error {
				in := new(Exclude)
				if err := stream.RecvMsg(in); err != nil {
					return err
				}
				return srv.(CompactTxStreamerServer).GetMempoolTx(in, &getMempoolTxServer{stream})
			},
			ServerStreams: true,
		},
		{
			StreamName: "GetSubtreeRoots",
			Handler: func(srv any, stream grpc.ServerStream) error {
				in := new(SubtreeRootsArg)
				if err := stream.RecvMsg(in); err != nil {
					return err
				}
				return srv.(CompactTxStreamerServer).GetSubtreeRoots(in, &getSubtreeRootsServer{stream})
			},
			ServerStreams: true,
		},
	},
	Metadata: "zindexer/walletrpc.proto",
}

type getBlockRangeServer struct{ grpc.ServerStream }

func (s *getBlockRangeServer) Send(b *CompactBlock) error { return s.ServerStream.SendMsg(b) }

type getTaddressTxidsServer struct{ grpc.ServerStream }

func (s *getTaddressTxidsServer) Send(r *RawTransaction) error { return s.ServerStream.SendMsg(r) }

type getMempoolTxServer struct{ grpc.ServerStream }

func (s *getMempoolTxServer) Send(t *CompactTx) error { return s.ServerStream.SendMsg(t) }

type getSubtreeRootsServer struct{ grpc.ServerStream }

func (s *getSubtreeRootsServer) Send(r *SubtreeRoot) error { return s.ServerStream.SendMsg(r) }
