package estate

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "fairsquares.estate.v1.EstateService"

// EstateServer is the server API for the estate service.
type EstateServer interface {
	Contribute(context.Context, *AmountRequest) (*Empty, error)
	Withdraw(context.Context, *AmountRequest) (*Empty, error)
	ReserveContributions(context.Context, *ReserveContributionsRequest) (*Empty, error)
	SubmitAsset(context.Context, *SubmitAssetRequest) (*Empty, error)
	ValidateTransaction(context.Context, *AssetRequest) (*Empty, error)
	CouncilVote(context.Context, *CouncilVoteRequest) (*Empty, error)
	CloseCouncil(context.Context, *HashRequest) (*Empty, error)
	Vote(context.Context, *VoteRequest) (*Empty, error)
	LaunchRepresentativeSession(context.Context, *RepresentativeSessionRequest) (*Empty, error)
	LaunchDemotionSession(context.Context, *AssetRequest) (*Empty, error)
	RequestAsset(context.Context, *AssetRequest) (*Empty, error)
	LaunchTenantSession(context.Context, *TenantSessionRequest) (*Empty, error)
	PayGuarantyDeposit(context.Context, *AssetRequest) (*Empty, error)
	PayRent(context.Context, *Empty) (*Empty, error)

	GetAsset(context.Context, *AssetRequest) (*AssetView, error)
	GetVirtualAccount(context.Context, *AssetRequest) (*VirtualAccountView, error)
	GetReferendum(context.Context, *ReferendumRequest) (*ReferendumView, error)

	SetRole(context.Context, *RoleRequest) (*Empty, error)
	RequestRole(context.Context, *RoleRequest) (*Empty, error)
	ApproveRole(context.Context, *RoleRequest) (*Empty, error)
	MintAsset(context.Context, *MintAssetRequest) (*Empty, error)
	SetBalance(context.Context, *BalanceRequest) (*Empty, error)
	GetBalance(context.Context, *BalanceRequest) (*BalanceResponse, error)
	AdvanceBlock(context.Context, *BlockRequest) (*Empty, error)
}

// RegisterEstateServer registers srv on s.
func RegisterEstateServer(s grpc.ServiceRegistrar, srv EstateServer) {
	s.RegisterService(&serviceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unary builds the method descriptor for one request/response call.
func unary[Req, Resp any](method string, call func(EstateServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			server := srv.(EstateServer)
			if interceptor == nil {
				return call(server, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(server, ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EstateServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Contribute", EstateServer.Contribute),
		unary("Withdraw", EstateServer.Withdraw),
		unary("ReserveContributions", EstateServer.ReserveContributions),
		unary("SubmitAsset", EstateServer.SubmitAsset),
		unary("ValidateTransaction", EstateServer.ValidateTransaction),
		unary("CouncilVote", EstateServer.CouncilVote),
		unary("CloseCouncil", EstateServer.CloseCouncil),
		unary("Vote", EstateServer.Vote),
		unary("LaunchRepresentativeSession", EstateServer.LaunchRepresentativeSession),
		unary("LaunchDemotionSession", EstateServer.LaunchDemotionSession),
		unary("RequestAsset", EstateServer.RequestAsset),
		unary("LaunchTenantSession", EstateServer.LaunchTenantSession),
		unary("PayGuarantyDeposit", EstateServer.PayGuarantyDeposit),
		unary("PayRent", EstateServer.PayRent),
		unary("GetAsset", EstateServer.GetAsset),
		unary("GetVirtualAccount", EstateServer.GetVirtualAccount),
		unary("GetReferendum", EstateServer.GetReferendum),
		unary("SetRole", EstateServer.SetRole),
		unary("RequestRole", EstateServer.RequestRole),
		unary("ApproveRole", EstateServer.ApproveRole),
		unary("MintAsset", EstateServer.MintAsset),
		unary("SetBalance", EstateServer.SetBalance),
		unary("GetBalance", EstateServer.GetBalance),
		unary("AdvanceBlock", EstateServer.AdvanceBlock),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fairsquares/estate/v1/estate.json",
}
