package estate

import (
	"context"

	"google.golang.org/grpc"

	platformgrpc "github.com/louisbranch/fairsquares/internal/platform/grpc"
)

// Client calls the estate service over a connection using the JSON codec.
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient returns a client for conn.
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

func invoke[Resp any](ctx context.Context, c *Client, method string, in any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(platformgrpc.JSONCodecName)}, opts...)
	if err := c.conn.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Contribute(ctx context.Context, in *AmountRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "Contribute", in, opts...)
}

func (c *Client) Withdraw(ctx context.Context, in *AmountRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "Withdraw", in, opts...)
}

func (c *Client) ReserveContributions(ctx context.Context, in *ReserveContributionsRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "ReserveContributions", in, opts...)
}

func (c *Client) SubmitAsset(ctx context.Context, in *SubmitAssetRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "SubmitAsset", in, opts...)
}

func (c *Client) ValidateTransaction(ctx context.Context, in *AssetRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "ValidateTransaction", in, opts...)
}

func (c *Client) CouncilVote(ctx context.Context, in *CouncilVoteRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "CouncilVote", in, opts...)
}

func (c *Client) CloseCouncil(ctx context.Context, in *HashRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "CloseCouncil", in, opts...)
}

func (c *Client) Vote(ctx context.Context, in *VoteRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "Vote", in, opts...)
}

func (c *Client) LaunchRepresentativeSession(ctx context.Context, in *RepresentativeSessionRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "LaunchRepresentativeSession", in, opts...)
}

func (c *Client) LaunchDemotionSession(ctx context.Context, in *AssetRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "LaunchDemotionSession", in, opts...)
}

func (c *Client) RequestAsset(ctx context.Context, in *AssetRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "RequestAsset", in, opts...)
}

func (c *Client) LaunchTenantSession(ctx context.Context, in *TenantSessionRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "LaunchTenantSession", in, opts...)
}

func (c *Client) PayGuarantyDeposit(ctx context.Context, in *AssetRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "PayGuarantyDeposit", in, opts...)
}

func (c *Client) PayRent(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "PayRent", in, opts...)
}

func (c *Client) GetAsset(ctx context.Context, in *AssetRequest, opts ...grpc.CallOption) (*AssetView, error) {
	return invoke[AssetView](ctx, c, "GetAsset", in, opts...)
}

func (c *Client) GetVirtualAccount(ctx context.Context, in *AssetRequest, opts ...grpc.CallOption) (*VirtualAccountView, error) {
	return invoke[VirtualAccountView](ctx, c, "GetVirtualAccount", in, opts...)
}

func (c *Client) GetReferendum(ctx context.Context, in *ReferendumRequest, opts ...grpc.CallOption) (*ReferendumView, error) {
	return invoke[ReferendumView](ctx, c, "GetReferendum", in, opts...)
}

func (c *Client) SetRole(ctx context.Context, in *RoleRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "SetRole", in, opts...)
}

func (c *Client) RequestRole(ctx context.Context, in *RoleRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "RequestRole", in, opts...)
}

func (c *Client) ApproveRole(ctx context.Context, in *RoleRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "ApproveRole", in, opts...)
}

func (c *Client) MintAsset(ctx context.Context, in *MintAssetRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "MintAsset", in, opts...)
}

func (c *Client) SetBalance(ctx context.Context, in *BalanceRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "SetBalance", in, opts...)
}

func (c *Client) GetBalance(ctx context.Context, in *BalanceRequest, opts ...grpc.CallOption) (*BalanceResponse, error) {
	return invoke[BalanceResponse](ctx, c, "GetBalance", in, opts...)
}

func (c *Client) AdvanceBlock(ctx context.Context, in *BlockRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "AdvanceBlock", in, opts...)
}
