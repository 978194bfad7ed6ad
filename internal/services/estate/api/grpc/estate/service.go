// Package estate serves the estate engine over gRPC.
package estate

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	grpcmetadata "google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	apperrors "github.com/louisbranch/fairsquares/internal/platform/errors"
	"github.com/louisbranch/fairsquares/internal/platform/errors/i18n"
	"github.com/louisbranch/fairsquares/internal/platform/requestctx"
	"github.com/louisbranch/fairsquares/internal/services/estate/adapters/memory"
	"github.com/louisbranch/fairsquares/internal/services/estate/api/grpc/metadata"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/engine"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

// DevTools are the in-memory collaborators behind the development helpers.
type DevTools struct {
	Roles    *memory.Roles
	Assets   *memory.Assets
	Currency *memory.Currency
	// AdvanceBlock is allowed only when no block clock drives the engine.
	AdvanceBlock bool
}

// Service implements EstateServer on top of an engine.
type Service struct {
	engine *engine.Engine
	dev    *DevTools
}

var _ EstateServer = (*Service)(nil)

// NewService returns a service for e. A nil dev disables the development
// helpers.
func NewService(e *engine.Engine, dev *DevTools) *Service {
	return &Service{engine: e, dev: dev}
}

func caller(ctx context.Context) (primitive.AccountID, error) {
	account := requestctx.AccountIDFromContext(ctx)
	if account == "" {
		return "", status.Error(codes.Unauthenticated, "caller account is required")
	}
	return primitive.AccountID(account), nil
}

// localeOf returns the caller's requested locale.
func localeOf(ctx context.Context) string {
	md, _ := grpcmetadata.FromIncomingContext(ctx)
	if locale := metadata.FirstMetadataValue(md, metadata.LocaleHeader); locale != "" {
		return locale
	}
	return i18n.BaseLocale
}

// toStatus maps engine failures to gRPC statuses with error details.
func toStatus(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr.ToGRPCStatus(localeOf(ctx))
	}
	switch {
	case errors.Is(err, engine.ErrBlockRegressed):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// act runs fn as the calling account.
func act(ctx context.Context, fn func(primitive.AccountID) error) (*Empty, error) {
	who, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(who); err != nil {
		return nil, toStatus(ctx, err)
	}
	return &Empty{}, nil
}

func (s *Service) Contribute(ctx context.Context, in *AmountRequest) (*Empty, error) {
	return act(ctx, func(who primitive.AccountID) error { return s.engine.Contribute(ctx, who, in.Amount) })
}

func (s *Service) Withdraw(ctx context.Context, in *AmountRequest) (*Empty, error) {
	return act(ctx, func(who primitive.AccountID) error { return s.engine.Withdraw(ctx, who, in.Amount) })
}

func (s *Service) ReserveContributions(ctx context.Context, in *ReserveContributionsRequest) (*Empty, error) {
	return act(ctx, func(who primitive.AccountID) error {
		return s.engine.ReserveContributions(ctx, who, in.Asset, in.Contributions)
	})
}

func (s *Service) SubmitAsset(ctx context.Context, in *SubmitAssetRequest) (*Empty, error) {
	return act(ctx, func(who primitive.AccountID) error {
		return s.engine.SubmitAsset(ctx, who, in.Asset, in.Price, in.Metadata)
	})
}

func (s *Service) ValidateTransaction(ctx context.Context, in *AssetRequest) (*Empty, error) {
	return act(ctx, func(who primitive.AccountID) error { return s.engine.ValidateTransaction(ctx, who, in.Asset) })
}

func (s *Service) CouncilVote(ctx context.Context, in *CouncilVoteRequest) (*Empty, error) {
	return act(ctx, func(who primitive.AccountID) error { return s.engine.CouncilVote(ctx, who, in.Hash, in.Aye) })
}

func (s *Service) CloseCouncil(ctx context.Context, in *HashRequest) (*Empty, error) {
	return act(ctx, func(who primitive.AccountID) error { return s.engine.CloseCouncil(ctx, who, in.Hash) })
}

func (s *Service) Vote(ctx context.Context, in *VoteRequest) (*Empty, error) {
	return act(ctx, func(who primitive.AccountID) error { return s.engine.Vote(ctx, who, in.Index, in.Aye) })
}

func (s *Service) LaunchRepresentativeSession(ctx context.Context, in *RepresentativeSessionRequest) (*Empty, error) {
	return act(ctx, func(who primitive.AccountID) error {
		return s.engine.LaunchRepresentativeSession(ctx, who, in.Asset, in.Candidate)
	})
}

func (s *Service) LaunchDemotionSession(ctx context.Context, in *AssetRequest) (*Empty, error) {
	return act(ctx, func(who primitive.AccountID) error { return s.engine.LaunchDemotionSession(ctx, who, in.Asset) })
}

func (s *Service) RequestAsset(ctx context.Context, in *AssetRequest) (*Empty, error) {
	return act(ctx, func(who primitive.AccountID) error { return s.engine.RequestAsset(ctx, who, in.Asset) })
}

func (s *Service) LaunchTenantSession(ctx context.Context, in *TenantSessionRequest) (*Empty, error) {
	return act(ctx, func(who primitive.AccountID) error {
		return s.engine.LaunchTenantSession(ctx, who, in.Asset, in.Tenant, in.Judgement)
	})
}

func (s *Service) PayGuarantyDeposit(ctx context.Context, in *AssetRequest) (*Empty, error) {
	return act(ctx, func(who primitive.AccountID) error { return s.engine.PayGuarantyDeposit(ctx, who, in.Asset) })
}

func (s *Service) PayRent(ctx context.Context, _ *Empty) (*Empty, error) {
	return act(ctx, func(who primitive.AccountID) error { return s.engine.PayRent(ctx, who) })
}

// GetAsset returns the public record of an asset.
func (s *Service) GetAsset(_ context.Context, in *AssetRequest) (*AssetView, error) {
	a, ok := s.engine.Asset(in.Asset)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "asset %s not found", in.Asset)
	}
	return &AssetView{
		Asset:          a.Key,
		Status:         string(a.Status),
		Seller:         a.Seller,
		Price:          a.Price,
		Metadata:       a.Metadata,
		Rent:           a.Rent,
		Representative: a.Representative,
		Tenants:        a.Tenants,
		Waiting:        a.Waiting,
		ProposalHash:   a.ProposalHash,
	}, nil
}

// GetVirtualAccount returns the virtual account of an asset with its owners.
func (s *Service) GetVirtualAccount(_ context.Context, in *AssetRequest) (*VirtualAccountView, error) {
	va, ok := s.engine.VirtualAccount(in.Asset)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "asset %s has no virtual account", in.Asset)
	}
	view := &VirtualAccountView{Asset: va.Asset, Account: va.Account, TokenID: va.TokenID, Issued: va.Issued}
	for _, owner := range va.Owners {
		view.Owners = append(view.Owners, Holding{Account: owner, Balance: s.engine.TokenBalance(in.Asset, owner)})
	}
	return view, nil
}

// GetReferendum returns a referendum and its tally.
func (s *Service) GetReferendum(_ context.Context, in *ReferendumRequest) (*ReferendumView, error) {
	ref, ok := s.engine.Referendum(in.Index)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "referendum %d not found", in.Index)
	}
	return &ReferendumView{
		Index:     ref.Referendum,
		Hash:      ref.Hash,
		Kind:      string(ref.Action.Kind),
		Asset:     ref.Action.Asset,
		Candidate: ref.Action.Candidate,
		Track:     string(ref.Track),
		Start:     ref.Start,
		End:       ref.End,
		Ayes:      ref.Ayes,
		Nays:      ref.Nays,
		Outcome:   string(ref.Outcome),
		EnactAt:   ref.EnactAt,
		Enacted:   ref.Enacted,
	}, nil
}

func (s *Service) devTools() (*DevTools, error) {
	if s.dev == nil {
		return nil, status.Error(codes.Unimplemented, "development helpers are disabled")
	}
	return s.dev, nil
}

// SetRole grants a role without a prior request.
func (s *Service) SetRole(_ context.Context, in *RoleRequest) (*Empty, error) {
	dev, err := s.devTools()
	if err != nil {
		return nil, err
	}
	if !in.Role.Valid() {
		return nil, status.Errorf(codes.InvalidArgument, "unknown role %q", in.Role)
	}
	dev.Roles.Grant(in.Account, in.Role)
	return &Empty{}, nil
}

// RequestRole records a pending role request.
func (s *Service) RequestRole(ctx context.Context, in *RoleRequest) (*Empty, error) {
	dev, err := s.devTools()
	if err != nil {
		return nil, err
	}
	if err := dev.Roles.RegisterPending(in.Account, in.Role); err != nil {
		return nil, toStatus(ctx, err)
	}
	return &Empty{}, nil
}

// ApproveRole approves a pending role request.
func (s *Service) ApproveRole(ctx context.Context, in *RoleRequest) (*Empty, error) {
	dev, err := s.devTools()
	if err != nil {
		return nil, err
	}
	if err := dev.Roles.Approve(in.Account, in.Role); err != nil {
		return nil, toStatus(ctx, err)
	}
	return &Empty{}, nil
}

// MintAsset mints an asset NFT.
func (s *Service) MintAsset(ctx context.Context, in *MintAssetRequest) (*Empty, error) {
	dev, err := s.devTools()
	if err != nil {
		return nil, err
	}
	if err := dev.Assets.Mint(in.Asset, in.Owner, in.Metadata); err != nil {
		return nil, toStatus(ctx, err)
	}
	return &Empty{}, nil
}

// SetBalance sets an account's free balance.
func (s *Service) SetBalance(_ context.Context, in *BalanceRequest) (*Empty, error) {
	dev, err := s.devTools()
	if err != nil {
		return nil, err
	}
	dev.Currency.MakeFreeBalanceBe(in.Account, in.Amount)
	return &Empty{}, nil
}

// GetBalance reports an account's free and reserved balances.
func (s *Service) GetBalance(_ context.Context, in *BalanceRequest) (*BalanceResponse, error) {
	dev, err := s.devTools()
	if err != nil {
		return nil, err
	}
	return &BalanceResponse{Free: dev.Currency.FreeBalance(in.Account), Reserved: dev.Currency.ReservedBalance(in.Account)}, nil
}

// AdvanceBlock runs the block hooks for a block.
func (s *Service) AdvanceBlock(ctx context.Context, in *BlockRequest) (*Empty, error) {
	dev, err := s.devTools()
	if err != nil {
		return nil, err
	}
	if !dev.AdvanceBlock {
		return nil, status.Error(codes.FailedPrecondition, "blocks are driven by the clock")
	}
	if err := s.engine.OnInitialize(ctx, in.Block); err != nil {
		return nil, toStatus(ctx, err)
	}
	if err := s.engine.OnIdle(ctx, in.Block); err != nil {
		return nil, toStatus(ctx, err)
	}
	return &Empty{}, nil
}
