package estate

import (
	"context"
	"net"
	"testing"
	"time"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	grpcmetadata "google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/genproto/googleapis/rpc/errdetails"

	apperrors "github.com/louisbranch/fairsquares/internal/platform/errors"
	"github.com/louisbranch/fairsquares/internal/services/estate/adapters/memory"
	"github.com/louisbranch/fairsquares/internal/services/estate/api/grpc/metadata"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/effect"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/engine"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/proposal"
	memjournal "github.com/louisbranch/fairsquares/internal/services/estate/storage/memory"
)

var house = primitive.AssetKey{Collection: 7, Item: 1}

type fixture struct {
	client *Client
	dev    *DevTools
}

func startService(t *testing.T, dev bool) fixture {
	t.Helper()
	roles, assets, currency := memory.NewRoles(), memory.NewAssets(), memory.NewCurrency(1)
	params := engine.DefaultParams()
	params.Council = []primitive.AccountID{"council-1", "council-2"}
	e, err := engine.New(engine.Options{
		Params:  params,
		Ports:   effect.Ports{Roles: roles, Assets: assets, Identity: memory.NewIdentity(), Currency: currency},
		Journal: memjournal.NewJournal(),
		Logf:    t.Logf,
	})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}

	var tools *DevTools
	if dev {
		tools = &DevTools{Roles: roles, Assets: assets, Currency: currency, AdvanceBlock: true}
	}

	lis := bufconn.Listen(1024 * 1024)
	srv := gogrpc.NewServer(gogrpc.ChainUnaryInterceptor(metadata.UnaryServerInterceptor(func() (string, error) {
		return "req-generated", nil
	})))
	RegisterEstateServer(srv, NewService(e, tools))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := gogrpc.NewClient("passthrough:///bufnet",
		gogrpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }),
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return fixture{client: NewClient(conn), dev: tools}
}

func callCtx(t *testing.T, account string) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	if account == "" {
		return ctx
	}
	return metadata.WithAccount(ctx, account)
}

func wantStatus(t *testing.T, err error, want codes.Code) *status.Status {
	t.Helper()
	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("error = %v, want gRPC status", err)
	}
	if st.Code() != want {
		t.Fatalf("code = %s, want %s (%s)", st.Code(), want, st.Message())
	}
	return st
}

func TestServiceCarriesAssetThroughCouncil(t *testing.T) {
	f := startService(t, true)
	c := f.client
	admin := callCtx(t, "admin")

	for _, req := range []*RoleRequest{
		{Account: "alice", Role: primitive.RoleInvestor},
		{Account: "seller", Role: primitive.RoleSeller},
	} {
		if _, err := c.SetRole(admin, req); err != nil {
			t.Fatalf("SetRole %s: %v", req.Account, err)
		}
	}
	if _, err := c.SetBalance(admin, &BalanceRequest{Account: "alice", Amount: 50_000}); err != nil {
		t.Fatalf("SetBalance: %v", err)
	}
	if _, err := c.MintAsset(admin, &MintAssetRequest{Asset: house, Owner: "seller", Metadata: "loft"}); err != nil {
		t.Fatalf("MintAsset: %v", err)
	}
	if _, err := c.AdvanceBlock(admin, &BlockRequest{Block: 1}); err != nil {
		t.Fatalf("AdvanceBlock: %v", err)
	}

	if _, err := c.Contribute(callCtx(t, "alice"), &AmountRequest{Amount: 20_000}); err != nil {
		t.Fatalf("Contribute: %v", err)
	}
	balance, err := c.GetBalance(admin, &BalanceRequest{Account: "alice"})
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if balance.Free != 30_000 {
		t.Fatalf("free balance = %d, want %d", balance.Free, 30_000)
	}

	if _, err := c.SubmitAsset(callCtx(t, "seller"), &SubmitAssetRequest{Asset: house, Price: 10_000, Metadata: "loft"}); err != nil {
		t.Fatalf("SubmitAsset: %v", err)
	}
	view, err := c.GetAsset(admin, &AssetRequest{Asset: house})
	if err != nil {
		t.Fatalf("GetAsset: %v", err)
	}
	if view.Status != "reviewing" || view.Seller != "seller" || view.Price != 10_000 {
		t.Fatalf("asset = %+v, want reviewing loft from seller at 10000", view)
	}

	hash := proposal.Action{Kind: proposal.ActionAcquireAsset, Asset: house}.Hash()
	if view.ProposalHash != hash {
		t.Fatalf("proposal hash = %q, want %q", view.ProposalHash, hash)
	}
	for _, member := range []string{"council-1", "council-2"} {
		if _, err := c.CouncilVote(callCtx(t, member), &CouncilVoteRequest{Hash: hash, Aye: true}); err != nil {
			t.Fatalf("CouncilVote %s: %v", member, err)
		}
	}
	if _, err := c.CloseCouncil(callCtx(t, "council-1"), &HashRequest{Hash: hash}); err != nil {
		t.Fatalf("CloseCouncil: %v", err)
	}
	ref, err := c.GetReferendum(admin, &ReferendumRequest{Index: 0})
	if err != nil {
		t.Fatalf("GetReferendum: %v", err)
	}
	if ref.Asset != house || ref.Kind != string(proposal.ActionAcquireAsset) || ref.Outcome != string(proposal.OutcomePending) {
		t.Fatalf("referendum = %+v, want pending acquisition of %s", ref, house)
	}
}

func TestServiceMapsDomainErrors(t *testing.T) {
	f := startService(t, true)

	_, err := f.client.Contribute(callCtx(t, "mallory"), &AmountRequest{Amount: 10})
	st := wantStatus(t, err, codes.PermissionDenied)

	var reason, localized string
	for _, detail := range st.Details() {
		switch d := detail.(type) {
		case *errdetails.ErrorInfo:
			reason = d.GetReason()
		case *errdetails.LocalizedMessage:
			localized = d.GetMessage()
		}
	}
	if reason != string(apperrors.CodeUnauthorized) {
		t.Fatalf("error reason = %q, want %q", reason, apperrors.CodeUnauthorized)
	}
	if localized != "You are not allowed to do that." {
		t.Fatalf("localized message = %q", localized)
	}
}

func TestServiceRequiresCaller(t *testing.T) {
	f := startService(t, true)
	_, err := f.client.PayRent(callCtx(t, ""), &Empty{})
	wantStatus(t, err, codes.Unauthenticated)
}

func TestServiceReportsMissingRecords(t *testing.T) {
	f := startService(t, true)
	ctx := callCtx(t, "alice")

	_, err := f.client.GetAsset(ctx, &AssetRequest{Asset: house})
	wantStatus(t, err, codes.NotFound)
	_, err = f.client.GetVirtualAccount(ctx, &AssetRequest{Asset: house})
	wantStatus(t, err, codes.NotFound)
	_, err = f.client.GetReferendum(ctx, &ReferendumRequest{Index: 3})
	wantStatus(t, err, codes.NotFound)
}

func TestServiceDevHelpersCanBeDisabled(t *testing.T) {
	f := startService(t, false)
	_, err := f.client.SetRole(callCtx(t, "admin"), &RoleRequest{Account: "alice", Role: primitive.RoleInvestor})
	wantStatus(t, err, codes.Unimplemented)
}

func TestServiceRejectsBlockRegression(t *testing.T) {
	f := startService(t, true)
	ctx := callCtx(t, "admin")
	if _, err := f.client.AdvanceBlock(ctx, &BlockRequest{Block: 5}); err != nil {
		t.Fatalf("AdvanceBlock 5: %v", err)
	}
	_, err := f.client.AdvanceBlock(ctx, &BlockRequest{Block: 4})
	wantStatus(t, err, codes.FailedPrecondition)
}

func TestServiceEchoesRequestID(t *testing.T) {
	f := startService(t, true)

	var header grpcmetadata.MD
	ctx := grpcmetadata.AppendToOutgoingContext(callCtx(t, "admin"), metadata.RequestIDHeader, "req-7")
	if _, err := f.client.AdvanceBlock(ctx, &BlockRequest{Block: 1}, gogrpc.Header(&header)); err != nil {
		t.Fatalf("AdvanceBlock: %v", err)
	}
	if got := metadata.FirstMetadataValue(header, metadata.RequestIDHeader); got != "req-7" {
		t.Fatalf("request id header = %q, want %q", got, "req-7")
	}

	header = nil
	if _, err := f.client.AdvanceBlock(callCtx(t, "admin"), &BlockRequest{Block: 2}, gogrpc.Header(&header)); err != nil {
		t.Fatalf("AdvanceBlock: %v", err)
	}
	if got := metadata.FirstMetadataValue(header, metadata.RequestIDHeader); got != "req-generated" {
		t.Fatalf("generated request id header = %q, want %q", got, "req-generated")
	}
}
