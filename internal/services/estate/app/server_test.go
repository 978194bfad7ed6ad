package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"google.golang.org/grpc"

	platformgrpc "github.com/louisbranch/fairsquares/internal/platform/grpc"
	estateservice "github.com/louisbranch/fairsquares/internal/services/estate/api/grpc/estate"
	"github.com/louisbranch/fairsquares/internal/services/estate/api/grpc/metadata"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/engine"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

func testConfig(dbPath string) Config {
	params := engine.DefaultParams()
	params.Council = []primitive.AccountID{"council-1", "council-2", "council-3"}
	return Config{Addr: "127.0.0.1:0", DBPath: dbPath, Params: params, DevTools: true}
}

// startServer serves cfg until the returned stop function runs.
func startServer(t *testing.T, cfg Config) (*Server, func()) {
	t.Helper()
	srv, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	runCtx, runCancel := context.WithCancel(context.Background())
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- srv.Serve(runCtx)
	}()
	stopped := false
	stop := func() {
		if stopped {
			return
		}
		stopped = true
		runCancel()
		select {
		case serveErr := <-serveDone:
			if serveErr != nil {
				t.Fatalf("serve: %v", serveErr)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for server shutdown")
		}
	}
	t.Cleanup(stop)
	return srv, stop
}

func dial(t *testing.T, addr string) *estateservice.Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := platformgrpc.DialWithHealth(ctx, addr, t.Logf)
	if err != nil {
		t.Fatalf("dial estate server: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return estateservice.NewClient(conn)
}

func TestServerReplaysJournalOnRestart(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "estate.db")

	srv, stop := startServer(t, testConfig(dbPath))
	client := dial(t, srv.Addr())
	ctx := metadata.WithAccount(context.Background(), "alice")

	calls := []func() error{
		func() error {
			_, err := client.SetRole(ctx, &estateservice.RoleRequest{Account: "alice", Role: primitive.RoleInvestor})
			return err
		},
		func() error {
			_, err := client.SetBalance(ctx, &estateservice.BalanceRequest{Account: "alice", Amount: 5_000})
			return err
		},
		func() error {
			_, err := client.AdvanceBlock(ctx, &estateservice.BlockRequest{Block: 3})
			return err
		},
		func() error {
			_, err := client.Contribute(ctx, &estateservice.AmountRequest{Amount: 1_200})
			return err
		},
	}
	for i, call := range calls {
		if err := call(); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	stop()

	restarted, _ := startServer(t, testConfig(dbPath))
	balance, reserved := restarted.Engine().FundBalance("alice")
	if balance != 1_200 || reserved != 0 {
		t.Fatalf("fund balance after restart = %d/%d, want 1200/0", balance, reserved)
	}
	if got := restarted.Engine().Block(); got != 3 {
		t.Fatalf("block after restart = %d, want 3", got)
	}
}

func TestServerDisablesAdvanceBlockUnderClock(t *testing.T) {
	cfg := testConfig("")
	cfg.BlockInterval = time.Hour
	srv, _ := startServer(t, cfg)
	client := dial(t, srv.Addr())

	_, err := client.AdvanceBlock(context.Background(), &estateservice.BlockRequest{Block: 1}, grpc.WaitForReady(true))
	if err == nil {
		t.Fatal("expected AdvanceBlock to fail while the clock runs")
	}
}

func TestNewRejectsInvalidParams(t *testing.T) {
	cfg := testConfig("")
	cfg.Params.Council = nil
	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatal("expected error for empty council")
	}
}
