// Package server wires the estate runtime and gRPC lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	platformgrpc "github.com/louisbranch/fairsquares/internal/platform/grpc"
	"github.com/louisbranch/fairsquares/internal/platform/timeouts"
	"github.com/louisbranch/fairsquares/internal/services/estate/adapters/memory"
	estateservice "github.com/louisbranch/fairsquares/internal/services/estate/api/grpc/estate"
	"github.com/louisbranch/fairsquares/internal/services/estate/api/grpc/metadata"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/aggregate"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/effect"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/engine"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
	"github.com/louisbranch/fairsquares/internal/services/estate/notify"
	"github.com/louisbranch/fairsquares/internal/services/estate/storage"
	memjournal "github.com/louisbranch/fairsquares/internal/services/estate/storage/memory"
	estatesqlite "github.com/louisbranch/fairsquares/internal/services/estate/storage/sqlite"
)

// Config configures an estate server.
type Config struct {
	Addr string
	// DBPath is the sqlite journal. Empty keeps the journal in memory.
	DBPath string
	Params engine.Params
	// BlockInterval paces the block clock. Zero leaves blocks to the
	// AdvanceBlock development call.
	BlockInterval time.Duration
	NATSURL       string
	NATSPrefix    string
	// DevTools exposes the collaborator helpers over gRPC.
	DevTools bool
	// ExistentialDeposit is the minimum live balance of the in-memory currency.
	ExistentialDeposit primitive.Balance
}

// Server hosts the estate engine behind gRPC.
type Server struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	engine     *engine.Engine
	journal    storage.EventStore
	clock      *BlockClock
	nats       *nats.Conn
}

// New opens storage, replays the journal, and prepares the gRPC server.
func New(ctx context.Context, cfg Config) (*Server, error) {
	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}
	s := &Server{listener: listener}
	if err := s.init(ctx, cfg); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Server) init(ctx context.Context, cfg Config) error {
	registry := event.NewRegistry()
	if err := aggregate.RegisterEvents(registry); err != nil {
		return fmt.Errorf("register events: %w", err)
	}
	journal, err := openJournal(cfg.DBPath, registry)
	if err != nil {
		return err
	}
	s.journal = journal

	var observers []engine.Observer
	if strings.TrimSpace(cfg.NATSURL) != "" {
		conn, err := notify.Connect(cfg.NATSURL, "fairsquares-estate", timeouts.GRPCDial)
		if err != nil {
			return err
		}
		s.nats = conn
		observers = append(observers, notify.NewPublisher(conn, cfg.NATSPrefix, nil))
	}

	ed := cfg.ExistentialDeposit
	if ed == 0 {
		ed = 1
	}
	roles, assets, currency, identity := memory.NewRoles(), memory.NewAssets(), memory.NewCurrency(ed), memory.NewIdentity()
	e, err := engine.New(engine.Options{
		Params:    cfg.Params,
		Ports:     effect.Ports{Roles: roles, Assets: assets, Identity: identity, Currency: currency},
		Journal:   journal,
		Observers: observers,
	})
	if err != nil {
		return err
	}
	if err := e.Replay(ctx); err != nil {
		return err
	}
	s.engine = e
	log.Printf("replayed journal to block %d", e.Block())

	if cfg.BlockInterval > 0 {
		clock, err := NewBlockClock(e, cfg.BlockInterval, nil)
		if err != nil {
			return err
		}
		s.clock = clock
	}

	var dev *estateservice.DevTools
	if cfg.DevTools {
		dev = &estateservice.DevTools{Roles: roles, Assets: assets, Currency: currency, AdvanceBlock: s.clock == nil}
	}

	s.grpcServer = grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(requestTimeout(timeouts.GRPCRequest), metadata.UnaryServerInterceptor(nil)),
	)
	estateservice.RegisterEstateServer(s.grpcServer, estateservice.NewService(e, dev))
	s.health = platformgrpc.RegisterHealth(s.grpcServer, estateservice.ServiceName)
	return nil
}

func requestTimeout(d time.Duration) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return handler(ctx, req)
	}
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Engine returns the engine the server hosts.
func (s *Server) Engine() *engine.Engine { return s.engine }

// Run creates and serves an estate server until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the block clock and the gRPC server until context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	if s.clock != nil {
		s.clock.Start()
	}
	log.Printf("estate server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		s.health.Shutdown()
		s.gracefulStop()
		err := <-serveErr
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}
}

func (s *Server) gracefulStop() {
	done := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeouts.Shutdown):
		s.grpcServer.Stop()
	}
}

// Close releases server resources. The clock stops before the journal
// closes.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.clock != nil {
		s.clock.Stop()
		s.clock = nil
	}
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.nats != nil {
		if err := s.nats.FlushTimeout(timeouts.NotifyFlush); err != nil {
			log.Printf("flush nats: %v", err)
		}
		s.nats.Close()
		s.nats = nil
	}
	if s.journal != nil {
		if err := s.journal.Close(); err != nil {
			log.Printf("close estate journal: %v", err)
		}
		s.journal = nil
	}
}

func openJournal(path string, registry *event.Registry) (storage.EventStore, error) {
	if strings.TrimSpace(path) == "" {
		return memjournal.NewJournal(), nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := estatesqlite.OpenEvents(path, registry)
	if err != nil {
		return nil, fmt.Errorf("open estate sqlite journal: %w", err)
	}
	return store, nil
}
