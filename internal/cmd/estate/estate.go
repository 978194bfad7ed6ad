// Package estate parses estate service flags and launches the service.
package estate

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	entrypoint "github.com/louisbranch/fairsquares/internal/platform/cmd"
	server "github.com/louisbranch/fairsquares/internal/services/estate/app"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/engine"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

// EnvPrefix prefixes every estate environment variable.
const EnvPrefix = "FAIRSQUARES_ESTATE_"

// Config holds estate command configuration.
type Config struct {
	Port          int           `env:"PORT" envDefault:"8095"`
	DBPath        string        `env:"DB_PATH" envDefault:"data/estate.db"`
	BlockInterval time.Duration `env:"BLOCK_INTERVAL" envDefault:"6s"`
	NATSURL       string        `env:"NATS_URL"`
	NATSPrefix    string        `env:"NATS_PREFIX" envDefault:"fairsquares.estate"`
	DevTools      bool          `env:"DEV_TOOLS"`

	Council            []string `env:"COUNCIL" envSeparator:","`
	FundAccount        string   `env:"FUND_ACCOUNT" envDefault:"fund:treasury"`
	MinContribution    uint64   `env:"MIN_CONTRIBUTION" envDefault:"100"`
	TokenSupply        uint64   `env:"TOKEN_SUPPLY" envDefault:"1000"`
	ExistentialDeposit uint64   `env:"EXISTENTIAL_DEPOSIT" envDefault:"1"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg, EnvPrefix); err != nil {
		return Config{}, err
	}
	council := strings.Join(cfg.Council, ",")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The estate gRPC server port")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path of the sqlite event journal; empty keeps it in memory")
	fs.DurationVar(&cfg.BlockInterval, "block-interval", cfg.BlockInterval, "Block production interval; 0 disables the clock")
	fs.StringVar(&cfg.NATSURL, "nats-url", cfg.NATSURL, "NATS server for event notifications")
	fs.BoolVar(&cfg.DevTools, "dev", cfg.DevTools, "Expose development collaborator helpers")
	fs.StringVar(&council, "council", council, "Comma separated council accounts")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.Council = splitList(council)
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ServerConfig converts cfg into the runtime configuration.
func (cfg Config) ServerConfig() (server.Config, error) {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return server.Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}
	params := engine.DefaultParams()
	params.FundAccount = primitive.AccountID(cfg.FundAccount)
	params.MinContribution = primitive.Balance(cfg.MinContribution)
	params.TokenSupply = primitive.Balance(cfg.TokenSupply)
	for _, member := range cfg.Council {
		params.Council = append(params.Council, primitive.AccountID(member))
	}
	if err := params.Validate(); err != nil {
		return server.Config{}, err
	}
	return server.Config{
		Addr:               fmt.Sprintf(":%d", cfg.Port),
		DBPath:             cfg.DBPath,
		Params:             params,
		BlockInterval:      cfg.BlockInterval,
		NATSURL:            cfg.NATSURL,
		NATSPrefix:         cfg.NATSPrefix,
		DevTools:           cfg.DevTools,
		ExistentialDeposit: primitive.Balance(cfg.ExistentialDeposit),
	}, nil
}

// Run starts the estate gRPC service.
func Run(ctx context.Context, cfg Config) error {
	serverCfg, err := cfg.ServerConfig()
	if err != nil {
		return err
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceEstate, func(ctx context.Context) error {
		return server.Run(ctx, serverCfg)
	})
}
