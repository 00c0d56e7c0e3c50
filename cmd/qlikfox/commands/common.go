package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/ofirwie/qlikfox/internal/config"
	"github.com/ofirwie/qlikfox/internal/logger"
	"github.com/ofirwie/qlikfox/internal/model"
	"github.com/ofirwie/qlikfox/internal/reload"
	"github.com/ofirwie/qlikfox/internal/transport"
)

// AppContext holds everything a command action needs.
type AppContext struct {
	Config *config.Config
	Engine *reload.Engine
}

// NewAppContext loads the configuration and wires a backend adapter and
// engine for the configured platform.
func NewAppContext(_ context.Context, configFile, envFile string) (*AppContext, error) {
	cfg, err := config.Load(configFile, envFile)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}, os.Stderr)

	var adapter reload.BackendAdapter
	switch cfg.Platform {
	case config.PlatformCloud:
		client, err := transport.NewHTTPClient(transport.Config{
			BaseURL:  cfg.Cloud.BaseURL,
			APIKey:   cfg.Cloud.APIKey,
			CacheTTL: time.Duration(cfg.Defaults.CacheTTLSeconds) * time.Second,
		}, log)
		if err != nil {
			return nil, err
		}
		adapter = reload.NewCloudAdapter(client, log)
	case config.PlatformOnPrem:
		client, err := transport.NewHTTPClient(transport.Config{
			BaseURL: cfg.OnPrem.BaseURL,
			Headers: map[string]string{
				"X-Qlik-User": fmt.Sprintf("UserDirectory=%s; UserId=%s",
					cfg.OnPrem.UserDirectory, cfg.OnPrem.UserID),
			},
			XrfKey:   true,
			CacheTTL: time.Duration(cfg.Defaults.CacheTTLSeconds) * time.Second,
		}, log)
		if err != nil {
			return nil, err
		}
		adapter = reload.NewOnPremAdapter(client, log)
	default:
		return nil, fmt.Errorf("unsupported platform %q", cfg.Platform)
	}

	return &AppContext{
		Config: cfg,
		Engine: reload.NewEngine(adapter, log),
	}, nil
}

// CommonFlags returns the flags shared by every command plus any extras.
func CommonFlags(extra ...cli.Flag) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "configuration file path",
			Value: "qlikfox.yaml",
		},
		&cli.StringFlag{
			Name:  "env",
			Usage: "environment file path",
			Value: ".env",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "print raw JSON instead of a table",
		},
	}
	return append(flags, extra...)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// reloadOptions builds ReloadOptions from command flags, falling back to the
// configured defaults.
func reloadOptions(cmd *cli.Command, cfg *config.Config) model.ReloadOptions {
	opts := model.ReloadOptions{
		Partial:             cmd.Bool("partial"),
		SkipStore:           cmd.Bool("skip-store"),
		WaitForCompletion:   cmd.Bool("wait"),
		TimeoutSeconds:      int(cmd.Int("timeout")),
		PollIntervalSeconds: int(cmd.Int("interval")),
	}
	if opts.TimeoutSeconds <= 0 {
		opts.TimeoutSeconds = cfg.Defaults.TimeoutSeconds
	}
	if opts.PollIntervalSeconds <= 0 {
		opts.PollIntervalSeconds = cfg.Defaults.PollIntervalSeconds
	}
	opts.CrossCheckEvery = cfg.Defaults.CrossCheckEvery
	return opts
}

func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	return time.Duration(seconds * float64(time.Second)).Round(time.Second).String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
