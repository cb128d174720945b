package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/motoko-mcp/internal/config"
	"github.com/aretw0/motoko-mcp/internal/logging"
	"github.com/aretw0/motoko-mcp/pkg/domain"
	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1 // startup fault or failed one-shot call
	exitUsage = 2 // usage mistake or runtime failure
)

// errToolFailed marks a one-shot call whose result was an error. The result
// itself has already been printed.
var errToolFailed = errors.New("tool call failed")

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath  string
	logLevel    string
	baseURL     string
	timeout     time.Duration
	metricsAddr string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	lookup config.LookupFunc
}

func (o *globalOptions) overrides() config.Overrides {
	return config.Overrides{
		BaseURL:     o.baseURL,
		Timeout:     o.timeout,
		LogLevel:    o.logLevel,
		MetricsAddr: o.metricsAddr,
	}
}

// loadConfig resolves the configuration and builds the stderr logger for it.
func (o *globalOptions) loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath, o.lookup, o.overrides())
	if err != nil {
		return nil, nil, err
	}
	level, _ := logging.ParseLevel(cfg.LogLevel) // validated by Load
	return cfg, logging.New(level, o.stderr), nil
}

func newRootCmd(o *globalOptions) *cobra.Command {
	serve := newServeCmd(o)

	rootCmd := &cobra.Command{
		Use:   "motoko-mcp",
		Short: "MCP gateway for Motoko code retrieval and generation",
		Long: `motoko-mcp speaks the Model Context Protocol over stdio and forwards
tool calls to a Motoko knowledge backend over HTTP.

Running without a subcommand is the same as "motoko-mcp serve".

Environment:
  MOTOKO_API_KEY       API key sent to the backend (required)
  MOTOKO_API_URL       backend base URL (default http://localhost:8000)
  MOTOKO_TIMEOUT       per-request timeout (default 60s)
  MOTOKO_LOG_LEVEL     debug, info, warn or error (default info)
  MOTOKO_METRICS_ADDR  address for /metrics, /healthz and /tools (default off)`,
		Args:          cobra.NoArgs,
		RunE:          serve.RunE,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&o.configPath, "config", "", "Path to a YAML config file")
	flags.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&o.baseURL, "base-url", "", "Backend base URL")
	flags.DurationVar(&o.timeout, "timeout", 0, "Per-request backend timeout")
	flags.StringVar(&o.metricsAddr, "metrics-addr", "", "Serve diagnostics on this address")

	rootCmd.SetIn(o.stdin)
	rootCmd.SetOut(o.stdout)
	rootCmd.SetErr(o.stderr)

	rootCmd.AddCommand(serve, newToolsCmd(o), newCallCmd(o), newVersionCmd(o))
	return rootCmd
}

// Execute runs the CLI against the process streams and returns the exit code.
func Execute(args []string) int {
	return run(args, os.Stdin, os.Stdout, os.Stderr, os.LookupEnv)
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer, lookup config.LookupFunc) int {
	o := &globalOptions{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		lookup: lookup,
	}
	rootCmd := newRootCmd(o)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errToolFailed):
		return exitError
	case domain.IsStartupError(err):
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
}
