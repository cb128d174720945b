package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	motoko "github.com/aretw0/motoko-mcp"
	httpAdapter "github.com/aretw0/motoko-mcp/internal/adapters/http"
	"github.com/aretw0/motoko-mcp/internal/config"
	"github.com/aretw0/motoko-mcp/internal/metrics"
	"github.com/aretw0/motoko-mcp/pkg/backend"
	"github.com/aretw0/motoko-mcp/pkg/dispatcher"
	"github.com/aretw0/motoko-mcp/pkg/domain"
	"github.com/aretw0/motoko-mcp/pkg/tools"
	"github.com/aretw0/motoko-mcp/pkg/transport"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const instructions = "Use get_motoko_context to look up Motoko code and documentation, " +
	"and generate_motoko_code to write new Motoko code from a description."

func newServeCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over stdio",
		Long: `Reads newline-delimited JSON-RPC from stdin and writes responses to stdout.
Logs go to stderr. The process exits when stdin closes or on SIGINT/SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := o.loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, logger, o.stdin, o.stdout)
		},
	}
}

// gateway is the wired request path shared by serve and call.
type gateway struct {
	metrics    *metrics.Metrics
	client     *backend.Client
	dispatcher *dispatcher.Dispatcher
}

func newGateway(cfg *config.Config, logger *slog.Logger) (*gateway, error) {
	m := metrics.New()
	client := backend.New(cfg.BaseURL, cfg.APIKey,
		backend.WithTimeout(cfg.Timeout),
		backend.WithObserver(m),
	)
	reg, err := tools.NewRegistry(client)
	if err != nil {
		return nil, domain.NewStartupError("registry", err)
	}
	d := dispatcher.New(reg,
		dispatcher.WithLogger(logger),
		dispatcher.WithRecorder(m),
		dispatcher.WithServerInfo(motoko.Name, motoko.Version),
		dispatcher.WithInstructions(instructions),
	)
	return &gateway{metrics: m, client: client, dispatcher: d}, nil
}

// serve runs the stdio loop and, when configured, the diagnostics listener.
// It returns nil when stdin is exhausted or ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger, in io.Reader, out io.Writer) error {
	gw, err := newGateway(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("Starting Motoko MCP gateway",
		"version", motoko.Version,
		"config", cfg,
		"tools", gw.dispatcher.Registry().Names(),
	)

	// Bind before serving so an unusable address is a startup fault.
	var diag net.Listener
	if cfg.MetricsAddr != "" {
		diag, err = net.Listen("tcp", cfg.MetricsAddr)
		if err != nil {
			return domain.NewStartupError("diagnostics listener", err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel() // end of input stops the diagnostics listener too
		err := transport.New(in, out, transport.WithLogger(logger)).Serve(gctx, gw.dispatcher)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if diag != nil {
		handler := httpAdapter.NewHandler(&httpAdapter.Server{
			Catalog: gw.dispatcher,
			Metrics: gw.metrics.Handler(),
			Logger:  logger,
			Version: motoko.Version,
			Backend: gw.client.BaseURL(),
		})
		g.Go(func() error {
			return httpAdapter.Serve(gctx, diag, handler, logger)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Gateway stopped with error", "error", err)
		return err
	}
	logger.Info("Gateway stopped")
	return nil
}
