package cli

import (
	"context"
	"fmt"
	"io"
	"net"

	"github.com/spf13/cobra"

	"github.com/dear23/gridlayout/internal/server"
	"github.com/dear23/gridlayout/pkg/observability"
	"github.com/dear23/gridlayout/pkg/pipeline"
	"github.com/dear23/gridlayout/pkg/store"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		logFile string
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP until interrupted.

Layouts under /v1/spaces are kept in the configured store backend. With
--log-file (or log.file in the config) request logs go to a size-rotated
file instead of stderr. At debug level (-v or log.level = "debug") every
compaction, move, cache access and request is logged too.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, logFile, noCache)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file with rotation")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "do not cache compact and render results")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, logFile string, noCache bool) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}

	logger := c.Logger
	if cfg.Log.File != "" {
		var closer io.Closer
		logger, closer = newFileLogger(cfg.Log, parseLevel(cfg.Log.Level))
		defer closer.Close()
		printInfo("Logging to %s", cfg.Log.File)
	}

	observability.NewLogHooks(logger).Install()
	defer observability.Reset()

	dir, err := storeDir()
	if err != nil {
		return err
	}
	cc, keyer, err := cfg.OpenCache(ctx, dir)
	if err != nil {
		return err
	}
	defer cc.Close()

	st, err := store.New(store.Options{
		Cache:       cc,
		Keyer:       keyer,
		Logger:      logger,
		Breakpoints: cfg.Breakpoints().Sorted(),
	})
	if err != nil {
		return err
	}

	// Derived results share the backend under the same key scope.
	var runner *pipeline.Runner
	if noCache {
		runner = pipeline.NewRunner(nil, nil, logger)
	} else {
		runner = pipeline.NewRunner(cc, keyer, logger)
	}

	srv, err := server.New(server.Options{
		Addr:         addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Engine:       cfg.EngineOptions(),
		Breakpoints:  cfg.Breakpoints(),
		Cols:         cfg.Cols(),
		Store:        st,
		Runner:       runner,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	printSuccess("Listening on %s", ln.Addr())
	return srv.Serve(ctx, ln)
}
