package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/iyunix/go-chatview/internal/config"
	"github.com/iyunix/go-chatview/internal/fragment"
	"github.com/iyunix/go-chatview/internal/services"
	"github.com/iyunix/go-chatview/internal/transport"
	"github.com/iyunix/go-chatview/internal/view"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chatclient",
	Short: "Terminal client for the conversation service",
	Long: `chatclient renders the conversation list and the open transcript of a
running chat server and lets you create, rename, delete and send.

Examples:
  chatclient --api-url http://localhost:8080
  chatclient --page-size 20 --metrics-addr :9100`,
	Version:       version,
	SilenceUsage:  true,
	RunE:          runClient,
}

func init() {
	rootCmd.Flags().String("api-url", "", "Base URL of the chat server (default CHAT_API_URL)")
	rootCmd.Flags().Int("page-size", 0, "Conversations shown in the list (default CHAT_PAGE_SIZE)")
	rootCmd.Flags().Duration("timeout", 0, "Per-request timeout (default CHAT_REQUEST_TIMEOUT)")
	rootCmd.Flags().Bool("remote-log", false, "Forward client errors to the server log")
	rootCmd.Flags().String("metrics-addr", "", "Serve client metrics on this address, e.g. :9100")
	rootCmd.Flags().String("log-level", "", "Log level: DEBUG, INFO, WARN, ERROR (default LOG_LEVEL)")
}

func runClient(cmd *cobra.Command, args []string) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}

	logger := services.NewLoggerWithLevel("chat-client", cfg.Environment, cfg.LogLevel)

	client := transport.NewClient(cfg.APIURL, cfg.RequestTimeout)
	loader := fragment.NewLoader(client.HTTP())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetchCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	page, err := loader.Fetch(fetchCtx, fragment.Page)
	cancel()
	if err != nil {
		return fmt.Errorf("loading page shell from %s: %w", cfg.APIURL, err)
	}
	doc, err := view.ParseDocument(page)
	if err != nil {
		return fmt.Errorf("parsing page shell: %w", err)
	}

	opts := view.Options{PageSize: cfg.PageSize, RequestTimeout: cfg.RequestTimeout}
	if cfg.RemoteLog {
		opts.Sink = client
	}
	session := view.NewSession(doc, client, loader, logger, opts)

	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

	g, gctx := errgroup.WithContext(ctx)
	loopCtx, stopLoop := context.WithCancel(gctx)
	defer stopLoop()

	g.Go(func() error {
		if err := session.Loop.Run(loopCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	if metricsAddr != "" {
		srv := &http.Server{Addr: metricsAddr, Handler: promhttp.Handler(), ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-loopCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		defer stopLoop()
		repl := newREPL(session, cmd.InOrStdin(), cmd.OutOrStdout())
		return repl.Run(loopCtx)
	})

	return g.Wait()
}

// applyFlags lets explicitly set flags override the environment.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.APIURL, _ = flags.GetString("api-url")
	}
	if flags.Changed("page-size") {
		cfg.PageSize, _ = flags.GetInt("page-size")
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("remote-log") {
		cfg.RemoteLog, _ = flags.GetBool("remote-log")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	return cfg.Validate()
}
