package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"

	"github.com/kalambet/khet/internal/activity"
	"github.com/kalambet/khet/internal/api"
	"github.com/kalambet/khet/internal/assistant"
	"github.com/kalambet/khet/internal/catalog"
	"github.com/kalambet/khet/internal/config"
	"github.com/kalambet/khet/internal/view"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the khet server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running khet server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show khet server status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus(cmd.Context())
	},
}

func pidFilePath() string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "khet.pid")
}

func writePIDFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func readPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func removePIDFile(path string) {
	os.Remove(path)
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "khet version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	now := func() time.Time { return time.Now().In(loc) }

	// Refuse to start twice. The health endpoint answers without a token.
	pidPath := pidFilePath()
	healthClient := &http.Client{Timeout: 2 * time.Second}
	if resp, err := healthClient.Get("http://" + cfg.Addr() + "/health"); err == nil {
		resp.Body.Close()
		if pid, pidErr := readPIDFile(pidPath); pidErr == nil {
			printWarning("khet is already running (PID %d)", pid)
			return fmt.Errorf("server already running (PID %d)", pid)
		}
		printWarning("khet is already running on %s", cfg.Addr())
		return fmt.Errorf("server already running on %s", cfg.Addr())
	}
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer removePIDFile(pidPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	printStep("Loading seed catalog")
	store, err := catalog.Open()
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing catalog: %v\n", err)
		}
	}()

	assistantOpts := assistant.Options{
		ReplyDelay: cfg.Assistant.ReplyDelay,
		VoiceDelay: cfg.Assistant.VoiceDelay,
		Logger:     slog.Default(),
	}
	reg := view.NewRegistry(view.Options{
		Now:       now,
		Assistant: assistantOpts,
		IdleTTL:   cfg.Views.IdleTTL,
		Logger:    slog.Default(),
	})
	defer reg.Close()

	if cfg.Server.Token != "" {
		slog.Info("bearer token required for view routes")
	}
	handler := api.NewHandler(api.Deps{
		Catalog: store,
		Views:   reg,
		Token:   cfg.Server.Token,
		Logger:  slog.Default(),
	})

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Addr(), err)
	}
	if cfg.Server.MaxConns > 0 {
		ln = netutil.LimitListener(ln, cfg.Server.MaxConns)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		fmt.Fprintf(os.Stderr, "khet listening on %s\n", ln.Addr())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		view.NewReaper(reg, cfg.Views.SweepInterval).Run(gctx)
		return nil
	})

	if cfg.MCP.Enabled {
		session := assistant.NewSession(assistantOpts)
		defer session.Close()

		mcpSrv := api.NewMCPServer(api.MCPDeps{
			Advisories: store,
			Store:      activity.NewSeededStore(now()),
			Session:    session,
			Now:        now,
		})
		stdioSrv := server.NewStdioServer(mcpSrv)
		g.Go(func() error {
			if err := stdioSrv.Listen(gctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("MCP stdio server error", "error", err)
			}
			return nil
		})
		slog.Info("MCP server started (stdio transport)")
	}

	g.Go(func() error {
		<-gctx.Done()
		fmt.Fprintln(os.Stderr, "shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func stopServer() error {
	pidPath := pidFilePath()
	pid, err := readPIDFile(pidPath)
	if err != nil {
		printError("khet is not running (no PID file)")
		return fmt.Errorf("not running: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		printError("could not find process %d", pid)
		return err
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		printError("could not stop khet (PID %d): %v", pid, err)
		removePIDFile(pidPath)
		return err
	}

	printSuccess("Sent stop signal to khet (PID %d)", pid)
	return nil
}

func showStatus(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		// Still show partial status even if config fails.
		printError("config error: %v", err)
		return nil
	}

	client, err := newAPIClient()
	if err != nil {
		return err
	}
	client.httpClient.Timeout = 2 * time.Second

	resp, err := client.get(ctx, "/health")
	if err != nil {
		printStatus("Server", "stopped")
	} else {
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			printStatus("Server", "running on %s", cfg.Addr())
		} else {
			printStatus("Server", "error (HTTP %d)", resp.StatusCode)
		}
	}

	printStatus("Timezone", "%s", cfg.Farm.Timezone)
	printStatus("Reply delay", "%s", cfg.Assistant.ReplyDelay)
	printStatus("Idle TTL", "%s", cfg.Views.IdleTTL)
	printStatus("MCP", "%s", enabledLabel(cfg.MCP.Enabled))
	printStatus("Auth", "%s", enabledLabel(cfg.Server.Token != ""))
	return nil
}

func enabledLabel(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}
