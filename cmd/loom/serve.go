package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/loom-ui/loom"
	"github.com/loom-ui/loom/el"
	"github.com/loom-ui/loom/internal/config"
	"github.com/loom-ui/loom/pkg/bridge"
	"github.com/loom-ui/loom/pkg/handler"
	"github.com/loom-ui/loom/pkg/vnode"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		port       int
		host       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo counter application",
		Long: `Start the WebSocket server with the built-in counter component.

Examples:
  loom serve
  loom serve --port=8080
  loom serve --config=deploy/loom.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.Port = port
			}
			if host != "" {
				cfg.Host = host
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.FileName, "Path to loom.json")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (overrides config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (overrides config)")

	return cmd
}

func runServe(cfg *config.Config) error {
	log := newLogger(cfg.LogLevel)

	srv := bridge.NewServer(counterApp,
		bridge.WithLogger(log),
		bridge.WithMetrics(bridge.NewMetrics(bridge.WithNamespace(cfg.MetricsNamespace))),
		bridge.WithBatchBuffer(cfg.BatchBuffer),
	)

	httpSrv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: srv.Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Addr(), "app", cfg.Name)
		errCh <- httpSrv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-stop:
		log.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(ctx)
	}
}

func newLogger(level string) *slog.Logger {
	var lv slog.Level
	switch level {
	case "debug":
		lv = slog.LevelDebug
	case "warn":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	default:
		lv = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lv}))
}

// counterApp is the demo component: a heading showing the count and two
// buttons stepping it.
func counterApp(c *loom.Ctx) int {
	count := c.UseSignalI32(0)
	inc := c.UseHandler(handler.Entry{
		Action: handler.ActionAdd, Signal: count, Operand: 1, Event: "click",
	})
	dec := c.UseHandler(handler.Entry{
		Action: handler.ActionSub, Signal: count, Operand: 1, Event: "click",
	})
	tplID := c.RegisterTemplate(el.Build("counter",
		el.Div(el.Class("counter"),
			el.H1(el.DynText()),
			el.Button(el.DynAttr(), el.Text("-1")),
			el.Button(el.DynAttr(), el.Text("+1")),
		),
	))

	text := c.Store.PushText(strconv.Itoa(int(c.Int(count))))
	return c.Store.Push(vnode.VNode{
		Kind:       vnode.KindTemplateRef,
		TemplateID: tplID,
		DynNodes:   []int{text},
		DynAttrs: []vnode.DynAttr{
			{Name: "click", Value: vnode.EventValue(dec)},
			{Name: "click", Value: vnode.EventValue(inc)},
		},
	})
}
