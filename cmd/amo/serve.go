package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/pedronavarrovera/amo/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the network operations over HTTP",
	Long: `The serve command starts the HTTP API under /v1 and Prometheus metrics
under /metrics. It stops gracefully on SIGINT or SIGTERM.`,
	Example: `  # Listen on the configured address
  amo serve

  # Listen on port 9090
  amo serve --addr :9090
`,
	Args: cobra.NoArgs,
	RunE: serveCmdRun,
}

type serveFlags struct {
	addr      string
	maxCycles int
	debug     bool
}

var serveArgs serveFlags

func init() {
	serveCmd.Flags().StringVar(&serveArgs.addr, "addr", "", "Listen address (overrides server.addr).")
	serveCmd.Flags().IntVar(&serveArgs.maxCycles, "max-cycles", api.DefaultMaxCycles, "Default cycle cap for analyze requests.")
	serveCmd.Flags().BoolVar(&serveArgs.debug, "debug", false, "Run gin in debug mode.")
	rootCmd.AddCommand(serveCmd)
}

func serveCmdRun(cmd *cobra.Command, args []string) error {
	if !serveArgs.debug {
		gin.SetMode(gin.ReleaseMode)
	}
	server := cfg.Server
	if serveArgs.addr != "" {
		server.Addr = serveArgs.addr
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	h := api.NewHandlers(
		api.WithLogger(logger),
		api.WithRegistry(reg),
		api.WithAutoPad(cfg.Merge.AllowAutoPad),
		api.WithMaxCycles(serveArgs.maxCycles),
	)
	srv := api.NewServer(server, api.NewRouter(h))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return api.Serve(ctx, srv, logger)
}
