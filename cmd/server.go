package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/cdp-assistant/internal/backlog"
	"github.com/ziadkadry99/cdp-assistant/internal/bots"
	"github.com/ziadkadry99/cdp-assistant/internal/dashboard"
	"github.com/ziadkadry99/cdp-assistant/internal/server"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the web chat, bot webhooks and backlog API",
	Long: `Starts the HTTP server hosting the chat widget, the Slack and Teams
webhooks and the question backlog API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, closer, err := bootstrap()
		if err != nil {
			return err
		}
		defer closer.Close()

		rt, err := buildRuntime(cfg)
		if err != nil {
			return err
		}
		defer rt.Close()

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = serverPort
		}

		srv := server.New(server.Config{
			Port:     port,
			AllowAll: cfg.Server.AllowAllOrigins,
		}, rt.db, rt.assistant.KnowledgeBase())

		registerAllRoutes(srv, rt)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "cdpassist server %s starting on port %d\n", Version, port)
		fmt.Fprintf(os.Stderr, "  Topics: %d\n", rt.assistant.KnowledgeBase().Len())
		if rt.db != nil {
			fmt.Fprintf(os.Stderr, "  Backlog: %s\n", rt.db.Path())
		} else {
			fmt.Fprintln(os.Stderr, "  Backlog: disabled")
		}
		if cfg.Bots.SlackSigningSecret == "" {
			fmt.Fprintln(os.Stderr, "  Slack: signature verification disabled")
		}

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

// registerAllRoutes wires the dashboard, bots and backlog onto the server.
func registerAllRoutes(srv *server.Server, rt *runtime) {
	r := srv.Router()

	if rt.backlog != nil {
		backlog.RegisterRoutes(r, rt.backlog)
	}

	dash := dashboard.New(rt.assistant, dashboard.Options{
		Greeting:      rt.cfg.Greeting,
		ThinkingDelay: rt.cfg.ThinkingDelay,
	})
	dash.RegisterRoutes(r)

	botProcessor := bots.NewProcessor(rt.assistant, rt.backlogLister())
	botGateway := bots.NewGateway(botProcessor, rt.cfg.Bots.MessagesPerMinute)
	slackHandler := bots.NewSlackHandler(botGateway, rt.cfg.Bots.SlackSigningSecret)
	teamsHandler := bots.NewTeamsHandler(botGateway)
	bots.RegisterRoutes(r, slackHandler, teamsHandler)
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "port to listen on (overrides server.port)")
	rootCmd.AddCommand(serverCmd)
}
