package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/cdp-assistant/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the assistant's question answering and topic tools to AI agents.`,
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

		mcpserver.Version = Version

		srv := mcpserver.NewServer(rt.assistant)
		if rt.backlog != nil {
			srv.SetBacklog(rt.backlog)
		}

		// stdout carries the protocol; status goes to stderr.
		fmt.Fprintf(os.Stderr, "cdpassist MCP server started on stdio (topics=%d, backlog=%t)\n",
			rt.assistant.KnowledgeBase().Len(), rt.backlog != nil)

		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
