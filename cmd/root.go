package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/cdp-assistant/internal/config"
)

var (
	cfgFile  string
	verbose  bool
	noRecord bool
)

var rootCmd = &cobra.Command{
	Use:   "cdpassist",
	Short: "Support assistant for customer data platforms",
	Long: `cdpassist answers how-to questions about Segment, mParticle, Lytics and
Zeotap from a curated knowledge base. Use it from the terminal, serve the
chat widget and Slack/Teams webhooks, or expose it to AI agents over MCP.

Questions it cannot answer are collected in a backlog so the knowledge
base can grow where users need it.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noRecord, "no-record", false, "do not record questions in the backlog")
}
