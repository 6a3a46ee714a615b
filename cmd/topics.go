package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var topicsJSON bool

var topicsCmd = &cobra.Command{
	Use:   "topics [filter]",
	Short: "List the topics the assistant can answer",
	Long:  `Lists every platform/topic pair of the knowledge base. An optional filter fuzzy-matches platform/topic ids and keyword prefixes.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, closer, err := bootstrap()
		if err != nil {
			return err
		}
		defer closer.Close()

		base, err := cfg.KnowledgeBase()
		if err != nil {
			return err
		}

		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		entries := base.Search(query)

		if topicsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}

		if len(entries) == 0 {
			fmt.Println("No topics found.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PLATFORM\tTOPIC\tKEYWORDS")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Platform.DisplayName(), e.Topic.Name, strings.Join(e.Topic.Keywords, ", "))
		}
		return tw.Flush()
	},
}

func init() {
	topicsCmd.Flags().BoolVar(&topicsJSON, "json", false, "print topics as JSON")
	rootCmd.AddCommand(topicsCmd)
}
