package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/cdp-assistant/internal/backlog"
)

var (
	backlogStatus string
	backlogLimit  int
	backlogJSON   bool
	backlogNote   string
)

var backlogCmd = &cobra.Command{
	Use:   "backlog",
	Short: "Inspect questions the assistant could not answer",
	Long:  `Lists unanswered questions, most asked first. Use the subcommands to see topic statistics or triage a question.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeDB, err := backlogStore()
		if err != nil {
			return err
		}
		defer closeDB()

		filter := backlog.ListFilter{Status: backlog.Status(backlogStatus), Limit: backlogLimit}
		if filter.Status != "" && !filter.Status.Valid() {
			return fmt.Errorf("%w: %s", backlog.ErrInvalidStatus, backlogStatus)
		}

		questions, err := store.List(cmd.Context(), filter)
		if err != nil {
			return err
		}

		if backlogJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(questions)
		}
		if len(questions) == 0 {
			fmt.Println("No questions in the backlog.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tASKED\tSTATUS\tLAST SEEN\tQUESTION")
		for _, q := range questions {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", q.ID, q.AskCount, q.Status, q.LastSeen.Format("2006-01-02"), q.Question)
		}
		return tw.Flush()
	},
}

var backlogStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show open question count and answered topic hits",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeDB, err := backlogStore()
		if err != nil {
			return err
		}
		defer closeDB()

		open, err := store.OpenCount(cmd.Context())
		if err != nil {
			return err
		}
		hits, err := store.TopicHits(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Open questions: %d\n\n", open)
		if len(hits) == 0 {
			fmt.Println("No answered questions yet.")
			return nil
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TOPIC\tHITS\tLAST HIT")
		for _, h := range hits {
			fmt.Fprintf(tw, "%s/%s\t%d\t%s\n", h.Platform, h.Topic, h.Hits, h.LastHit.Format("2006-01-02"))
		}
		return tw.Flush()
	},
}

var backlogSetStatusCmd = &cobra.Command{
	Use:   "set-status <id> <open|resolved|dismissed>",
	Short: "Change the status of a backlog question",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		store, closeDB, err := backlogStore()
		if err != nil {
			return err
		}
		defer closeDB()

		if err := store.UpdateStatus(cmd.Context(), id, backlog.Status(args[1]), backlogNote); err != nil {
			return err
		}
		fmt.Printf("Question %s marked %s\n", id, args[1])
		return nil
	},
}

// backlogStore opens the backlog for the backlog subcommands, which need it
// regardless of --no-record.
func backlogStore() (*backlog.Store, func(), error) {
	cfg, closer, err := bootstrap()
	if err != nil {
		return nil, nil, err
	}
	database, store, err := openBacklog(cfg)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	return store, func() {
		database.Close()
		closer.Close()
	}, nil
}

func init() {
	backlogCmd.Flags().StringVar(&backlogStatus, "status", string(backlog.StatusOpen), "filter by status (open, resolved, dismissed; empty for all)")
	backlogCmd.Flags().IntVar(&backlogLimit, "limit", 20, "maximum number of questions to show (0 for all)")
	backlogCmd.Flags().BoolVar(&backlogJSON, "json", false, "print questions as JSON")
	backlogSetStatusCmd.Flags().StringVar(&backlogNote, "note", "", "triage note stored with the question")

	backlogCmd.AddCommand(backlogStatsCmd, backlogSetStatusCmd)
	rootCmd.AddCommand(backlogCmd)
}
