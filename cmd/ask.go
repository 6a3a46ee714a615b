package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/cdp-assistant/internal/assistant"
	"github.com/ziadkadry99/cdp-assistant/internal/matcher"
)

// cliSource tags questions asked from the terminal.
const cliSource = "cli"

var (
	askJSON    bool
	askExplain bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a single question",
	Long: `Matches the question against the knowledge base and prints the canned
answer, or the fallback reply when no keyword matches.

Use --explain to see how every topic scored.`,
	Args: cobra.MinimumNArgs(1),
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

		question := strings.Join(args, " ")
		answer := rt.assistant.Answer(cmd.Context(), cliSource, question)

		var scores []matcher.Score
		if askExplain {
			scores = matcher.Explain(question, rt.assistant.KnowledgeBase())
		}

		if askJSON {
			return writeAskJSON(os.Stdout, question, answer, scores)
		}

		fmt.Println(answer.Text)
		if askExplain {
			fmt.Println()
			printScores(os.Stdout, scores, answer)
		}
		return nil
	},
}

type askOutput struct {
	Question   string          `json:"question"`
	Answer     string          `json:"answer"`
	Matched    bool            `json:"matched"`
	Platform   string          `json:"platform,omitempty"`
	Topic      string          `json:"topic,omitempty"`
	Confidence int             `json:"confidence"`
	Scores     []matcher.Score `json:"scores,omitempty"`
}

func writeAskJSON(w io.Writer, question string, answer assistant.Answer, scores []matcher.Score) error {
	out := askOutput{
		Question:   question,
		Answer:     answer.Text,
		Matched:    answer.Matched,
		Platform:   string(answer.Result.Platform),
		Topic:      answer.Result.Topic,
		Confidence: answer.Result.Confidence,
		Scores:     scores,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// printScores writes one row per topic, marking the winner with "*".
func printScores(w io.Writer, scores []matcher.Score, answer assistant.Answer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tTOPIC\tSCORE\tMATCHED KEYWORDS\tPLATFORM NAMED")
	for _, s := range scores {
		mark := ""
		if answer.Matched && s.Platform == answer.Result.Platform && s.Topic == answer.Result.Topic {
			mark = "*"
		}
		named := ""
		if s.PlatformNamed {
			named = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s/%s\t%d/%d\t%s\t%s\n",
			mark, s.Platform, s.Topic, s.Count(), s.KeywordCount, strings.Join(s.Matched, ", "), named)
	}
	tw.Flush()
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the answer as JSON")
	askCmd.Flags().BoolVar(&askExplain, "explain", false, "show the score of every topic")
	rootCmd.AddCommand(askCmd)
}
