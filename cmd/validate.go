package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/cdp-assistant/internal/kb"
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Check the config and knowledge base files",
	Long: `Loads the config and the knowledge base and reports problems. With file
arguments only those knowledge files are checked.

Keywords shared by several topics are reported as warnings. When topics tie
on score, a later topic wins only if its platform name appears in the
question; otherwise the earlier topic keeps the answer.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			base *kb.KnowledgeBase
			err  error
		)
		if len(args) > 0 {
			base, err = kb.Load(args...)
		} else {
			cfg, loadErr := loadConfig()
			if loadErr != nil {
				return loadErr
			}
			base, err = cfg.KnowledgeBase()
		}
		if err != nil {
			return err
		}

		for _, w := range sharedKeywords(base) {
			color.Yellow("⚠ %s", w)
		}

		topics := 0
		for _, p := range base.Platforms() {
			topics += len(base.Topics(p))
		}
		color.Green("✔ knowledge base OK: %d platforms, %d topics", len(base.Platforms()), topics)
		return nil
	},
}

// sharedKeywords reports every keyword that selects more than one topic.
func sharedKeywords(base *kb.KnowledgeBase) []string {
	owners := make(map[string][]string)
	for _, e := range base.Entries() {
		seen := make(map[string]bool, len(e.Topic.Keywords))
		for _, kw := range e.Topic.Keywords {
			if seen[kw] {
				continue
			}
			seen[kw] = true
			owners[kw] = append(owners[kw], e.ID())
		}
	}

	var warnings []string
	for kw, ids := range owners {
		if len(ids) > 1 {
			warnings = append(warnings, fmt.Sprintf("keyword %q is shared by %s", kw, strings.Join(ids, ", ")))
		}
	}
	sort.Strings(warnings)
	return warnings
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
