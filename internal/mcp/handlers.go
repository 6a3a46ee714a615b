package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/cdp-assistant/internal/kb"
	"github.com/ziadkadry99/cdp-assistant/internal/matcher"
)

// handleAskQuestion answers a question and notes which topic produced it.
func (s *Server) handleAskQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}

	ans := s.assistant.Answer(ctx, Source, question)
	if !ans.Matched {
		return mcp.NewToolResultText(ans.Text), nil
	}

	var sb strings.Builder
	sb.WriteString(ans.Text)
	fmt.Fprintf(&sb, "\n\n(source: %s %s topic, %d keyword(s) matched)",
		ans.Result.Platform.DisplayName(), ans.Result.Topic, ans.Result.Confidence)
	return mcp.NewToolResultText(sb.String()), nil
}

// handleListTopics lists every topic, optionally restricted to one platform.
func (s *Server) handleListTopics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	base := s.assistant.KnowledgeBase()
	platforms := base.Platforms()

	if name := request.GetString("platform", ""); name != "" {
		p, err := kb.ParsePlatform(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		platforms = []kb.Platform{p}
	}

	var sb strings.Builder
	for _, p := range platforms {
		topics := base.Topics(p)
		if len(topics) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "## %s\n", p.DisplayName())
		for _, t := range topics {
			fmt.Fprintf(&sb, "- %s: %s\n", t.Name, strings.Join(t.Keywords, ", "))
		}
		sb.WriteString("\n")
	}

	if sb.Len() == 0 {
		return mcp.NewToolResultText("No topics found."), nil
	}
	return mcp.NewToolResultText(strings.TrimRight(sb.String(), "\n")), nil
}

// handleExplainMatch returns the per-topic score breakdown for a question.
func (s *Server) handleExplainMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}

	base := s.assistant.KnowledgeBase()
	return mcp.NewToolResultText(formatExplanation(matcher.Best(question, base), matcher.Explain(question, base))), nil
}

// formatExplanation lists entries with at least one hit, then the winner.
func formatExplanation(best matcher.Result, scores []matcher.Score) string {
	var sb strings.Builder
	hits := 0
	for _, sc := range scores {
		if sc.Count() == 0 {
			continue
		}
		hits++
		named := ""
		if sc.PlatformNamed {
			named = ", platform named"
		}
		fmt.Fprintf(&sb, "- %s/%s: %d of %d keywords (%s)%s\n",
			sc.Platform, sc.Topic, sc.Count(), sc.KeywordCount, strings.Join(sc.Matched, ", "), named)
	}

	if hits == 0 {
		return "No keyword matched; the fallback reply would be used."
	}
	fmt.Fprintf(&sb, "\nWinner: %s/%s with confidence %d", best.Platform, best.Topic, best.Confidence)
	return sb.String()
}
