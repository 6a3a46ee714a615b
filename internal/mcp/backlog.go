package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/cdp-assistant/internal/backlog"
)

// BacklogReader is the part of the backlog store exposed over MCP.
type BacklogReader interface {
	List(ctx context.Context, filter backlog.ListFilter) ([]backlog.Question, error)
}

// SetBacklog attaches the unanswered-question backlog and registers the
// tool that reads it.
func (s *Server) SetBacklog(store BacklogReader) {
	s.backlog = store
	s.mcp.AddTool(listUnansweredTool, s.handleListUnanswered)
}

func (s *Server) handleListUnanswered(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}
	status := backlog.Status(request.GetString("status", string(backlog.StatusOpen)))
	if !status.Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown status %q", status)), nil
	}

	questions, err := s.backlog.List(ctx, backlog.ListFilter{Status: status, Limit: limit})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing backlog failed: %v", err)), nil
	}
	if len(questions) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No %s questions in the backlog.", status)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d %s question(s):\n", len(questions), status)
	for i, q := range questions {
		fmt.Fprintf(&sb, "%d. %s (asked %d times, last %s, id %s)\n",
			i+1, q.Question, q.AskCount, q.LastSeen.Format("2006-01-02"), q.ID)
	}
	return mcp.NewToolResultText(strings.TrimRight(sb.String(), "\n")), nil
}
