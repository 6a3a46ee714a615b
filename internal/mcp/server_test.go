package mcp

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/cdp-assistant/internal/assistant"
	"github.com/ziadkadry99/cdp-assistant/internal/backlog"
	"github.com/ziadkadry99/cdp-assistant/internal/kb"
)

// fakeBacklog implements BacklogReader for testing.
type fakeBacklog struct {
	questions []backlog.Question
	filter    backlog.ListFilter
	err       error
}

func (f *fakeBacklog) List(_ context.Context, filter backlog.ListFilter) ([]backlog.Question, error) {
	f.filter = filter
	return f.questions, f.err
}

func newTestServer() *Server {
	return NewServer(assistant.New(kb.Default()))
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// extractText gets the text content from a CallToolResult.
func extractText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"ask_cdp_question", askQuestionTool, "ask_cdp_question"},
		{"list_cdp_topics", listTopicsTool, "list_cdp_topics"},
		{"explain_match", explainMatchTool, "explain_match"},
		{"list_unanswered_questions", listUnansweredTool, "list_unanswered_questions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	a := assistant.New(kb.Default())
	srv := NewServer(a)

	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.assistant != a {
		t.Error("assistant not set correctly")
	}
}

func TestHandleAskQuestion(t *testing.T) {
	srv := newTestServer()
	ctx := context.Background()

	t.Run("matched", func(t *testing.T) {
		result, err := srv.handleAskQuestion(ctx, callRequest(map[string]any{"question": "How do I track an event?"}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := extractText(result)
		want, _ := kb.Default().Lookup(kb.PlatformSegment, "tracking")
		if !strings.HasPrefix(text, want.Response) {
			t.Errorf("expected tracking response, got %q", text)
		}
		if !strings.Contains(text, "source: Segment tracking topic, 2 keyword(s) matched") {
			t.Errorf("expected source note, got %q", text)
		}
	})

	t.Run("fallback", func(t *testing.T) {
		result, _ := srv.handleAskQuestion(ctx, callRequest(map[string]any{"question": "xyz"}))
		if result.IsError {
			t.Fatal("fallback should not be a tool error")
		}
		if extractText(result) != assistant.DefaultFallback {
			t.Errorf("expected fallback, got %q", extractText(result))
		}
	})

	t.Run("missing question", func(t *testing.T) {
		result, err := srv.handleAskQuestion(ctx, callRequest(map[string]any{}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing question")
		}
	})
}

func TestHandleListTopics(t *testing.T) {
	srv := newTestServer()
	ctx := context.Background()

	t.Run("all platforms", func(t *testing.T) {
		result, _ := srv.handleListTopics(ctx, callRequest(map[string]any{}))
		text := extractText(result)
		for _, want := range []string{"## Segment", "## mParticle", "## Lytics", "## Zeotap", "- tracking: track, event, analytics, tracking"} {
			if !strings.Contains(text, want) {
				t.Errorf("expected %q in listing:\n%s", want, text)
			}
		}
		if strings.Index(text, "## Segment") > strings.Index(text, "## Zeotap") {
			t.Error("platforms should be listed in iteration order")
		}
	})

	t.Run("one platform", func(t *testing.T) {
		result, _ := srv.handleListTopics(ctx, callRequest(map[string]any{"platform": "Lytics"}))
		text := extractText(result)
		if !strings.Contains(text, "## Lytics") || strings.Contains(text, "## Segment") {
			t.Errorf("expected only Lytics, got:\n%s", text)
		}
	})

	t.Run("unknown platform", func(t *testing.T) {
		result, _ := srv.handleListTopics(ctx, callRequest(map[string]any{"platform": "hubspot"}))
		if !result.IsError {
			t.Error("expected error for unknown platform")
		}
	})
}

func TestHandleExplainMatch(t *testing.T) {
	srv := newTestServer()
	ctx := context.Background()

	result, err := srv.handleExplainMatch(ctx, callRequest(map[string]any{"question": "tell me about audience segment"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := extractText(result)
	if !strings.Contains(text, "- mparticle/audiences: 2 of 3 keywords (audience, segment)") {
		t.Errorf("expected audiences breakdown, got:\n%s", text)
	}
	if !strings.Contains(text, "Winner: mparticle/audiences with confidence 2") {
		t.Errorf("expected winner line, got:\n%s", text)
	}

	result, _ = srv.handleExplainMatch(ctx, callRequest(map[string]any{"question": "xyz"}))
	if !strings.Contains(extractText(result), "No keyword matched") {
		t.Errorf("expected no-match explanation, got %q", extractText(result))
	}

	result, _ = srv.handleExplainMatch(ctx, callRequest(map[string]any{}))
	if !result.IsError {
		t.Error("expected error for missing question")
	}
}

func TestHandleListUnanswered(t *testing.T) {
	srv := newTestServer()
	bl := &fakeBacklog{questions: []backlog.Question{
		{ID: "q1", Question: "how do I export data", AskCount: 3, LastSeen: time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)},
	}}
	srv.SetBacklog(bl)
	ctx := context.Background()

	result, err := srv.handleListUnanswered(ctx, callRequest(map[string]any{"limit": float64(5)}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := extractText(result)
	if !strings.Contains(text, "1. how do I export data (asked 3 times, last 2026-02-03, id q1)") {
		t.Errorf("unexpected listing:\n%s", text)
	}
	if bl.filter.Limit != 5 || bl.filter.Status != backlog.StatusOpen {
		t.Errorf("unexpected filter %+v", bl.filter)
	}

	result, _ = srv.handleListUnanswered(ctx, callRequest(map[string]any{"status": "retired"}))
	if !result.IsError {
		t.Error("expected error for unknown status")
	}

	bl.err = fmt.Errorf("db down")
	result, _ = srv.handleListUnanswered(ctx, callRequest(map[string]any{}))
	if !result.IsError {
		t.Error("expected error when backlog fails")
	}

	bl.err = nil
	bl.questions = nil
	result, _ = srv.handleListUnanswered(ctx, callRequest(map[string]any{"status": "resolved"}))
	if extractText(result) != "No resolved questions in the backlog." {
		t.Errorf("unexpected empty listing %q", extractText(result))
	}
}
