package mcp

import "github.com/mark3labs/mcp-go/mcp"

var platformEnum = mcp.Enum("segment", "mparticle", "lytics", "zeotap")

// askQuestionTool defines the ask_cdp_question MCP tool.
var askQuestionTool = mcp.NewTool("ask_cdp_question",
	mcp.WithDescription("Answer a how-to question about Segment, mParticle, Lytics or Zeotap from the support knowledge base."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("The user's question in natural language"),
	),
)

// listTopicsTool defines the list_cdp_topics MCP tool.
var listTopicsTool = mcp.NewTool("list_cdp_topics",
	mcp.WithDescription("List the knowledge-base topics and the keywords that select them."),
	mcp.WithString("platform",
		mcp.Description("Only list topics of this platform"),
		platformEnum,
	),
)

// explainMatchTool defines the explain_match MCP tool.
var explainMatchTool = mcp.NewTool("explain_match",
	mcp.WithDescription("Show which keywords of each topic a question hits and which topic wins."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("The question to score"),
	),
)

// listUnansweredTool defines the list_unanswered_questions MCP tool. It is
// only registered when a backlog is attached.
var listUnansweredTool = mcp.NewTool("list_unanswered_questions",
	mcp.WithDescription("List questions the assistant could not answer, most frequently asked first."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of questions to return (default 10)"),
	),
	mcp.WithString("status",
		mcp.Description("Filter by status (default open)"),
		mcp.Enum("open", "resolved", "dismissed"),
	),
)
