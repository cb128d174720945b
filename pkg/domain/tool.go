package domain

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Content is the ordered sequence of blocks a tool produces.
// Only text blocks are emitted by this gateway.
type Content []mcp.Content

// Text builds a Content made of one text block per argument.
func Text(blocks ...string) Content {
	c := make(Content, 0, len(blocks))
	for _, b := range blocks {
		c = append(c, mcp.NewTextContent(b))
	}
	return c
}

// Result wraps the content into a successful tool result.
func (c Content) Result() *mcp.CallToolResult {
	if c == nil {
		c = Content{}
	}
	return &mcp.CallToolResult{Content: c}
}

// String joins the text of every text block, separated by a blank line.
// Non-text blocks are skipped.
func (c Content) String() string {
	parts := make([]string, 0, len(c))
	for _, block := range c {
		if tc, ok := mcp.AsTextContent(block); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// ErrorResult builds the error-shaped result returned for any tool-level fault.
// The text is always "Error: <message>".
func ErrorResult(message string) *mcp.CallToolResult {
	return mcp.NewToolResultError("Error: " + message)
}
