package tools

import (
	"fmt"
	"strings"

	"github.com/aretw0/motoko-mcp/pkg/backend"
	"github.com/aretw0/motoko-mcp/pkg/domain"
)

// Fallback text used when the backend omits optional fields.
const (
	UnknownSource   = "Unknown"
	MissingScore    = "N/A"
	NoCodeGenerated = "No code generated"
)

// FormatContext renders retrieval results: one text block per result,
// numbered from 1, or a single "no results" block.
func FormatContext(query string, resp *backend.ContextResponse) domain.Content {
	if resp == nil || len(resp.Results) == 0 {
		return domain.Text(fmt.Sprintf("No relevant Motoko code found for query: \"%s\"", query))
	}

	blocks := make([]string, 0, len(resp.Results))
	for i, r := range resp.Results {
		source := UnknownSource
		if r.Source != nil && *r.Source != "" {
			source = *r.Source
		}
		score := MissingScore
		if r.Score != nil {
			score = fmt.Sprintf("%.3f", *r.Score)
		}

		var b strings.Builder
		fmt.Fprintf(&b, "## Result %d\n", i+1)
		fmt.Fprintf(&b, "**Source:** %s\n", source)
		fmt.Fprintf(&b, "**Relevance Score:** %s\n\n", score)
		b.WriteString(fence(r.Content))
		blocks = append(blocks, b.String())
	}
	return domain.Text(blocks...)
}

// FormatGenerate renders generated code, followed by an explanation section
// only when the backend provided one.
func FormatGenerate(resp *backend.GenerateResponse) domain.Content {
	code := NoCodeGenerated
	if resp != nil {
		switch {
		case resp.Code != nil && *resp.Code != "":
			code = *resp.Code
		case resp.Response != nil && *resp.Response != "":
			code = *resp.Response
		}
	}

	var b strings.Builder
	b.WriteString("## Generated Motoko Code\n\n")
	b.WriteString(fence(code))
	if resp != nil && resp.Explanation != nil && *resp.Explanation != "" {
		b.WriteString("\n\n## Explanation\n\n")
		b.WriteString(*resp.Explanation)
	}
	return domain.Text(b.String())
}

func fence(code string) string {
	return "```motoko\n" + strings.TrimRight(code, "\n") + "\n```"
}
