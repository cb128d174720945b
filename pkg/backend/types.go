package backend

// ContextRequest is the body of POST /api/v1/context.
type ContextRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// ContextResult is one ranked snippet returned by the retrieval endpoint.
// Source and Score are optional on the wire.
type ContextResult struct {
	Content string   `json:"content"`
	Source  *string  `json:"source,omitempty"`
	Score   *float64 `json:"score,omitempty"`
}

// ContextResponse is the body returned by POST /api/v1/context.
type ContextResponse struct {
	Results []ContextResult `json:"results"`
}

// GenerateRequest is the body of POST /api/v1/generate.
type GenerateRequest struct {
	Prompt      string  `json:"prompt"`
	Query       string  `json:"query,omitempty"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// GenerateResponse is the body returned by POST /api/v1/generate.
// Every field is optional; older backends answer with Response instead of Code.
type GenerateResponse struct {
	Code        *string `json:"code,omitempty"`
	Response    *string `json:"response,omitempty"`
	Explanation *string `json:"explanation,omitempty"`
}
