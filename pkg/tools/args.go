package tools

import (
	"github.com/aretw0/motoko-mcp/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// decodeArgs maps validated arguments onto a typed struct.
// JSON numbers arrive as float64; the input schemas only admit whole numbers
// within int range for int fields.
func decodeArgs(tool string, raw map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "mapstructure",
	})
	if err != nil {
		return domain.NewToolError(tool, domain.KindInternal, err.Error(), err)
	}
	if err := dec.Decode(raw); err != nil {
		return domain.NewToolError(tool, domain.KindValidation, "invalid arguments: "+err.Error(), err)
	}
	return nil
}
