package planner

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/signalsfoundry/search-planner/model"
)

// Format is a plan wire encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat resolves a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatMsgpack:
		return f, nil
	case "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown plan format %q", s)
	}
}

// EncodePlan writes plan to w. JSON output is indented.
func EncodePlan(w io.Writer, plan *model.Plan, format Format) error {
	if plan == nil {
		return fmt.Errorf("plan is nil")
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(plan)
	default:
		return fmt.Errorf("unknown plan format %q", format)
	}
}

// DecodePlan reads a plan written by EncodePlan.
func DecodePlan(r io.Reader, format Format) (*model.Plan, error) {
	var plan model.Plan
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&plan); err != nil {
			return nil, fmt.Errorf("decode json plan: %w", err)
		}
	case FormatMsgpack:
		if err := msgpack.NewDecoder(r).Decode(&plan); err != nil {
			return nil, fmt.Errorf("decode msgpack plan: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown plan format %q", format)
	}
	return &plan, nil
}
