package model

import (
	"encoding/json"
	"testing"
)

func TestParseRangeMode(t *testing.T) {
	tests := []struct {
		in      string
		want    RangeMode
		wantErr bool
	}{
		{in: "walk", want: RangeWalk},
		{in: " Range ", want: RangeRange},
		{in: "", wantErr: true},
		{in: "hop", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseRangeMode(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseRangeMode(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseRangeMode(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseRangeMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRangeModeString(t *testing.T) {
	if RangeWalk.String() != "walk" || RangeRange.String() != "range" {
		t.Fatalf("unexpected names %q %q", RangeWalk, RangeRange)
	}
	if got := RangeMode(0).String(); got != "RangeMode(0)" {
		t.Fatalf("zero mode String() = %q", got)
	}
}

func TestRangeModeJSON(t *testing.T) {
	var cfg struct {
		Mode RangeMode `json:"mode"`
	}
	if err := json.Unmarshal([]byte(`{"mode":"range"}`), &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cfg.Mode != RangeRange {
		t.Fatalf("mode = %v, want range", cfg.Mode)
	}
	out, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"mode":"range"}` {
		t.Fatalf("marshal = %s", out)
	}
	if err := json.Unmarshal([]byte(`{"mode":2}`), &cfg); err == nil {
		t.Fatalf("expected error for numeric mode")
	}
}
