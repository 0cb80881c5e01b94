package summary

import (
	"errors"
	"testing"
)

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"bare", `{"a":1}`, `{"a":1}`, true},
		{"surrounded", "text {\"a\":1} tail {\"b\":2}", `{"a":1}`, true},
		{"nested", `x {"a":{"b":{}}} y`, `{"a":{"b":{}}}`, true},
		{"brace in string", `{"a":"}{"}`, `{"a":"}{"}`, true},
		{"escaped quote", `{"a":"say \"}\" now"}`, `{"a":"say \"}\" now"}`, true},
		{"escaped backslash", `{"a":"c:\\"} trailing }`, `{"a":"c:\\"}`, true},
		{"none", "no json here", "", false},
		{"unbalanced", `{"a":{"b":1}`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractObject(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("extractObject() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseResponse_FlexibleFields(t *testing.T) {
	resp, err := parseResponse(`{"summary":" S ","findings":"one","limitations":["a"," ","b"],"tags":null}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Summary != "S" {
		t.Errorf("Summary = %q", resp.Summary)
	}
	if resp.Findings != "one" {
		t.Errorf("Findings = %q", resp.Findings)
	}
	if resp.Limitations != "a b" {
		t.Errorf("Limitations = %q", resp.Limitations)
	}
	if resp.Tags != nil {
		t.Errorf("Tags = %v, want nil", resp.Tags)
	}
}

func TestParseResponse_Errors(t *testing.T) {
	if _, err := parseResponse("nothing"); !errors.Is(err, errNoJSONObject) {
		t.Errorf("expected errNoJSONObject, got %v", err)
	}
	if _, err := parseResponse(`{"methodology":"m"}`); !errors.Is(err, errEmptySummary) {
		t.Errorf("expected errEmptySummary, got %v", err)
	}
	if _, err := parseResponse(`{"summary": 1}`); err == nil {
		t.Error("expected decode error")
	}
}
