package utils

import (
	"strings"
	"testing"
)

type scenario struct {
	Name  string  `json:"name"`
	Units int     `json:"units"`
	Rate  float64 `json:"rate"`
}

func TestSmartParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"plain json", `{"name": "Torre Sur", "units": 20, "rate": 0.1}`},
		{"trailing comma", `{"name": "Torre Sur", "units": 20, "rate": 0.1,}`},
		{"fenced", "```json\n{\"name\": \"Torre Sur\", \"units\": 20, \"rate\": 0.1}\n```"},
		{"hjson", "{\n  # reference block\n  name: Torre Sur\n  units: 20\n  rate: 0.1\n}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s scenario
			if _, err := SmartParse(tt.input, &s); err != nil {
				t.Fatalf("SmartParse: %v", err)
			}
			if s.Name != "Torre Sur" || s.Units != 20 || s.Rate != 0.1 {
				t.Errorf("got %+v", s)
			}
		})
	}
}

func TestParseStrict(t *testing.T) {
	for _, input := range []string{
		`{"name": "Torre Sur", "units": 20, "rate": 0.1}`,
		"{\n  // reference block\n  \"name\": \"Torre Sur\",\n  \"units\": 20,\n  \"rate\": 0.1,\n}",
	} {
		var s scenario
		if err := ParseStrict(input, &s); err != nil {
			t.Fatalf("ParseStrict(%q): %v", input, err)
		}
		if s.Name != "Torre Sur" || s.Units != 20 || s.Rate != 0.1 {
			t.Errorf("got %+v", s)
		}
	}
}

func TestParseStrictRejectsTruncatedInput(t *testing.T) {
	truncated := `{"name": "Torre Sur", "units": 2`

	var s scenario
	if err := ParseStrict(truncated, &s); err == nil {
		t.Fatalf("expected an error, decoded %+v", s)
	}
	// the lenient path completes the document instead
	if _, err := SmartParse(truncated, &s); err != nil || s.Units != 2 {
		t.Errorf("SmartParse: %+v, %v", s, err)
	}
}

func TestStripCodeFence(t *testing.T) {
	if got := StripCodeFence("```\n[1, 2]\n```"); got != "[1, 2]" {
		t.Errorf("got %q", got)
	}
	if got := StripCodeFence(`{"a": 1}`); got != `{"a": 1}` {
		t.Errorf("unfenced input changed: %q", got)
	}
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML("# Resumen\n\n| Mes | Flujo |\n|---|---|\n| 2025-01 | -100 |\n")
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	for _, want := range []string{"<h1", "<table>", "<td>2025-01</td>"} {
		if !strings.Contains(html, want) {
			t.Errorf("missing %s in %s", want, html)
		}
	}
	if !ValidateMarkdown("text") || ValidateMarkdown("") {
		t.Error("ValidateMarkdown")
	}
}
