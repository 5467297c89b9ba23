package pipeline

import (
	"context"
	"strings"
	"testing"
)

func TestGoldmarkConverter_ToHTML(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		contains []string
	}{
		{
			name:     "emphasis",
			content:  "Pay within **30 days**.",
			contains: []string{"<strong>30 days</strong>"},
		},
		{
			name:     "list",
			content:  "- wire transfer\n- card",
			contains: []string{"<ul>", "<li>wire transfer</li>", "<li>card</li>"},
		},
		{
			name:     "gfm table",
			content:  "| a | b |\n|---|---|\n| 1 | 2 |",
			contains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:     "hard wraps",
			content:  "line one\nline two",
			contains: []string{"<br"},
		},
		{
			name:     "autolink",
			content:  "see https://example.com for details",
			contains: []string{`<a href="https://example.com"`},
		},
	}

	conv := NewGoldmarkConverter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := conv.ToHTML(context.Background(), tt.content)
			if err != nil {
				t.Fatalf("ToHTML() unexpected error: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("ToHTML() = %q, missing %q", got, want)
				}
			}
		})
	}
}

func TestGoldmarkConverter_EmptyInput(t *testing.T) {
	conv := NewGoldmarkConverter()
	got, err := conv.ToHTML(context.Background(), "")
	if err != nil {
		t.Fatalf("ToHTML() unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("ToHTML(\"\") = %q, want empty fragment", got)
	}
}

func TestGoldmarkConverter_RawHTMLEscaped(t *testing.T) {
	conv := NewGoldmarkConverter()
	got, err := conv.ToHTML(context.Background(), "<script>alert(1)</script>")
	if err != nil {
		t.Fatalf("ToHTML() unexpected error: %v", err)
	}
	if strings.Contains(got, "<script>") {
		t.Errorf("ToHTML() passed raw HTML through: %q", got)
	}
}

func TestGoldmarkConverter_ContextCanceled(t *testing.T) {
	conv := NewGoldmarkConverter()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := conv.ToHTML(ctx, "# heading")
	if err == nil {
		t.Fatal("ToHTML() expected error for canceled context")
	}
}
