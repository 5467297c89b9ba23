package pipeline

import (
	"context"
	"strings"
)

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then after the <body> open tag, then prepends.
// CSS content is sanitized so it cannot close the style block early.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}

	// Check for cancellation
	if ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"

	if pos, ok := styleInsertPos(htmlContent); ok {
		return htmlContent[:pos] + styleBlock + htmlContent[pos:]
	}
	return styleBlock + htmlContent
}

// styleInsertPos finds where a <style> block belongs: immediately
// before </head>, or just after the opening <body ...> tag.
func styleInsertPos(htmlContent string) (int, bool) {
	lower := strings.ToLower(htmlContent)

	if idx := strings.Index(lower, "</head>"); idx != -1 {
		return idx, true
	}

	if idx := strings.Index(lower, "<body"); idx != -1 {
		if close := strings.Index(htmlContent[idx:], ">"); close != -1 {
			return idx + close + 1, true
		}
	}
	return 0, false
}

// sanitizeCSS escapes sequences that could break out of a <style>
// block, preventing the CSS from closing the tag prematurely.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
