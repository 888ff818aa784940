package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/texotip/internal/dictionary"
	"github.com/ziadkadry99/texotip/internal/engine"
)

// handleAnnotateHTML runs the annotator over a fragment.
func (s *Server) handleAnnotateHTML(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	markup, err := request.RequireString("markup")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: markup"), nil
	}

	res, err := s.annotator.Annotate(ctx, markup)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("annotation failed: %v", err)), nil
	}
	if res.Skipped {
		return mcp.NewToolResultError(fmt.Sprintf(
			"The dictionary at %s could not be loaded; the markup was not annotated.",
			s.annotator.DictionaryRef(),
		)), nil
	}

	if request.GetString("format", "markup") == "summary" {
		return mcp.NewToolResultText(formatElements(res.Elements, res.Shielded)), nil
	}
	return mcp.NewToolResultText(res.Markup), nil
}

// handleLookupTerm finds the entry that would annotate a term. The first
// matching entry wins, as it does on a page.
func (s *Server) handleLookupTerm(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	term, err := request.RequireString("term")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: term"), nil
	}

	entries, err := s.annotator.Dictionary(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading dictionary: %v", err)), nil
	}

	caseSensitive := s.annotator.Config().CaseSensitive
	for _, e := range entries {
		if e.Text == term || (!caseSensitive && strings.EqualFold(e.Text, term)) {
			return mcp.NewToolResultText(formatEntry(e)), nil
		}
	}
	return mcp.NewToolResultError(fmt.Sprintf("No glossary entry for %q.", term)), nil
}

// handleListTerms returns the dictionary terms.
func (s *Server) handleListTerms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 50)
	if limit <= 0 {
		limit = 50
	}

	entries, err := s.annotator.Dictionary(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading dictionary: %v", err)), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("The glossary is empty."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Glossary (%d terms)\n\n", len(entries))
	for i, e := range entries {
		if i == limit {
			fmt.Fprintf(&b, "\n_%d more not shown._\n", len(entries)-limit)
			break
		}
		fmt.Fprintf(&b, "- **%s**: %s\n", e.Text, e.Content)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func formatEntry(e dictionary.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n%s\n", e.Text, e.Content)
	if e.URL != "" {
		fmt.Fprintf(&b, "\nMore: %s\n", e.URL)
	}
	return b.String()
}

func formatElements(elements []engine.AnnotatedElement, shielded int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Annotated %d occurrence(s); %d pre-existing element(s) left untouched.\n\n", len(elements), shielded)
	for _, el := range elements {
		fmt.Fprintf(&b, "- %s: %q (entry %d)\n", el.ID, el.Text, el.Entry)
	}
	return b.String()
}
