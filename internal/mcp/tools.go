package mcp

import "github.com/mark3labs/mcp-go/mcp"

// annotateHTMLTool defines the annotate_html MCP tool.
var annotateHTMLTool = mcp.NewTool("annotate_html",
	mcp.WithDescription("Annotate an HTML fragment with glossary popovers. Links and elements that are already annotated are left untouched."),
	mcp.WithString("markup",
		mcp.Required(),
		mcp.Description("HTML markup to annotate"),
	),
	mcp.WithString("format",
		mcp.Description("Output format (default markup)"),
		mcp.Enum("markup", "summary"),
	),
)

// lookupTermTool defines the lookup_term MCP tool.
var lookupTermTool = mcp.NewTool("lookup_term",
	mcp.WithDescription("Look up a term in the glossary and return its explanation and link."),
	mcp.WithString("term",
		mcp.Required(),
		mcp.Description("Term to look up"),
	),
)

// listTermsTool defines the list_terms MCP tool.
var listTermsTool = mcp.NewTool("list_terms",
	mcp.WithDescription("List the glossary terms in dictionary order."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of terms to return (default 50)"),
	),
)
