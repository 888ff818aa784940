package site

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/texotip/internal/config"
)

// pageTemplate is the Go html/template for each documentation page.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}} | {{.SiteName}}</title>
  <link rel="stylesheet" href="{{.BasePath}}texotip.css">
</head>
<body>
  <nav class="sidebar">
    <h2 class="site-title">{{.SiteName}}</h2>
    {{.TreeHTML}}
  </nav>
  <main class="content">
    <article class="page-content">
{{.Content}}
    </article>
  </main>
{{- if .Live}}
  <script src="{{.BasePath}}texotip.js"></script>
{{- end}}
</body>
</html>
`

// layoutCSS styles the page chrome around the content.
const layoutCSS = `body { margin: 0; font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; color: #1f2328; display: flex; }
.sidebar { width: 260px; min-height: 100vh; padding: 16px; background: #f6f8fa; border-right: 1px solid #d0d7de; box-sizing: border-box; }
.sidebar ul { list-style: none; padding-left: 12px; margin: 4px 0; }
.sidebar a { color: #1f2328; text-decoration: none; }
.sidebar a.active { font-weight: 600; color: #0969da; }
.dir-toggle { font-weight: 600; }
.content { flex: 1; padding: 24px 48px; max-width: 900px; }
pre { padding: 12px; overflow-x: auto; border-radius: 6px; }
`

// popoverCSS renders the trigger and popover styles for the configured
// class names. Placement is set inline by the controller, so these rules
// only cover the look of each part.
func popoverCSS(trigger string, p config.PopoverConfig) string {
	var b strings.Builder
	b.WriteString(layoutCSS)
	fmt.Fprintf(&b, `.%[6]s { position: relative; border-bottom: 1px dotted currentColor; text-decoration: none; color: inherit; }
.%[1]s { position: absolute; background: #ffffff; border: 1px solid #d0d7de; border-radius: 6px; box-shadow: 0 8px 24px rgba(140,149,159,0.2); font-size: 14px; line-height: 1.5; color: #1f2328; }
.%[2]s { position: absolute; width: 0; height: 0; margin-left: -%[4]dpx; border: %[4]dpx solid transparent; border-bottom-color: #d0d7de; z-index: %[5]d; }
.%[3]s { position: absolute; top: 4px; right: 8px; cursor: pointer; }
.%[3]s::after { content: "\00d7"; font-size: 16px; }
`, p.BoxClass, p.ArrowClass, p.CloseClass, p.ArrowSize, p.ZIndex+1, trigger)
	return b.String()
}
