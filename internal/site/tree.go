package site

import (
	"fmt"
	"html"
	"path"
	"sort"
	"strings"
)

// FileTree is a node of the sidebar navigation.
type FileTree struct {
	Name     string
	Title    string // page H1, or a formatted directory name
	Path     string // slash-separated path relative to the docs dir
	IsDir    bool
	Children []*FileTree
}

// BuildTree constructs a FileTree from relative markdown paths. titles maps
// a path to its display title.
func BuildTree(paths []string, titles map[string]string) *FileTree {
	root := &FileTree{Name: "docs", IsDir: true}

	for _, p := range paths {
		parts := strings.Split(p, "/")
		current := root
		for i, part := range parts {
			child := current.child(part)
			if child == nil {
				child = &FileTree{
					Name:  part,
					IsDir: i < len(parts)-1,
					Path:  strings.Join(parts[:i+1], "/"),
				}
				if child.IsDir {
					child.Title = formatDirName(part)
				} else {
					child.Title = titles[p]
				}
				current.Children = append(current.Children, child)
			}
			current = child
		}
	}

	sortTree(root)
	return root
}

func (t *FileTree) child(name string) *FileTree {
	for _, c := range t.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// sortTree orders directories before files, each alphabetically.
func sortTree(node *FileTree) {
	sort.Slice(node.Children, func(i, j int) bool {
		a, b := node.Children[i], node.Children[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return a.Name < b.Name
	})
	for _, c := range node.Children {
		if c.IsDir {
			sortTree(c)
		}
	}
}

// ToHTML renders the tree as nested lists. activePath is the page being
// rendered and basePath the relative prefix back to the site root.
func (t *FileTree) ToHTML(activePath, basePath string) string {
	var b strings.Builder
	b.WriteString("<ul>\n")
	if t.child("index.md") != nil {
		fmt.Fprintf(&b, `<li class="file home"><a href="%sindex.html"%s>Home</a></li>`+"\n", basePath, activeAttr(activePath == "index.md"))
	}
	t.writeChildren(&b, activePath, basePath)
	b.WriteString("</ul>\n")
	return b.String()
}

func (t *FileTree) writeChildren(b *strings.Builder, activePath, basePath string) {
	for _, c := range t.Children {
		if c.IsDir {
			open := ""
			if strings.HasPrefix(activePath, c.Path+"/") {
				open = " expanded"
			}
			fmt.Fprintf(b, `<li class="dir%s"><span class="dir-toggle">%s</span><ul>`+"\n", open, html.EscapeString(c.Title))
			c.writeChildren(b, activePath, basePath)
			b.WriteString("</ul></li>\n")
			continue
		}
		if c.Path == "index.md" {
			continue
		}
		label := c.Title
		if label == "" {
			label = strings.TrimSuffix(c.Name, ".md")
		}
		fmt.Fprintf(b, `<li class="file"><a href="%s%s"%s>%s</a></li>`+"\n",
			basePath, mdPathToHTML(c.Path), activeAttr(c.Path == activePath), html.EscapeString(label))
	}
}

func activeAttr(active bool) string {
	if active {
		return ` class="active"`
	}
	return ""
}

// mdPathToHTML converts a markdown path to its HTML equivalent.
func mdPathToHTML(p string) string {
	if path.Ext(p) == ".md" {
		return strings.TrimSuffix(p, ".md") + ".html"
	}
	return p
}

// formatDirName title-cases a directory slug: "getting-started" becomes
// "Getting Started".
func formatDirName(name string) string {
	words := strings.FieldsFunc(name, func(c rune) bool {
		return c == '-' || c == '_'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
