package popover

import (
	"strconv"
	"strings"

	"github.com/ziadkadry99/texotip/internal/config"
)

// Geometry is the layout of an annotated element at the moment the
// pointer entered it, as measured by the host page.
type Geometry struct {
	OffsetLeft     float64 `json:"offset_left"`
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	FontSize       float64 `json:"font_size"`
	ViewportWidth  float64 `json:"viewport_width"`
	ScrollbarWidth float64 `json:"scrollbar_width"`
}

// Property is one CSS declaration.
type Property struct {
	Name  string
	Value string
}

// Style is an ordered list of CSS declarations.
type Style []Property

func (s Style) String() string {
	parts := make([]string, len(s))
	for i, p := range s {
		parts[i] = p.Name + ":" + p.Value
	}
	return strings.Join(parts, ";")
}

// Get returns the value of the named property.
func (s Style) Get(name string) (string, bool) {
	for _, p := range s {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Placement is the computed style of a popover box and its arrow.
type Placement struct {
	Box   Style
	Arrow Style
}

// Place positions the box to the right of the anchor unless a box of
// minimum width would overflow the viewport, in which case it is pinned
// from the right instead.
func Place(g Geometry, cfg config.PopoverConfig) Placement {
	var box Style

	space := g.OffsetLeft + float64(cfg.OffsetH) + float64(cfg.MinWidth)
	if space > g.ViewportWidth {
		right := g.ViewportWidth - space - float64(cfg.Padding) + g.ScrollbarWidth
		box = append(box, Property{"right", px(right)})
	} else {
		box = append(box, Property{"left", px(float64(cfg.OffsetH))})
	}

	box = append(box,
		Property{"min-width", px(float64(cfg.MinWidth))},
		Property{"padding", px(float64(cfg.Padding))},
		Property{"top", px(g.FontSize + float64(cfg.ArrowSize) + float64(cfg.OffsetV))},
		Property{"z-index", strconv.Itoa(cfg.ZIndex)},
	)

	arrow := Style{
		{"left", px(g.Width / 2)},
		{"top", px(g.Height + float64(cfg.OffsetV))},
	}

	return Placement{Box: box, Arrow: arrow}
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
