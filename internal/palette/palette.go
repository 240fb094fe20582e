package palette

import (
	"hash/fnv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette resolves event color values to hex colors for one theme.
type Palette struct {
	theme *Theme
	names []string
}

// New derives a Palette from the provided Theme.
func New(t *Theme) *Palette {
	if t == nil {
		t, _ = Load("mocha")
	}
	return &Palette{theme: t, names: t.ColorNames()}
}

// Theme returns the underlying theme.
func (p *Palette) Theme() *Theme {
	return p.theme
}

// Names returns the palette color names.
func (p *Palette) Names() []string {
	return p.names
}

// Resolve returns the hex color for an event. An empty or unknown color falls
// back to the calendar's default; calendars without a configured default get
// a stable palette color picked from their name.
func (p *Palette) Resolve(color, calendar string) string {
	if hex, ok := p.lookup(color); ok {
		return hex
	}
	if def, ok := p.theme.Calendars[calendar]; ok {
		if hex, ok := p.lookup(def); ok {
			return hex
		}
	}
	if len(p.names) == 0 {
		return normalize(p.theme.Accent)
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(calendar))
	return p.theme.Colors[p.names[int(h.Sum32()%uint32(len(p.names)))]]
}

// IsKnown reports whether color is a palette name or a valid hex color.
func (p *Palette) IsKnown(color string) bool {
	_, ok := p.lookup(color)
	return ok
}

// Next returns the palette name following color, wrapping around.
func (p *Palette) Next(color string) string {
	if len(p.names) == 0 {
		return color
	}
	color = strings.ToLower(strings.TrimSpace(color))
	for i, n := range p.names {
		if n == color {
			return p.names[(i+1)%len(p.names)]
		}
	}
	return p.names[0]
}

func (p *Palette) lookup(color string) (string, bool) {
	color = strings.TrimSpace(color)
	if color == "" {
		return "", false
	}
	if strings.HasPrefix(color, "#") {
		c, err := colorful.Hex(color)
		if err != nil {
			return "", false
		}
		return c.Hex(), true
	}
	hex, ok := p.theme.Colors[strings.ToLower(color)]
	if !ok {
		return "", false
	}
	return normalize(hex), true
}

// TextOn picks the theme foreground or background, whichever reads better on bg.
func (p *Palette) TextOn(bg string) string {
	if contrastRatio(bg, p.theme.Fg) >= contrastRatio(bg, p.theme.Bg) {
		return p.theme.Fg
	}
	return p.theme.Bg
}

// Muted blends hex toward the theme background.
func (p *Palette) Muted(hex string) string {
	return blend(hex, p.theme.Bg, 0.6)
}

// Color returns a lipgloss color for a hex string.
func Color(hex string) lipgloss.Color {
	return lipgloss.Color(hex)
}

func normalize(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	return c.Hex()
}

func blend(a, b string, ratio float64) string {
	ca, errA := colorful.Hex(a)
	cb, errB := colorful.Hex(b)
	if errA != nil || errB != nil {
		return a
	}
	ratio = max(0, min(1, ratio))
	return ca.BlendRgb(cb, ratio).Clamped().Hex()
}

func contrastRatio(a, b string) float64 {
	l1 := relativeLuminance(a)
	l2 := relativeLuminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

func relativeLuminance(hex string) float64 {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0
	}
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}
