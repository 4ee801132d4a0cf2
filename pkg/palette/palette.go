// Package palette holds the named color palettes offered to word clouds.
package palette

import (
	"sort"
	"strings"
)

// DefaultName is returned for unknown palette names.
const DefaultName = "Default"

// Palette is a named, ordered list of hex colors.
type Palette struct {
	Name   string
	Colors []string
}

// themed palettes match by lowercase name.
var themed = []Palette{
	{Name: "Material", Colors: []string{"#f44336", "#e91e63", "#9c27b0", "#673ab7", "#3f51b5", "#2196f3", "#03a9f4", "#00bcd4", "#009688", "#4caf50"}},
	{Name: "Solarized", Colors: []string{"#002b36", "#073642", "#586e75", "#657b83", "#839496", "#93a1a1", "#eee8d5", "#fdf6e3", "#b58900", "#cb4b16"}},
	{Name: "Dracula", Colors: []string{"#282a36", "#44475a", "#f8f8f2", "#6272a4", "#8be9fd", "#50fa7b", "#ffb86c", "#ff79c6", "#bd93f9", "#ff5555"}},
	{Name: "Monokai", Colors: []string{"#272822", "#f8f8f2", "#f92672", "#fd971f", "#e6db74", "#a6e22e", "#66d9ef"}},
	{Name: "RGB", Colors: []string{"#ff0000", "#00ff00", "#0000ff"}},
}

// predefined palettes match by exact name.
var predefined = map[string][]string{
	"Default": {"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd", "#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf"},
	"Warm":    {"#ff4d4d", "#ff8533", "#ffcc00", "#ff6666", "#ff944d", "#ffd633", "#ff8080", "#ffa366", "#ffe066"},
	"Cool":    {"#4d4dff", "#33ccff", "#00ff99", "#6666ff", "#4dccff", "#33ffb3", "#8080ff", "#66ccff", "#66ffcc"},
	"Pastel":  {"#ffb3b3", "#ffd9b3", "#ffffb3", "#b3ffb3", "#b3d9ff", "#e6b3ff", "#ffb3ff", "#ffb3d9", "#b3ffff"},
	"Dark":    {"#1a1a1a", "#333333", "#4d4d4d", "#666666", "#808080", "#999999", "#b3b3b3", "#cccccc", "#e6e6e6"},
	"Rainbow": {"#ff0000", "#ff7f00", "#ffff00", "#00ff00", "#0000ff", "#4b0082", "#8f00ff", "#ff69b4", "#00ffff"},
	"Forest":  {"#004d00", "#006600", "#008000", "#009900", "#00b300", "#00cc00", "#00e600", "#00ff00", "#33ff33"},
	"Ocean":   {"#000066", "#000099", "#0000cc", "#0000ff", "#3333ff", "#6666ff", "#9999ff", "#ccccff", "#e6e6ff"},
}

// Get returns the colors for name. Themed palettes are matched
// case-insensitively, predefined ones exactly; anything else yields Default.
// The returned slice is a copy.
func Get(name string) []string {
	lower := strings.ToLower(name)
	for _, p := range themed {
		if strings.ToLower(p.Name) == lower {
			return clone(p.Colors)
		}
	}
	if colors, ok := predefined[name]; ok {
		return clone(colors)
	}
	return clone(predefined[DefaultName])
}

// Names lists every palette name, sorted.
func Names() []string {
	names := make([]string, 0, len(themed)+len(predefined))
	for _, p := range themed {
		names = append(names, p.Name)
	}
	for name := range predefined {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All maps every palette name to its colors.
func All() map[string][]string {
	all := make(map[string][]string, len(themed)+len(predefined))
	for _, name := range Names() {
		all[name] = Get(name)
	}
	return all
}

func clone(colors []string) []string {
	out := make([]string, len(colors))
	copy(out, colors)
	return out
}
