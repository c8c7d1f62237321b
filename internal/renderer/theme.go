package renderer

import (
	"slices"

	"github.com/dshills/keycalc/internal/renderer/core"
)

// Theme holds the styles used to draw the calculator.
type Theme struct {
	Name string

	Base     core.Style // screen background
	Border   core.Style
	Title    core.Style
	Pending  core.Style
	Display  core.Style
	Digit    core.Style
	Operator core.Style
	Function core.Style // C, CE, backspace
	Equals   core.Style
	History  core.Style
	Muted    core.Style
	Notice   core.Style
}

// DarkTheme is the default theme.
func DarkTheme() Theme {
	bg := core.MustHex("#1E1E2E")
	fg := core.MustHex("#CDD6F4")
	surface := core.MustHex("#313244")
	accent := core.MustHex("#F9E2AF")
	red := core.MustHex("#F38BA8")
	green := core.MustHex("#A6E3A1")

	base := core.NewStyle(fg, bg)
	return Theme{
		Name:     "dark",
		Base:     base,
		Border:   base.WithForeground(fg.Blend(bg, 0.6)),
		Title:    base.WithForeground(accent).Bold(),
		Pending:  base.WithForeground(fg.Blend(bg, 0.4)),
		Display:  base.Bold(),
		Digit:    core.NewStyle(fg, surface),
		Operator: core.NewStyle(bg, accent).Bold(),
		Function: core.NewStyle(bg, red),
		Equals:   core.NewStyle(bg, green).Bold(),
		History:  base,
		Muted:    base.WithForeground(fg.Blend(bg, 0.5)),
		Notice:   core.NewStyle(bg, red).Bold(),
	}
}

// LightTheme is a theme for light terminals.
func LightTheme() Theme {
	bg := core.MustHex("#EFF1F5")
	fg := core.MustHex("#4C4F69")
	surface := core.MustHex("#CCD0DA")
	accent := core.MustHex("#DF8E1D")
	red := core.MustHex("#D20F39")
	green := core.MustHex("#40A02B")

	base := core.NewStyle(fg, bg)
	return Theme{
		Name:     "light",
		Base:     base,
		Border:   base.WithForeground(fg.Blend(bg, 0.6)),
		Title:    base.WithForeground(accent).Bold(),
		Pending:  base.WithForeground(fg.Blend(bg, 0.4)),
		Display:  base.Bold(),
		Digit:    core.NewStyle(fg, surface),
		Operator: core.NewStyle(bg, accent).Bold(),
		Function: core.NewStyle(bg, red),
		Equals:   core.NewStyle(bg, green).Bold(),
		History:  base,
		Muted:    base.WithForeground(fg.Blend(bg, 0.5)),
		Notice:   core.NewStyle(bg, red).Bold(),
	}
}

// MonoTheme uses only the terminal's default colors and attributes.
func MonoTheme() Theme {
	base := core.DefaultStyle()
	return Theme{
		Name:     "mono",
		Base:     base,
		Border:   base,
		Title:    base.Bold(),
		Pending:  base.Dim(),
		Display:  base.Bold(),
		Digit:    base.Reverse(),
		Operator: base.Reverse().Bold(),
		Function: base.Reverse(),
		Equals:   base.Reverse().Bold(),
		History:  base,
		Muted:    base.Dim(),
		Notice:   base.Reverse().Bold(),
	}
}

var themes = map[string]func() Theme{
	"dark":  DarkTheme,
	"light": LightTheme,
	"mono":  MonoTheme,
}

// ThemeByName returns the named theme.
func ThemeByName(name string) (Theme, bool) {
	fn, ok := themes[name]
	if !ok {
		return Theme{}, false
	}
	return fn(), true
}

// ThemeNames returns the available theme names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
