package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Color colorizes text
type Color interface {
	FgString(text string) string
}

// colorWrapper wraps fatih/color functionality
type colorWrapper struct {
	c       *color.Color
	isRGB   bool
	r, g, b uint8
}

// FgString returns a string with the color applied
func (c colorWrapper) FgString(text string) string {
	if c.isRGB {
		// fatih/color has no 24-bit foreground, emit the sequence directly
		return fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s\x1b[0m", c.r, c.g, c.b, text)
	}
	return c.c.Sprint(text)
}

var rgbRegex = regexp.MustCompile(`^#([a-fA-F0-9]{2})([a-fA-F0-9]{2})([a-fA-F0-9]{2})$`)

var (
	colorCache = make(map[string]Color, 32)
	colorMutex sync.RWMutex
)

var predefinedColors = map[string]color.Attribute{
	"black":   color.FgBlack,
	"red":     color.FgRed,
	"green":   color.FgGreen,
	"yellow":  color.FgYellow,
	"blue":    color.FgBlue,
	"magenta": color.FgMagenta,
	"cyan":    color.FgCyan,
	"white":   color.FgWhite,
	"default": color.Reset,
}

// ParseColor parses a color name or a #rrggbb value. Colors are always
// emitted; the renderer skips painting for plain output.
func ParseColor(name string) (Color, error) {
	colorMutex.RLock()
	if cached, exists := colorCache[name]; exists {
		colorMutex.RUnlock()
		return cached, nil
	}
	colorMutex.RUnlock()

	var result Color
	if m := rgbRegex.FindStringSubmatch(name); m != nil {
		r, _ := strconv.ParseUint(m[1], 16, 8)
		g, _ := strconv.ParseUint(m[2], 16, 8)
		b, _ := strconv.ParseUint(m[3], 16, 8)
		result = colorWrapper{isRGB: true, r: uint8(r), g: uint8(g), b: uint8(b)}
	} else {
		attr, exists := predefinedColors[strings.ToLower(name)]
		if !exists {
			return nil, fmt.Errorf("unknown color: %s", name)
		}
		c := color.New(attr)
		c.EnableColor()
		result = colorWrapper{c: c}
	}

	colorMutex.Lock()
	colorCache[name] = result
	colorMutex.Unlock()

	return result, nil
}

// Palette maps permuters to colors
type Palette map[string]Color

// DefaultPaletteNames are the default colors per permuter
var DefaultPaletteNames = map[string]string{
	"system":     "green",
	"frequent":   "green",
	"user":       "cyan",
	"number":     "yellow",
	"compound":   "blue",
	"top-choice": "default",
	"none":       "red",
}

// NewPalette parses a permuter to color name table. Permuters without an
// entry keep their default color.
func NewPalette(names map[string]string) (Palette, error) {
	p := make(Palette, len(DefaultPaletteNames))
	for _, table := range []map[string]string{DefaultPaletteNames, names} {
		for permuter, name := range table {
			c, err := ParseColor(name)
			if err != nil {
				return nil, fmt.Errorf("permuter %s: %w", permuter, err)
			}
			p[permuter] = c
		}
	}
	return p, nil
}

// Paint colors text by permuter
func (p Palette) Paint(permuter, text string) string {
	if c, ok := p[permuter]; ok {
		return c.FgString(text)
	}
	return text
}
