package ansihtml

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// palette holds the 16 basic terminal colors: normal 0-7 then bright 8-15.
var palette = [16]string{
	"#000000", "#aa0000", "#00aa00", "#aa5500", "#0000aa", "#aa00aa", "#00aaaa", "#aaaaaa",
	"#555555", "#ff5555", "#55ff55", "#ffff55", "#5555ff", "#ff55ff", "#55ffff", "#ffffff",
}

// style is the SGR state in effect for the next printed text.
type style struct {
	fg, bg    string
	bold      bool
	dim       bool
	italic    bool
	underline bool
}

func (s style) isZero() bool {
	return s == style{}
}

func (s style) css() string {
	var parts []string
	if s.fg != "" {
		parts = append(parts, "color:"+s.fg)
	}
	if s.bg != "" {
		parts = append(parts, "background-color:"+s.bg)
	}
	if s.bold {
		parts = append(parts, "font-weight:bold")
	}
	if s.dim {
		parts = append(parts, "opacity:0.7")
	}
	if s.italic {
		parts = append(parts, "font-style:italic")
	}
	if s.underline {
		parts = append(parts, "text-decoration:underline")
	}
	return strings.Join(parts, ";")
}

// apply updates s with the parameters of one SGR sequence.
func (s *style) apply(params ansi.Params) {
	if len(params) == 0 {
		*s = style{}
		return
	}
	for i := 0; i < len(params); i++ {
		code := params[i].Param(0)
		switch {
		case code == 0:
			*s = style{}
		case code == 1:
			s.bold = true
		case code == 2:
			s.dim = true
		case code == 3:
			s.italic = true
		case code == 4:
			s.underline = true
		case code == 22:
			s.bold, s.dim = false, false
		case code == 23:
			s.italic = false
		case code == 24:
			s.underline = false
		case code >= 30 && code <= 37:
			s.fg = palette[code-30]
		case code == 39:
			s.fg = ""
		case code >= 40 && code <= 47:
			s.bg = palette[code-40]
		case code == 49:
			s.bg = ""
		case code >= 90 && code <= 97:
			s.fg = palette[code-90+8]
		case code >= 100 && code <= 107:
			s.bg = palette[code-100+8]
		case code == 38 || code == 48:
			color, used := extendedColor(params[i+1:])
			i += used
			if color == "" {
				continue
			}
			if code == 38 {
				s.fg = color
			} else {
				s.bg = color
			}
		}
	}
}

// extendedColor decodes the arguments of a 38 or 48 parameter: either
// "5;n" for the 256-color table or "2;r;g;b" for true color. It returns the
// color and the number of parameters consumed.
func extendedColor(params ansi.Params) (string, int) {
	if len(params) == 0 {
		return "", 0
	}
	switch params[0].Param(0) {
	case 5:
		if len(params) < 2 {
			return "", len(params)
		}
		return xterm256(params[1].Param(0)), 2
	case 2:
		if len(params) < 4 {
			return "", len(params)
		}
		r, g, b := params[1].Param(0), params[2].Param(0), params[3].Param(0)
		return fmt.Sprintf("#%02x%02x%02x", r&0xff, g&0xff, b&0xff), 4
	}
	return "", 1
}

// xterm256 returns the hex color of entry n of the xterm 256-color table.
func xterm256(n int) string {
	switch {
	case n < 0 || n > 255:
		return ""
	case n < 16:
		return palette[n]
	case n < 232:
		n -= 16
		level := func(v int) int {
			if v == 0 {
				return 0
			}
			return 55 + v*40
		}
		return fmt.Sprintf("#%02x%02x%02x", level(n/36), level(n/6%6), level(n%6))
	}
	gray := 8 + (n-232)*10
	return fmt.Sprintf("#%02x%02x%02x", gray, gray, gray)
}
