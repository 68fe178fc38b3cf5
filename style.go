package report

import "fmt"

// Style is a color or emphasis token. It maps to an ANSI escape pair in text
// output and to a tag pair in HTML output.
type Style int

const (
	Plain Style = iota
	Header
	Bold

	Black
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
	Gray

	BgBlack
	BgRed
	BgGreen
	BgYellow
	BgBlue
	BgMagenta
	BgCyan
	BgWhite
	BgGray
)

const ansiReset = "\x1b[0m"

type tagPair struct {
	open, close string
}

type styleDef struct {
	name string
	ansi tagPair
	html tagPair
}

var styleNames = [...]string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white", "gray"}

var htmlBackgrounds = map[string]string{
	"red":    "#f66f6f",
	"green":  "#9acd82",
	"yellow": "#ffeb79",
	"blue":   "#2980b9",
	"gray":   "#afafaf",
}

var styleTable = buildStyles()

func buildStyles() map[Style]styleDef {
	bold := tagPair{"<b>", "</b>"}
	m := map[Style]styleDef{
		Plain:  {name: "plain"},
		Header: {name: "header", html: bold},
		Bold:   {name: "bold", ansi: tagPair{"\x1b[1m", ansiReset}, html: bold},
	}
	for i, name := range styleNames {
		fg := 30 + i
		bg := 40 + i
		if name == "gray" {
			// bright black; plain 38/48 select extended colors on most terminals
			fg, bg = 90, 100
		}
		m[Black+Style(i)] = styleDef{
			name: name,
			ansi: tagPair{fmt.Sprintf("\x1b[1;%dm", fg), ansiReset},
			html: tagPair{fmt.Sprintf("<span style='color: %s;'>", name), "</span>"},
		}
		bgColor, ok := htmlBackgrounds[name]
		if !ok {
			bgColor = name
		}
		m[BgBlack+Style(i)] = styleDef{
			name: "bg-" + name,
			ansi: tagPair{fmt.Sprintf("\x1b[30;%dm", bg), ansiReset},
			html: tagPair{fmt.Sprintf("<span style='background-color: %s;'>", bgColor), "</span>"},
		}
	}
	return m
}

// String returns the style name.
func (s Style) String() string {
	if d, ok := styleTable[s]; ok {
		return d.name
	}
	return fmt.Sprintf("style(%d)", int(s))
}

// wrap surrounds text with the style's markers. Text output is only decorated
// when colors are enabled; HTML output always is.
func (s Style) wrap(text string, html, colors bool) string {
	d, ok := styleTable[s]
	if !ok {
		return text
	}
	p := d.ansi
	if html {
		p = d.html
	} else if !colors {
		return text
	}
	return p.open + text + p.close
}
