// Package render formats alerts for terminal display.
package render

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/neonalpha/alpha-term/internal/api"
)

// ANSI escape sequences.
const (
	Green     = "\x1b[92m"
	Cyan      = "\x1b[96m"
	Yellow    = "\x1b[93m"
	Red       = "\x1b[91m"
	Magenta   = "\x1b[95m"
	White     = "\x1b[97m"
	Bold      = "\x1b[1m"
	Dim       = "\x1b[2m"
	Reset     = "\x1b[0m"
	ClearLine = "\x1b[2K"
)

// Box drawing characters.
const (
	BoxH  = "─"
	BoxV  = "│"
	BoxTL = "┌"
	BoxTR = "┐"
	BoxBL = "└"
	BoxBR = "┘"
	BoxML = "├"
	BoxMR = "┤"
)

// neonPalette cycles author colors in order of first appearance.
var neonPalette = []string{
	"\x1b[96m", // bright cyan
	"\x1b[95m", // bright magenta
	"\x1b[93m", // bright yellow
	"\x1b[92m", // bright green
	"\x1b[91m", // bright red
	"\x1b[94m", // bright blue
}

var (
	handleColorMu  sync.Mutex
	handleColorMap = map[string]string{}
	paletteIndex   int
)

// AuthorColor returns a stable color for a handle, assigned from the
// palette in order of first appearance.
func AuthorColor(handle string) string {
	handleColorMu.Lock()
	defer handleColorMu.Unlock()

	color, ok := handleColorMap[handle]
	if !ok {
		color = neonPalette[paletteIndex%len(neonPalette)]
		handleColorMap[handle] = color
		paletteIndex++
	}
	return color
}

// WrapText word-wraps text to the given width, preserving paragraph breaks.
func WrapText(text string, width int) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		current := ""
		for _, word := range strings.Split(paragraph, " ") {
			if len(current)+len(word)+1 <= width {
				if current != "" {
					current += " "
				}
				current += word
			} else {
				if current != "" {
					lines = append(lines, current)
				}
				current = word
			}
		}
		if current != "" {
			lines = append(lines, current)
		}
	}
	return lines
}

var (
	tickerRe  = regexp.MustCompile(`\$[A-Z]{1,10}\b`)
	mentionRe = regexp.MustCompile(`@\w+`)
	hashtagRe = regexp.MustCompile(`#\w+`)
)

// ColorizeText highlights $TICKER, @mention, and #hashtag tokens.
func ColorizeText(text string) string {
	text = tickerRe.ReplaceAllString(text, Yellow+Bold+"$0"+Reset)
	text = mentionRe.ReplaceAllString(text, Cyan+"$0"+Reset)
	text = hashtagRe.ReplaceAllString(text, Magenta+"$0"+Reset)
	return text
}

// Card renders an alert as a boxed terminal card.
func Card(a *api.Alert) string {
	authorColor := AuthorColor(a.AuthorHandle)
	timeStr := FormatTime(a.CreatedAt)

	authorLine := authorColor + "@" + a.AuthorHandle + Reset
	if a.AuthorName != "" {
		authorLine = Bold + White + a.AuthorName + Reset + "  " + authorLine
	}

	var lines []string
	lines = append(lines, authorColor+BoxV+Reset+"  "+Yellow+"🔔"+Reset+"  "+authorLine)
	lines = append(lines, authorColor+BoxV+Reset+"  "+Cyan+strings.Repeat(BoxH, 30)+Reset)

	for _, line := range WrapText(a.Text, 60) {
		lines = append(lines, authorColor+BoxV+Reset+"  "+ColorizeText(line))
	}

	lines = append(lines, authorColor+BoxV+Reset)
	lines = append(lines, authorColor+BoxV+Reset+"  "+Green+"*"+Reset+" "+timeStr)
	lines = append(lines, authorColor+BoxBL+strings.Repeat(BoxH, 75)+BoxBR+Reset)

	return strings.Join(lines, "\n")
}

// Banner prints the alpha-term banner.
func Banner() string {
	var b strings.Builder
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "%s╔═╗%s  %s╦%s    %s╔═╗%s  %s╦ ╦%s  %s╔═╗%s    %s═╦═%s  %s╔═╗%s  %s╦═╗%s  %s╔╦╗%s\n",
		Cyan, Reset, Cyan, Reset, Cyan, Reset, Cyan, Reset, Cyan, Reset, Yellow, Reset, Yellow, Reset, Yellow, Reset, Yellow, Reset)
	fmt.Fprintf(&b, "%s╠═╣%s  %s║%s    %s╠═╝%s  %s╠═╣%s  %s╠═╣%s     %s║%s   %s╠═%s   %s╠╦╝%s  %s║║║%s\n",
		Cyan, Reset, Cyan, Reset, Cyan, Reset, Cyan, Reset, Cyan, Reset, Yellow, Reset, Yellow, Reset, Yellow, Reset, Yellow, Reset)
	fmt.Fprintf(&b, "%s╩ ╩%s  %s╩═╝%s  %s╩%s    %s╩ ╩%s  %s╩ ╩%s     %s╩%s   %s╚═╝%s  %s╩╚═%s  %s╩ ╩%s\n",
		Cyan, Reset, Cyan, Reset, Cyan, Reset, Cyan, Reset, Cyan, Reset, Yellow, Reset, Yellow, Reset, Yellow, Reset, Yellow, Reset)
	fmt.Fprintf(&b, "%s══════════════════════════════════════════════════%s\n", Green, Reset)
	fmt.Fprintf(&b, "%s       <<< NEON ALPHA TERMINAL ALERTS >>>%s\n", Magenta, Reset)
	fmt.Fprintln(&b)
	return b.String()
}
