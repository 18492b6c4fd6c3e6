package colors

import (
	"html"
	"strings"
)

// ansiToCSS maps the escape codes used by the emitter to inline CSS.
var ansiToCSS = map[string]string{
	string(RED):         "color:#e06c75",
	string(GREEN):       "color:#98c379",
	string(YELLOW):      "color:#e5c07b",
	string(BLUE):        "color:#61afef",
	string(PURPLE):      "color:#c678dd",
	string(CYAN):        "color:#56b6c2",
	string(GREY):        "color:#5c6370",
	string(BOLD_RED):    "color:#e06c75;font-weight:bold",
	string(BOLD_YELLOW): "color:#e5c07b;font-weight:bold",
	string(BOLD_PURPLE): "color:#c678dd;font-weight:bold",
	string(BOLD_CYAN):   "color:#56b6c2;font-weight:bold",
}

// ConvertANSIToHTML rewrites ANSI-colored output into HTML spans so the wasm
// playground can show diagnostics in the browser. Unknown escape codes are
// stripped.
func ConvertANSIToHTML(ansi string) string {
	var b strings.Builder
	open := false

	for len(ansi) > 0 {
		idx := strings.Index(ansi, "\033[")
		if idx == -1 {
			b.WriteString(html.EscapeString(ansi))
			break
		}

		b.WriteString(html.EscapeString(ansi[:idx]))
		ansi = ansi[idx:]

		end := strings.IndexByte(ansi, 'm')
		if end == -1 {
			// Truncated escape, drop the rest
			break
		}
		code := ansi[:end+1]
		ansi = ansi[end+1:]

		if open {
			b.WriteString("</span>")
			open = false
		}
		if css, ok := ansiToCSS[code]; ok {
			b.WriteString(`<span style="` + css + `">`)
			open = true
		}
	}

	if open {
		b.WriteString("</span>")
	}

	return strings.ReplaceAll(b.String(), "\n", "<br>")
}
