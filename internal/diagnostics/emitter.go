package diagnostics

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Karesis/nyanc-lexer/colors"
)

const gutterFormat = "%*d | "

// SourceCache caches source file contents for error reporting
type SourceCache struct {
	files map[string][]string
}

func NewSourceCache() *SourceCache {
	return &SourceCache{
		files: make(map[string][]string),
	}
}

// SetLines pre-populates the cache for a file that does not exist on disk
func (sc *SourceCache) SetLines(filepath string, lines []string) {
	sc.files[filepath] = lines
}

// GetLine retrieves a specific line from a source file
func (sc *SourceCache) GetLine(filepath string, line int) (string, error) {
	if lines, ok := sc.files[filepath]; ok {
		if line > 0 && line <= len(lines) {
			return lines[line-1], nil
		}
		return "", fmt.Errorf("line %d out of range", line)
	}

	// Load file
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	lines := make([]string, 0)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return "", err
	}

	sc.files[filepath] = lines

	if line > 0 && line <= len(lines) {
		return lines[line-1], nil
	}

	return "", fmt.Errorf("line %d out of range", line)
}

// Emitter handles the rendering and output of diagnostics
type Emitter struct {
	cache *SourceCache
	w     io.Writer
}

func NewEmitter() *Emitter {
	return NewEmitterWithWriter(os.Stderr)
}

// NewEmitterWithWriter creates an emitter that renders to w instead of stderr
func NewEmitterWithWriter(w io.Writer) *Emitter {
	return &Emitter{
		cache: NewSourceCache(),
		w:     w,
	}
}

// SetSourceLines pre-populates the source cache for a virtual file
func (e *Emitter) SetSourceLines(filepath string, lines []string) {
	e.cache.SetLines(filepath, lines)
}

// Emit renders and prints a diagnostic
func (e *Emitter) Emit(filepath string, diag *Diagnostic) {
	// Use filepath from diagnostic if available, otherwise use parameter
	if diag.FilePath != "" {
		filepath = diag.FilePath
	}

	e.printHeader(diag)

	for _, label := range diag.Labels {
		e.printLabel(filepath, label, diag.Severity)
	}

	for _, note := range diag.Notes {
		e.printNote(note)
	}

	if diag.Help != "" {
		e.printHelp(diag.Help)
	}

	fmt.Fprintln(e.w)
}

func (e *Emitter) printHeader(diag *Diagnostic) {
	var color colors.COLOR

	switch diag.Severity {
	case Error:
		color = colors.BOLD_RED
	case Warning:
		color = colors.BOLD_YELLOW
	case Info:
		color = colors.BOLD_CYAN
	case Hint:
		color = colors.BOLD_PURPLE
	}

	color.Fprint(e.w, diag.Severity.String())
	if diag.Code != "" {
		fmt.Fprintf(e.w, "[%s]", diag.Code)
	}
	fmt.Fprint(e.w, ": ")
	color.Fprintln(e.w, diag.Message)
}

func (e *Emitter) printLabel(filepath string, label Label, severity Severity) {
	if label.Location == nil || label.Location.Start == nil {
		return
	}

	start := label.Location.Start
	end := label.Location.End
	if end == nil {
		end = start
	}

	// Print location header
	colors.BLUE.Fprintf(e.w, "  --> %s:%d:%d\n", filepath, start.Line, start.Column)

	// Gutter width follows the widest line number shown
	lineNumWidth := len(fmt.Sprintf("%d", start.Line))
	if end.Line > start.Line {
		endWidth := len(fmt.Sprintf("%d", end.Line))
		if endWidth > lineNumWidth {
			lineNumWidth = endWidth
		}
	}

	e.printSeparator(lineNumWidth)

	if start.Line == end.Line {
		e.printSingleLineLabel(filepath, label, severity, lineNumWidth)
	} else {
		e.printMultiLineLabel(filepath, label, severity, lineNumWidth)
	}
}

func (e *Emitter) printSingleLineLabel(filepath string, label Label, severity Severity, lineNumWidth int) {
	start := label.Location.Start
	end := label.Location.End
	if end == nil {
		end = start
	}

	sourceLine, err := e.cache.GetLine(filepath, start.Line)
	if err != nil {
		return
	}

	colors.GREY.Fprintf(e.w, gutterFormat, lineNumWidth, start.Line)
	fmt.Fprintln(e.w, sourceLine)

	colors.GREY.Fprint(e.w, strings.Repeat(" ", lineNumWidth))
	colors.GREY.Fprint(e.w, " | ")

	padding := start.Column - 1
	length := end.Column - start.Column
	if length <= 0 {
		length = 1
	}

	underlineColor := e.getSeverityColor(severity)
	underlineChar := "^"
	if length > 1 {
		underlineChar = "~"
	}
	if label.Style == Secondary {
		underlineColor = colors.BLUE
		underlineChar = "-"
	}

	fmt.Fprint(e.w, strings.Repeat(" ", padding))
	underlineColor.Fprint(e.w, strings.Repeat(underlineChar, length))

	if label.Message != "" {
		underlineColor.Fprintf(e.w, " %s", label.Message)
	}
	fmt.Fprintln(e.w)

	e.printSeparator(lineNumWidth)
}

func (e *Emitter) printMultiLineLabel(filepath string, label Label, severity Severity, lineNumWidth int) {
	start := label.Location.Start
	end := label.Location.End

	sourceLine, err := e.cache.GetLine(filepath, start.Line)
	if err != nil {
		return
	}

	underlineColor := e.getSeverityColor(severity)

	colors.GREY.Fprintf(e.w, gutterFormat, lineNumWidth, start.Line)
	fmt.Fprintln(e.w, sourceLine)

	colors.GREY.Fprint(e.w, strings.Repeat(" ", lineNumWidth))
	colors.GREY.Fprint(e.w, " | ")
	fmt.Fprint(e.w, strings.Repeat(" ", start.Column-1))
	underlineColor.Fprintln(e.w, "^--- starts here")

	// Elide the middle for long spans
	if end.Line-start.Line > 5 {
		colors.GREY.Fprint(e.w, strings.Repeat(" ", lineNumWidth))
		colors.GREY.Fprintln(e.w, " | ...")
	} else {
		for i := start.Line + 1; i < end.Line; i++ {
			line, err := e.cache.GetLine(filepath, i)
			if err != nil {
				continue
			}
			colors.GREY.Fprintf(e.w, gutterFormat, lineNumWidth, i)
			fmt.Fprintln(e.w, line)
		}
	}

	endSourceLine, err := e.cache.GetLine(filepath, end.Line)
	if err == nil {
		colors.GREY.Fprintf(e.w, gutterFormat, lineNumWidth, end.Line)
		fmt.Fprintln(e.w, endSourceLine)

		colors.GREY.Fprint(e.w, strings.Repeat(" ", lineNumWidth))
		colors.GREY.Fprint(e.w, " | ")
		endPadding := end.Column - 1
		if endPadding < 0 {
			endPadding = 0
		}
		fmt.Fprint(e.w, strings.Repeat(" ", endPadding))
		underlineColor.Fprint(e.w, "^")

		if label.Message != "" {
			underlineColor.Fprintf(e.w, " %s", label.Message)
		}
		fmt.Fprintln(e.w)
	}

	e.printSeparator(lineNumWidth)
}

func (e *Emitter) printSeparator(lineNumWidth int) {
	colors.GREY.Fprint(e.w, strings.Repeat(" ", lineNumWidth))
	colors.GREY.Fprintln(e.w, " |")
}

func (e *Emitter) printNote(note Note) {
	colors.CYAN.Fprint(e.w, "  = note: ")
	fmt.Fprintln(e.w, note.Message)
}

func (e *Emitter) printHelp(help string) {
	colors.GREEN.Fprint(e.w, "  = help: ")
	fmt.Fprintln(e.w, help)
}

// getSeverityColor returns the color for a given severity
func (e *Emitter) getSeverityColor(severity Severity) colors.COLOR {
	switch severity {
	case Error:
		return colors.RED
	case Warning:
		return colors.YELLOW
	case Info:
		return colors.BLUE
	case Hint:
		return colors.PURPLE
	default:
		return colors.RED
	}
}
