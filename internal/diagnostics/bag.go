package diagnostics

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/Karesis/nyanc-lexer/colors"
)

// DiagnosticBag collects diagnostics during compilation. It is append-only:
// producers add records, nothing ever removes or mutates them. The mutex
// makes Add safe for concurrent producers, so one bag can be shared by every
// lexer in a multi-file compilation.
type DiagnosticBag struct {
	diagnostics []*Diagnostic
	filepath    string
	mu          sync.Mutex
	errorCount  int
	warnCount   int
}

// NewDiagnosticBag creates a new diagnostic bag for a file
func NewDiagnosticBag(filepath string) *DiagnosticBag {
	return &DiagnosticBag{
		diagnostics: make([]*Diagnostic, 0),
		filepath:    filepath,
	}
}

// Add adds a diagnostic to the bag
func (db *DiagnosticBag) Add(diag *Diagnostic) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.diagnostics = append(db.diagnostics, diag)

	// If this is the first diagnostic with a filepath, use it as the bag's filepath
	if db.filepath == "" && diag.FilePath != "" {
		db.filepath = diag.FilePath
	}

	switch diag.Severity {
	case Error:
		db.errorCount++
	case Warning:
		db.warnCount++
	}
}

// HasErrors returns true if there are any errors
func (db *DiagnosticBag) HasErrors() bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.errorCount > 0
}

// ErrorCount returns the number of errors
func (db *DiagnosticBag) ErrorCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.errorCount
}

// WarningCount returns the number of warnings
func (db *DiagnosticBag) WarningCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.warnCount
}

// Diagnostics returns all diagnostics
func (db *DiagnosticBag) Diagnostics() []*Diagnostic {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]*Diagnostic, len(db.diagnostics))
	copy(out, db.diagnostics)
	return out
}

// EmitAll renders every diagnostic to stderr
func (db *DiagnosticBag) EmitAll() {
	db.EmitAllToWriter(os.Stderr)
}

// EmitAllToWriter emits all diagnostics to a specific writer
func (db *DiagnosticBag) EmitAllToWriter(w io.Writer) {
	emitter := NewEmitterWithWriter(w)

	diagnostics, filepath, errorCount, warnCount := db.snapshot()

	for _, diag := range diagnostics {
		emitter.Emit(filepath, diag)
	}

	printSummary(w, errorCount, warnCount)
}

// EmitAllToString emits all diagnostics to a string with ANSI codes
func (db *DiagnosticBag) EmitAllToString() string {
	return db.EmitAllToStringWithCache(nil)
}

// EmitAllToStringWithCache emits all diagnostics to a string with ANSI
// codes, using the provided source lines instead of reading from disk. This
// is what virtual files (wasm, tests) use.
func (db *DiagnosticBag) EmitAllToStringWithCache(sourceLines []string) string {
	var buf bytes.Buffer
	emitter := NewEmitterWithWriter(&buf)

	diagnostics, filepath, errorCount, warnCount := db.snapshot()

	if sourceLines != nil {
		emitter.SetSourceLines(filepath, sourceLines)
	}

	for _, diag := range diagnostics {
		emitter.Emit(filepath, diag)
	}

	printSummary(&buf, errorCount, warnCount)

	return buf.String()
}

// EmitAllToHTML emits all diagnostics to an HTML string
func (db *DiagnosticBag) EmitAllToHTML() string {
	return db.EmitAllToHTMLWithCache(nil)
}

// EmitAllToHTMLWithCache emits all diagnostics to an HTML string, using provided source cache
func (db *DiagnosticBag) EmitAllToHTMLWithCache(sourceLines []string) string {
	ansiOutput := db.EmitAllToStringWithCache(sourceLines)
	return colors.ConvertANSIToHTML(ansiOutput)
}

// snapshot copies the bag state under the lock so rendering never races
// with concurrent producers.
func (db *DiagnosticBag) snapshot() ([]*Diagnostic, string, int, int) {
	db.mu.Lock()
	defer db.mu.Unlock()

	diagnostics := make([]*Diagnostic, len(db.diagnostics))
	copy(diagnostics, db.diagnostics)
	return diagnostics, db.filepath, db.errorCount, db.warnCount
}

func printSummary(w io.Writer, errorCount, warnCount int) {
	if errorCount > 0 {
		fmt.Fprintf(w, "\nCompilation failed with %d error(s)", errorCount)
		if warnCount > 0 {
			fmt.Fprintf(w, " and %d warning(s)", warnCount)
		}
		fmt.Fprintln(w)
	} else if warnCount > 0 {
		fmt.Fprintf(w, "\nCompilation succeeded with %d warning(s)\n", warnCount)
	}
}
