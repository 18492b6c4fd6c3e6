// Package context provides the shared compilation context for the lexing
// stage.
//
// The design follows the central-context pattern: all state lives in the
// CompilerContext, and the phases are stateless workers that receive it and
// operate on SourceFile entries. The context owns the single DiagnosticBag
// every lexer reports into; the bag's own locking is what makes the parallel
// lex phase safe.
package context

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Karesis/nyanc-lexer/internal/diagnostics"
	"github.com/Karesis/nyanc-lexer/internal/frontend/lexer"
	"github.com/Karesis/nyanc-lexer/internal/source"
)

// SourceExt is the file extension of source files.
const SourceExt = ".nyan"

// DependencyGraph tracks the use-relationships between files. It enables
// parallel discovery and gives later stages a build order.
type DependencyGraph struct {
	// Adjacency list: file path -> list of files it uses
	Dependencies map[string][]string

	// Reverse dependencies: file path -> list of files that use it
	Dependents map[string][]string

	// Track which files have been processed
	Processed map[string]bool

	mu sync.Mutex
}

// CompilerContext is the central hub for all compilation state.
type CompilerContext struct {
	// Diagnostics - centralized error and warning collection.
	// All phases report here instead of storing their own errors.
	Diagnostics *diagnostics.DiagnosticBag

	// Files - maps absolute file path -> SourceFile.
	// This is the single registry of all files in the compilation.
	Files map[string]*SourceFile

	// Graph - tracks use-relationships discovered between files
	Graph *DependencyGraph

	// Options - compiler configuration
	Options *CompilerOptions

	// FileOrder - tracks order files were added (for deterministic builds)
	FileOrder []string

	nextFileId source.FileId

	mu sync.RWMutex
}

// SourceFile represents one source file through the lexing stage.
type SourceFile struct {
	Path    string        // Absolute file path
	FileId  source.FileId // Identity used in every span from this file
	Content string        // Raw source code

	Tokens []lexer.Token
}

// CompilerOptions holds compiler configuration. Passed to the context at
// creation time and remains immutable.
type CompilerOptions struct {
	Debug        bool     // Enable debug output
	DumpTokens   bool     // Print the token stream after lexing
	IncludePaths []string // Additional paths to search for used modules
}

// New is the entry point for starting a new compilation session.
func New(options *CompilerOptions) *CompilerContext {
	if options == nil {
		options = &CompilerOptions{}
	}

	return &CompilerContext{
		Diagnostics: diagnostics.NewDiagnosticBag(""),
		Files:       make(map[string]*SourceFile),
		Graph: &DependencyGraph{
			Dependencies: make(map[string][]string),
			Dependents:   make(map[string][]string),
			Processed:    make(map[string]bool),
		},
		Options:   options,
		FileOrder: make([]string, 0),
	}
}

// AddFile registers a new source file and allocates its FileId.
func (ctx *CompilerContext) AddFile(path string, content string) *SourceFile {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	return ctx.addFileLocked(path, content)
}

func (ctx *CompilerContext) addFileLocked(path string, content string) *SourceFile {
	ctx.nextFileId++
	file := &SourceFile{
		Path:    path,
		FileId:  ctx.nextFileId,
		Content: content,
	}

	ctx.Files[path] = file
	ctx.FileOrder = append(ctx.FileOrder, path)

	return file
}

// GetFile retrieves a source file by path. Returns nil if the file hasn't
// been registered.
func (ctx *CompilerContext) GetFile(path string) *SourceFile {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return ctx.Files[path]
}

// GetAllFiles returns all registered files in the order they were added.
func (ctx *CompilerContext) GetAllFiles() []*SourceFile {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()

	files := make([]*SourceFile, 0, len(ctx.FileOrder))
	for _, path := range ctx.FileOrder {
		files = append(files, ctx.Files[path])
	}
	return files
}

// LexFile tokenizes a single source file and stores its token stream. The
// lexer reports straight into the shared diagnostic bag, so there is nothing
// to transfer afterwards.
func (ctx *CompilerContext) LexFile(file *SourceFile) error {
	if ctx.Options.Debug {
		fmt.Fprintf(os.Stderr, "  Tokenizing %s (%d bytes)\n", file.Path, len(file.Content))
	}

	tokenizer := lexer.New(file.Path, file.Content, file.FileId, ctx.Diagnostics)
	file.Tokens = tokenizer.Tokenize(ctx.Options.Debug)

	if ctx.Options.Debug {
		fmt.Fprintf(os.Stderr, "    Generated %d tokens\n", len(file.Tokens))
	}

	return nil
}

// HasErrors returns true if any errors have been reported.
func (ctx *CompilerContext) HasErrors() bool {
	return ctx.Diagnostics.HasErrors()
}

// EmitDiagnostics outputs all collected diagnostics to the console.
func (ctx *CompilerContext) EmitDiagnostics() {
	ctx.Diagnostics.EmitAll()
}

// BuildDependencyGraph discovers all source files starting from the entry
// point, recursively following use statements. Discovery runs breadth-first
// with one goroutine per file in each level.
func (ctx *CompilerContext) BuildDependencyGraph(entryPoint string) error {
	if ctx.Options.Debug {
		fmt.Fprintf(os.Stderr, "\n[Phase 0] File Discovery (Parallel)\n")
	}

	absPath, err := filepath.Abs(entryPoint)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", entryPoint, err)
	}

	toProcess := []string{absPath}
	ctx.Graph.Processed[absPath] = true

	for len(toProcess) > 0 {
		nextBatch, err := ctx.processBatch(toProcess)
		if err != nil {
			return err
		}
		toProcess = nextBatch
	}

	if ctx.Options.Debug {
		fmt.Fprintf(os.Stderr, "  Discovered %d file(s)\n", len(ctx.Files))
	}

	return nil
}

// processBatch processes a batch of files in parallel and returns newly
// discovered files.
func (ctx *CompilerContext) processBatch(batch []string) ([]string, error) {
	var nextBatch []string
	var mu sync.Mutex
	var wg sync.WaitGroup
	errorChan := make(chan error, len(batch))

	for _, filePath := range batch {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()

			uses, err := ctx.discoverFile(path)
			if err != nil {
				errorChan <- err
				return
			}

			for _, use := range uses {
				if ctx.shouldProcess(use) {
					mu.Lock()
					nextBatch = append(nextBatch, use)
					mu.Unlock()
				}
			}
		}(filePath)
	}

	wg.Wait()
	close(errorChan)

	for err := range errorChan {
		if err != nil {
			return nil, err
		}
	}

	return nextBatch, nil
}

// shouldProcess marks a path processed and reports whether it was new.
func (ctx *CompilerContext) shouldProcess(path string) bool {
	ctx.Graph.mu.Lock()
	defer ctx.Graph.mu.Unlock()

	if ctx.Graph.Processed[path] {
		return false
	}
	ctx.Graph.Processed[path] = true
	return true
}

// discoverFile reads a file, registers it, and returns the files its use
// statements resolve to.
func (ctx *CompilerContext) discoverFile(filePath string) ([]string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	ctx.mu.Lock()
	if _, exists := ctx.Files[filePath]; exists {
		ctx.mu.Unlock()
		return nil, nil
	}
	ctx.addFileLocked(filePath, string(content))
	if ctx.Options.Debug {
		fmt.Fprintf(os.Stderr, "  %s\n", filepath.Base(filePath))
	}
	ctx.mu.Unlock()

	uses := ctx.extractUses(string(content), filePath)

	if len(uses) > 0 {
		ctx.Graph.mu.Lock()
		ctx.Graph.Dependencies[filePath] = uses
		for _, usePath := range uses {
			ctx.Graph.Dependents[usePath] = append(ctx.Graph.Dependents[usePath], filePath)
		}
		ctx.Graph.mu.Unlock()
	}

	return uses, nil
}

// extractUses does a lightweight token scan for use statements. Discovery
// lexes into a throwaway bag so a malformed file doesn't get its lexical
// errors reported twice; the real lex phase re-scans into the shared bag.
func (ctx *CompilerContext) extractUses(content, currentFile string) []string {
	scratch := diagnostics.NewDiagnosticBag(currentFile)
	tokenizer := lexer.New(currentFile, content, source.NoFile, scratch)
	tokens := tokenizer.Tokenize(false)

	var uses []string
	for i := 0; i < len(tokens); i++ {
		if tokens[i].Kind != lexer.USE_TOKEN {
			continue
		}

		// A use path is identifier segments joined by :: up to the newline.
		segments := make([]string, 0, 2)
		j := i + 1
		for j < len(tokens) && tokens[j].Kind == lexer.IDENTIFIER_TOKEN {
			segments = append(segments, tokens[j].Value)
			if j+1 < len(tokens) && tokens[j+1].Kind == lexer.SCOPE_TOKEN {
				j += 2
				continue
			}
			j++
			break
		}
		i = j - 1

		if len(segments) == 0 {
			continue
		}

		resolved := ctx.resolveUsePath(segments, currentFile)
		if resolved != "" {
			uses = append(uses, resolved)
		}
	}

	return uses
}

// resolveUsePath converts use path segments to an absolute file path,
// searching relative to the using file first, then the include paths.
func (ctx *CompilerContext) resolveUsePath(segments []string, currentFile string) string {
	relative := filepath.Join(segments...) + SourceExt

	roots := append([]string{filepath.Dir(currentFile)}, ctx.Options.IncludePaths...)
	for _, root := range roots {
		candidate := filepath.Join(root, relative)
		if _, err := os.Stat(candidate); err == nil {
			absPath, _ := filepath.Abs(candidate)
			return absPath
		}
	}

	// Unresolved use; there is nothing on disk to lex for it.
	return ""
}

// ModuleName derives the module name of a file from its path.
func (f *SourceFile) ModuleName() string {
	base := filepath.Base(f.Path)
	return strings.TrimSuffix(base, SourceExt)
}
