// Package cmd orchestrates the lexing stage: file discovery, the parallel
// lex phase, token dumps, and the watch loop.
package cmd

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/Karesis/nyanc-lexer/internal/context"
)

// RunLexPhase tokenizes all discovered files in parallel. Every lexer
// appends into the context's shared diagnostic bag; the bag's locking is the
// only synchronization the phase needs beyond the wait group.
func RunLexPhase(ctx *context.CompilerContext) error {
	if ctx.Options.Debug {
		fmt.Fprintf(os.Stderr, "\n[Phase 1] Lexer (Parallel)\n")
	}

	files := ctx.GetAllFiles()
	errorChan := make(chan error, len(files))
	var wg sync.WaitGroup

	for _, file := range files {
		wg.Add(1)
		go func(f *context.SourceFile) {
			defer wg.Done()

			if err := ctx.LexFile(f); err != nil {
				errorChan <- fmt.Errorf("lexer failed on %s: %w", f.Path, err)
			}
		}(file)
	}

	wg.Wait()
	close(errorChan)

	for err := range errorChan {
		if err != nil {
			return err
		}
	}

	if ctx.Options.Debug {
		fmt.Fprintf(os.Stderr, "  ✓ Processed %d file(s)\n", len(files))
	}

	return nil
}

// Compile runs the lexing pipeline on the entry point file: discovery, then
// the parallel lex phase. All lexical problems land in ctx.Diagnostics; the
// returned error covers only fatal failures like unreadable files.
func Compile(entryPoint string, ctx *context.CompilerContext) error {
	if ctx.Options.Debug {
		fmt.Fprintf(os.Stderr, "\n[Compilation Started] Entry Point: %s\n", entryPoint)
	}

	// Phase 0: File Discovery
	// Recursively discover all source files by following use statements.
	if err := ctx.BuildDependencyGraph(entryPoint); err != nil {
		return fmt.Errorf("file discovery failed: %w", err)
	}

	// Phase 1: Lexer
	if err := RunLexPhase(ctx); err != nil {
		return fmt.Errorf("lexing failed: %w", err)
	}

	if ctx.Options.DumpTokens {
		DumpTokens(ctx, os.Stdout)
	}

	if ctx.HasErrors() {
		return fmt.Errorf("compilation failed with errors")
	}

	return nil
}

// DumpTokens writes the token stream of every file, in registration order.
func DumpTokens(ctx *context.CompilerContext, w io.Writer) {
	for _, file := range ctx.GetAllFiles() {
		fmt.Fprintf(w, "%s (%s): %d token(s)\n", file.ModuleName(), file.Path, len(file.Tokens))
		for _, tok := range file.Tokens {
			fmt.Fprintf(w, "  %s\n", tok)
		}
	}
}
