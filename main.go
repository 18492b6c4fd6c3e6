//go:build !(js && wasm)

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Karesis/nyanc-lexer/internal/cmd"
	"github.com/Karesis/nyanc-lexer/internal/context"
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug output")
	tokensFlag := flag.Bool("tokens", false, "Print the token stream after lexing")
	watchFlag := flag.Bool("watch", false, "Re-tokenize whenever a source file changes")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [--debug] [--tokens] [--watch] <file%s>\n",
			filepath.Base(os.Args[0]), context.SourceExt)
		os.Exit(1)
	}

	filename := flag.Arg(0)

	options := &context.CompilerOptions{
		Debug:      *debugFlag,
		DumpTokens: *tokensFlag,
	}

	if *watchFlag {
		if err := cmd.Watch(filename, options, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx := context.New(options)

	if err := cmd.Compile(filename, ctx); err != nil {
		ctx.EmitDiagnostics()
		fmt.Fprintf(os.Stderr, "\nCompilation failed: %v\n", err)
		os.Exit(1)
	}

	// Emit any warnings/info diagnostics
	ctx.EmitDiagnostics()

	if ctx.Options.Debug {
		fmt.Println("\n✓ Tokenization successful!")
	}
}
