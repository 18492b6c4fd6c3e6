package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Karesis/nyanc-lexer/internal/context"
)

// debounce absorbs the bursts of events editors produce on save.
const debounce = 100 * time.Millisecond

// Watch re-runs the lexing pipeline whenever a watched source file changes.
// Each run builds a fresh context so diagnostics never accumulate across
// rebuilds. It blocks until the watcher fails.
func Watch(entryPoint string, options *context.CompilerOptions, w io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	run := func() {
		ctx := context.New(options)
		if err := Compile(entryPoint, ctx); err != nil {
			ctx.EmitDiagnostics()
			fmt.Fprintf(w, "✗ %v\n", err)
		} else {
			fmt.Fprintf(w, "✓ %d file(s) tokenized, no errors\n", len(ctx.GetAllFiles()))
		}

		// Watch the directories of everything the run discovered, so files
		// pulled in by new use statements are picked up too.
		watched := make(map[string]bool)
		for _, file := range ctx.GetAllFiles() {
			dir := filepath.Dir(file.Path)
			if !watched[dir] {
				watched[dir] = true
				if err := watcher.Add(dir); err != nil {
					fmt.Fprintf(os.Stderr, "warning: cannot watch %s: %v\n", dir, err)
				}
			}
		}
	}

	run()
	fmt.Fprintf(w, "watching for changes...\n")

	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Ext(event.Name) != context.SourceExt {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})

		case <-pending:
			fmt.Fprintf(w, "\nchange detected, re-tokenizing\n")
			run()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch failed: %w", err)
		}
	}
}
