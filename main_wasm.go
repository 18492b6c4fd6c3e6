//go:build js && wasm

package main

import (
	"fmt"
	"strings"
	"syscall/js"

	"github.com/Karesis/nyanc-lexer/internal/context"
)

// tokenizeCode lexes Nyan code and returns the rendered result
func tokenizeCode(code string, debug bool) (string, error) {
	jsConsole := js.Global().Get("console")

	defer func() {
		if r := recover(); r != nil {
			jsConsole.Call("error", "PANIC in tokenizeCode:", fmt.Sprint(r))
		}
	}()

	options := &context.CompilerOptions{
		Debug: debug,
	}

	ctx := context.New(options)

	// Directly add the code as a virtual file instead of touching the
	// (nonexistent) file system.
	virtualFilePath := "main" + context.SourceExt
	file := ctx.AddFile(virtualFilePath, code)

	if err := ctx.LexFile(file); err != nil {
		return "", fmt.Errorf("lexer failed: %v", err)
	}

	var err error
	if ctx.HasErrors() {
		err = fmt.Errorf("tokenization failed with errors")
	}

	// Pre-populate the source cache; the emitter cannot read virtual files.
	sourceLines := strings.Split(code, "\n")
	output := ctx.Diagnostics.EmitAllToHTMLWithCache(sourceLines)

	if err != nil {
		return output, err
	}

	var dump strings.Builder
	for _, tok := range file.Tokens {
		fmt.Fprintf(&dump, "%s\n", tok)
	}
	if output != "" {
		output += "<br>"
	}
	output += strings.ReplaceAll(dump.String(), "\n", "<br>")

	return output, nil
}

// nyanTokenizeJS is the JavaScript-callable function
func nyanTokenizeJS(this js.Value, args []js.Value) interface{} {
	defer func() {
		if r := recover(); r != nil {
			jsConsole := js.Global().Get("console")
			jsConsole.Call("error", "PANIC in tokenizer:", fmt.Sprint(r))
		}
	}()

	if len(args) < 1 {
		return map[string]interface{}{
			"success": false,
			"error":   "Expected at least 1 argument (code string)",
		}
	}

	code := args[0].String()
	debug := false
	if len(args) > 1 {
		debug = args[1].Bool()
	}

	output, err := tokenizeCode(code, debug)

	if err != nil {
		return map[string]interface{}{
			"success": false,
			"error":   output,
		}
	}

	return map[string]interface{}{
		"success": true,
		"output":  output,
	}
}

func main() {
	// Prevent the program from exiting
	c := make(chan struct{})

	js.Global().Set("nyanTokenize", js.FuncOf(nyanTokenizeJS))

	fmt.Println("Nyan WASM Tokenizer Ready")

	<-c
}
