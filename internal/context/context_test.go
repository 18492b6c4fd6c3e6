package context

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Karesis/nyanc-lexer/internal/frontend/lexer"
	"github.com/Karesis/nyanc-lexer/internal/source"
)

const (
	mainNyanFile    = "main.nyan"
	mainNyanContent = "fun main() {\n}\n"
	noErrorExpected = "Expected no error, got: %v"
	libNyanContent  = "fun lib() {\n}\n"
	baseNyanContent = "fun base() {\n}\n"
)

// Helper function to create a temporary test file
func createTestFile(dir, name, content string) (string, error) {
	filePath := filepath.Join(dir, name)
	err := os.WriteFile(filePath, []byte(content), 0644)
	return filePath, err
}

// TestBuildDependencyGraphSingleFileNoUses tests a single file with no use statements
func TestBuildDependencyGraphSingleFileNoUses(t *testing.T) {
	tmpDir := t.TempDir()
	mainFile, err := createTestFile(tmpDir, mainNyanFile, mainNyanContent)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	ctx := New(&CompilerOptions{})

	err = ctx.BuildDependencyGraph(mainFile)
	if err != nil {
		t.Fatalf(noErrorExpected, err)
	}

	if len(ctx.Files) != 1 {
		t.Errorf("Expected 1 file, got %d", len(ctx.Files))
	}

	absPath, _ := filepath.Abs(mainFile)
	if _, exists := ctx.Files[absPath]; !exists {
		t.Errorf("Expected file %s in context", absPath)
	}

	if len(ctx.Graph.Dependencies) != 0 {
		t.Errorf("Expected 0 dependencies, got %d", len(ctx.Graph.Dependencies))
	}
}

// TestBuildDependencyGraphSingleUse tests a single file that uses one module
func TestBuildDependencyGraphSingleUse(t *testing.T) {
	tmpDir := t.TempDir()

	_, _ = createTestFile(tmpDir, "lib.nyan", libNyanContent)

	mainContent := "use lib\nfun main() {\n}\n"
	mainFile, err := createTestFile(tmpDir, mainNyanFile, mainContent)
	if err != nil {
		t.Fatalf("Failed to create main file: %v", err)
	}

	ctx := New(&CompilerOptions{})

	err = ctx.BuildDependencyGraph(mainFile)
	if err != nil {
		t.Fatalf(noErrorExpected, err)
	}

	if len(ctx.Files) != 2 {
		t.Errorf("Expected 2 files, got %d", len(ctx.Files))
		for k := range ctx.Files {
			t.Logf("  File: %s", k)
		}
	}

	if len(ctx.Graph.Dependencies) == 0 {
		t.Errorf("Expected dependencies to be recorded")
	}
}

// TestBuildDependencyGraphScopedUse tests use paths with :: segments resolving
// into subdirectories
func TestBuildDependencyGraphScopedUse(t *testing.T) {
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "utils")
	os.MkdirAll(subDir, 0755)

	_, _ = createTestFile(subDir, "helper.nyan", "fun help() {\n}\n")

	mainContent := "use utils::helper\nfun main() {\n}\n"
	mainFile, _ := createTestFile(tmpDir, mainNyanFile, mainContent)

	ctx := New(&CompilerOptions{})

	err := ctx.BuildDependencyGraph(mainFile)
	if err != nil {
		t.Fatalf(noErrorExpected, err)
	}

	if len(ctx.Files) != 2 {
		t.Errorf("Expected 2 files, got %d", len(ctx.Files))
	}

	expected, _ := filepath.Abs(filepath.Join(subDir, "helper.nyan"))
	if _, exists := ctx.Files[expected]; !exists {
		t.Errorf("Expected %s to be discovered", expected)
	}
}

// TestBuildDependencyGraphTransitiveUses tests multiple levels of use statements
func TestBuildDependencyGraphTransitiveUses(t *testing.T) {
	tmpDir := t.TempDir()

	_, _ = createTestFile(tmpDir, "base.nyan", baseNyanContent)
	_, _ = createTestFile(tmpDir, "middle.nyan", "use base\nfun middle() {\n}\n")
	mainFile, _ := createTestFile(tmpDir, mainNyanFile, "use middle\nfun main() {\n}\n")

	ctx := New(&CompilerOptions{})

	err := ctx.BuildDependencyGraph(mainFile)
	if err != nil {
		t.Fatalf(noErrorExpected, err)
	}

	if len(ctx.Files) != 3 {
		t.Errorf("Expected 3 files, got %d", len(ctx.Files))
	}

	absMainPath, _ := filepath.Abs(mainFile)
	if deps, exists := ctx.Graph.Dependencies[absMainPath]; !exists || len(deps) == 0 {
		t.Errorf("Expected dependencies for main file")
	}
}

// TestBuildDependencyGraphDuplicateUsesNotReprocessed tests that a module used
// by several files is discovered exactly once
func TestBuildDependencyGraphDuplicateUsesNotReprocessed(t *testing.T) {
	tmpDir := t.TempDir()

	_, _ = createTestFile(tmpDir, "shared.nyan", "fun shared() {\n}\n")
	_, _ = createTestFile(tmpDir, "mod1.nyan", "use shared\nfun mod1() {\n}\n")
	_, _ = createTestFile(tmpDir, "mod2.nyan", "use shared\nfun mod2() {\n}\n")
	mainFile, _ := createTestFile(tmpDir, mainNyanFile, "use mod1\nuse mod2\nfun main() {\n}\n")

	ctx := New(&CompilerOptions{})

	err := ctx.BuildDependencyGraph(mainFile)
	if err != nil {
		t.Fatalf(noErrorExpected, err)
	}

	if len(ctx.Files) != 4 {
		t.Errorf("Expected 4 unique files, got %d", len(ctx.Files))
	}

	if len(ctx.Graph.Processed) != 4 {
		t.Errorf("Expected 4 processed files, got %d", len(ctx.Graph.Processed))
	}
}

// TestBuildDependencyGraphFileNotFound tests the fatal path for a missing entry
func TestBuildDependencyGraphFileNotFound(t *testing.T) {
	ctx := New(&CompilerOptions{})

	err := ctx.BuildDependencyGraph("/nonexistent/path/main.nyan")
	if err == nil {
		t.Errorf("Expected error for nonexistent file, got nil")
	}
}

// TestBuildDependencyGraphUnresolvedUseIsSkipped tests that a use statement
// with no matching file on disk does not abort discovery
func TestBuildDependencyGraphUnresolvedUseIsSkipped(t *testing.T) {
	tmpDir := t.TempDir()
	mainFile, _ := createTestFile(tmpDir, mainNyanFile, "use missing\nfun main() {\n}\n")

	ctx := New(&CompilerOptions{})

	err := ctx.BuildDependencyGraph(mainFile)
	if err != nil {
		t.Fatalf(noErrorExpected, err)
	}

	if len(ctx.Files) != 1 {
		t.Errorf("Expected 1 file, got %d", len(ctx.Files))
	}
}

// TestBuildDependencyGraphIncludePaths tests resolution through the include paths
func TestBuildDependencyGraphIncludePaths(t *testing.T) {
	tmpDir := t.TempDir()
	includeDir := t.TempDir()

	_, _ = createTestFile(includeDir, "vendored.nyan", "fun vendored() {\n}\n")
	mainFile, _ := createTestFile(tmpDir, mainNyanFile, "use vendored\nfun main() {\n}\n")

	ctx := New(&CompilerOptions{IncludePaths: []string{includeDir}})

	err := ctx.BuildDependencyGraph(mainFile)
	if err != nil {
		t.Fatalf(noErrorExpected, err)
	}

	if len(ctx.Files) != 2 {
		t.Errorf("Expected 2 files, got %d", len(ctx.Files))
	}
}

// TestFileIdAllocationOrder tests that FileIds are sequential in registration order
func TestFileIdAllocationOrder(t *testing.T) {
	ctx := New(nil)

	a := ctx.AddFile("a.nyan", "")
	b := ctx.AddFile("b.nyan", "")
	c := ctx.AddFile("c.nyan", "")

	if a.FileId != 1 || b.FileId != 2 || c.FileId != 3 {
		t.Errorf("Expected FileIds 1, 2, 3; got %d, %d, %d", a.FileId, b.FileId, c.FileId)
	}

	files := ctx.GetAllFiles()
	if len(files) != 3 {
		t.Fatalf("Expected 3 files, got %d", len(files))
	}
	for i, f := range files {
		if f.FileId != source.FileId(i+1) {
			t.Errorf("File %d has FileId %d", i, f.FileId)
		}
	}
}

// TestLexFileStoresTokensAndSharedDiagnostics tests that lexing fills the token
// stream and reports into the context's bag
func TestLexFileStoresTokensAndSharedDiagnostics(t *testing.T) {
	ctx := New(nil)

	file := ctx.AddFile("virtual.nyan", "let x = 1;")
	if err := ctx.LexFile(file); err != nil {
		t.Fatalf(noErrorExpected, err)
	}

	if len(file.Tokens) != 5 {
		t.Errorf("Expected 5 tokens, got %d", len(file.Tokens))
	}

	// Every span carries the file's id.
	for _, tok := range file.Tokens {
		if tok.Span.FileId != file.FileId {
			t.Errorf("Token %s has FileId %d, want %d", tok, tok.Span.FileId, file.FileId)
		}
	}

	// The trailing semicolon landed in the shared bag.
	if !ctx.HasErrors() {
		t.Errorf("Expected the semicolon diagnostic in the context bag")
	}
	if got := ctx.Diagnostics.ErrorCount(); got != 1 {
		t.Errorf("Expected 1 error, got %d", got)
	}
}

// TestDiscoveryDoesNotDoubleReportErrors tests that a malformed file's lexical
// errors are reported once by the lex phase, not again by discovery
func TestDiscoveryDoesNotDoubleReportErrors(t *testing.T) {
	tmpDir := t.TempDir()
	mainFile, _ := createTestFile(tmpDir, mainNyanFile, "let x = 1;\n")

	ctx := New(&CompilerOptions{})

	if err := ctx.BuildDependencyGraph(mainFile); err != nil {
		t.Fatalf(noErrorExpected, err)
	}

	// Discovery alone must leave the bag clean.
	if ctx.HasErrors() {
		t.Fatalf("Discovery reported lexical errors, got %d", ctx.Diagnostics.ErrorCount())
	}

	for _, file := range ctx.GetAllFiles() {
		if err := ctx.LexFile(file); err != nil {
			t.Fatalf(noErrorExpected, err)
		}
	}

	if got := ctx.Diagnostics.ErrorCount(); got != 1 {
		t.Errorf("Expected exactly 1 error after lexing, got %d", got)
	}
}

// TestExtractUsesStopsAtNonIdentifier tests the token walk over use statements
func TestExtractUsesStopsAtNonIdentifier(t *testing.T) {
	tmpDir := t.TempDir()
	_, _ = createTestFile(tmpDir, "lib.nyan", libNyanContent)

	ctx := New(&CompilerOptions{})
	currentFile := filepath.Join(tmpDir, mainNyanFile)

	// Only the first segment chain belongs to the use path.
	uses := ctx.extractUses("use lib\nlet x = lib.value\n", currentFile)
	if len(uses) != 1 {
		t.Fatalf("Expected 1 use, got %d", len(uses))
	}

	expected, _ := filepath.Abs(filepath.Join(tmpDir, "lib.nyan"))
	if uses[0] != expected {
		t.Errorf("Expected %s, got %s", expected, uses[0])
	}
}

// TestModuleName tests module name derivation from the path
func TestModuleName(t *testing.T) {
	file := &SourceFile{Path: "/some/dir/helper.nyan"}
	if got := file.ModuleName(); got != "helper" {
		t.Errorf("Expected module name 'helper', got %q", got)
	}
}

// TestGetFile tests lookup of registered and unregistered paths
func TestGetFile(t *testing.T) {
	ctx := New(nil)
	ctx.AddFile("a.nyan", "x")

	if ctx.GetFile("a.nyan") == nil {
		t.Errorf("Expected registered file to be found")
	}
	if ctx.GetFile("b.nyan") != nil {
		t.Errorf("Expected nil for unregistered file")
	}
}

// TestLexFileTokenKinds sanity-checks the stored stream against the lexer
func TestLexFileTokenKinds(t *testing.T) {
	ctx := New(nil)
	file := ctx.AddFile("virtual.nyan", "fun main() -> int")
	if err := ctx.LexFile(file); err != nil {
		t.Fatalf(noErrorExpected, err)
	}

	want := []lexer.TOKEN{
		lexer.FUNCTION_TOKEN, lexer.IDENTIFIER_TOKEN,
		lexer.OPEN_PAREN, lexer.CLOSE_PAREN,
		lexer.ARROW_TOKEN, lexer.IDENTIFIER_TOKEN,
	}
	if len(file.Tokens) != len(want) {
		t.Fatalf("Expected %d tokens, got %d", len(want), len(file.Tokens))
	}
	for i, kind := range want {
		if file.Tokens[i].Kind != kind {
			t.Errorf("Token %d: expected %s, got %s", i, kind, file.Tokens[i].Kind)
		}
	}
}
