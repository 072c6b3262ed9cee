package ignore

import (
	"os"
	"path/filepath"
	"testing"
)

// TestEnginePruningProperty verifies that every path under an excluded
// directory is excluded without evaluating its own pattern match.
func TestEnginePruningProperty(testingHandle *testing.T) {
	engine, parseWarnings := NewEngine(Sources{Excludes: []string{"temp/"}})
	if len(parseWarnings) != 0 {
		testingHandle.Fatalf("unexpected warnings: %v", parseWarnings)
	}

	if !engine.IsExcluded("temp", true) {
		testingHandle.Fatalf("temp directory should be excluded")
	}
	if !engine.IsExcluded("temp/cache.bin", false) {
		testingHandle.Fatalf("temp/cache.bin should be excluded via its parent")
	}
	if !engine.IsExcluded("temp/nested/deep.txt", false) {
		testingHandle.Fatalf("deep descendants should be excluded via their ancestor")
	}
}

// TestEngineAncestorExclusionBeatsNegation verifies that a negation rule
// cannot re-include a path whose parent directory is excluded.
func TestEngineAncestorExclusionBeatsNegation(testingHandle *testing.T) {
	engine, _ := NewEngine(Sources{Excludes: []string{"vendor/", "!vendor/keep.go"}})
	if !engine.IsExcluded("vendor/keep.go", false) {
		testingHandle.Fatalf("paths below an excluded directory stay excluded")
	}
}

// TestEngineSourcePrecedence verifies that later sources override earlier
// ones: a user exclude-file negation re-includes a default-excluded path.
func TestEngineSourcePrecedence(testingHandle *testing.T) {
	engine, _ := NewEngine(Sources{
		Defaults: []string{"dist/"},
		Excludes: []string{"!dist/"},
	})
	if engine.IsExcluded("dist", true) {
		testingHandle.Fatalf("user negation should re-include the default-excluded directory")
	}
	if engine.IsExcluded("dist/bundle.js", false) {
		testingHandle.Fatalf("contents of the re-included directory should be included")
	}
}

// TestEngineGitignoreOverridesDefaults verifies the defaults < .gitignore layering.
func TestEngineGitignoreOverridesDefaults(testingHandle *testing.T) {
	engine, _ := NewEngine(Sources{
		Defaults:  []string{"*.lock"},
		Gitignore: []string{"!poetry.lock"},
	})
	if engine.IsExcluded("poetry.lock", false) {
		testingHandle.Fatalf("gitignore negation should override the default exclude")
	}
	if !engine.IsExcluded("yarn.lock", false) {
		testingHandle.Fatalf("other lock files should stay excluded")
	}
}

// TestEngineExplicitIncludeAlwaysWins verifies that an explicitly requested
// file is included regardless of pattern matches, and that its ancestor
// directories are not pruned away.
func TestEngineExplicitIncludeAlwaysWins(testingHandle *testing.T) {
	engine, _ := NewEngine(Sources{
		Excludes:         []string{"logs/"},
		ExplicitIncludes: []string{"logs/important.log"},
	})
	if engine.IsExcluded("logs/important.log", false) {
		testingHandle.Fatalf("explicit include must win over pattern rules")
	}
	if engine.IsExcluded("logs", true) {
		testingHandle.Fatalf("ancestor of an explicit include must stay traversable")
	}
	if !engine.IsExcluded("logs/other.log", false) {
		testingHandle.Fatalf("siblings of an explicit include stay excluded")
	}
}

// TestEngineIsPureFunctionOfInputs verifies that repeated queries in any order
// return identical decisions.
func TestEngineIsPureFunctionOfInputs(testingHandle *testing.T) {
	engine, _ := NewEngine(Sources{Excludes: []string{"*.log", "!keep.log"}})
	queries := []struct {
		path        string
		isDirectory bool
	}{
		{"debug.log", false},
		{"keep.log", false},
		{"src/main.go", false},
	}
	firstPass := make([]bool, len(queries))
	for index, query := range queries {
		firstPass[index] = engine.IsExcluded(query.path, query.isDirectory)
	}
	for index := len(queries) - 1; index >= 0; index-- {
		if engine.IsExcluded(queries[index].path, queries[index].isDirectory) != firstPass[index] {
			testingHandle.Fatalf("decision for %q changed between queries", queries[index].path)
		}
	}
}

// TestEngineBinaryClassification verifies extension and content-based binary detection.
func TestEngineBinaryClassification(testingHandle *testing.T) {
	engine, _ := NewEngine(Sources{})
	temporaryDirectory := testingHandle.TempDir()

	binaryByContentPath := filepath.Join(temporaryDirectory, "blob.dat")
	if writeError := os.WriteFile(binaryByContentPath, []byte{0x00, 0x01, 0x02}, 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", binaryByContentPath, writeError)
	}
	textPath := filepath.Join(temporaryDirectory, "notes.txt")
	if writeError := os.WriteFile(textPath, []byte("plain text\n"), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", textPath, writeError)
	}
	extensionPath := filepath.Join(temporaryDirectory, "archive.zip")
	if writeError := os.WriteFile(extensionPath, []byte("not really a zip"), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", extensionPath, writeError)
	}

	if !engine.IsBinaryFile(binaryByContentPath) {
		testingHandle.Fatalf("NUL-containing file should classify as binary")
	}
	if engine.IsBinaryFile(textPath) {
		testingHandle.Fatalf("plain text file should not classify as binary")
	}
	if !engine.IsBinaryFile(extensionPath) {
		testingHandle.Fatalf("known binary extension should classify as binary without sniffing")
	}
}

// TestNormalizePath verifies canonical slash-normalized form.
func TestNormalizePath(testingHandle *testing.T) {
	testCases := []struct {
		input string
		want  string
	}{
		{"./src/main.go", "src/main.go"},
		{"src/", "src"},
		{" docs/readme.md ", "docs/readme.md"},
	}
	for _, testCase := range testCases {
		if got := NormalizePath(testCase.input); got != testCase.want {
			testingHandle.Fatalf("NormalizePath(%q) = %q, want %q", testCase.input, got, testCase.want)
		}
	}
}
