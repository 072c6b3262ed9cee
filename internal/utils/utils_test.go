package utils

import (
	"os"
	"path/filepath"
	"testing"
)

// TestDeduplicatePatterns verifies order-preserving deduplication.
func TestDeduplicatePatterns(testingHandle *testing.T) {
	deduplicated := DeduplicatePatterns([]string{"*.log", "dist/", "*.log", "dist/"})
	if len(deduplicated) != 2 || deduplicated[0] != "*.log" || deduplicated[1] != "dist/" {
		testingHandle.Fatalf("unexpected deduplication result: %v", deduplicated)
	}
}

// TestContainsString verifies membership checks.
func TestContainsString(testingHandle *testing.T) {
	haystack := []string{"alpha", "beta"}
	if !ContainsString(haystack, "beta") {
		testingHandle.Fatalf("beta should be found")
	}
	if ContainsString(haystack, "gamma") {
		testingHandle.Fatalf("gamma should not be found")
	}
}

// TestRelativePathOrSelf verifies slash normalization and the same-directory case.
func TestRelativePathOrSelf(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	nestedPath := filepath.Join(rootDirectory, "src", "main.py")
	if got := RelativePathOrSelf(nestedPath, rootDirectory); got != "src/main.py" {
		testingHandle.Fatalf("RelativePathOrSelf = %q, want src/main.py", got)
	}
	if got := RelativePathOrSelf(rootDirectory, rootDirectory); got != "." {
		testingHandle.Fatalf("same directory should yield %q, got %q", ".", got)
	}
}

// TestFormatFileSize verifies the human-readable size rendering.
func TestFormatFileSize(testingHandle *testing.T) {
	testCases := []struct {
		bytes int64
		want  string
	}{
		{0, "0b"},
		{512, "512b"},
		{1024, "1kb"},
		{1536, "1.5kb"},
		{10 * 1024 * 1024, "10mb"},
		{3 * 1024 * 1024 * 1024, "3gb"},
	}
	for _, testCase := range testCases {
		if got := FormatFileSize(testCase.bytes); got != testCase.want {
			testingHandle.Fatalf("FormatFileSize(%d) = %q, want %q", testCase.bytes, got, testCase.want)
		}
	}
}

// TestIsBinary verifies content-based binary detection.
func TestIsBinary(testingHandle *testing.T) {
	if IsBinary([]byte("plain text\n")) {
		testingHandle.Fatalf("plain text misclassified as binary")
	}
	if !IsBinary([]byte{'a', 0x00, 'b'}) {
		testingHandle.Fatalf("NUL byte should classify as binary")
	}
}

// TestHasBinaryExtension verifies the extension deny list.
func TestHasBinaryExtension(testingHandle *testing.T) {
	if !HasBinaryExtension("assets/logo.PNG") {
		testingHandle.Fatalf("extension check should be case-insensitive")
	}
	if HasBinaryExtension("src/main.go") {
		testingHandle.Fatalf("source files are not binary by extension")
	}
}

// TestIsFileBinaryPrefersExtension verifies that a known extension classifies
// without reading the file content.
func TestIsFileBinaryPrefersExtension(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	archivePath := filepath.Join(rootDirectory, "data.zip")
	if writeError := os.WriteFile(archivePath, []byte("looks like text"), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", archivePath, writeError)
	}
	if !IsFileBinary(archivePath) {
		testingHandle.Fatalf("known extension should classify as binary regardless of content")
	}
}

// TestFormatTimestamp verifies the display layout.
func TestFormatTimestamp(testingHandle *testing.T) {
	filePath := filepath.Join(testingHandle.TempDir(), "stamp.txt")
	if writeError := os.WriteFile(filePath, []byte("x"), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
	fileInfo, statError := os.Stat(filePath)
	if statError != nil {
		testingHandle.Fatalf("stat failed: %v", statError)
	}
	formatted := FormatTimestamp(fileInfo.ModTime())
	if len(formatted) != len("2006-01-02 15:04:05") {
		testingHandle.Fatalf("unexpected timestamp layout: %q", formatted)
	}
}
