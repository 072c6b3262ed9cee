package config

import (
	"os"
	"path/filepath"
	"testing"

	"snapctx/internal/utils"
)

// writeTestFile creates a file with the specified content, failing the test on error.
func writeTestFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

// TestLoadPatternLinesMissingFile verifies that a missing pattern file
// contributes no patterns and no error.
func TestLoadPatternLinesMissingFile(testingHandle *testing.T) {
	missingPath := filepath.Join(testingHandle.TempDir(), "no-such-file")
	lines, loadError := LoadPatternLines(missingPath)
	if loadError != nil {
		testingHandle.Fatalf("missing pattern file should not error: %v", loadError)
	}
	if lines != nil {
		testingHandle.Fatalf("missing pattern file should yield no lines, got %v", lines)
	}
}

// TestLoadPatternLinesKeepsRawLines verifies that comments and blanks are
// preserved for the pattern parser to filter.
func TestLoadPatternLinesKeepsRawLines(testingHandle *testing.T) {
	patternFilePath := filepath.Join(testingHandle.TempDir(), "excludes.txt")
	writeTestFile(testingHandle, patternFilePath, "# header\n\n*.log\n")

	lines, loadError := LoadPatternLines(patternFilePath)
	if loadError != nil {
		testingHandle.Fatalf("LoadPatternLines failed: %v", loadError)
	}
	if len(lines) != 3 || lines[0] != "# header" || lines[1] != "" || lines[2] != "*.log" {
		testingHandle.Fatalf("raw lines must be preserved, got %v", lines)
	}
}

// TestLoadFileListFiltersCommentsAndBlanks verifies the file-list format.
func TestLoadFileListFiltersCommentsAndBlanks(testingHandle *testing.T) {
	listFilePath := filepath.Join(testingHandle.TempDir(), "files.txt")
	writeTestFile(testingHandle, listFilePath, "# important entry points\nsrc/main.py\n\n  src/utils.py  \n")

	filePaths, loadError := LoadFileList(listFilePath)
	if loadError != nil {
		testingHandle.Fatalf("LoadFileList failed: %v", loadError)
	}
	if len(filePaths) != 2 || filePaths[0] != "src/main.py" || filePaths[1] != "src/utils.py" {
		testingHandle.Fatalf("unexpected file list: %v", filePaths)
	}
}

// TestLoadFileListMissingFileErrors verifies that an explicitly requested list
// file must exist.
func TestLoadFileListMissingFileErrors(testingHandle *testing.T) {
	missingPath := filepath.Join(testingHandle.TempDir(), "absent.txt")
	if _, loadError := LoadFileList(missingPath); loadError == nil {
		testingHandle.Fatalf("expected error for missing file list")
	}
}

// TestLoadEngineSourcesLayersPatternOrigins verifies that defaults, the
// project .gitignore, and the user exclude file all reach the engine sources.
func TestLoadEngineSourcesLayersPatternOrigins(testingHandle *testing.T) {
	projectRoot := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(projectRoot, utils.GitIgnoreFileName), "*.log\n")
	excludeFilePath := filepath.Join(projectRoot, "excludes.txt")
	writeTestFile(testingHandle, excludeFilePath, "secrets/\n")

	sources, loadError := LoadEngineSources(EngineSourceOptions{
		ProjectRoot:      projectRoot,
		ExcludeFilePath:  excludeFilePath,
		UseGitignore:     true,
		ExtraExcludes:    []string{"scratch/", "secrets/"},
		ExplicitIncludes: []string{"secrets/allowed.txt"},
	})
	if loadError != nil {
		testingHandle.Fatalf("LoadEngineSources failed: %v", loadError)
	}

	if len(sources.Defaults) == 0 {
		testingHandle.Fatalf("built-in defaults must always be present")
	}
	if len(sources.Gitignore) != 1 || sources.Gitignore[0] != "*.log" {
		testingHandle.Fatalf("unexpected gitignore lines: %v", sources.Gitignore)
	}
	if len(sources.Excludes) != 2 || sources.Excludes[0] != "secrets/" || sources.Excludes[1] != "scratch/" {
		testingHandle.Fatalf("exclude lines should be deduplicated in order: %v", sources.Excludes)
	}
	if len(sources.ExplicitIncludes) != 1 || sources.ExplicitIncludes[0] != "secrets/allowed.txt" {
		testingHandle.Fatalf("unexpected explicit includes: %v", sources.ExplicitIncludes)
	}
}

// TestLoadEngineSourcesGitignoreDisabled verifies the --no-gitignore path.
func TestLoadEngineSourcesGitignoreDisabled(testingHandle *testing.T) {
	projectRoot := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(projectRoot, utils.GitIgnoreFileName), "*.log\n")

	sources, loadError := LoadEngineSources(EngineSourceOptions{ProjectRoot: projectRoot, UseGitignore: false})
	if loadError != nil {
		testingHandle.Fatalf("LoadEngineSources failed: %v", loadError)
	}
	if sources.Gitignore != nil {
		testingHandle.Fatalf("gitignore lines should not be loaded when disabled, got %v", sources.Gitignore)
	}
}

// TestApplicationConfigurationMerge verifies field-by-field local override of
// the global configuration.
func TestApplicationConfigurationMerge(testingHandle *testing.T) {
	globalMaxFileSize := int64(1024)
	globalClipboard := false
	globalConfiguration := ApplicationConfiguration{
		Snapshot: SnapshotConfiguration{
			Output:      "global_context.txt",
			MaxFileSize: &globalMaxFileSize,
			Clipboard:   &globalClipboard,
			Tokens:      TokenConfiguration{Model: "gpt-4o"},
			Paths:       PathConfiguration{Exclude: []string{"global/"}},
		},
	}

	localClipboard := true
	localConfiguration := ApplicationConfiguration{
		Snapshot: SnapshotConfiguration{
			Output:    "local_context.txt",
			Clipboard: &localClipboard,
			Paths:     PathConfiguration{Exclude: []string{"local/", "local/"}},
		},
	}

	merged := globalConfiguration.Merge(localConfiguration)
	if merged.Snapshot.Output != "local_context.txt" {
		testingHandle.Fatalf("local output should override global, got %s", merged.Snapshot.Output)
	}
	if merged.Snapshot.MaxFileSize == nil || *merged.Snapshot.MaxFileSize != 1024 {
		testingHandle.Fatalf("unset local max_file_size should keep the global value")
	}
	if merged.Snapshot.Clipboard == nil || !*merged.Snapshot.Clipboard {
		testingHandle.Fatalf("local clipboard setting should override global")
	}
	if merged.Snapshot.Tokens.Model != "gpt-4o" {
		testingHandle.Fatalf("unset local token model should keep the global value")
	}
	if len(merged.Snapshot.Paths.Exclude) != 1 || merged.Snapshot.Paths.Exclude[0] != "local/" {
		testingHandle.Fatalf("local excludes should replace global ones deduplicated, got %v", merged.Snapshot.Paths.Exclude)
	}
}

// TestLoadApplicationConfigurationFromLocalFile verifies YAML decoding of a
// local configuration file.
func TestLoadApplicationConfigurationFromLocalFile(testingHandle *testing.T) {
	testingHandle.Setenv("HOME", testingHandle.TempDir())
	workingDirectory := testingHandle.TempDir()
	configurationContent := `snapshot:
  output: project_context.txt
  max_file_size: 2048
  clipboard: true
  tokens:
    enabled: true
    model: gpt-4o
  paths:
    exclude:
      - scratch/
    use_gitignore: false
`
	writeTestFile(testingHandle, filepath.Join(workingDirectory, ConfigFileName), configurationContent)

	loaded, loadError := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory})
	if loadError != nil {
		testingHandle.Fatalf("LoadApplicationConfiguration failed: %v", loadError)
	}
	if loaded.Snapshot.Output != "project_context.txt" {
		testingHandle.Fatalf("output = %s", loaded.Snapshot.Output)
	}
	if loaded.Snapshot.MaxFileSize == nil || *loaded.Snapshot.MaxFileSize != 2048 {
		testingHandle.Fatalf("max_file_size not decoded: %v", loaded.Snapshot.MaxFileSize)
	}
	if loaded.Snapshot.Clipboard == nil || !*loaded.Snapshot.Clipboard {
		testingHandle.Fatalf("clipboard not decoded")
	}
	if loaded.Snapshot.Tokens.Enabled == nil || !*loaded.Snapshot.Tokens.Enabled || loaded.Snapshot.Tokens.Model != "gpt-4o" {
		testingHandle.Fatalf("tokens section not decoded: %+v", loaded.Snapshot.Tokens)
	}
	if loaded.Snapshot.Paths.UseGitignore == nil || *loaded.Snapshot.Paths.UseGitignore {
		testingHandle.Fatalf("use_gitignore not decoded: %v", loaded.Snapshot.Paths.UseGitignore)
	}
	if len(loaded.Snapshot.Paths.Exclude) != 1 || loaded.Snapshot.Paths.Exclude[0] != "scratch/" {
		testingHandle.Fatalf("path excludes not decoded: %v", loaded.Snapshot.Paths.Exclude)
	}
}

// TestLoadApplicationConfigurationMissingFiles verifies that absent
// configuration files produce an empty configuration.
func TestLoadApplicationConfigurationMissingFiles(testingHandle *testing.T) {
	testingHandle.Setenv("HOME", testingHandle.TempDir())
	loaded, loadError := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: testingHandle.TempDir()})
	if loadError != nil {
		testingHandle.Fatalf("missing configuration files should not error: %v", loadError)
	}
	if loaded.Snapshot.Output != "" || loaded.Snapshot.MaxFileSize != nil {
		testingHandle.Fatalf("expected zero configuration, got %+v", loaded)
	}
}
