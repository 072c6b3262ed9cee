// Package config loads ignore files, exclude files, file lists, and the
// application configuration consumed by the CLI.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"snapctx/internal/ignore"
	"snapctx/internal/utils"
)

// LoadPatternLines reads the raw lines of a pattern file. A missing file is
// not an error: it simply contributes no patterns. Line filtering (blanks,
// comments, malformed globs) is the pattern parser's concern.
func LoadPatternLines(patternFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(patternFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", patternFilePath, closeError)
		}
	}()

	var lines []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return lines, nil
}

// LoadFileList reads a newline-separated list of relative file paths. Blank
// lines and "#"-prefixed comment lines are ignored.
func LoadFileList(listFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(listFilePath)
	if openFileError != nil {
		return nil, fmt.Errorf("reading file list %s: %w", listFilePath, openFileError)
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", listFilePath, closeError)
		}
	}()

	var filePaths []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, "#") {
			continue
		}
		filePaths = append(filePaths, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf("reading file list %s: %w", listFilePath, scanError)
	}
	return filePaths, nil
}

// EngineSourceOptions controls which pattern sources are loaded for a run.
type EngineSourceOptions struct {
	ProjectRoot      string
	ExcludeFilePath  string
	UseGitignore     bool
	ExtraExcludes    []string
	ExplicitIncludes []string
}

// LoadEngineSources assembles the layered pattern sources for one engine
// instance: built-in defaults, the project .gitignore when enabled, and the
// user-supplied exclude file.
func LoadEngineSources(options EngineSourceOptions) (ignore.Sources, error) {
	sources := ignore.Sources{
		Defaults:         ignore.DefaultExcludePatterns,
		ExplicitIncludes: options.ExplicitIncludes,
	}

	if options.UseGitignore {
		gitIgnoreFilePath := filepath.Join(options.ProjectRoot, utils.GitIgnoreFileName)
		gitIgnoreLines, loadError := LoadPatternLines(gitIgnoreFilePath)
		if loadError != nil {
			return ignore.Sources{}, fmt.Errorf("loading %s from %s: %w", utils.GitIgnoreFileName, options.ProjectRoot, loadError)
		}
		sources.Gitignore = gitIgnoreLines
	}

	if options.ExcludeFilePath != "" {
		excludeLines, loadError := LoadPatternLines(options.ExcludeFilePath)
		if loadError != nil {
			return ignore.Sources{}, fmt.Errorf("loading exclude file %s: %w", options.ExcludeFilePath, loadError)
		}
		sources.Excludes = excludeLines
	}
	sources.Excludes = append(sources.Excludes, options.ExtraExcludes...)
	sources.Excludes = utils.DeduplicatePatterns(sources.Excludes)

	return sources, nil
}
