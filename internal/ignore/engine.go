package ignore

import (
	"path/filepath"
	"strings"

	"snapctx/internal/types"
	"snapctx/internal/utils"
)

// sourceNameDefaults identifies the built-in exclusion rules in parse warnings.
const sourceNameDefaults = "defaults"

// Sources carries the pattern inputs that an Engine is built from, in
// ascending precedence order. Later sources override earlier ones because
// their rules are evaluated last.
type Sources struct {
	// Defaults holds the built-in exclusion patterns (lowest precedence).
	Defaults []string
	// Gitignore holds lines loaded from the project .gitignore, nil when disabled.
	Gitignore []string
	// Excludes holds lines from the user-supplied exclude file.
	Excludes []string
	// ExplicitIncludes holds relative file paths the caller named directly.
	// An explicit include always wins regardless of pattern matches.
	ExplicitIncludes []string
}

// Engine merges the layered pattern sources into one authoritative inclusion
// decision per path. An Engine is constructed once per run and is a pure
// function of its inputs: it is safe to query repeatedly and in any order.
type Engine struct {
	patterns         *PatternSet
	explicitIncludes map[string]struct{}
	includeAncestors map[string]struct{}
}

// NewEngine builds an Engine from the given sources. Pattern warnings from all
// sources are returned for diagnostics; they never fail engine construction.
func NewEngine(sources Sources) (*Engine, []types.ParseWarning) {
	var allWarnings []types.ParseWarning

	// Rule order encodes precedence: defaults first, .gitignore next, user
	// excludes last, so last-match-wins evaluation gives later sources the
	// final say.
	combined := &PatternSet{}
	for _, source := range []struct {
		name  string
		lines []string
	}{
		{sourceNameDefaults, sources.Defaults},
		{utils.GitIgnoreFileName, sources.Gitignore},
		{"excludes", sources.Excludes},
	} {
		parsedSet, warnings := ParsePatterns(source.lines, source.name)
		combined.rules = append(combined.rules, parsedSet.rules...)
		allWarnings = append(allWarnings, warnings...)
	}

	engine := &Engine{
		patterns:         combined,
		explicitIncludes: make(map[string]struct{}),
		includeAncestors: make(map[string]struct{}),
	}
	for _, includePath := range sources.ExplicitIncludes {
		normalizedInclude := NormalizePath(includePath)
		if normalizedInclude == "" || normalizedInclude == "." {
			continue
		}
		engine.explicitIncludes[normalizedInclude] = struct{}{}
		for _, ancestorPath := range ancestorPaths(normalizedInclude) {
			engine.includeAncestors[ancestorPath] = struct{}{}
		}
	}

	return engine, allWarnings
}

// IsExcluded reports whether the slash-normalized relative path is excluded.
// A path below an excluded directory is excluded without evaluating its own
// pattern match, which lets callers prune traversal at the directory level.
func (engine *Engine) IsExcluded(relativePath string, isDirectory bool) bool {
	return engine.Decide(relativePath, isDirectory).Excluded
}

// Decide returns the full exclusion decision for diagnostics. The deciding
// rule is the one that matched the path itself or its nearest excluded ancestor.
func (engine *Engine) Decide(relativePath string, isDirectory bool) Decision {
	normalizedPath := NormalizePath(relativePath)
	if normalizedPath == "" || normalizedPath == "." {
		return Decision{}
	}

	if _, explicitlyIncluded := engine.explicitIncludes[normalizedPath]; explicitlyIncluded {
		return Decision{}
	}
	if isDirectory {
		if _, onIncludePath := engine.includeAncestors[normalizedPath]; onIncludePath {
			return Decision{}
		}
	}

	// Excluded directories exclude their whole subtree: a negation rule cannot
	// re-include a path whose parent directory is excluded.
	for _, ancestorPath := range ancestorPaths(normalizedPath) {
		ancestorDecision := engine.patterns.Matches(ancestorPath, true)
		if ancestorDecision.Excluded {
			return ancestorDecision
		}
	}

	return engine.patterns.Matches(normalizedPath, isDirectory)
}

// IsBinaryFile classifies the file at absolutePath as binary content. Binary
// files are always excluded from content merging regardless of pattern rules,
// while still appearing in the tree listing.
func (engine *Engine) IsBinaryFile(absolutePath string) bool {
	return utils.IsFileBinary(absolutePath)
}

// NormalizePath converts a relative path to forward-slash form and strips any
// leading "./" so pattern evaluation sees one canonical shape.
func NormalizePath(relativePath string) string {
	normalized := filepath.ToSlash(strings.TrimSpace(relativePath))
	normalized = strings.TrimPrefix(normalized, "./")
	return strings.TrimSuffix(normalized, "/")
}

// ancestorPaths lists the proper ancestor directories of path, outermost first.
func ancestorPaths(path string) []string {
	var ancestors []string
	for index := 0; index < len(path); index++ {
		if path[index] == '/' {
			ancestors = append(ancestors, path[:index])
		}
	}
	return ancestors
}
