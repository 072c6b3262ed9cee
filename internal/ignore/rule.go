// Package ignore implements gitignore-style pattern matching and the layered
// exclusion engine that drives tree building and file collection.
package ignore

import (
	"fmt"
	"regexp"
	"strings"
)

// PatternRule is a single parsed ignore pattern. Immutable once parsed.
type PatternRule struct {
	// Pattern is the original pattern text as it appeared in its source line.
	Pattern string
	// Negated marks a re-include rule introduced by a leading "!".
	Negated bool
	// DirOnly marks a rule with a trailing "/" that targets directories and their subtrees.
	DirOnly bool
	// Anchored marks a rule with a leading "/" that only matches from the project root.
	Anchored bool

	matchExpression   *regexp.Regexp
	subtreeExpression *regexp.Regexp
}

// compileRule parses one non-empty, non-comment pattern line into a PatternRule.
// A nil rule with a nil error means the line carried no usable pattern.
func compileRule(line string) (*PatternRule, error) {
	rule := &PatternRule{Pattern: line}

	pattern := line
	switch {
	case strings.HasPrefix(pattern, "!"):
		rule.Negated = true
		pattern = pattern[1:]
	case strings.HasPrefix(pattern, `\!`), strings.HasPrefix(pattern, `\#`):
		pattern = pattern[1:]
	}

	rule.Anchored = strings.HasPrefix(pattern, "/")
	rule.DirOnly = strings.HasSuffix(pattern, "/")
	pattern = strings.Trim(pattern, "/")
	if pattern == "" {
		return nil, nil
	}

	expressionBody, translateError := globToRegexBody(pattern)
	if translateError != nil {
		return nil, translateError
	}

	expressionPrefix := `(?:^|.*/)`
	if rule.Anchored {
		expressionPrefix = `^`
	}

	matchExpression, compileError := regexp.Compile(expressionPrefix + expressionBody + `$`)
	if compileError != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", line, compileError)
	}
	rule.matchExpression = matchExpression

	if rule.DirOnly {
		subtreeExpression, subtreeCompileError := regexp.Compile(expressionPrefix + expressionBody + `/.*$`)
		if subtreeCompileError != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", line, subtreeCompileError)
		}
		rule.subtreeExpression = subtreeExpression
	}

	return rule, nil
}

// matches reports whether the rule applies to the slash-normalized candidate path.
// A directory-only rule matches the directory itself and every descendant path.
func (rule *PatternRule) matches(candidatePath string, isDirectory bool) bool {
	if candidatePath == "" {
		return false
	}
	if rule.DirOnly {
		if isDirectory && rule.matchExpression.MatchString(candidatePath) {
			return true
		}
		return rule.subtreeExpression.MatchString(candidatePath)
	}
	return rule.matchExpression.MatchString(candidatePath)
}

// globToRegexBody converts a gitignore-style glob into a regular expression body.
// "**" crosses directory boundaries, "*" and "?" stay within one path segment,
// and "[...]" classes follow glob semantics with "[!x]" negation.
func globToRegexBody(pattern string) (string, error) {
	var builder strings.Builder

	for index := 0; index < len(pattern); index++ {
		// "**/" matches zero or more leading directories.
		if pattern[index] == '*' && index+2 < len(pattern) && pattern[index+1] == '*' && pattern[index+2] == '/' {
			builder.WriteString(`(?:.*/)?`)
			index += 2
			continue
		}

		currentByte := pattern[index]
		switch currentByte {
		case '*':
			if index+1 < len(pattern) && pattern[index+1] == '*' {
				builder.WriteString(`.*`)
				index++
				continue
			}
			builder.WriteString(`[^/]*`)
		case '?':
			builder.WriteString(`[^/]`)
		case '[':
			classEnd := findCharClassEnd(pattern, index)
			if classEnd < 0 {
				return "", fmt.Errorf("unterminated character class in pattern %q", pattern)
			}
			appendCharClass(pattern[index:classEnd+1], &builder)
			index = classEnd
		default:
			builder.WriteString(regexEscapeByte(currentByte))
		}
	}

	return builder.String(), nil
}

// appendCharClass rewrites a glob "[...]" class as a regular expression class.
func appendCharClass(class string, builder *strings.Builder) {
	builder.WriteByte('[')

	index := 1
	end := len(class) - 1
	if index < end && class[index] == '!' {
		// gitignore-style negation "[!x]" maps to regex "[^x]".
		builder.WriteByte('^')
		index++
	} else if index < end && class[index] == '^' {
		builder.WriteString(`\^`)
		index++
	}
	if index < end && class[index] == ']' {
		builder.WriteByte(']')
		index++
	}
	for ; index < end; index++ {
		if class[index] == '\\' {
			builder.WriteString(`\\`)
			continue
		}
		builder.WriteByte(class[index])
	}

	builder.WriteByte(']')
}

// findCharClassEnd locates the closing bracket of a glob character class.
func findCharClassEnd(pattern string, start int) int {
	index := start + 1
	if index < len(pattern) && (pattern[index] == '!' || pattern[index] == '^') {
		index++
	}
	if index < len(pattern) && pattern[index] == ']' {
		index++
	}
	for ; index < len(pattern); index++ {
		if pattern[index] == ']' {
			return index
		}
	}
	return -1
}

// regexEscapeByte escapes one byte for use in a regular expression.
func regexEscapeByte(value byte) string {
	switch value {
	case '.', '+', '(', ')', '|', '{', '}', '[', ']', '^', '$', '\\':
		return `\` + string(value)
	default:
		return string(value)
	}
}
