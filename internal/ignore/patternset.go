package ignore

import (
	"fmt"
	"strings"

	"snapctx/internal/types"
)

// PatternSet is an ordered sequence of parsed rules. Order matters: the last
// matching rule decides the outcome, and negation rules re-include paths that
// an earlier rule excluded.
type PatternSet struct {
	rules []*PatternRule
}

// Decision is the outcome of evaluating one path against a pattern set.
type Decision struct {
	// Excluded reports the final exclusion outcome.
	Excluded bool
	// Matched reports whether any rule applied to the path.
	Matched bool
	// Rule is the deciding rule, nil when no rule matched.
	Rule *PatternRule
}

// ParsePatterns parses ignore-pattern lines into a PatternSet. Blank lines and
// "#" comments are dropped. Malformed glob lines are skipped and reported as
// warnings identified by sourceName; parsing never fails the whole run.
func ParsePatterns(lines []string, sourceName string) (*PatternSet, []types.ParseWarning) {
	set := &PatternSet{}
	var warnings []types.ParseWarning

	for lineIndex, rawLine := range lines {
		trimmedLine := strings.TrimSpace(rawLine)
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, "#") {
			continue
		}

		rule, compileError := compileRule(trimmedLine)
		if compileError != nil {
			warnings = append(warnings, types.ParseWarning{
				Source:     sourceName,
				LineNumber: lineIndex + 1,
				Line:       trimmedLine,
				Message:    compileError.Error(),
			})
			continue
		}
		if rule == nil {
			continue
		}
		set.rules = append(set.rules, rule)
	}

	return set, warnings
}

// Len returns the number of usable rules in the set.
func (set *PatternSet) Len() int {
	return len(set.rules)
}

// Matches evaluates the slash-normalized relative path against the rules in
// order. The last matching rule wins: the path is excluded unless that rule is
// a negation. A path with no matching rule is included.
func (set *PatternSet) Matches(relativePath string, isDirectory bool) Decision {
	decision := Decision{}
	for _, rule := range set.rules {
		if rule.matches(relativePath, isDirectory) {
			decision = Decision{Excluded: !rule.Negated, Matched: true, Rule: rule}
		}
	}
	return decision
}

// String summarizes the set for diagnostics.
func (set *PatternSet) String() string {
	return fmt.Sprintf("PatternSet(%d rules)", len(set.rules))
}
