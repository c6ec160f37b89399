package rdpro

import (
	"path/filepath"
	"regexp"
	"strings"
)

// globToRegexp translates a glob into an anchored regular expression.
// '*' matches any run of characters and '?' matches zero or one character.
// Every other character is matched literally.
func globToRegexp(pattern string) string {
	var sb strings.Builder

	sb.WriteString("^")

	for _, r := range pattern {
		switch r {
		case '*':
			sb.WriteString(".*")
		case '?':
			sb.WriteString(".?")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}

	sb.WriteString("$")

	return sb.String()
}

// MatchesPattern reports whether name matches the glob pattern as a whole.
func MatchesPattern(name, pattern string) bool {
	return regexp.MustCompile(globToRegexp(pattern)).MatchString(name)
}

// MatchesAny reports whether name matches at least one pattern.
// An empty or nil pattern list matches every name.
func MatchesAny(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}

	for _, pattern := range patterns {
		if MatchesPattern(name, pattern) {
			return true
		}
	}

	return false
}

// MatchesTargetPatterns reports whether the base name of path matches the target patterns.
func MatchesTargetPatterns(path string, patterns []string) bool {
	return MatchesAny(filepath.Base(path), patterns)
}

// PatternSet is a compiled, read-only list of globs.
// A nil *PatternSet matches everything.
type PatternSet struct {
	patterns []string
	regexes  []*regexp.Regexp
}

// CompilePatterns compiles the given globs, dropping blank entries and surrounding quotes.
// It returns nil when no pattern remains.
func CompilePatterns(patterns []string) *PatternSet {
	set := &PatternSet{}

	for _, p := range patterns {
		p = strings.TrimSpace(strings.Trim(p, "'\""))
		if p == "" {
			continue
		}

		set.patterns = append(set.patterns, p)
		set.regexes = append(set.regexes, regexp.MustCompile(globToRegexp(p)))
	}

	if len(set.patterns) == 0 {
		return nil
	}

	return set
}

// Match reports whether name matches any pattern of the set.
func (s *PatternSet) Match(name string) bool {
	if s == nil {
		return true
	}

	for _, re := range s.regexes {
		if re.MatchString(name) {
			return true
		}
	}

	return false
}

// Patterns returns the globs of the set.
func (s *PatternSet) Patterns() []string {
	if s == nil {
		return nil
	}

	return s.patterns
}
