package diagnose

import "strings"

// PhraseSet is a fixed collection of lowercase substrings used to classify log lines
type PhraseSet []string

// Phrase sets used by Derive. Entries must stay lowercase.
var (
	ErrorPhrases = PhraseSet{
		"error",
		"fail",
		"cannot",
		"missing",
		"module not found",
	}

	MissingEnvPhrases = PhraseSet{
		"environment variable",
		"env var",
		"not set",
		"undefined",
		"missing key",
	}

	MissingDependencyPhrases = PhraseSet{
		"module not found",
		"cannot find module",
		"npm err! missing script",
		"package not found",
		"dependency is missing",
	}

	// FrameworkMarkers is ordered by priority
	FrameworkMarkers = PhraseSet{
		"next.js",
		"astro",
		"remix",
		"sveltekit",
	}
)

// Match returns the first phrase contained in the lowercased line, if any
func (s PhraseSet) Match(line string) (string, bool) {
	if line == "" {
		return "", false
	}
	low := strings.ToLower(line)
	for _, phrase := range s {
		if strings.Contains(low, phrase) {
			return phrase, true
		}
	}
	return "", false
}

// MatchLines returns the trimmed lines that contain at least one phrase of set.
// Each input line contributes at most once, in input order.
func MatchLines(lines []string, set PhraseSet) []string {
	matches := []string{}
	for _, line := range lines {
		if _, ok := set.Match(line); ok {
			matches = append(matches, strings.TrimSpace(line))
		}
	}
	return matches
}
