package insight

import "strings"

// Lexicon holds the cue phrases the rule engine looks for in an entry.
// Phrases are lowercase substrings; matching is not word-bounded.
type Lexicon struct {
	Uncertainty    []string `yaml:"uncertainty"`
	Coping         []string `yaml:"coping"`
	Somatic        []string `yaml:"somatic"`
	SelfReflective []string `yaml:"self_reflective"`
}

// DefaultLexicon returns the built-in cue phrases.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Uncertainty: []string{
			"not sure", "hard to name", "can't explain", "cannot explain",
			"something is there", "difficult to explain",
		},
		Coping: []string{
			"writing", "reflecting", "reflection", "breathing",
			"grounding", "sitting with", "slowing",
		},
		Somatic: []string{
			"body", "shoulders", "breathing", "tight",
			"tense", "restless", "tension",
		},
		SelfReflective: []string{
			"i noticed", "i realized", "i caught myself",
			"pattern in my reactions", "i keep noticing",
		},
	}
}

// ContainsAny reports whether any phrase occurs in text, ignoring case.
func ContainsAny(text string, phrases []string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// CountMatches returns how many distinct phrases occur in text, ignoring case.
func CountMatches(text string, phrases []string) int {
	if text == "" {
		return 0
	}
	lower := strings.ToLower(text)
	n := 0
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			n++
		}
	}
	return n
}

func (l Lexicon) clone() Lexicon {
	return Lexicon{
		Uncertainty:    append([]string(nil), l.Uncertainty...),
		Coping:         append([]string(nil), l.Coping...),
		Somatic:        append([]string(nil), l.Somatic...),
		SelfReflective: append([]string(nil), l.SelfReflective...),
	}
}
