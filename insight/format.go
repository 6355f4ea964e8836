package insight

import "strings"

// EmptyListPhrase stands in for an empty enumeration.
const EmptyListPhrase = "described experience"

// FormatList joins items as an English enumeration with an Oxford comma.
func FormatList(items []string) string {
	switch len(items) {
	case 0:
		return EmptyListPhrase
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
}

// ThemePhrase is the possessive theme string substituted into templates.
func ThemePhrase(themes []string) string {
	return "their " + FormatList(themes)
}
