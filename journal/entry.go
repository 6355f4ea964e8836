package journal

import (
	"fmt"
	"math"
	"strings"

	"github.com/theimaginaryfoundation/psych-extract/insight"
	"github.com/theimaginaryfoundation/psych-extract/journal/fileutils"
)

// Entry is the artifact written for one processed journal page.
type Entry struct {
	ID          string                      `json:"id"`
	Source      string                      `json:"source"`
	ProcessedAt string                      `json:"processed_at"`
	Text        string                      `json:"text"`
	Emotions    insight.EmotionDistribution `json:"emotions"`
	Themes      []string                    `json:"themes"`
	Categories  []insight.Category          `json:"categories"`
	Insight     string                      `json:"insight"`
	SpeechPath  string                      `json:"speech_path,omitempty"`
}

// IndexRecord is a compact row mapping an entry to its artifact file.
type IndexRecord struct {
	ID          string             `json:"id"`
	Source      string             `json:"source"`
	ProcessedAt string             `json:"processed_at,omitempty"`
	EntryPath   string             `json:"entry_path"`
	Emotions    []insight.Emotion  `json:"emotions,omitempty"`
	Categories  []insight.Category `json:"categories,omitempty"`
	Themes      []string           `json:"themes,omitempty"`
	Insight     string             `json:"insight"`
	SpeechPath  string             `json:"speech_path,omitempty"`
}

// IndexOptions bounds the size of index rows. Zero disables a limit.
type IndexOptions struct {
	InsightMaxChars int
	ThemesMax       int
}

// BuildIndexRecord creates an index row for an entry stored at path.
func BuildIndexRecord(e Entry, path string, opt IndexOptions) IndexRecord {
	themes := NormalizeThemes(e.Themes)
	if opt.ThemesMax > 0 && len(themes) > opt.ThemesMax {
		themes = themes[:opt.ThemesMax]
	}
	return IndexRecord{
		ID:          e.ID,
		Source:      e.Source,
		ProcessedAt: e.ProcessedAt,
		EntryPath:   path,
		Emotions:    e.Emotions.AtLeast(insight.ReportThreshold),
		Categories:  e.Categories,
		Themes:      themes,
		Insight:     fileutils.Truncate(e.Insight, opt.InsightMaxChars),
		SpeechPath:  e.SpeechPath,
	}
}

// NormalizeThemes trims themes, drops empties and case-insensitive duplicates,
// and keeps first-seen order.
func NormalizeThemes(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// ValidateDistribution checks that d carries every label exactly once with a
// probability in [0,1] and nothing else.
func ValidateDistribution(d insight.EmotionDistribution) error {
	for e, v := range d {
		if !e.Known() {
			return fmt.Errorf("%w: unknown label %q", ErrInvalidDistribution, string(e))
		}
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%w: %s=%v out of [0,1]", ErrInvalidDistribution, e, v)
		}
	}
	for _, e := range insight.Emotions() {
		if _, ok := d[e]; !ok {
			return fmt.Errorf("%w: missing label %q", ErrInvalidDistribution, string(e))
		}
	}
	return nil
}
