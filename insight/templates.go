package insight

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ThemeSlot is the placeholder each template must contain exactly once.
const ThemeSlot = "{theme}"

// DefaultSeed is mixed with the entry text hash when choosing templates.
const DefaultSeed uint64 = 42

// TemplateTable maps each category to its candidate sentences.
type TemplateTable map[Category][]string

// DefaultTemplates returns the built-in template table.
func DefaultTemplates() TemplateTable {
	return TemplateTable{
		EmotionalLoad: {
			"This entry suggests a relatively high emotional load, particularly in relation to {theme}.",
			"The overall tone of this entry indicates emotional heaviness connected to {theme}.",
		},
		EmotionalClarity: {
			"The feelings described here appear difficult to clearly define, especially around {theme}.",
			"This entry reflects some uncertainty or ambiguity in how emotions related to {theme} are understood.",
		},
		RegulationCoping: {
			"This entry highlights an active attempt to regulate emotions through reflection, particularly in response to {theme}.",
			"The writer appears to be engaging in a coping process while thinking about {theme}.",
		},
		ArousalRestless: {
			"The language used suggests heightened internal activation or restlessness related to {theme}.",
			"This entry reflects a state of tension or agitation associated with {theme}.",
		},
		SelfRelation: {
			"This entry shows reflective self-evaluation in relation to {theme}.",
			"The writer appears to be assessing their own reactions or patterns while considering {theme}.",
		},
	}
}

// Validate checks that every category has at least one template, that each
// template has exactly one theme slot, and that no unknown category is present.
func (t TemplateTable) Validate() error {
	for c := range t {
		if !c.Known() {
			return fmt.Errorf("%w: unknown category %q", ErrInvalidConfig, string(c))
		}
	}
	for _, c := range categories {
		tpls := t[c]
		if len(tpls) == 0 {
			return fmt.Errorf("%w: %q", ErrMissingTemplate, string(c))
		}
		for i, tpl := range tpls {
			if n := strings.Count(tpl, ThemeSlot); n != 1 {
				return fmt.Errorf("%w: template %d of %q has %d %s slots", ErrInvalidConfig, i, string(c), n, ThemeSlot)
			}
		}
	}
	return nil
}

func (t TemplateTable) clone() TemplateTable {
	out := make(TemplateTable, len(t))
	for c, tpls := range t {
		out[c] = append([]string(nil), tpls...)
	}
	return out
}

// Renderer turns detected categories into sentences.
type Renderer struct {
	Templates TemplateTable
	Seed      uint64
}

// Render picks one template per category and fills it with the theme phrase.
// The choice depends only on Seed and text, so identical inputs always render
// identically. An empty category list yields NoInsights.
func (r Renderer) Render(text string, cats []Category, themes []string) (Report, error) {
	if len(cats) == 0 {
		return NoInsights(), nil
	}
	rng := rand.New(rand.NewPCG(r.Seed, xxhash.Sum64String(text)))
	theme := ThemePhrase(themes)

	items := make([]Insight, 0, len(cats))
	for _, c := range cats {
		tpls := r.Templates[c]
		if len(tpls) == 0 {
			return Report{}, fmt.Errorf("%w: %q", ErrMissingTemplate, string(c))
		}
		tpl := tpls[rng.IntN(len(tpls))]
		items = append(items, Insight{
			Category: c,
			Text:     strings.Replace(tpl, ThemeSlot, theme, 1),
		})
	}
	return Insights(items...), nil
}
