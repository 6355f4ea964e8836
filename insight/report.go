package insight

// Insight is one detected category and its rendered sentence.
type Insight struct {
	Category Category `json:"category"`
	Text     string   `json:"text"`
}

// Report is the outcome of rendering: either no insights, or one Insight per
// detected category in detection order.
type Report struct {
	items []Insight
}

// NoInsights is the report for an entry where no rule fired.
func NoInsights() Report {
	return Report{}
}

// Insights builds a report from rendered items. With no items it equals NoInsights.
func Insights(items ...Insight) Report {
	if len(items) == 0 {
		return NoInsights()
	}
	return Report{items: append([]Insight(nil), items...)}
}

// None reports whether no category was detected.
func (r Report) None() bool {
	return len(r.items) == 0
}

// Items returns a copy of the rendered insights.
func (r Report) Items() []Insight {
	return append([]Insight(nil), r.items...)
}

// Categories returns the detected categories in order.
func (r Report) Categories() []Category {
	out := make([]Category, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, it.Category)
	}
	return out
}
