package insight

import "strings"

// ReportThreshold is the minimum probability for an emotion to be mentioned.
// It controls what is reported, not what is detected.
const ReportThreshold = 0.3

const noThemesClause = "No significant themes were detected. "

// Compose assembles the emotion clause, theme clause and insight sentences.
func Compose(emotions EmotionDistribution, report Report) string {
	var b strings.Builder
	b.WriteString("Emotions of ")
	b.WriteString(FormatList(labelStrings(emotions.AtLeast(ReportThreshold))))
	b.WriteString(" are detected. ")

	if report.None() {
		b.WriteString(noThemesClause)
		return b.String()
	}

	names := make([]string, 0, len(report.items))
	texts := make([]string, 0, len(report.items))
	for _, it := range report.items {
		names = append(names, string(it.Category))
		texts = append(texts, it.Text)
	}
	b.WriteString("Themes of ")
	b.WriteString(FormatList(names))
	b.WriteString(" are detected. ")
	b.WriteString(strings.Join(texts, " "))
	return b.String()
}
