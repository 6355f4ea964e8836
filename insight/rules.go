package insight

// Category is a named psychological pattern the rule engine can detect.
type Category string

const (
	EmotionalLoad    Category = "Emotional Load"
	EmotionalClarity Category = "Emotional Clarity against Ambiguity"
	RegulationCoping Category = "Regulation and Coping Mode"
	ArousalRestless  Category = "Arousal or Restlessness Level"
	SelfRelation     Category = "Self-Relation and Appraisal"
)

var categories = []Category{
	EmotionalLoad,
	EmotionalClarity,
	RegulationCoping,
	ArousalRestless,
	SelfRelation,
}

// Categories returns every category in rule evaluation order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// Known reports whether c is one of the five categories.
func (c Category) Known() bool {
	for _, k := range categories {
		if k == c {
			return true
		}
	}
	return false
}

const (
	// LoadThreshold is compared against the mean of sadness, fear and pessimism.
	LoadThreshold = 0.6
	// ArousalThreshold is compared against the sum of fear and anger.
	ArousalThreshold = 0.6
)

// Rules evaluates the fixed, ordered insight rules against an entry.
type Rules struct {
	Lexicon Lexicon
}

// Detect returns the categories triggered by text and emotions, in rule order.
// Any subset may trigger, including none.
func (r Rules) Detect(text string, emotions EmotionDistribution) ([]Category, error) {
	sadness, err := emotions.Score(Sadness)
	if err != nil {
		return nil, err
	}
	fear, err := emotions.Score(Fear)
	if err != nil {
		return nil, err
	}
	pessimism, err := emotions.Score(Pessimism)
	if err != nil {
		return nil, err
	}
	anger, err := emotions.Score(Anger)
	if err != nil {
		return nil, err
	}

	var out []Category
	if (sadness+fear+pessimism)/3 > LoadThreshold {
		out = append(out, EmotionalLoad)
	}
	if CountMatches(text, r.Lexicon.Uncertainty) >= 1 {
		out = append(out, EmotionalClarity)
	}
	if ContainsAny(text, r.Lexicon.Coping) {
		out = append(out, RegulationCoping)
	}
	// Sum, not mean: arousal uses a different aggregate than load.
	if fear+anger > ArousalThreshold || ContainsAny(text, r.Lexicon.Somatic) {
		out = append(out, ArousalRestless)
	}
	if ContainsAny(text, r.Lexicon.SelfReflective) {
		out = append(out, SelfRelation)
	}
	return out, nil
}
