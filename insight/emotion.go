package insight

import (
	"fmt"
)

// Emotion is one label of the multi-label emotion classifier.
type Emotion string

const (
	Anger        Emotion = "anger"
	Anticipation Emotion = "anticipation"
	Disgust      Emotion = "disgust"
	Fear         Emotion = "fear"
	Joy          Emotion = "joy"
	Love         Emotion = "love"
	Optimism     Emotion = "optimism"
	Pessimism    Emotion = "pessimism"
	Sadness      Emotion = "sadness"
	Surprise     Emotion = "surprise"
	Trust        Emotion = "trust"
)

var emotions = []Emotion{
	Anger, Anticipation, Disgust, Fear, Joy, Love,
	Optimism, Pessimism, Sadness, Surprise, Trust,
}

// Emotions returns the closed label set in classifier output order.
func Emotions() []Emotion {
	return append([]Emotion(nil), emotions...)
}

// Known reports whether e is one of the eleven classifier labels.
func (e Emotion) Known() bool {
	for _, k := range emotions {
		if k == e {
			return true
		}
	}
	return false
}

// EmotionDistribution maps labels to independent probabilities in [0,1].
// Values do not need to sum to 1.
type EmotionDistribution map[Emotion]float64

// Score returns the probability for e, or an error wrapping ErrMissingEmotion.
func (d EmotionDistribution) Score(e Emotion) (float64, error) {
	v, ok := d[e]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMissingEmotion, string(e))
	}
	return v, nil
}

// AtLeast returns the labels scoring >= threshold, in canonical label order.
func (d EmotionDistribution) AtLeast(threshold float64) []Emotion {
	var out []Emotion
	for _, e := range emotions {
		if v, ok := d[e]; ok && v >= threshold {
			out = append(out, e)
		}
	}
	return out
}

// ZeroDistribution returns a distribution with every label present at 0.
func ZeroDistribution() EmotionDistribution {
	d := make(EmotionDistribution, len(emotions))
	for _, e := range emotions {
		d[e] = 0
	}
	return d
}

func labelStrings(in []Emotion) []string {
	out := make([]string, 0, len(in))
	for _, e := range in {
		out = append(out, string(e))
	}
	return out
}
