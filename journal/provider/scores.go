package provider

import (
	"strings"

	"github.com/theimaginaryfoundation/psych-extract/insight"
	"github.com/theimaginaryfoundation/psych-extract/journal"
	"github.com/theimaginaryfoundation/psych-extract/journal/fileutils"
)

// emotionScores is the reply shape of the OpenAI classifier. The strict schema
// makes every field required, so a zero value is a real score, never a gap.
type emotionScores struct {
	Anger        float64 `json:"anger"`
	Anticipation float64 `json:"anticipation"`
	Disgust      float64 `json:"disgust"`
	Fear         float64 `json:"fear"`
	Joy          float64 `json:"joy"`
	Love         float64 `json:"love"`
	Optimism     float64 `json:"optimism"`
	Pessimism    float64 `json:"pessimism"`
	Sadness      float64 `json:"sadness"`
	Surprise     float64 `json:"surprise"`
	Trust        float64 `json:"trust"`
}

func (s emotionScores) distribution() insight.EmotionDistribution {
	return insight.EmotionDistribution{
		insight.Anger:        s.Anger,
		insight.Anticipation: s.Anticipation,
		insight.Disgust:      s.Disgust,
		insight.Fear:         s.Fear,
		insight.Joy:          s.Joy,
		insight.Love:         s.Love,
		insight.Optimism:     s.Optimism,
		insight.Pessimism:    s.Pessimism,
		insight.Sadness:      s.Sadness,
		insight.Surprise:     s.Surprise,
		insight.Trust:        s.Trust,
	}
}

// decodeDistribution parses a free-form JSON reply from a backend without
// schema enforcement. Labels are kept exactly as returned, so a reply with
// missing or unknown labels fails with journal.ErrInvalidDistribution.
func decodeDistribution(reply string) (insight.EmotionDistribution, error) {
	var raw map[string]float64
	if err := fileutils.DecodeModelJSON(reply, &raw); err != nil {
		return nil, err
	}
	d := make(insight.EmotionDistribution, len(raw))
	for k, v := range raw {
		d[insight.Emotion(strings.ToLower(strings.TrimSpace(k)))] = v
	}
	if err := journal.ValidateDistribution(d); err != nil {
		return nil, err
	}
	return d, nil
}

type themesResponse struct {
	Themes []string `json:"themes"`
}

var (
	emotionScoresSchema = GenerateSchema[emotionScores]()
	themesSchema        = GenerateSchema[themesResponse]()
)

// cleanTranscription strips role headers some vision models echo before the text.
func cleanTranscription(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.LastIndex(strings.ToLower(s), "assistant\n"); i >= 0 {
		s = s[i+len("assistant\n"):]
	}
	return strings.TrimSpace(s)
}
