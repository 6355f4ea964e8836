package provider

import "testing"

func TestGenerateSchema_EmotionScoresStrict(t *testing.T) {
	t.Parallel()

	s := GenerateSchema[emotionScores]()
	if s["type"] != "object" {
		t.Fatalf("type=%v", s["type"])
	}
	if s["additionalProperties"] != false {
		t.Fatalf("additionalProperties=%v", s["additionalProperties"])
	}
	props, ok := s["properties"].(map[string]interface{})
	if !ok || len(props) != 11 {
		t.Fatalf("properties=%v", s["properties"])
	}
	req, ok := s["required"].([]string)
	if !ok || len(req) != 11 {
		t.Fatalf("required=%v", s["required"])
	}
}

func TestGenerateSchema_ThemesArray(t *testing.T) {
	t.Parallel()

	s := GenerateSchema[themesResponse]()
	props := s["properties"].(map[string]interface{})
	themes, ok := props["themes"].(map[string]interface{})
	if !ok || themes["type"] != "array" {
		t.Fatalf("themes=%v", props["themes"])
	}
}

func TestGenerateSchema_RequiredIsSortedAndCoversEveryLabel(t *testing.T) {
	t.Parallel()

	req := GenerateSchema[emotionScores]()["required"].([]string)
	want := []string{"anger", "anticipation", "disgust", "fear", "joy", "love", "optimism", "pessimism", "sadness", "surprise", "trust"}
	if len(req) != len(want) {
		t.Fatalf("required=%v", req)
	}
	for i := range want {
		if req[i] != want[i] {
			t.Fatalf("required=%v, want %v", req, want)
		}
	}
}
