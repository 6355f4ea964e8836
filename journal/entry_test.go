package journal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/theimaginaryfoundation/psych-extract/insight"
)

func TestNormalizeThemes(t *testing.T) {
	t.Parallel()

	got := NormalizeThemes([]string{" Work ", "work", "", "family", "  ", "Family", "sleep"})
	want := []string{"Work", "family", "sleep"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got=%v want=%v", got, want)
	}
	if NormalizeThemes(nil) != nil {
		t.Fatalf("nil input should stay nil")
	}
}

func TestBuildIndexRecord(t *testing.T) {
	t.Parallel()

	e := Entry{
		ID:         "e1",
		Source:     "p.png",
		Emotions:   scores(map[insight.Emotion]float64{insight.Joy: 0.5, insight.Anger: 0.3, insight.Fear: 0.29}),
		Themes:     []string{"a", "b", "c"},
		Categories: []insight.Category{insight.SelfRelation},
		Insight:    "  Emotions of anger and joy are detected.  ",
	}
	rec := BuildIndexRecord(e, "out/p.insight.json", IndexOptions{InsightMaxChars: 9, ThemesMax: 2})
	if !reflect.DeepEqual(rec.Emotions, []insight.Emotion{insight.Anger, insight.Joy}) {
		t.Fatalf("Emotions=%v", rec.Emotions)
	}
	if !reflect.DeepEqual(rec.Themes, []string{"a", "b"}) {
		t.Fatalf("Themes=%v", rec.Themes)
	}
	if rec.Insight != "Emotions …" {
		t.Fatalf("Insight=%q", rec.Insight)
	}
	if rec.EntryPath != "out/p.insight.json" {
		t.Fatalf("EntryPath=%q", rec.EntryPath)
	}
}

func TestBuildIndexRecord_TruncatesOnRuneBoundary(t *testing.T) {
	t.Parallel()

	e := Entry{ID: "e", Emotions: insight.ZeroDistribution(), Insight: "aaaaaaaaaé rest"}
	rec := BuildIndexRecord(e, "e.insight.json", IndexOptions{InsightMaxChars: 10})
	if !utf8.ValidString(rec.Insight) {
		t.Fatalf("insight=%q is not valid utf-8", rec.Insight)
	}
	b, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), `\ufffd`) {
		t.Fatalf("json=%s", b)
	}
}

func TestValidateDistribution(t *testing.T) {
	t.Parallel()

	if err := ValidateDistribution(insight.ZeroDistribution()); err != nil {
		t.Fatalf("zero distribution: %v", err)
	}
}

func TestLoadImage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	png := filepath.Join(dir, "page.png")
	// PNG signature followed by padding.
	data := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 16)...)
	if err := os.WriteFile(png, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	img, err := LoadImage(png)
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if img.MediaType != "image/png" || len(img.Data) != len(data) {
		t.Fatalf("img=%s %d", img.MediaType, len(img.Data))
	}

	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadImage(txt); err == nil {
		t.Fatalf("expected error for non-image")
	}
	if !IsImagePath("A.JPEG") || IsImagePath("a.json") {
		t.Fatalf("IsImagePath mismatch")
	}
}
