package fileutils

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"
)

func TestWriteJSONFileAtomic_RoundTripsThroughReadJSONFile(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "nested", "entry.insight.json")
	in := map[string]any{"id": "e1", "themes": []string{"body"}}
	if err := WriteJSONFileAtomic(p, in, true); err != nil {
		t.Fatalf("write: %v", err)
	}
	var out struct {
		ID     string   `json:"id"`
		Themes []string `json:"themes"`
	}
	if err := ReadJSONFile(p, &out); err != nil {
		t.Fatalf("read: %v", err)
	}
	if out.ID != "e1" || len(out.Themes) != 1 {
		t.Fatalf("out=%+v", out)
	}

	entries, err := os.ReadDir(filepath.Dir(p))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("leftover temp files: %v", entries)
	}
}

func TestWriteFileAtomic_KeepsBytesExact(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "speech.mp3")
	data := []byte{0x49, 0x44, 0x33, 0x00, 0xff}
	if err := WriteFileAtomic(p, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != string(data) {
		t.Fatalf("bytes=%v", b)
	}
}

func TestOutPath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	img := filepath.Join(root, "week1", "page2.png")
	if err := os.MkdirAll(filepath.Dir(img), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	got := OutPath(root, "out", img, ".insight.json")
	if want := filepath.Join("out", "week1", "page2.insight.json"); got != want {
		t.Fatalf("got=%q want=%q", got, want)
	}

	single := filepath.Join(root, "page.jpg")
	if err := os.WriteFile(single, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := OutPath(single, "out", single, ".mp3"); got != filepath.Join("out", "page.mp3") {
		t.Fatalf("single got=%q", got)
	}
}

func TestDecodeModelJSON(t *testing.T) {
	t.Parallel()

	var v struct {
		Themes []string `json:"themes"`
	}
	if err := DecodeModelJSON("Here you go:\n```json\n{\"themes\":[\"work\"]}\n```", &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(v.Themes) != 1 || v.Themes[0] != "work" {
		t.Fatalf("themes=%v", v.Themes)
	}
	if err := DecodeModelJSON("   ", &v); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("empty err=%v", err)
	}
	if err := DecodeModelJSON("no json here", &v); err == nil {
		t.Fatalf("expected error")
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := Truncate("  hello world  ", 5); got != "hello…" {
		t.Fatalf("got=%q", got)
	}
	if got := Truncate("short", 0); got != "short" {
		t.Fatalf("got=%q", got)
	}
}

func TestTruncate_KeepsMultiByteRunesWhole(t *testing.T) {
	t.Parallel()

	got := Truncate("aaaaaaaaaé rest", 10)
	if got != "aaaaaaaaa…" {
		t.Fatalf("got=%q", got)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("invalid utf-8: %q", got)
	}
	if got := Truncate("日本語のテーマ", 4); got != "日…" {
		t.Fatalf("got=%q", got)
	}
}
