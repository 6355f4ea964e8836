package journal

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Image is a journal page ready to send to a transcription model.
type Image struct {
	Path      string
	MediaType string
	Data      []byte
}

var imageExts = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// IsImagePath reports whether path has a supported image extension.
func IsImagePath(path string) bool {
	_, ok := imageExts[strings.ToLower(filepath.Ext(path))]
	return ok
}

// LoadImage reads an image file and determines its media type from content,
// falling back to the file extension.
func LoadImage(path string) (Image, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("read image: %w", err)
	}
	if len(b) == 0 {
		return Image{}, fmt.Errorf("read image: %s is empty", path)
	}
	mt := http.DetectContentType(b)
	if !strings.HasPrefix(mt, "image/") {
		ext, ok := imageExts[strings.ToLower(filepath.Ext(path))]
		if !ok {
			return Image{}, fmt.Errorf("unsupported image type %q: %s", mt, path)
		}
		mt = ext
	}
	return Image{Path: path, MediaType: mt, Data: b}, nil
}
