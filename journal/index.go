package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/theimaginaryfoundation/psych-extract/journal/fileutils"
)

// EntrySuffix is appended to an image's relative path to name its entry file.
const EntrySuffix = ".insight.json"

// IsEntryPath reports whether path names an entry file.
func IsEntryPath(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), EntrySuffix)
}

// CollectEntryFiles returns entry files under root in lexical order. A root
// that is itself a file is returned as-is.
func CollectEntryFiles(root string) ([]string, error) {
	fi, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !fi.IsDir() {
		return []string{root}, nil
	}

	var out []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if IsEntryPath(path) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(out)
	return out, nil
}

// ReadEntry loads an entry file.
func ReadEntry(path string) (Entry, error) {
	var e Entry
	if err := fileutils.ReadJSONFile(path, &e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// RebuildIndex rewrites indexPath with one IndexRecord per entry file under
// outDir. Unreadable entries are skipped. It returns the number of rows written.
func RebuildIndex(outDir, indexPath string, opt IndexOptions) (int, error) {
	paths, err := CollectEntryFiles(outDir)
	if err != nil {
		return 0, fmt.Errorf("reindex: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(indexPath), 0o755); err != nil {
		return 0, err
	}
	f, err := os.OpenFile(indexPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	w := bufio.NewWriterSize(f, 1<<20)

	n := 0
	for _, p := range paths {
		e, err := ReadEntry(p)
		if err != nil {
			continue
		}
		line, err := json.Marshal(BuildIndexRecord(e, p, opt))
		if err != nil {
			continue
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return n, err
		}
		n++
	}
	if err := w.Flush(); err != nil {
		return n, err
	}
	return n, nil
}
