// Package dataset loads labeled image datasets from disk and prepares them
// for training: enumeration, splitting and label encoding.
package dataset

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-errors/errors"
)

// Extensions the loader's registered decoders can actually handle.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// ListImages walks root and returns the paths of every recognizable image
// beneath it, sorted. It is an error for root to be missing or to contain no
// images.
func ListImages(root string) ([]string, error) {
	var paths []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if imageExtensions[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	if len(paths) == 0 {
		return nil, errors.Errorf("no images found in %s", root)
	}
	sort.Strings(paths)
	return paths, nil
}

// Label derives the class label of an image path from the name of its
// immediate parent directory.
func Label(path string) string {
	return filepath.Base(filepath.Dir(path))
}

// ClassNames returns the unique, string-sorted set of labels occurring in a
// list of image paths. This set is discovered once, before any encoding, and
// downstream stages consume it by reference rather than re-deriving it.
func ClassNames(paths []string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, p := range paths {
		l := Label(p)
		if !seen[l] {
			seen[l] = true
			names = append(names, l)
		}
	}
	sort.Strings(names)
	return names
}
