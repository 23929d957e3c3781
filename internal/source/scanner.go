package source

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// imageExtensions lists recognized image file extensions.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
}

// IsImagePath reports whether path has a recognized image extension.
func IsImagePath(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// Expand turns command-line arguments into sources. Files are kept in
// argument order whatever their extension; directories are replaced by the
// images they contain, sorted by path. Paths that cannot be stat'ed are kept
// so the caller reports them alongside decode failures.
func Expand(args []string) ([]Source, error) {
	var sources []Source
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			sources = append(sources, fromPath(arg, "", info))
			continue
		}
		found, err := ScanImages(arg)
		if err != nil {
			return nil, err
		}
		sources = append(sources, found...)
	}
	return sources, nil
}

// ScanImages walks the input directory and returns all image sources.
func ScanImages(inputDir string) ([]Source, error) {
	var sources []Source

	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Skip hidden directories.
			if path != inputDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsImagePath(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		sources = append(sources, fromPath(path, inputDir, info))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Path < sources[j].Path
	})
	return sources, nil
}

func fromPath(path, root string, info fs.FileInfo) Source {
	ext := strings.ToLower(filepath.Ext(path))

	// Key: path relative to the scanned directory, forward slashes.
	key := path
	if root != "" {
		if rel, err := filepath.Rel(root, path); err == nil {
			key = rel
		}
	}
	key = filepath.ToSlash(key)

	// Normalize format name.
	format := strings.TrimPrefix(ext, ".")
	switch format {
	case "jpg":
		format = "jpeg"
	case "tif":
		format = "tiff"
	}

	var size int64
	if info != nil {
		size = info.Size()
	}
	return Source{Path: path, Key: key, Format: format, Size: size}
}
