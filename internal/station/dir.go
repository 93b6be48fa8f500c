package station

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// DirSource reads station files from a local directory (not recursive).
type DirSource struct {
	dir     string
	pattern string
}

func NewDirSource(dir, pattern string) (*DirSource, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("opening station directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("station location %s is not a directory", dir)
	}

	return &DirSource{dir: dir, pattern: pattern}, nil
}

func (s *DirSource) Location() string {
	return s.dir
}

func (s *DirSource) List(_ context.Context) ([]File, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.dir, err)
	}

	var files []File
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ok, _ := filepath.Match(s.pattern, entry.Name()); !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("reading file info for %s: %w", entry.Name(), err)
		}
		files = append(files, File{
			Name:    entry.Name(),
			Path:    filepath.Join(s.dir, entry.Name()),
			Version: fmt.Sprintf("%d-%d", info.ModTime().UnixNano(), info.Size()),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

func (s *DirSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.dir, name))
}
