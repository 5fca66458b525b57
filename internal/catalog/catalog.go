package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	ErrNotFound    = errors.New("catalog: problem not found")
	ErrInvalidName = errors.New("catalog: invalid problem name")
)

// Extensions recognised as problem files.
var Extensions = []string{".txt", ".prob", ".problem"}

// Entry is one problem file in a catalog directory.
type Entry struct {
	Name string `json:"name"`
	Path string `json:"-"`
	Size int64  `json:"size"`
}

func isProblemFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Discover lists the problem files directly inside dir, sorted by name.
func Discover(dir string) ([]Entry, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("catalog: problems directory is empty")
	}
	st, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("catalog: not a directory: %s", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() || !isProblemFile(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Entry{Name: e.Name(), Path: filepath.Join(dir, e.Name()), Size: info.Size()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Resolve maps a catalog name to a path inside dir. Names are plain file
// names; anything that would leave dir is rejected.
func Resolve(dir, name string) (Entry, error) {
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) ||
		strings.ContainsAny(name, `/\`) || !isProblemFile(name) {
		return Entry{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	path := filepath.Join(dir, name)
	st, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return Entry{}, err
	}
	if st.IsDir() {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return Entry{Name: name, Path: path, Size: st.Size()}, nil
}

// FormatSize renders a byte count for listings.
func FormatSize(bytes int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)
	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(gb))
	case bytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(mb))
	case bytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
