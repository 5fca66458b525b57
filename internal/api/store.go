package api

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/samcharles93/carshape/pkg/problem"
)

type storeKey struct {
	path    string
	variant problem.Variant
}

type storeEntry struct {
	p       *problem.Problem
	modTime time.Time
	size    int64
}

// ProblemStore caches loaded problems per (path, variant) and reloads when
// the file changes on disk. Replaced problems are dropped, never closed;
// earlier callers may still hold them.
type ProblemStore struct {
	mu      sync.Mutex
	entries map[storeKey]*storeEntry
	opts    []problem.Option
}

// NewProblemStore returns an empty store that loads with opts.
func NewProblemStore(opts ...problem.Option) *ProblemStore {
	return &ProblemStore{entries: make(map[storeKey]*storeEntry), opts: opts}
}

// Get returns a cached problem or loads it. Callers must not mutate the
// returned problem's parameter blocks; the store shares it between requests.
func (s *ProblemStore) Get(ctx context.Context, path string, v problem.Variant) (*problem.Problem, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	key := storeKey{path: path, variant: v}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		if e.modTime.Equal(st.ModTime()) && e.size == st.Size() {
			return e.p, nil
		}
		delete(s.entries, key)
	}

	l, err := problem.NewLoader(v, s.opts...)
	if err != nil {
		return nil, err
	}
	p, err := l.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	s.entries[key] = &storeEntry{p: p, modTime: st.ModTime(), size: st.Size()}
	return p, nil
}

// Len is the number of cached problems.
func (s *ProblemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close empties the cache. Problems already handed out stay valid.
func (s *ProblemStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.entries)
	return nil
}
