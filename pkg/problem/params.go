package problem

import (
	"fmt"
	"sync"
)

// ParamBlock is a region of a problem buffer that an optimizer binds as a
// variable and updates in place. The backing array never moves while the
// owning Problem is open, so the slice returned by Values can be handed to a
// solver once and read back after it finishes.
//
// Writers coordinate through Acquire: at most one Lease is live per block.
type ParamBlock struct {
	name   string
	entity Entity
	view   int
	data   []float64

	mu     sync.Mutex
	leased bool
	closed bool
}

func newParamBlock(e Entity, view int, data []float64) *ParamBlock {
	name := e.String()
	if view >= 0 {
		name = fmt.Sprintf("%s/%d", name, view)
	}
	return &ParamBlock{name: name, entity: e, view: view, data: data}
}

// Name is "<entity>" for shared blocks and "<entity>/<view>" otherwise.
func (b *ParamBlock) Name() string { return b.name }

// Entity is the buffer the block belongs to.
func (b *ParamBlock) Entity() Entity { return b.entity }

// View is the view index, or -1 for a shared block.
func (b *ParamBlock) View() int { return b.view }

// Len is the number of doubles in the block.
func (b *ParamBlock) Len() int { return len(b.data) }

// Values returns the live backing slice. It aliases problem storage.
func (b *ParamBlock) Values() []float64 { return b.data }

// Leased reports whether a writer currently holds the block.
func (b *ParamBlock) Leased() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.leased
}

// Acquire grants exclusive write access until the lease is released.
func (b *ParamBlock) Acquire() (*Lease, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}
	if b.leased {
		return nil, fmt.Errorf("%w: %s", ErrBlockLeased, b.name)
	}
	b.leased = true
	return &Lease{block: b}, nil
}

// Snapshot copies the current values.
func (b *ParamBlock) Snapshot() []float64 {
	out := make([]float64, len(b.data))
	copy(out, b.data)
	return out
}

// Restore overwrites the block with vals. It fails if a writer holds the block.
func (b *ParamBlock) Restore(vals []float64) error {
	if len(vals) != len(b.data) {
		return fmt.Errorf("problem: restore %s: got %d values, want %d", b.name, len(vals), len(b.data))
	}
	l, err := b.Acquire()
	if err != nil {
		return err
	}
	defer l.Release()
	copy(l.Values(), vals)
	return nil
}

func (b *ParamBlock) close() {
	b.mu.Lock()
	b.closed = true
	b.data = nil
	b.mu.Unlock()
}

// Lease is a single writer's claim on a ParamBlock.
type Lease struct {
	block *ParamBlock
	once  sync.Once
}

// Values returns the same backing slice as ParamBlock.Values.
func (l *Lease) Values() []float64 { return l.block.data }

// Block returns the leased block.
func (l *Lease) Block() *ParamBlock { return l.block }

// Release gives up the lease. Calling it more than once is a no-op.
func (l *Lease) Release() {
	l.once.Do(func() {
		l.block.mu.Lock()
		l.block.leased = false
		l.block.mu.Unlock()
	})
}
