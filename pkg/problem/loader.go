package problem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
)

// Logger is the subset of a structured logger the loader writes to.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}

// Loader reads problem files of one variant.
type Loader struct {
	variant Variant
	schema  Schema
	limits  Limits
	log     Logger
	mmap    bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithLimits overrides DefaultLimits. Zero fields keep their default.
func WithLimits(l Limits) Option {
	return func(ld *Loader) { ld.limits = l.withDefaults() }
}

// WithLogger routes load diagnostics to log. A nil log keeps the discard logger.
func WithLogger(log Logger) Option {
	return func(ld *Loader) {
		if log != nil {
			ld.log = log
		}
	}
}

// WithMmap toggles memory-mapping of input files (on by default).
func WithMmap(enabled bool) Option {
	return func(ld *Loader) { ld.mmap = enabled }
}

// NewLoader returns a loader for variant v.
func NewLoader(v Variant, opts ...Option) (*Loader, error) {
	s, err := SchemaFor(v)
	if err != nil {
		return nil, err
	}
	ld := &Loader{
		variant: v,
		schema:  s,
		limits:  DefaultLimits(),
		log:     nopLogger{},
		mmap:    true,
	}
	for _, opt := range opts {
		opt(ld)
	}
	return ld, nil
}

// Variant is the grammar the loader reads.
func (l *Loader) Variant() Variant { return l.variant }

// LoadFile opens and parses a problem file. A file that cannot be opened
// yields an error wrapping ErrOpen and allocates nothing; any grammar failure
// yields a *ParseError and no Problem.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer func() { _ = f.Close() }()

	var (
		data    []byte
		release func() error
	)
	if l.mmap {
		data, release, err = mapFile(f)
	} else {
		data, release, err = readAll(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer func() { _ = release() }()

	return l.parse(ctx, data, path)
}

// Load parses a problem from r.
func (l *Loader) Load(ctx context.Context, r io.Reader) (*Problem, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return l.parse(ctx, data, "")
}

// Parse parses an in-memory problem. The returned Problem does not retain data.
func (l *Loader) Parse(ctx context.Context, data []byte) (*Problem, error) {
	return l.parse(ctx, data, "")
}

func (l *Loader) parse(ctx context.Context, data []byte, source string) (*Problem, error) {
	log := l.log
	id := uuid.NewString()
	log.Debug("loading problem", "load_id", id, "variant", l.variant.String(), "source", source, "bytes", len(data))

	sc := NewScanner(data)
	var dims [3]int
	for i := range dims {
		v, err := sc.ReadInt()
		if err != nil {
			return nil, fieldError("dims", -1, i, sc, err)
		}
		dims[i] = v
	}
	d := Dimensions{Views: dims[0], Points: dims[1], Observations: dims[2]}
	if err := l.schema.Validate(d, l.limits); err != nil {
		return nil, fieldError("dims", -1, 0, sc, err)
	}
	if d.Observations > d.Points {
		log.Warn("more observations than keypoints", "load_id", id, "observations", d.Observations, "points", d.Points)
	}

	p := newProblem(l.schema, d)
	for _, f := range l.schema.Fields {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		buf := p.bufs[f.Entity]
		n := f.Block(d)
		for blk := 0; blk < f.Blocks(d); blk++ {
			got, err := sc.ReadFloats(buf[blk*n : (blk+1)*n])
			if err != nil {
				view := -1
				if f.Scope == PerView {
					view = blk
				}
				return nil, fieldError(f.Name(), view, got, sc, err)
			}
		}
	}
	if sc.Remaining() {
		log.Debug("ignoring trailing data", "load_id", id, "offset", sc.Offset(), "line", sc.Line())
	}
	log.Info("problem loaded", "load_id", id, "variant", l.variant.String(), "views", d.Views,
		"points", d.Points, "observations", d.Observations)
	return p, nil
}

func fieldError(field string, view, index int, sc *Scanner, err error) *ParseError {
	pe := &ParseError{Field: field, View: view, Index: index, Offset: sc.Offset(), Line: sc.Line(), Err: err}
	var te *tokenError
	if errors.As(err, &te) {
		pe.Offset, pe.Line, pe.Token, pe.Err = te.offset, te.line, te.token, te.err
	}
	return pe
}

func readAll(f *os.File) ([]byte, func() error, error) {
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, err
	}
	return data, func() error { return nil }, nil
}

// LoadPoseOnly loads a single-view problem without a pose prior.
func LoadPoseOnly(ctx context.Context, path string, opts ...Option) (*Problem, error) {
	return loadVariant(ctx, PoseOnly, path, opts)
}

// LoadShapePose loads a single-view problem with a rotation/translation prior.
func LoadShapePose(ctx context.Context, path string, opts ...Option) (*Problem, error) {
	return loadVariant(ctx, ShapePose, path, opts)
}

// LoadMultiView loads a multi-view shape and pose problem.
func LoadMultiView(ctx context.Context, path string, opts ...Option) (*Problem, error) {
	return loadVariant(ctx, MultiView, path, opts)
}

func loadVariant(ctx context.Context, v Variant, path string, opts []Option) (*Problem, error) {
	l, err := NewLoader(v, opts...)
	if err != nil {
		return nil, err
	}
	return l.LoadFile(ctx, path)
}
