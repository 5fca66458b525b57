package problem

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counter replays the read order of a variant and yields the value each
// element must hold in a sequentialText file.
type counter struct{ n float64 }

func (c *counter) next() float64 {
	v := c.n
	c.n++
	return v
}

func loadSequential(t *testing.T, v Variant, d Dimensions, opts ...Option) *Problem {
	t.Helper()
	s := mustSchema(t, v)
	path := writeProblemFile(t, sequentialText(d, s.Elements(d)))
	l, err := NewLoader(v, opts...)
	require.NoError(t, err)
	p, err := l.LoadFile(context.Background(), path)
	require.NoError(t, err)
	return p
}

// checkSingleViewBody walks the shared body of the two single-view grammars
// in file order and returns the counter positioned after λ.
func checkSingleViewBody(t *testing.T, p *Problem) *counter {
	t.Helper()
	d := p.Dims()
	c := &counter{}
	for i := 0; i < 3; i++ {
		require.Equal(t, c.next(), p.CarCenter()[CenterIndex(p.Variant(), d, 0, i)])
	}
	assert.Equal(t, c.next(), p.Height())
	assert.Equal(t, c.next(), p.Width())
	assert.Equal(t, c.next(), p.Length())
	for v := 0; v < d.Views; v++ {
		for r := 0; r < 3; r++ {
			for col := 0; col < 3; col++ {
				require.Equal(t, c.next(), p.Intrinsics()[IntrinsicsIndex(p.Variant(), d, v, r, col)])
			}
		}
	}
	for j := 0; j < d.Observations; j++ {
		for k := 0; k < 2; k++ {
			require.Equal(t, c.next(), p.Observations()[ObservationIndex(p.Variant(), d, 0, j, k)])
		}
	}
	for j := 0; j < d.Observations; j++ {
		require.Equal(t, c.next(), p.ObservationWeights()[WeightIndex(p.Variant(), d, 0, j)])
	}
	for j := 0; j < d.Observations; j++ {
		for k := 0; k < 3; k++ {
			require.Equal(t, c.next(), p.MeanShape()[MeanShapeIndex(p.Variant(), d, 0, j, k)])
		}
	}
	for b := 0; b < NumBasis; b++ {
		for k := 0; k < d.Points; k++ {
			for coord := 0; coord < 3; coord++ {
				require.Equal(t, c.next(), p.Basis()[BasisIndex(p.Variant(), d, 0, b, k, coord)])
			}
		}
	}
	for b := 0; b < NumBasis; b++ {
		require.Equal(t, c.next(), p.ShapeCoefficients().Values()[b])
	}
	return c
}

func TestLoadPoseOnlyScenarioA(t *testing.T) {
	t.Parallel()

	p := loadSequential(t, PoseOnly, scenarioSingle)
	assert.Len(t, p.Intrinsics(), 9)
	assert.Len(t, p.Observations(), 20)
	assert.Len(t, p.ObservationWeights(), 10)
	assert.Len(t, p.MeanShape(), 30)
	assert.Len(t, p.Basis(), 1764)
	assert.Equal(t, 42, p.ShapeCoefficients().Len())
	assert.False(t, p.HasPose())
	assert.Nil(t, p.Rotations())
	assert.Nil(t, p.Translations())

	c := checkSingleViewBody(t, p)
	assert.Equal(t, float64(6+1875), c.n)

	_, err := p.Rotation(0)
	assert.Error(t, err)
	assert.Len(t, p.ParameterBlocks(), 1)
}

func TestLoadShapePoseScenarioB(t *testing.T) {
	t.Parallel()

	p := loadSequential(t, ShapePose, scenarioSingle)
	require.True(t, p.HasPose())
	d := p.Dims()
	c := checkSingleViewBody(t, p)
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			require.Equal(t, c.next(), p.Rotations()[RotationIndex(p.Variant(), d, 0, row, col)])
		}
	}
	for i := 0; i < 3; i++ {
		require.Equal(t, c.next(), p.Translations()[TranslationIndex(p.Variant(), d, 0, i)])
	}
	assert.Equal(t, float64(6+1887), c.n)

	rot, err := p.Rotation(0)
	require.NoError(t, err)
	assert.Equal(t, "rotation", rot.Name())
	assert.Equal(t, -1, rot.View())
}

func TestLoadMultiViewScenarioC(t *testing.T) {
	t.Parallel()

	p := loadSequential(t, MultiView, scenarioMulti)
	d := p.Dims()
	c := &counter{}

	assert.Equal(t, c.next(), p.Height())
	assert.Equal(t, c.next(), p.Width())
	assert.Equal(t, c.next(), p.Length())
	for r := 0; r < 3; r++ {
		for col := 0; col < 3; col++ {
			require.Equal(t, c.next(), p.Intrinsics()[IntrinsicsIndex(MultiView, d, 1, r, col)])
		}
	}
	for v := 0; v < d.Views; v++ {
		for i := 0; i < 3; i++ {
			require.Equal(t, c.next(), p.CarCenter()[CenterIndex(MultiView, d, v, i)])
		}
	}
	for v := 0; v < d.Views; v++ {
		for j := 0; j < d.Observations; j++ {
			for k := 0; k < 2; k++ {
				require.Equal(t, c.next(), p.Observations()[ObservationIndex(MultiView, d, v, j, k)])
			}
		}
	}
	for v := 0; v < d.Views; v++ {
		for j := 0; j < d.Observations; j++ {
			require.Equal(t, c.next(), p.ObservationWeights()[WeightIndex(MultiView, d, v, j)])
		}
	}
	for v := 0; v < d.Views; v++ {
		for j := 0; j < d.Observations; j++ {
			for k := 0; k < 3; k++ {
				require.Equal(t, c.next(), p.MeanShape()[MeanShapeIndex(MultiView, d, v, j, k)])
			}
		}
	}
	for v := 0; v < d.Views; v++ {
		for b := 0; b < NumBasis; b++ {
			for k := 0; k < d.Points; k++ {
				for coord := 0; coord < 3; coord++ {
					require.Equal(t, c.next(), p.Basis()[BasisIndex(MultiView, d, v, b, k, coord)])
				}
			}
		}
	}
	for b := 0; b < NumBasis; b++ {
		require.Equal(t, c.next(), p.ShapeCoefficients().Values()[b])
	}
	for v := 0; v < d.Views; v++ {
		for col := 0; col < 3; col++ {
			for row := 0; row < 3; row++ {
				require.Equal(t, c.next(), p.Rotations()[RotationIndex(MultiView, d, v, row, col)])
			}
		}
	}
	for v := 0; v < d.Views; v++ {
		for i := 0; i < 3; i++ {
			require.Equal(t, c.next(), p.Translations()[TranslationIndex(MultiView, d, v, i)])
		}
	}
	assert.Equal(t, float64(mustSchema(t, MultiView).Elements(d)), c.n)

	assert.Len(t, p.Intrinsics(), 9)
	assert.Len(t, p.CarCenter(), 6)
	assert.Len(t, p.Observations(), 40)
	assert.Len(t, p.ObservationWeights(), 20)
	assert.Len(t, p.MeanShape(), 60)
	assert.Len(t, p.Basis(), 3528)
	assert.Len(t, p.Rotations(), 18)
	assert.Len(t, p.Translations(), 6)

	names := make([]string, 0)
	for _, b := range p.ParameterBlocks() {
		names = append(names, b.Name())
	}
	assert.Equal(t, []string{"shape_coefficients", "rotation/0", "rotation/1", "translation/0", "translation/1"}, names)
}

func TestLoadZeroDimensions(t *testing.T) {
	t.Parallel()

	for _, v := range []Variant{PoseOnly, ShapePose, MultiView} {
		p := loadSequential(t, v, Dimensions{})
		l := p.Layout()
		for _, f := range l.Fields {
			assert.Len(t, p.Buffer(entityByName(t, f.Name)), f.Len, "%s %s", v, f.Name)
		}
	}
}

func entityByName(t *testing.T, name string) Entity {
	t.Helper()
	for e := Entity(0); e < numEntities; e++ {
		if e.String() == name {
			return e
		}
	}
	t.Fatalf("unknown entity %q", name)
	return 0
}

func TestLoadTruncatedFails(t *testing.T) {
	t.Parallel()

	d := Dimensions{Views: 2, Points: 1, Observations: 1}
	for _, v := range []Variant{PoseOnly, ShapePose, MultiView} {
		s := mustSchema(t, v)
		tokens := strings.Fields(sequentialText(d, s.Elements(d)))
		require.Len(t, tokens, s.TokenCount(d))

		l, err := NewLoader(v)
		require.NoError(t, err)

		full, err := l.Parse(context.Background(), []byte(strings.Join(tokens, " ")))
		require.NoError(t, err)
		require.NotNil(t, full)

		for cut := 0; cut < len(tokens); cut++ {
			p, err := l.Parse(context.Background(), []byte(strings.Join(tokens[:cut], " ")))
			require.Error(t, err, "%s cut=%d", v, cut)
			require.Nil(t, p)
			require.ErrorIs(t, err, ErrUnexpectedEOF)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.True(t, strings.HasPrefix(pe.Error(), "invalid data file"))
		}
	}
}

func TestLoadReportsFailingField(t *testing.T) {
	t.Parallel()

	d := Dimensions{Views: 2, Points: 1, Observations: 2}
	s := mustSchema(t, MultiView)
	tokens := strings.Fields(sequentialText(d, s.Elements(d)))

	obs, ok := LayoutOf(s, d).Field("observations")
	require.True(t, ok)
	// Second view, first observation, y component.
	bad := obs.Token + 2*d.Observations + 1
	tokens[bad] = "NaNny"

	l, err := NewLoader(MultiView)
	require.NoError(t, err)
	p, err := l.Parse(context.Background(), []byte(strings.Join(tokens, "\n")))
	require.Nil(t, p)
	require.ErrorIs(t, err, ErrInvalidToken)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	want := ParseError{Field: "observations", View: 1, Index: 1, Line: bad + 1, Token: "NaNny", Err: ErrInvalidToken}
	got := *pe
	got.Offset = 0
	if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b error) bool { return a == b })); diff != "" {
		t.Fatalf("parse error mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsNonNumericHeader(t *testing.T) {
	t.Parallel()

	l, err := NewLoader(PoseOnly)
	require.NoError(t, err)
	_, err = l.Load(context.Background(), strings.NewReader("1 fourteen 10"))
	require.ErrorIs(t, err, ErrInvalidToken)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "dims", pe.Field)
	assert.Equal(t, 1, pe.Index)
}

func TestLoadRejectsBadDimensions(t *testing.T) {
	t.Parallel()

	l, err := NewLoader(MultiView, WithLimits(Limits{MaxViews: 8}))
	require.NoError(t, err)

	_, err = l.Parse(context.Background(), []byte("-1 14 10"))
	require.ErrorIs(t, err, ErrInvalidDimensions)

	// Rejected before any block is read, so the missing body is not reported.
	_, err = l.Parse(context.Background(), []byte("9 14 10"))
	require.ErrorIs(t, err, ErrInvalidDimensions)
	assert.NotErrorIs(t, err, ErrUnexpectedEOF)
}

func TestLoadFileMissing(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nope.txt")
	for _, load := range []func(context.Context, string, ...Option) (*Problem, error){
		LoadPoseOnly, LoadShapePose, LoadMultiView,
	} {
		p, err := load(context.Background(), path)
		require.ErrorIs(t, err, ErrOpen)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.Nil(t, p)
	}
}

func TestLoadHonoursCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l, err := NewLoader(PoseOnly)
	require.NoError(t, err)
	s := mustSchema(t, PoseOnly)
	_, err = l.Parse(ctx, []byte(sequentialText(scenarioSingle, s.Elements(scenarioSingle))))
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoadIgnoresTrailingTokens(t *testing.T) {
	t.Parallel()

	s := mustSchema(t, ShapePose)
	text := sequentialText(scenarioSingle, s.Elements(scenarioSingle)) + "\n99 100 junk\n"
	l, err := NewLoader(ShapePose)
	require.NoError(t, err)
	p, err := l.Parse(context.Background(), []byte(text))
	require.NoError(t, err)
	assert.Equal(t, float64(s.Elements(scenarioSingle)-1), p.Translations()[2])
}

func TestLoadMmapMatchesRead(t *testing.T) {
	t.Parallel()

	mapped := loadSequential(t, MultiView, scenarioMulti, WithMmap(true))
	read := loadSequential(t, MultiView, scenarioMulti, WithMmap(false))
	for e := Entity(0); e < numEntities; e++ {
		assert.Equal(t, read.Buffer(e), mapped.Buffer(e), e.String())
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	t.Parallel()

	for _, v := range []Variant{PoseOnly, ShapePose, MultiView} {
		orig, err := Synthesize(v, Dimensions{Views: 2, Points: 3, Observations: 2}, 7)
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, orig))
		assert.Len(t, strings.Fields(buf.String()), orig.Schema().TokenCount(orig.Dims()))

		l, err := NewLoader(v)
		require.NoError(t, err)
		got, err := l.Load(context.Background(), &buf)
		require.NoError(t, err)
		assert.Equal(t, orig.Dims(), got.Dims())
		for e := Entity(0); e < numEntities; e++ {
			assert.Equal(t, orig.Buffer(e), got.Buffer(e), "%s %s", v, e)
		}
	}
}
