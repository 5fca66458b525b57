package problem

import (
	"math/rand"
)

// Synthesize builds a problem with deterministic contents for the given
// seed: plausible intrinsics, unit weights, small basis entries and
// identity rotations. It is meant for fixtures and smoke tests.
func Synthesize(v Variant, d Dimensions, seed int64) (*Problem, error) {
	s, err := SchemaFor(v)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(d, DefaultLimits()); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	p := newProblem(s, d)

	for i := range p.bufs[EntityCenter] {
		p.bufs[EntityCenter][i] = rng.NormFloat64() * 5
	}
	copy(p.bufs[EntitySize], []float64{1.5, 1.8, 4.2})
	k := p.bufs[EntityIntrinsics]
	for off := 0; off+9 <= len(k); off += 9 {
		f := 700 + rng.Float64()*100
		copy(k[off:off+9], []float64{f, 0, 640, 0, f, 360, 0, 0, 1})
	}
	for i := range p.bufs[EntityObservations] {
		p.bufs[EntityObservations][i] = rng.Float64() * 1280
	}
	for i := range p.bufs[EntityWeights] {
		p.bufs[EntityWeights][i] = 1
	}
	for i := range p.bufs[EntityMeanShape] {
		p.bufs[EntityMeanShape][i] = rng.NormFloat64()
	}
	for i := range p.bufs[EntityBasis] {
		p.bufs[EntityBasis][i] = rng.NormFloat64() * 0.1
	}
	for _, r := range p.rotations {
		copy(r.Values(), []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	}
	for _, t := range p.translations {
		vals := t.Values()
		vals[0], vals[1], vals[2] = rng.NormFloat64(), rng.NormFloat64(), 10+rng.Float64()*20
	}
	return p, nil
}
