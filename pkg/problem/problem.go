package problem

import "fmt"

// Problem owns every buffer of one loaded problem file. Read-only entities
// (geometry, intrinsics, observations, weights, mean shape, basis) are
// returned as the owned slices and must be treated as constants. Shape
// coefficients and poses are exposed through ParamBlocks as well.
type Problem struct {
	variant Variant
	schema  Schema
	dims    Dimensions
	bufs    [numEntities][]float64

	coefficients *ParamBlock
	rotations    []*ParamBlock
	translations []*ParamBlock
	closed       bool
}

// newProblem allocates zeroed buffers for every field of the schema.
func newProblem(s Schema, d Dimensions) *Problem {
	p := &Problem{variant: s.Variant, schema: s, dims: d}
	for _, f := range s.Fields {
		p.bufs[f.Entity] = make([]float64, f.Len(d))
	}
	p.bindParams()
	return p
}

func (p *Problem) bindParams() {
	p.coefficients = newParamBlock(EntityCoefficients, -1, p.bufs[EntityCoefficients])
	for _, e := range []Entity{EntityRotation, EntityTranslation} {
		f, ok := p.schema.Field(e)
		if !ok {
			continue
		}
		blocks := make([]*ParamBlock, 0, f.Blocks(p.dims))
		n := f.Block(p.dims)
		for v := 0; v < f.Blocks(p.dims); v++ {
			view := v
			if f.Scope == Shared {
				view = -1
			}
			blocks = append(blocks, newParamBlock(e, view, p.bufs[e][v*n:(v+1)*n:(v+1)*n]))
		}
		if e == EntityRotation {
			p.rotations = blocks
		} else {
			p.translations = blocks
		}
	}
}

func (p *Problem) Variant() Variant     { return p.variant }
func (p *Problem) Schema() Schema       { return p.schema }
func (p *Problem) Dims() Dimensions     { return p.dims }
func (p *Problem) NumViews() int        { return p.dims.Views }
func (p *Problem) NumPoints() int       { return p.dims.Points }
func (p *Problem) NumObservations() int { return p.dims.Observations }
func (p *Problem) NumBasis() int        { return NumBasis }

// HasPose reports whether the file carried a rotation/translation prior.
func (p *Problem) HasPose() bool { return p.variant != PoseOnly }

// Buffer returns the owned buffer of an entity, or nil if the variant has none.
func (p *Problem) Buffer(e Entity) []float64 {
	if e < 0 || e >= numEntities {
		return nil
	}
	return p.bufs[e]
}

// CarCenter holds 3 doubles, or 3 per view for multi-view problems.
func (p *Problem) CarCenter() []float64 { return p.bufs[EntityCenter] }

func (p *Problem) Height() float64 { return p.size(0) }
func (p *Problem) Width() float64  { return p.size(1) }
func (p *Problem) Length() float64 { return p.size(2) }

func (p *Problem) size(i int) float64 {
	if len(p.bufs[EntitySize]) != 3 {
		return 0
	}
	return p.bufs[EntitySize][i]
}

// Intrinsics holds one row-major 3×3 matrix per view, or a single shared one
// for multi-view problems.
func (p *Problem) Intrinsics() []float64 { return p.bufs[EntityIntrinsics] }

func (p *Problem) Observations() []float64       { return p.bufs[EntityObservations] }
func (p *Problem) ObservationWeights() []float64 { return p.bufs[EntityWeights] }

// MeanShape is X̄: 3 doubles per observation.
func (p *Problem) MeanShape() []float64 { return p.bufs[EntityMeanShape] }

// Basis is V: NumBasis × numPts × 3 doubles per block, basis-major.
func (p *Problem) Basis() []float64 { return p.bufs[EntityBasis] }

// ShapeCoefficients is λ, shared across views and mutated by the optimizer.
func (p *Problem) ShapeCoefficients() *ParamBlock { return p.coefficients }

// Rotations returns the column-major rotation buffer; nil for PoseOnly.
func (p *Problem) Rotations() []float64 { return p.bufs[EntityRotation] }

// Translations returns the translation buffer; nil for PoseOnly.
func (p *Problem) Translations() []float64 { return p.bufs[EntityTranslation] }

// Rotation returns the rotation parameter block of view v. Single-view
// problems hold one pose, returned for every valid v.
func (p *Problem) Rotation(v int) (*ParamBlock, error) {
	return p.pick(p.rotations, v, EntityRotation)
}

// Translation returns the translation parameter block of view v.
func (p *Problem) Translation(v int) (*ParamBlock, error) {
	return p.pick(p.translations, v, EntityTranslation)
}

func (p *Problem) pick(blocks []*ParamBlock, v int, e Entity) (*ParamBlock, error) {
	if len(blocks) == 0 {
		return nil, fmt.Errorf("problem: no %s in this variant", e)
	}
	if len(blocks) == 1 && blocks[0].View() < 0 {
		if v == 0 || (v > 0 && v < p.dims.Views) {
			return blocks[0], nil
		}
		return nil, fmt.Errorf("problem: %s view %d out of range [0,%d)", e, v, p.dims.Views)
	}
	if v < 0 || v >= len(blocks) {
		return nil, fmt.Errorf("problem: %s view %d out of range [0,%d)", e, v, len(blocks))
	}
	return blocks[v], nil
}

// ParameterBlocks lists the mutable blocks in binding order: coefficients,
// then every rotation, then every translation.
func (p *Problem) ParameterBlocks() []*ParamBlock {
	out := make([]*ParamBlock, 0, 1+len(p.rotations)+len(p.translations))
	out = append(out, p.coefficients)
	out = append(out, p.rotations...)
	out = append(out, p.translations...)
	return out
}

// View returns the block of entity e that applies to view v. Shared
// entities return their single block for every view. The result aliases
// problem storage.
func (p *Problem) View(e Entity, v int) ([]float64, error) {
	f, ok := p.schema.Field(e)
	if !ok {
		return nil, fmt.Errorf("problem: %s has no %s", p.variant, e)
	}
	if f.Scope == Shared && v == 0 {
		return p.bufs[e], nil
	}
	if v < 0 || v >= p.dims.Views {
		return nil, fmt.Errorf("problem: view %d out of range [0,%d)", v, p.dims.Views)
	}
	if f.Scope == Shared {
		return p.bufs[e], nil
	}
	n := f.Block(p.dims)
	return p.bufs[e][v*n : (v+1)*n : (v+1)*n], nil
}

// Close drops the buffers and invalidates the parameter blocks.
func (p *Problem) Close() error {
	if p == nil || p.closed {
		return nil
	}
	for _, b := range p.ParameterBlocks() {
		b.close()
	}
	for i := range p.bufs {
		p.bufs[i] = nil
	}
	p.closed = true
	return nil
}
