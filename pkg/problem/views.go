package problem

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix views share storage with the problem: writes through a view land in
// the problem buffers and therefore in anything bound to them.

// IntrinsicsMatrix returns K for view v as a 3×3 matrix.
func (p *Problem) IntrinsicsMatrix(v int) (*mat.Dense, error) {
	k, err := p.View(EntityIntrinsics, v)
	if err != nil {
		return nil, err
	}
	return mat.NewDense(3, 3, k), nil
}

// RotationMatrix returns R for view v. Storage is column-major, so the
// result is the transpose view of a row-major Dense over the same slice.
func (p *Problem) RotationMatrix(v int) (mat.Matrix, error) {
	b, err := p.Rotation(v)
	if err != nil {
		return nil, err
	}
	return mat.NewDense(3, 3, b.Values()).T(), nil
}

func (p *Problem) TranslationVector(v int) (*mat.VecDense, error) {
	b, err := p.Translation(v)
	if err != nil {
		return nil, err
	}
	return mat.NewVecDense(3, b.Values()), nil
}

// ObservationMatrix returns the numObs×2 pixel observations of view v.
func (p *Problem) ObservationMatrix(v int) (*mat.Dense, error) {
	return p.rowsView(EntityObservations, v, 2)
}

// MeanShapeMatrix returns the numObs×3 mean keypoint locations of view v.
func (p *Problem) MeanShapeMatrix(v int) (*mat.Dense, error) {
	return p.rowsView(EntityMeanShape, v, 3)
}

// WeightVector returns the observation weights of view v.
func (p *Problem) WeightVector(v int) (*mat.VecDense, error) {
	w, err := p.View(EntityWeights, v)
	if err != nil {
		return nil, err
	}
	if len(w) == 0 {
		return nil, fmt.Errorf("problem: view %d has no observations", v)
	}
	return mat.NewVecDense(len(w), w), nil
}

// BasisMatrix returns basis vector b of view v as a numPts×3 matrix.
func (p *Problem) BasisMatrix(v, b int) (*mat.Dense, error) {
	if b < 0 || b >= NumBasis {
		return nil, fmt.Errorf("problem: basis %d out of range [0,%d)", b, NumBasis)
	}
	if p.dims.Points == 0 {
		return nil, fmt.Errorf("problem: no keypoints")
	}
	block, err := p.View(EntityBasis, v)
	if err != nil {
		return nil, err
	}
	n := 3 * p.dims.Points
	return mat.NewDense(p.dims.Points, 3, block[b*n:(b+1)*n:(b+1)*n]), nil
}

// CoefficientVector returns λ as a vector aliasing the coefficient block.
func (p *Problem) CoefficientVector() *mat.VecDense {
	return mat.NewVecDense(NumBasis, p.coefficients.Values())
}

func (p *Problem) rowsView(e Entity, v, cols int) (*mat.Dense, error) {
	buf, err := p.View(e, v)
	if err != nil {
		return nil, err
	}
	if len(buf) == 0 {
		return nil, fmt.Errorf("problem: view %d has no observations", v)
	}
	return mat.NewDense(len(buf)/cols, cols, buf), nil
}
