package problem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrixViewsShareStorage(t *testing.T) {
	t.Parallel()

	p := loadSequential(t, MultiView, scenarioMulti)
	d := p.Dims()

	k, err := p.IntrinsicsMatrix(1)
	require.NoError(t, err)
	assert.Equal(t, p.Intrinsics()[IntrinsicsIndex(MultiView, d, 1, 0, 2)], k.At(0, 2))
	k.Set(1, 1, -5)
	assert.Equal(t, -5.0, p.Intrinsics()[4])

	r, err := p.RotationMatrix(1)
	require.NoError(t, err)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			assert.Equal(t, p.Rotations()[RotationIndex(MultiView, d, 1, row, col)], r.At(row, col))
		}
	}

	tv, err := p.TranslationVector(1)
	require.NoError(t, err)
	tv.SetVec(2, 123)
	assert.Equal(t, 123.0, p.Translations()[TranslationIndex(MultiView, d, 1, 2)])

	obs, err := p.ObservationMatrix(1)
	require.NoError(t, err)
	rows, cols := obs.Dims()
	assert.Equal(t, d.Observations, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, p.Observations()[ObservationIndex(MultiView, d, 1, 3, 1)], obs.At(3, 1))

	xbar, err := p.MeanShapeMatrix(0)
	require.NoError(t, err)
	assert.Equal(t, p.MeanShape()[MeanShapeIndex(MultiView, d, 0, 9, 2)], xbar.At(9, 2))

	w, err := p.WeightVector(1)
	require.NoError(t, err)
	assert.Equal(t, p.ObservationWeights()[WeightIndex(MultiView, d, 1, 4)], w.AtVec(4))

	basis, err := p.BasisMatrix(1, 41)
	require.NoError(t, err)
	assert.Equal(t, p.Basis()[BasisIndex(MultiView, d, 1, 41, 13, 0)], basis.At(13, 0))

	lambda := p.CoefficientVector()
	lambda.SetVec(0, 0.5)
	assert.Equal(t, 0.5, p.ShapeCoefficients().Values()[0])
}

func TestSingleViewMatrixViews(t *testing.T) {
	t.Parallel()

	p := loadSequential(t, PoseOnly, Dimensions{Views: 2, Points: 2, Observations: 1})
	k1, err := p.IntrinsicsMatrix(1)
	require.NoError(t, err)
	assert.Equal(t, p.Intrinsics()[9], k1.At(0, 0))

	_, err = p.IntrinsicsMatrix(2)
	assert.Error(t, err)
	_, err = p.RotationMatrix(0)
	assert.Error(t, err)
	_, err = p.BasisMatrix(0, NumBasis)
	assert.Error(t, err)

	// Shared single-view blocks answer for every declared view.
	obs0, err := p.View(EntityObservations, 0)
	require.NoError(t, err)
	obs1, err := p.View(EntityObservations, 1)
	require.NoError(t, err)
	assert.Same(t, &obs0[0], &obs1[0])
}
