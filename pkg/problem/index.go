package problem

import "fmt"

// Flat offsets into the entity buffers. Every function is a bijection from
// its argument ranges onto [0, len) of the matching buffer; arguments out of
// range panic, the same as an out-of-range slice index would.
//
// Blocks that a variant stores once (everything but the intrinsics in
// single-view problems, K and λ in multi-view ones) answer for every declared
// view: any valid v addresses the same block, matching Problem.View.

func checkRange(name string, i, n int) {
	if i < 0 || i >= n {
		panic(fmt.Sprintf("problem: %s index %d out of range [0,%d)", name, i, n))
	}
}

// sharedBlock validates v for a block stored once. View 0 is always accepted
// so shared blocks of a problem without views stay addressable.
func sharedBlock(v int, d Dimensions) int {
	if v != 0 {
		checkRange("view", v, d.Views)
	}
	return 0
}

// blockOf maps view v to the block index of a field whose scope depends on
// the variant: one block per view in multi-view problems, a single shared
// block otherwise.
func blockOf(variant Variant, d Dimensions, v int) int {
	if variant == MultiView {
		checkRange("view", v, d.Views)
		return v
	}
	return sharedBlock(v, d)
}

func checkPose(variant Variant, e Entity) {
	if variant != ShapePose && variant != MultiView {
		panic(fmt.Sprintf("problem: %s has no %s", variant, e))
	}
}

// IntrinsicsIndex locates K[r][c] of view v. Each 3×3 matrix is row-major.
// Multi-view problems share a single matrix.
func IntrinsicsIndex(variant Variant, d Dimensions, v, r, c int) int {
	checkRange("row", r, 3)
	checkRange("col", c, 3)
	if variant == MultiView {
		return 9*sharedBlock(v, d) + 3*r + c
	}
	checkRange("view", v, d.Views)
	return 9*v + 3*r + c
}

// CenterIndex locates coordinate c of the car centre for view v. Single-view
// problems hold one centre.
func CenterIndex(variant Variant, d Dimensions, v, c int) int {
	checkRange("coord", c, 3)
	return 3*blockOf(variant, d, v) + c
}

// ObservationIndex locates component k (0 = x, 1 = y) of observation j in view v.
func ObservationIndex(variant Variant, d Dimensions, v, j, k int) int {
	checkRange("observation", j, d.Observations)
	checkRange("component", k, 2)
	return blockOf(variant, d, v)*2*d.Observations + 2*j + k
}

// WeightIndex locates the weight of observation j in view v.
func WeightIndex(variant Variant, d Dimensions, v, j int) int {
	checkRange("observation", j, d.Observations)
	return blockOf(variant, d, v)*d.Observations + j
}

// MeanShapeIndex locates coordinate k of the mean 3D location of observation j.
func MeanShapeIndex(variant Variant, d Dimensions, v, j, k int) int {
	checkRange("observation", j, d.Observations)
	checkRange("coord", k, 3)
	return blockOf(variant, d, v)*3*d.Observations + 3*j + k
}

// BasisIndex locates coordinate c of keypoint k in basis vector b. All
// keypoints of one basis vector are contiguous.
func BasisIndex(variant Variant, d Dimensions, v, b, k, c int) int {
	checkRange("basis", b, NumBasis)
	checkRange("keypoint", k, d.Points)
	checkRange("coord", c, 3)
	return blockOf(variant, d, v)*3*NumBasis*d.Points + b*3*d.Points + 3*k + c
}

// RotationIndex locates R[row][col] of view v. Rotations are column-major.
// Pose-only problems carry no rotation and always panic.
func RotationIndex(variant Variant, d Dimensions, v, row, col int) int {
	checkPose(variant, EntityRotation)
	checkRange("row", row, 3)
	checkRange("col", col, 3)
	return 9*blockOf(variant, d, v) + 3*col + row
}

// TranslationIndex locates coordinate c of the translation of view v.
func TranslationIndex(variant Variant, d Dimensions, v, c int) int {
	checkPose(variant, EntityTranslation)
	checkRange("coord", c, 3)
	return 3*blockOf(variant, d, v) + c
}
