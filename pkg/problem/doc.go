// Package problem loads car pose and shape adjustment problems stored in a
// positional, whitespace-delimited text format and lays them out as flat
// float64 buffers an external least-squares solver can bind in place.
//
// A file starts with three integers (views, keypoints, observations) and is
// followed by a fixed sequence of double blocks whose order and sizes depend
// only on those integers and on the Variant. There are no tags, comments or
// version markers; the Schema of a variant is the grammar.
//
// Buffers are owned by the Problem. Geometry, intrinsics, observations,
// weights, mean shape and basis are constants once loaded. Shape
// coefficients, rotations and translations are exposed as ParamBlocks whose
// storage stays put until Close, so a solver can write them across
// iterations and the caller reads the refined values from the same memory.
package problem
