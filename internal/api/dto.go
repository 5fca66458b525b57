package api

import (
	"github.com/samcharles93/carshape/internal/catalog"
	"github.com/samcharles93/carshape/pkg/problem"
)

// ProblemList is the body of GET /v1/problems.
type ProblemList struct {
	Object string          `json:"object"`
	Data   []catalog.Entry `json:"data"`
}

// ProblemSummary is the body of GET /v1/problems/:name.
type ProblemSummary struct {
	Name    string         `json:"name"`
	HasPose bool           `json:"has_pose"`
	Layout  problem.Layout `json:"layout"`
}

// ViewSummary is the body of GET /v1/problems/:name/views/:view.
type ViewSummary struct {
	Name         string    `json:"name"`
	Variant      string    `json:"variant"`
	View         int       `json:"view"`
	Intrinsics   []float64 `json:"intrinsics"`
	CarCenter    []float64 `json:"car_center"`
	Rotation     []float64 `json:"rotation,omitempty"`
	Translation  []float64 `json:"translation,omitempty"`
	Observations int       `json:"observations"`
	WeightSum    float64   `json:"weight_sum"`
}
