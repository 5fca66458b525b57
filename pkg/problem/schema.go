package problem

import (
	"fmt"
	"strings"
)

// NumBasis is the number of deformation basis vectors every problem file
// carries, and the length of the shape coefficient vector.
const NumBasis = 42

// Variant selects which of the three problem grammars a file follows.
type Variant int

const (
	// PoseOnly is a single-view problem with no pose prior.
	PoseOnly Variant = iota
	// ShapePose is a single-view problem with a PnP rotation/translation prior.
	ShapePose
	// MultiView carries per-view geometry and pose around one shared
	// intrinsics matrix and one shared coefficient vector.
	MultiView
)

var variantNames = map[Variant]string{
	PoseOnly:  "pose",
	ShapePose: "shape-pose",
	MultiView: "multi-view",
}

func (v Variant) String() string {
	if s, ok := variantNames[v]; ok {
		return s
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// ParseVariant accepts the canonical names plus a few common spellings.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pose", "pose-only", "single-pose":
		return PoseOnly, nil
	case "shape-pose", "shape", "single-shape", "shapepose":
		return ShapePose, nil
	case "multi-view", "multi", "multiview":
		return MultiView, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

func (v Variant) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *Variant) UnmarshalText(b []byte) error {
	parsed, err := ParseVariant(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Entity identifies one buffer of a problem.
type Entity int

const (
	EntityCenter Entity = iota
	EntitySize
	EntityIntrinsics
	EntityObservations
	EntityWeights
	EntityMeanShape
	EntityBasis
	EntityCoefficients
	EntityRotation
	EntityTranslation
	numEntities
)

var entityNames = [numEntities]string{
	EntityCenter:       "car_center",
	EntitySize:         "car_size",
	EntityIntrinsics:   "intrinsics",
	EntityObservations: "observations",
	EntityWeights:      "observation_weights",
	EntityMeanShape:    "mean_shape",
	EntityBasis:        "basis",
	EntityCoefficients: "shape_coefficients",
	EntityRotation:     "rotation",
	EntityTranslation:  "translation",
}

// String is the field name used in layouts and parse errors.
func (e Entity) String() string {
	if e >= 0 && e < numEntities {
		return entityNames[e]
	}
	return fmt.Sprintf("entity(%d)", int(e))
}

// Mutable reports whether the optimizer writes the entity in place.
func (e Entity) Mutable() bool {
	return e == EntityCoefficients || e == EntityRotation || e == EntityTranslation
}

// Scope says whether a field holds one block for the whole problem or one
// block per view.
type Scope int

const (
	Shared Scope = iota
	PerView
)

func (s Scope) String() string {
	if s == PerView {
		return "per-view"
	}
	return "shared"
}

func (s Scope) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Scope) UnmarshalText(b []byte) error {
	switch string(b) {
	case "shared":
		*s = Shared
	case "per-view":
		*s = PerView
	default:
		return fmt.Errorf("problem: unknown scope %q", b)
	}
	return nil
}

// Field is one entry of a variant's read sequence.
type Field struct {
	Entity Entity
	Scope  Scope
	// Block returns the number of doubles in one block.
	Block func(Dimensions) int
}

// Name is the entity name of the field.
func (f Field) Name() string { return f.Entity.String() }

// Blocks is the number of consecutive blocks the field occupies.
func (f Field) Blocks(d Dimensions) int {
	if f.Scope == PerView {
		return d.Views
	}
	return 1
}

// Len is the total number of doubles the field occupies.
func (f Field) Len(d Dimensions) int {
	return f.Blocks(d) * f.Block(d)
}

// Schema is the ordered list of fields that follow the dimension header.
type Schema struct {
	Variant Variant
	Fields  []Field
}

func fixed(n int) func(Dimensions) int { return func(Dimensions) int { return n } }

var (
	centerBlock       = fixed(3)
	sizeBlock         = fixed(3)
	intrinsicsBlock   = fixed(9)
	coefficientsBlock = fixed(NumBasis)
	rotationBlock     = fixed(9)
	translationBlock  = fixed(3)
)

func observationsBlock(d Dimensions) int { return 2 * d.Observations }
func weightsBlock(d Dimensions) int      { return d.Observations }
func meanShapeBlock(d Dimensions) int    { return 3 * d.Observations }
func basisBlock(d Dimensions) int        { return NumBasis * 3 * d.Points }

func singleViewFields() []Field {
	return []Field{
		{Entity: EntityCenter, Scope: Shared, Block: centerBlock},
		{Entity: EntitySize, Scope: Shared, Block: sizeBlock},
		{Entity: EntityIntrinsics, Scope: PerView, Block: intrinsicsBlock},
		{Entity: EntityObservations, Scope: Shared, Block: observationsBlock},
		{Entity: EntityWeights, Scope: Shared, Block: weightsBlock},
		{Entity: EntityMeanShape, Scope: Shared, Block: meanShapeBlock},
		{Entity: EntityBasis, Scope: Shared, Block: basisBlock},
		{Entity: EntityCoefficients, Scope: Shared, Block: coefficientsBlock},
	}
}

var schemas = map[Variant]Schema{
	PoseOnly: {Variant: PoseOnly, Fields: singleViewFields()},
	ShapePose: {Variant: ShapePose, Fields: append(singleViewFields(),
		Field{Entity: EntityRotation, Scope: Shared, Block: rotationBlock},
		Field{Entity: EntityTranslation, Scope: Shared, Block: translationBlock},
	)},
	// Size comes before intrinsics here and the centre moves behind them.
	MultiView: {Variant: MultiView, Fields: []Field{
		{Entity: EntitySize, Scope: Shared, Block: sizeBlock},
		{Entity: EntityIntrinsics, Scope: Shared, Block: intrinsicsBlock},
		{Entity: EntityCenter, Scope: PerView, Block: centerBlock},
		{Entity: EntityObservations, Scope: PerView, Block: observationsBlock},
		{Entity: EntityWeights, Scope: PerView, Block: weightsBlock},
		{Entity: EntityMeanShape, Scope: PerView, Block: meanShapeBlock},
		{Entity: EntityBasis, Scope: PerView, Block: basisBlock},
		{Entity: EntityCoefficients, Scope: Shared, Block: coefficientsBlock},
		{Entity: EntityRotation, Scope: PerView, Block: rotationBlock},
		{Entity: EntityTranslation, Scope: PerView, Block: translationBlock},
	}},
}

// SchemaFor returns the read sequence of a variant.
func SchemaFor(v Variant) (Schema, error) {
	s, ok := schemas[v]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %d", ErrUnknownVariant, int(v))
	}
	return s, nil
}

// Field returns the schema entry for an entity, if the variant has it.
func (s Schema) Field(e Entity) (Field, bool) {
	for _, f := range s.Fields {
		if f.Entity == e {
			return f, true
		}
	}
	return Field{}, false
}

// Elements is the number of doubles following the header.
func (s Schema) Elements(d Dimensions) int {
	n := 0
	for _, f := range s.Fields {
		n += f.Len(d)
	}
	return n
}

// TokenCount is the exact number of tokens a well-formed file holds,
// including the three dimension integers.
func (s Schema) TokenCount(d Dimensions) int {
	return 3 + s.Elements(d)
}

// Validate checks the dimensions against the limits, including the total
// element budget, without overflowing int on hostile input.
func (s Schema) Validate(d Dimensions, l Limits) error {
	if err := d.Validate(l); err != nil {
		return err
	}
	l = l.withDefaults()
	total := 0
	for _, f := range s.Fields {
		block, blocks := f.Block(d), f.Blocks(d)
		if blocks > 0 && block > (l.MaxElements-total)/blocks {
			return fmt.Errorf("%w: %s needs more than %d elements", ErrInvalidDimensions, d, l.MaxElements)
		}
		total += block * blocks
	}
	return nil
}
