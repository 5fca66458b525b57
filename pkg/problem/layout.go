package problem

// FieldLayout describes where one field lives and how to stride into it.
type FieldLayout struct {
	Name    string `json:"name"`
	Scope   Scope  `json:"scope"`
	Block   int    `json:"block"`
	Blocks  int    `json:"blocks"`
	Len     int    `json:"len"`
	Mutable bool   `json:"mutable"`
	// Token is the position of the field's first value in the file, counting
	// the three dimension integers.
	Token int `json:"token"`
}

// Layout summarises a problem's buffers in read order.
type Layout struct {
	Variant    Variant       `json:"variant"`
	Dims       Dimensions    `json:"dims"`
	NumBasis   int           `json:"num_basis"`
	TokenCount int           `json:"token_count"`
	Fields     []FieldLayout `json:"fields"`
}

// LayoutOf computes the layout of a variant for the given dimensions without
// loading anything.
func LayoutOf(s Schema, d Dimensions) Layout {
	out := Layout{
		Variant:    s.Variant,
		Dims:       d,
		NumBasis:   NumBasis,
		TokenCount: s.TokenCount(d),
		Fields:     make([]FieldLayout, 0, len(s.Fields)),
	}
	tok := 3
	for _, f := range s.Fields {
		fl := FieldLayout{
			Name:    f.Name(),
			Scope:   f.Scope,
			Block:   f.Block(d),
			Blocks:  f.Blocks(d),
			Len:     f.Len(d),
			Mutable: f.Entity.Mutable(),
			Token:   tok,
		}
		tok += fl.Len
		out.Fields = append(out.Fields, fl)
	}
	return out
}

func (p *Problem) Layout() Layout {
	return LayoutOf(p.schema, p.dims)
}

// Field returns the layout entry with the given name.
func (l Layout) Field(name string) (FieldLayout, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldLayout{}, false
}
