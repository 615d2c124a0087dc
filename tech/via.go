package tech

import "github.com/physdesign/drtcore/geom"

// ViaDef is a via definition: cut rectangles plus an enclosure rectangle on
// each metal, spanning (layer-below, cut-layer, layer-above), per spec §3.
type ViaDef struct {
	Name         string
	LayerBelow   int
	CutLayer     int
	LayerAbove   int
	CutRects     []geom.Box // one or more cut rectangles, centered on the via origin.
	EncBelow     geom.Box
	EncAbove     geom.Box
	IsDefault    bool
	CutClassName string

	// Rotated/bloated variant bookkeeping (§4.6). A variant's Base points
	// at the default via it was derived from; empty on originals.
	Base string
}

// CutArea returns the combined area of the via's cut rectangles.
func (v ViaDef) CutArea() int64 {
	var a int64
	for _, r := range v.CutRects {
		a += r.Area()
	}
	return a
}

func (v ViaDef) metalArea(box geom.Box) int64 { return box.Area() }

// AlignWithPrefDir reports whether the via's enclosure on the given metal
// layer is longer along that layer's preferred direction, used as a
// tie-break in default-via selection (§4.6).
func (v ViaDef) AlignWithPrefDir(enc geom.Box, pref geom.Orient) bool {
	if pref == geom.Horizontal {
		return enc.Width() >= enc.Height()
	}
	return enc.Height() >= enc.Width()
}

// Rotated returns a copy of v with its cut rectangles and enclosures
// swapped across X/Y, used to synthesize a rotated via variant when the
// default via's enclosure does not align with the routing direction
// (§4.6).
func (v ViaDef) Rotated(name string) ViaDef {
	out := v
	out.Name = name
	out.Base = v.Name
	out.CutRects = make([]geom.Box, len(v.CutRects))
	for i, r := range v.CutRects {
		out.CutRects[i] = swapXY(r)
	}
	out.EncBelow = swapXY(v.EncBelow)
	out.EncAbove = swapXY(v.EncAbove)
	return out
}

// Bloated returns a copy of v with both enclosures grown by d on every
// side, used to synthesize a secondary via definition when a max-spacing
// LEF58 rule forces one (§4.6).
func (v ViaDef) Bloated(name string, d int64) ViaDef {
	out := v
	out.Name = name
	out.Base = v.Name
	out.EncBelow = v.EncBelow.BloatUniform(d)
	out.EncAbove = v.EncAbove.BloatUniform(d)
	return out
}

func swapXY(b geom.Box) geom.Box {
	return geom.Box{XL: b.YL, YL: b.XL, XH: b.YH, YH: b.XH}
}
