package design

import (
	"errors"

	"github.com/physdesign/drtcore/geom"
)

// ShapeKind tags the connection-figure variant a Shape holds (design note
// §9: inheritance over "connection figure" becomes a tagged variant with a
// common header, dispatched by the engine via a switch on Kind rather than
// virtual dispatch).
type ShapeKind uint8

const (
	KindPathSegment ShapeKind = iota
	KindVia
	KindPatchWire
)

// EndStyle is a path-segment endpoint style.
type EndStyle uint8

const (
	EndExtend EndStyle = iota
	EndTruncate
	EndVariable
)

var (
	// ErrZeroLengthSegment rejects a degenerate path-segment at ingestion,
	// per the boundary behavior of spec §8.
	ErrZeroLengthSegment = errors.New("design: zero-length path-segment")
	// ErrNotOrthogonal rejects a non axis-aligned path-segment.
	ErrNotOrthogonal = errors.New("design: path-segment is not axis-aligned")
)

// PathSegment is an orthogonal wire segment on a routing layer.
type PathSegment struct {
	BP, EP           geom.Pt
	StyleBegin       EndStyle
	ExtBegin         int64
	StyleEnd         EndStyle
	ExtEnd           int64
}

// Box returns the segment's bounding box (zero-width along the track axis).
func (s PathSegment) Box() geom.Box { return geom.NewBox(s.BP, s.EP) }

// Track returns the coordinate identifying the segment's track: the shared
// Y for a horizontal segment, the shared X for a vertical one.
func (s PathSegment) Track() int64 {
	if s.BP.Y == s.EP.Y {
		return s.BP.Y
	}
	return s.BP.X
}

// Orient reports whether the segment runs along X (Horizontal) or Y
// (Vertical).
func (s PathSegment) Orient() geom.Orient {
	if s.BP.Y == s.EP.Y {
		return geom.Horizontal
	}
	return geom.Vertical
}

// Via is a via instance at origin, referring to a technology ViaDef by
// name (Technology owns ViaDefs; the net-via refers by name/index per
// ownership rule in spec §3).
type Via struct {
	Origin   geom.Pt
	ViaDef   string
	LayerBelow int
	LayerAbove int
	CutLayer   int
}

// PatchWire is a small fill shape anchored at Origin with an OffsetBox
// relative to it.
type PatchWire struct {
	Origin    geom.Pt
	OffsetBox geom.Box
	Layer     int
}

// Shape is the tagged-variant connection figure: exactly one of Seg/Via/
// Patch is meaningful, selected by Kind. LayerNum and NetID form the
// common header every variant carries (design note §9).
type Shape struct {
	Kind    ShapeKind
	LayerNum int
	Net     NetID

	Seg   PathSegment
	ViaV  Via
	Patch PatchWire
}

// NewPathSegmentShape validates and constructs a path-segment Shape. It
// enforces the spec §8 boundary behaviors: non-zero length, axis-aligned,
// and begin<=end lexicographically (spec §3's Net.Shapes invariant).
func NewPathSegmentShape(layer int, net NetID, bp, ep geom.Pt, styleBegin EndStyle, extBegin int64, styleEnd EndStyle, extEnd int64) (Shape, error) {
	if bp.Eq(ep) {
		return Shape{}, ErrZeroLengthSegment
	}
	if !geom.Orthogonal(bp, ep) {
		return Shape{}, ErrNotOrthogonal
	}
	if ep.Less(bp) {
		bp, ep = ep, bp
		styleBegin, styleEnd = styleEnd, styleBegin
		extBegin, extEnd = extEnd, extBegin
	}
	return Shape{
		Kind:     KindPathSegment,
		LayerNum: layer,
		Net:      net,
		Seg: PathSegment{
			BP: bp, EP: ep,
			StyleBegin: styleBegin, ExtBegin: extBegin,
			StyleEnd: styleEnd, ExtEnd: extEnd,
		},
	}, nil
}

// NewViaShape constructs a Via Shape. LayerNum is set to the cut layer so
// the common header always identifies a single layer; Via additionally
// carries the metal layers it connects.
func NewViaShape(net NetID, origin geom.Pt, viaDef string, layerBelow, cutLayer, layerAbove int) Shape {
	return Shape{
		Kind:     KindVia,
		LayerNum: cutLayer,
		Net:      net,
		ViaV: Via{
			Origin: origin, ViaDef: viaDef,
			LayerBelow: layerBelow, CutLayer: cutLayer, LayerAbove: layerAbove,
		},
	}
}

// NewPatchWireShape constructs a PatchWire Shape.
func NewPatchWireShape(net NetID, layer int, origin geom.Pt, offset geom.Box) Shape {
	return Shape{
		Kind:     KindPatchWire,
		LayerNum: layer,
		Net:      net,
		Patch:    PatchWire{Origin: origin, OffsetBox: offset, Layer: layer},
	}
}

// Box returns the Shape's bounding box regardless of its Kind, for
// regionindex insertion.
func (s Shape) Box() geom.Box {
	switch s.Kind {
	case KindPathSegment:
		return s.Seg.Box()
	case KindVia:
		return geom.Box{XL: s.ViaV.Origin.X, YL: s.ViaV.Origin.Y, XH: s.ViaV.Origin.X, YH: s.ViaV.Origin.Y}
	case KindPatchWire:
		o := s.Patch.Origin
		b := s.Patch.OffsetBox
		return geom.Box{XL: o.X + b.XL, YL: o.Y + b.YL, XH: o.X + b.XH, YH: o.Y + b.YH}
	default:
		return geom.Box{}
	}
}
