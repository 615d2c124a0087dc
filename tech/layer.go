// Package tech models the technology: layers, their rule sets, via
// definitions, cut classes and inter-layer cut-spacing rules (spec §3,
// component C2). The DRC and repair engines never hard-code a rule value;
// they always look it up here.
package tech

import (
	"errors"

	"github.com/physdesign/drtcore/geom"
)

// Kind classifies a Layer.
type Kind uint8

const (
	Routing Kind = iota
	Cut
	Masterslice
)

// Sentinel errors for technology lookups, following the core package's
// errors.Is-checkable sentinel policy: callers branch on identity, never
// on string content.
var (
	ErrUnknownLayer = errors.New("tech: unknown layer")
	ErrUnknownVia   = errors.New("tech: unknown via definition")
	ErrWrongKind    = errors.New("tech: operation requires a different layer kind")
)

// Layer is a routing, cut, or masterslice layer. LayerNum increases
// monotonically with Z order, per spec §3.
type Layer struct {
	Num  int
	Name string
	Kind Kind

	// Routing-layer fields. Zero value on non-routing layers.
	PrefDir        geom.Orient
	MinWidth       int64
	MinArea        int64
	DefaultViaName string

	MinStep         MinStepRule
	EOL             []EOLRule
	TwoWidthPRL     TwoWidthPRLTable
	Corner          CornerSpacingTable
	MinEnclosedArea int64
	OffGrid         bool
	RectOnly        bool
	SpacingInfluence SpacingTableInfluence

	// Cut-layer fields.
	CutClasses   []CutClass
	CutSpacing   []CutSpacingRule
	AdjacentCuts []AdjacentCutsRule
	TwoCuts      []TwoCutsRule
}

// MinStepRule bounds how many consecutive short edges (or their summed
// length) a polygon boundary may contain before it is flagged, per
// §4.3.4. MaxEdges==0 means "no count bound", MaxLength==0 means "no
// length bound"; a rule must set at least one.
type MinStepRule struct {
	MinStepLength  int64
	MaxEdges       int
	MaxLength      int64
	NoBetweenEOL   bool // LEF58 "no-between-eol" variant, §4.3.4.
	ConcaveCorner  bool
	ConvexCorner   bool
}

// EOLRule is one end-of-line spacing rule entry, classic or LEF58
// extended, per §4.3.2.
type EOLRule struct {
	EOLWidth  int64
	EOLSpace  int64
	EOLWithin int64

	// Optional parallel-edge predicate.
	HasParEdge  bool
	ParSpace    int64
	ParWithin   int64
	TwoSided    bool

	// Optional min/max-length predicate on flanking edges.
	HasMinMaxLen bool
	MinLength    int64
	MaxLength    int64

	// Optional enclose-cut predicate.
	HasEncloseCut  bool
	EncloseDist    int64
	CutToMetalSpace int64
}

// TwoWidthPRLTable looks up a required spacing given the larger of two
// rectangle widths and their parallel-run length, per §4.3.1.
type TwoWidthPRLTable struct {
	// Widths and PRLs must each be sorted ascending; Spacing[i][j] is the
	// required spacing for Widths[i] and PRLs[j], using the greatest
	// table entry not exceeding the probe value (a "at least" table).
	Widths  []int64
	PRLs    []int64
	Spacing [][]int64
}

// Required returns the spacing required for the given width and PRL.
func (t TwoWidthPRLTable) Required(width, prl int64) int64 {
	if len(t.Widths) == 0 {
		return 0
	}
	wi := floorIndex(t.Widths, width)
	pi := floorIndex(t.PRLs, prl)
	return t.Spacing[wi][pi]
}

func floorIndex(sorted []int64, v int64) int {
	idx := 0
	for i, s := range sorted {
		if s <= v {
			idx = i
		} else {
			break
		}
	}
	return idx
}

// CornerSpacingTable maps a participant width to the minimum allowed
// max(dx,dy) at a convex/concave corner, per §4.3.3 (LEF58 corner
// spacing).
type CornerSpacingTable struct {
	Widths  []int64
	Spacing []int64

	ExceptEOLWidth int64 // 0 disables the EOL-width exception.
}

func (t CornerSpacingTable) Required(width int64) int64 {
	if len(t.Widths) == 0 {
		return 0
	}
	return t.Spacing[floorIndex(t.Widths, width)]
}

// SpacingTableInfluence captures the LEF "spacing table influence" rule:
// below Width, the influence distance applies instead of the ordinary
// two-width/PRL table.
type SpacingTableInfluence struct {
	Enabled  bool
	Width    int64
	Within   int64
	Spacing  int64
}

// CutClass groups vias by cut rectangle dimensions (width x length), used
// by LEF58 cut-spacing tables, per the GLOSSARY.
type CutClass struct {
	Name   string
	Width  int64
	Length int64
}

// CutSpacingRule is one cut-spacing rule entry on a cut layer, classic or
// LEF58 table/adjacent-cuts form, per §4.3.5.
type CutSpacingRule struct {
	SameNet bool // false => diff-net rule.

	// Classic form.
	Spacing    int64
	CutWithin  int64

	// LEF58 table form: indexed by (Class1,Class2) with an optional side
	// qualifier ("" means unconditional).
	Class1, Class2 string
	Side           string

	// Inter-layer: SecondLayer==0 means intra-layer.
	SecondLayer int
}

// AdjacentCutsRule requires at least AdjacentCuts cuts within CutWithin of
// the subject cut, per the LEF58 adjacent-cuts extension of §4.3.5.
type AdjacentCutsRule struct {
	CutWithin    int64
	AdjacentCuts int
}

// TwoCutsRule is the LEF58 "two-cuts" extension: both the subject and its
// neighbor must independently satisfy the adjacency predicate.
type TwoCutsRule struct {
	CutWithin    int64
	AdjacentCuts int
}
