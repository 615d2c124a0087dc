package markers_test

import (
	"testing"

	"github.com/physdesign/drtcore/design"
	"github.com/physdesign/drtcore/geom"
	"github.com/physdesign/drtcore/markers"
	"github.com/physdesign/drtcore/regionindex"
	"github.com/stretchr/testify/require"
)

func TestAddDeduplicates(t *testing.T) {
	block := design.NewBlock()
	sink := markers.New(regionindex.New(), block)

	m := design.Marker{
		Box:           geom.Box{XL: 0, YL: 0, XH: 10, YH: 10},
		LayerNum:      3,
		ConstraintRef: "cutSpacing",
		Victims:       []design.ShapeRef{{Net: 0, Shape: 1}},
	}
	require.True(t, sink.Add(m))
	require.False(t, sink.Add(m), "identical marker must be rejected as a duplicate")
	require.Len(t, block.Markers(), 1)
}

func TestAddAcceptsDistinctBox(t *testing.T) {
	block := design.NewBlock()
	sink := markers.New(regionindex.New(), block)

	base := design.Marker{Box: geom.Box{XL: 0, YL: 0, XH: 10, YH: 10}, LayerNum: 3, ConstraintRef: "c"}
	other := base
	other.Box = geom.Box{XL: 100, YL: 0, XH: 110, YH: 10}

	require.True(t, sink.Add(base))
	require.True(t, sink.Add(other))
	require.Len(t, block.Markers(), 2)
}
