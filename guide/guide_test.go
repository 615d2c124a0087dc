package guide_test

import (
	"strings"
	"testing"

	"github.com/physdesign/drtcore/geom"
	"github.com/physdesign/drtcore/guide"
	"github.com/stretchr/testify/require"
)

func TestParseTwoNetBlocks(t *testing.T) {
	src := `net1
0 0 100 100 M1
100 0 200 100 M2

net2
50 50 150 150 M1
`
	guides, err := guide.Parse(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, guides, 2)

	require.Equal(t, "net1", guides[0].Net)
	require.Len(t, guides[0].Rects, 2)
	require.Equal(t, geom.Box{XL: 0, YL: 0, XH: 100, YH: 100}, guides[0].Rects[0].Box)
	require.Equal(t, "M1", guides[0].Rects[0].LayerName)
	require.Equal(t, "M2", guides[0].Rects[1].LayerName)

	require.Equal(t, "net2", guides[1].Net)
	require.Len(t, guides[1].Rects, 1)
}

func TestParseIgnoresBracketLines(t *testing.T) {
	src := "net1\n(\n0 0 10 10 M1\n)\n"
	guides, err := guide.Parse(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, guides, 1)
	require.Len(t, guides[0].Rects, 1)
}

func TestParseRejectsMalformedLine(t *testing.T) {
	_, err := guide.Parse(strings.NewReader("net1\n0 0 10 M1\n"))
	require.ErrorIs(t, err, guide.ErrMalformedLine)
}

func TestParseRejectsRectBeforeNetName(t *testing.T) {
	_, err := guide.Parse(strings.NewReader("0 0 10 10 M1\n"))
	require.Error(t, err)
}
