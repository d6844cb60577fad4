package qr

import (
	"bytes"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	rscqr "rsc.io/qr"
)

func sameColor(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}

func TestRenderMatchesSymbol(t *testing.T) {
	enc := NewEncoder()
	texts := []string{
		"hello",
		"https://example.com/some/path?q=1",
		"WIFI:S:MyNetwork;T:WPA;P:mypassword;",
		strings.Repeat("ü", 120),
	}
	for _, text := range texts {
		fill := LookupColor("purple")
		data, err := enc.Render(text, fill)
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)

		code, err := rscqr.Encode(text, rscqr.H)
		require.NoError(t, err)

		side := (code.Size + 2*Border) * ModuleSize
		require.Equal(t, side, img.Bounds().Dx(), text)
		require.Equal(t, side, img.Bounds().Dy(), text)

		assert.True(t, sameColor(color.White, img.At(0, 0)), "quiet zone must be white")
		assert.True(t, sameColor(color.White, img.At(side-1, side-1)), "quiet zone must be white")

		for my := 0; my < code.Size; my++ {
			for mx := 0; mx < code.Size; mx++ {
				cx := (mx+Border)*ModuleSize + ModuleSize/2
				cy := (my+Border)*ModuleSize + ModuleSize/2
				want := color.Color(color.White)
				if code.Black(mx, my) {
					want = fill.RGB
				}
				if !sameColor(want, img.At(cx, cy)) {
					t.Fatalf("module (%d,%d) of %q has wrong color", mx, my, text)
				}
			}
		}
	}
}

func TestRenderFinderPatternUsesFill(t *testing.T) {
	data, err := NewEncoder().Render("abc", LookupColor("blue"))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	corner := Border * ModuleSize
	assert.True(t, sameColor(LookupColor("blue").RGB, img.At(corner, corner)))
}

func TestRenderTooLong(t *testing.T) {
	_, err := NewEncoder().Render(strings.Repeat("x", 4000), DefaultColor)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRender)
}
