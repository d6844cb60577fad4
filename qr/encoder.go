package qr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"

	rscqr "rsc.io/qr"
)

const (
	// ModuleSize is the edge length of one QR module in pixels.
	ModuleSize = 10
	// Border is the quiet zone width in modules.
	Border = 4
)

// ErrRender marks any failure while producing or serializing a QR image.
var ErrRender = errors.New("qr: render failed")

// Encoder turns text into PNG encoded QR codes.
type Encoder struct {
	level      rscqr.Level
	moduleSize int
	border     int
}

// NewEncoder returns an encoder using the highest error correction level.
func NewEncoder() *Encoder {
	return &Encoder{level: rscqr.H, moduleSize: ModuleSize, border: Border}
}

// Render encodes text with the given fill color on a white background.
func (e *Encoder) Render(text string, fill Color) ([]byte, error) {
	img, err := e.Image(text, fill)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: png encode: %v", ErrRender, err)
	}
	return buf.Bytes(), nil
}

// Image builds the QR symbol as a two-color paletted image.
func (e *Encoder) Image(text string, fill Color) (*image.Paletted, error) {
	code, err := rscqr.Encode(text, e.level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	side := (code.Size + 2*e.border) * e.moduleSize
	img := image.NewPaletted(image.Rect(0, 0, side, side), color.Palette{color.White, fill.RGB})
	for my := 0; my < code.Size; my++ {
		for mx := 0; mx < code.Size; mx++ {
			if !code.Black(mx, my) {
				continue
			}
			x0 := (mx + e.border) * e.moduleSize
			y0 := (my + e.border) * e.moduleSize
			for y := y0; y < y0+e.moduleSize; y++ {
				row := img.Pix[y*img.Stride : (y+1)*img.Stride]
				for x := x0; x < x0+e.moduleSize; x++ {
					row[x] = 1
				}
			}
		}
	}
	return img, nil
}
