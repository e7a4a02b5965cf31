package render

import "image/color"

// fillBinaryRGBA converts binary cell data (0/1) into RGBA pixels in buf.
func fillBinaryRGBA(buf []byte, cells []uint8, on, off color.Color) {
	onPx := toRGBA(on)
	offPx := toRGBA(off)
	for i, c := range cells {
		px := offPx
		if c != 0 {
			px = onPx
		}
		putPixel(buf, i, px)
	}
}

// fillPaletteRGBA converts cell values into RGBA pixels using a palette.
// Values past the end of the palette use its last colour. When the palette is
// empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}
	last := len(palette) - 1
	for i, c := range cells {
		putPixel(buf, i, palette[min(int(c), last)])
	}
}

// FillMaskRGBA tints buf by a [0,1] intensity mask. Zero cells stay
// transparent; alpha grows with intensity up to maxAlpha.
func FillMaskRGBA(buf []byte, mask []float32, tint color.RGBA, maxAlpha uint8) {
	for i, v := range mask {
		v = max(0, min(v, 1))
		if v == 0 {
			putPixel(buf, i, color.RGBA{})
			continue
		}
		putPixel(buf, i, color.RGBA{R: tint.R, G: tint.G, B: tint.B, A: uint8(float32(maxAlpha) * v)})
	}
}

func toRGBA(c color.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

func putPixel(buf []byte, i int, px color.RGBA) {
	base := i * 4
	buf[base+0] = px.R
	buf[base+1] = px.G
	buf[base+2] = px.B
	buf[base+3] = px.A
}
