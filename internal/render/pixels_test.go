package render

import (
	"image/color"
	"slices"
	"testing"
)

func TestFillBinaryRGBA(t *testing.T) {
	buf := make([]byte, 8)
	fillBinaryRGBA(buf, []uint8{1, 0}, color.White, color.Black)
	want := []byte{255, 255, 255, 255, 0, 0, 0, 255}
	if !slices.Equal(buf, want) {
		t.Fatalf("got %v, want %v", buf, want)
	}
}

func TestFillPaletteRGBAClampsIndex(t *testing.T) {
	palette := []color.RGBA{{R: 1, A: 255}, {G: 2, A: 255}}
	buf := make([]byte, 12)
	fillPaletteRGBA(buf, []uint8{0, 1, 9}, palette)
	want := []byte{1, 0, 0, 255, 0, 2, 0, 255, 0, 2, 0, 255}
	if !slices.Equal(buf, want) {
		t.Fatalf("got %v, want %v", buf, want)
	}

	fillPaletteRGBA(buf, []uint8{0, 1, 2}, nil)
	if !slices.Equal(buf, make([]byte, 12)) {
		t.Fatalf("expected empty palette to clear buffer, got %v", buf)
	}
}

func TestFillMaskRGBA(t *testing.T) {
	buf := make([]byte, 12)
	for i := range buf {
		buf[i] = 7
	}
	tint := color.RGBA{R: 10, G: 20, B: 30}
	FillMaskRGBA(buf, []float32{0, 0.5, 2}, tint, 200)
	want := []byte{0, 0, 0, 0, 10, 20, 30, 100, 10, 20, 30, 200}
	if !slices.Equal(buf, want) {
		t.Fatalf("got %v, want %v", buf, want)
	}
}
