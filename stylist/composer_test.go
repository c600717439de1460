package stylist

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidJPEG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestPadToCanvasDimensions(t *testing.T) {
	src := solidJPEG(t, 200, 100, color.RGBA{R: 255, A: 255})

	out, err := PadToCanvas(src)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	bounds := decoded.Bounds()
	assert.Equal(t, canvasSize, bounds.Dx())
	assert.Equal(t, canvasSize, bounds.Dy())

	// A wide source is letterboxed: the top edge stays transparent,
	// the center carries the image.
	_, _, _, topAlpha := decoded.At(canvasSize/2, 0).RGBA()
	assert.Zero(t, topAlpha)
	r, _, _, centerAlpha := decoded.At(canvasSize/2, canvasSize/2).RGBA()
	assert.NotZero(t, centerAlpha)
	assert.Greater(t, r, uint32(0x8000))
}

func TestPadToCanvasTallImage(t *testing.T) {
	src := solidJPEG(t, 100, 400, color.RGBA{B: 255, A: 255})

	out, err := PadToCanvas(src)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, canvasSize, decoded.Bounds().Dx())

	// A tall source is pillarboxed on the left edge.
	_, _, _, leftAlpha := decoded.At(0, canvasSize/2).RGBA()
	assert.Zero(t, leftAlpha)
}

func TestPadToCanvasRejectsGarbage(t *testing.T) {
	_, err := PadToCanvas([]byte("not an image"))
	assert.Error(t, err)
}

func TestFitRect(t *testing.T) {
	r := fitRect(200, 100, 1024)
	assert.Equal(t, 1024, r.Dx())
	assert.Equal(t, 512, r.Dy())
	assert.Equal(t, 0, r.Min.X)
	assert.Equal(t, 256, r.Min.Y)

	r = fitRect(100, 100, 1024)
	assert.Equal(t, image.Rect(0, 0, 1024, 1024), r)
}
