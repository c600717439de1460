package stylist

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	"golang.org/x/image/draw"
)

// Canvas size the image model expects for reference garments.
const canvasSize = 1024

// PadToCanvas scales an image to fit inside a 1024x1024 transparent
// canvas, preserving aspect ratio, and centers it. The output is PNG
// so the padding stays transparent.
func PadToCanvas(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("image has zero dimension")
	}

	scaled := fitRect(w, h, canvasSize)
	dst := image.NewRGBA(image.Rect(0, 0, canvasSize, canvasSize))
	draw.CatmullRom.Scale(dst, scaled, src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode padded image: %w", err)
	}
	return buf.Bytes(), nil
}

// fitRect computes the centered rectangle an image of size w x h
// occupies when scaled to fit a square canvas.
func fitRect(w, h, canvas int) image.Rectangle {
	var sw, sh int
	if w >= h {
		sw = canvas
		sh = h * canvas / w
	} else {
		sh = canvas
		sw = w * canvas / h
	}
	x0 := (canvas - sw) / 2
	y0 := (canvas - sh) / 2
	return image.Rect(x0, y0, x0+sw, y0+sh)
}
