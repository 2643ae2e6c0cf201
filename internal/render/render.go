// Package render rasterizes projected scene geometry onto the image plane.
package render

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"pinhole-calib/internal/camera"
	"pinhole-calib/pkg/geometry"
)

var (
	background = color.RGBA{R: 24, G: 24, B: 28, A: 255}
	edgeColor  = color.RGBA{R: 80, G: 200, B: 120, A: 255}
	cornerCol  = color.RGBA{R: 255, G: 210, B: 80, A: 255}
	centerCol  = color.RGBA{R: 220, G: 80, B: 80, A: 255}
)

// Frame projects the scene points under the given intrinsics and draws the
// closed polygon they form onto a w x h image plane, with corner markers
// and a crosshair at the principal point. Points behind the camera make
// the projection undefined and return an error.
func Frame(in camera.Intrinsics, points []geometry.Point3D, w, h int) (*image.RGBA, error) {
	projected, err := in.ProjectAll(points)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, background)
		}
	}

	for i := range projected {
		a := projected[i]
		b := projected[(i+1)%len(projected)]
		drawLine(img, int(a.X+0.5), int(a.Y+0.5), int(b.X+0.5), int(b.Y+0.5), edgeColor, 1)
	}
	for _, p := range projected {
		drawMarker(img, int(p.X+0.5), int(p.Y+0.5), 3, cornerCol)
	}
	drawCrosshair(img, int(in.Cx+0.5), int(in.Cy+0.5), 5, centerCol)

	return img, nil
}

// Scaled resamples an image to the given display size with bilinear
// interpolation.
func Scaled(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst
}

// drawLine draws a line between two points using Bresenham's algorithm,
// clipped to the image bounds.
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := img.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					img.SetRGBA(px, py, col)
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawMarker draws a small filled square centered on (x, y).
func drawMarker(img *image.RGBA, x, y, half int, col color.RGBA) {
	bounds := img.Bounds()
	for py := y - half; py <= y+half; py++ {
		for px := x - half; px <= x+half; px++ {
			if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
				img.SetRGBA(px, py, col)
			}
		}
	}
}

// drawCrosshair draws a plus-shaped marker centered on (x, y).
func drawCrosshair(img *image.RGBA, x, y, half int, col color.RGBA) {
	drawLine(img, x-half, y, x+half, y, col, 1)
	drawLine(img, x, y-half, x, y+half, col, 1)
}
