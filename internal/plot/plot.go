// Package plot renders per-channel diagnostic images: measured curve
// samples with the fitted model overlaid.
package plot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/gonum/floats"

	"cal2gutenprint/internal/accumulate"
)

// Options configures the rendered diagnostic image.
type Options struct {
	Width  int
	Height int
	// Margin is the border around the plot area, leaving room for labels.
	Margin int
	// DotRadius is the radius of a measured sample dot.
	DotRadius int
	// CurveSamples is the number of points used to trace a fitted curve.
	CurveSamples int
}

// DefaultOptions returns rendering options sized for quick visual review.
func DefaultOptions() Options {
	return Options{
		Width:        640,
		Height:       520,
		Margin:       50,
		DotRadius:    2,
		CurveSamples: 200,
	}
}

var (
	background = color.RGBA{255, 255, 255, 255}
	axisColor  = color.RGBA{0, 0, 0, 255}
	gridColor  = color.RGBA{220, 220, 220, 255}
	pointColor = color.RGBA{30, 30, 30, 255}
	darkFit    = color.RGBA{200, 30, 30, 255}
	lightFit   = color.RGBA{30, 60, 200, 255}
)

// Channel renders the diagnostic image for one channel estimate. The
// measured samples are drawn as dots; the dark-zone gamma fit and the
// light-zone slope fit are overlaid when the split fit succeeded, otherwise
// the whole-range gamma curve is drawn.
func Channel(title string, est *accumulate.ChannelEstimate, opts Options) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	fill(img, background)

	drawFrame(img, opts)
	drawString(img, opts.Margin, opts.Margin-10, title+" device response", axisColor)

	for i := range est.I {
		x, y := toPixel(est.I[i], est.O[i], opts)
		fillCircle(img, x, y, opts.DotRadius, pointColor)
	}

	legendY := opts.Margin + 14
	switch {
	case est.Split != nil:
		s := est.Split
		if len(s.Dark.I) > 0 {
			drawCurve(img, s.Dark.I[0], s.Dark.I[len(s.Dark.I)-1], opts, darkFit,
				func(x float64) float64 { return math.Pow(x, s.Dark.Gamma) })
			drawString(img, opts.Margin+8, legendY,
				fmt.Sprintf("dark gamma %.3f", s.Dark.Gamma), darkFit)
			legendY += 14
		}
		if len(s.Light.I) > 0 {
			drawCurve(img, s.Light.I[0], s.Light.I[len(s.Light.I)-1], opts, lightFit,
				func(x float64) float64 { return s.Light.Slope * x })
			drawString(img, opts.Margin+8, legendY,
				fmt.Sprintf("light slope %.3f (value %.3f)", s.Light.Slope, s.Value), lightFit)
		}
	case est.GammaOK:
		drawCurve(img, 0.01, 1.0, opts, darkFit,
			func(x float64) float64 { return math.Pow(x, est.Gamma) })
		drawString(img, opts.Margin+8, legendY,
			fmt.Sprintf("gamma %.3f", est.Gamma), darkFit)
	}

	return img
}

// Save writes the image to path as PNG.
func Save(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// toPixel maps a (input, output) sample in [0,1]x[0,1] to image
// coordinates, with the output axis pointing up.
func toPixel(x, y float64, opts Options) (int, int) {
	w := opts.Width - 2*opts.Margin
	h := opts.Height - 2*opts.Margin
	px := opts.Margin + int(x*float64(w)+0.5)
	py := opts.Height - opts.Margin - int(y*float64(h)+0.5)
	return px, py
}

// drawFrame draws the plot border, quarter grid lines and axis labels.
func drawFrame(img *image.RGBA, opts Options) {
	for _, t := range []float64{0.25, 0.5, 0.75} {
		x0, y0 := toPixel(t, 0, opts)
		x1, y1 := toPixel(t, 1, opts)
		drawLine(img, x0, y0, x1, y1, gridColor)
		x0, y0 = toPixel(0, t, opts)
		x1, y1 = toPixel(1, t, opts)
		drawLine(img, x0, y0, x1, y1, gridColor)
	}

	x0, y0 := toPixel(0, 0, opts)
	x1, y1 := toPixel(1, 1, opts)
	drawLine(img, x0, y0, x1, y0, axisColor)
	drawLine(img, x0, y0, x0, y1, axisColor)
	drawLine(img, x1, y0, x1, y1, axisColor)
	drawLine(img, x0, y1, x1, y1, axisColor)

	drawString(img, x0, y0+16, "0.0", axisColor)
	drawString(img, x1-20, y0+16, "1.0", axisColor)
	drawString(img, (x0+x1)/2-40, y0+30, "nominal input", axisColor)
	drawString(img, 4, (y0+y1)/2, "output", axisColor)
}

// drawCurve traces f(x) over [lo,hi] as connected line segments.
func drawCurve(img *image.RGBA, lo, hi float64, opts Options, c color.RGBA, f func(float64) float64) {
	if hi <= lo || opts.CurveSamples < 2 {
		return
	}
	xs := floats.Span(make([]float64, opts.CurveSamples), lo, hi)

	prevX, prevY := toPixel(xs[0], clamp01(f(xs[0])), opts)
	for _, x := range xs[1:] {
		px, py := toPixel(x, clamp01(f(x)), opts)
		drawLine(img, prevX, prevY, px, py, c)
		prevX, prevY = px, py
	}
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

// fill paints the whole image with one color.
func fill(img *image.RGBA, c color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

// fillCircle fills a circle with the given color.
func fillCircle(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	bounds := img.Bounds()
	for y := cy - r; y <= cy+r; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := cx - r; x <= cx+r; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				img.Set(x, y, c)
			}
		}
	}
}

// drawLine draws a line using Bresenham's algorithm.
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	bounds := img.Bounds()

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		if x1 >= bounds.Min.X && x1 < bounds.Max.X && y1 >= bounds.Min.Y && y1 < bounds.Max.Y {
			img.Set(x1, y1, c)
		}
		if x1 == x2 && y1 == y2 {
			return
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

// drawString renders a small label with the built-in fixed font.
func drawString(img *image.RGBA, x, y int, s string, c color.RGBA) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
