package render

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"

	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/physics"
)

const (
	trailLength = 120
	bobRadius   = 5
)

// AnimateOptions controls GIF rendering of a pendulum trajectory.
type AnimateOptions struct {
	Size   int // square frame edge in pixels
	Stride int // trajectory states per frame
	Delay  int // per-frame delay in 1/100 s
}

func DefaultAnimateOptions() AnimateOptions {
	return AnimateOptions{Size: 480, Stride: 4, Delay: 3}
}

// AnimateGIF renders a double pendulum trajectory as a looping GIF:
// rods from the pivot, filled bobs, and a fading trail behind the tip.
func AnimateGIF(path string, dp *physics.DoublePendulum, result *dynamo.Result, opts AnimateOptions) error {
	if len(result.States) == 0 {
		return fmt.Errorf("trajectory empty")
	}
	if opts.Size <= 0 || opts.Stride <= 0 {
		return fmt.Errorf("invalid animation options: size=%d stride=%d", opts.Size, opts.Stride)
	}

	palette := color.Palette{
		color.RGBA{0x0a, 0x0a, 0x0a, 0xff}, // background
		color.RGBA{0xd0, 0xd0, 0xd0, 0xff}, // rods
		color.RGBA{0x4f, 0x9d, 0xff, 0xff}, // first bob
		color.RGBA{0xff, 0x6b, 0x6b, 0xff}, // second bob
		color.RGBA{0x3a, 0x3a, 0x52, 0xff}, // trail, old
		color.RGBA{0x6e, 0x6e, 0x9e, 0xff}, // trail, recent
	}

	// World box that always contains both bobs.
	reach := dp.L1 + dp.L2
	scale := float64(opts.Size) * 0.45 / reach
	cx, cy := opts.Size/2, opts.Size/2

	toPixel := func(wx, wy float64) (int, int) {
		return cx + int(wx*scale), cy - int(wy*scale)
	}

	anim := &gif.GIF{LoopCount: 0}
	trail := make([][2]int, 0, trailLength)

	for i := 0; i < len(result.States); i += opts.Stride {
		frame := image.NewPaletted(image.Rect(0, 0, opts.Size, opts.Size), palette)

		x1, y1, x2, y2 := dp.Positions(result.States[i])
		px0, py0 := toPixel(0, 0)
		px1, py1 := toPixel(x1, y1)
		px2, py2 := toPixel(x2, y2)

		trail = append(trail, [2]int{px2, py2})
		if len(trail) > trailLength {
			trail = trail[1:]
		}
		for j, p := range trail {
			ci := uint8(4)
			if j > len(trail)/2 {
				ci = 5
			}
			setPixel(frame, p[0], p[1], ci)
		}

		drawLine(frame, px0, py0, px1, py1, 1)
		drawLine(frame, px1, py1, px2, py2, 1)
		fillCircle(frame, px1, py1, bobRadius, 2)
		fillCircle(frame, px2, py2, bobRadius, 3)

		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, opts.Delay)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	if err := gif.EncodeAll(file, anim); err != nil {
		return fmt.Errorf("encode gif %s: %w", path, err)
	}
	return nil
}

func setPixel(img *image.Paletted, x, y int, ci uint8) {
	if image.Pt(x, y).In(img.Rect) {
		img.SetColorIndex(x, y, ci)
	}
}

// drawLine is Bresenham's algorithm on the paletted frame.
func drawLine(img *image.Paletted, x0, y0, x1, y1 int, ci uint8) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		setPixel(img, x0, y0, ci)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func fillCircle(img *image.Paletted, cx, cy, r int, ci uint8) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				setPixel(img, cx+dx, cy+dy, ci)
			}
		}
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
