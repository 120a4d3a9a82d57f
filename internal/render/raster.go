package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"SketchRoom/internal/state"
)

// StrokeWidth is the logical line width used for every outline.
const StrokeWidth = 2

// MaxCachedFaces bounds the glyph face cache. Zoom and resize produce a
// new device size per step, so the oldest faces are evicted first.
const MaxCachedFaces = 32

var (
	goregularOnce sync.Once
	goregularFont *opentype.Font
	goregularErr  error
	faces         = faceCache{m: make(map[float64]font.Face)}
)

type faceCache struct {
	mu    sync.Mutex
	m     map[float64]font.Face
	order []float64
}

func (c *faceCache) get(size float64) (font.Face, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.m[size]
	return f, ok
}

func (c *faceCache) put(size float64, f font.Face) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.m[size]; ok {
		return
	}
	if len(c.order) >= MaxCachedFaces {
		delete(c.m, c.order[0])
		c.order = c.order[1:]
	}
	c.m[size] = f
	c.order = append(c.order, size)
}

func (c *faceCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

func faceForSize(size float64) (font.Face, error) {
	goregularOnce.Do(func() {
		goregularFont, goregularErr = opentype.Parse(goregular.TTF)
	})
	if goregularErr != nil {
		return nil, goregularErr
	}
	size = math.Max(1, math.Round(size*4)/4)
	if face, ok := faces.get(size); ok {
		return face, nil
	}
	face, err := opentype.NewFace(goregularFont, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	faces.put(size, face)
	return face, nil
}

// Raster draws into an RGBA image.
type Raster struct {
	img        *image.RGBA
	zoom       float64
	panX, panY float64
	col        color.Color
}

// NewRaster returns a surface over a fresh w×h image.
func NewRaster(w, h int) *Raster {
	return &Raster{
		img:  image.NewRGBA(image.Rect(0, 0, w, h)),
		zoom: 1,
		col:  color.White,
	}
}

// Image returns the backing image.
func (r *Raster) Image() *image.RGBA { return r.img }

// Resize replaces the backing image when the size changed.
func (r *Raster) Resize(w, h int) {
	if b := r.img.Bounds(); b.Dx() == w && b.Dy() == h {
		return
	}
	r.img = image.NewRGBA(image.Rect(0, 0, w, h))
}

func (r *Raster) Reset(background color.Color) {
	r.zoom, r.panX, r.panY = 1, 0, 0
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
}

func (r *Raster) SetTransform(zoom, panX, panY float64) {
	r.zoom, r.panX, r.panY = zoom, panX, panY
}

func (r *Raster) SetColor(c color.Color) { r.col = c }

func (r *Raster) device(x, y float64) (float64, float64) {
	return x*r.zoom + r.panX, y*r.zoom + r.panY
}

func (r *Raster) thickness() int {
	t := int(math.Round(StrokeWidth * r.zoom))
	if t < 1 {
		return 1
	}
	return t
}

func (r *Raster) Line(x0, y0, x1, y1 float64) {
	ax, ay := r.device(x0, y0)
	bx, by := r.device(x1, y1)
	r.deviceLine(ax, ay, bx, by, r.thickness())
}

func (r *Raster) Polyline(pts []state.Point, closed bool) {
	for i := 1; i < len(pts); i++ {
		r.Line(pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y)
	}
	if closed && len(pts) > 2 {
		last := pts[len(pts)-1]
		r.Line(last.X, last.Y, pts[0].X, pts[0].Y)
	}
}

func (r *Raster) StrokeRect(x, y, w, h float64) {
	r.Polyline([]state.Point{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}}, true)
}

func (r *Raster) FillRect(x, y, w, h float64) {
	ax, ay := r.device(x, y)
	bx, by := r.device(x+w, y+h)
	rect := image.Rect(int(math.Round(ax)), int(math.Round(ay)), int(math.Round(bx)), int(math.Round(by))).Canon()
	draw.Draw(r.img, rect.Intersect(r.img.Bounds()), image.NewUniform(r.col), image.Point{}, draw.Over)
}

func (r *Raster) Circle(cx, cy, radius float64) {
	dx, dy := r.device(cx, cy)
	rr := radius * r.zoom
	steps := int(math.Ceil(2 * math.Pi * rr / 4))
	if steps < 16 {
		steps = 16
	}
	if steps > 4096 {
		steps = 4096
	}
	t := r.thickness()
	px, py := dx+rr, dy
	for i := 1; i <= steps; i++ {
		angle := 2 * math.Pi * float64(i) / float64(steps)
		x := dx + math.Cos(angle)*rr
		y := dy + math.Sin(angle)*rr
		r.deviceLine(px, py, x, y, t)
		px, py = x, y
	}
}

// Text skips glyphs far larger than the image: the glyph mask is sized to
// the glyph, not to the destination.
func (r *Raster) Text(x, y float64, s string, size float64) {
	px := size * r.zoom
	b := r.img.Bounds()
	if limit := 4 * math.Max(64, float64(max(b.Dx(), b.Dy()))); !(px > 0) || px > limit {
		return
	}
	face, err := faceForSize(px)
	if err != nil {
		return
	}
	dx, dy := r.device(x, y)
	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(r.col),
		Face: face,
		Dot:  fixed.P(int(math.Round(dx)), int(math.Round(dy))),
	}
	d.DrawString(s)
}

func (r *Raster) deviceLine(x0, y0, x1, y1 float64, thick int) {
	b := r.img.Bounds().Inset(-thick)
	var ok bool
	x0, y0, x1, y1, ok = clipSegment(x0, y0, x1, y1, b)
	if !ok {
		return
	}
	drawLine(r.img, int(math.Round(x0)), int(math.Round(y0)), int(math.Round(x1)), int(math.Round(y1)), r.col, thick)
}

// clipSegment trims a segment to rect so far-off geometry never turns into
// an unbounded pixel walk.
func clipSegment(x0, y0, x1, y1 float64, rect image.Rectangle) (float64, float64, float64, float64, bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := x1-x0, y1-y0
	edges := [4][2]float64{
		{-dx, x0 - float64(rect.Min.X)},
		{dx, float64(rect.Max.X) - x0},
		{-dy, y0 - float64(rect.Min.Y)},
		{dy, float64(rect.Max.Y) - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			if t < t1 {
				t1 = t
			}
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

func setThickPixel(img *image.RGBA, x, y, thick int, col color.Color) {
	r := thick / 2
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			px := x + dx
			py := y + dy
			if image.Pt(px, py).In(img.Bounds()) {
				img.Set(px, py, col)
			}
		}
	}
}

func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	dx := math.Abs(float64(x1 - x0))
	dy := math.Abs(float64(y1 - y0))
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
		setThickPixel(img, x0, y0, thick, col)
		if x0 == x1 && y0 == y1 {
			break
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
