package export

import (
	"fmt"
	"image/png"
	"io"
	"math"

	"SketchRoom/internal/render"
	"SketchRoom/internal/state"
)

// PNG rasterises shapes at the given scale.
func PNG(w io.Writer, shapes []state.Shape, scale float64) error {
	if scale <= 0 {
		scale = 1
	}
	shapes = drawable(shapes)
	pw, ph, panX, panY := page(shapes)
	r := render.NewRaster(int(math.Ceil(pw*scale)), int(math.Ceil(ph*scale)))
	render.NewRenderer(render.LightPalette, nil).Render(r, render.Frame{
		Shapes: shapes,
		Zoom:   scale,
		PanX:   panX * scale,
		PanY:   panY * scale,
	})
	if err := png.Encode(w, r.Image()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
