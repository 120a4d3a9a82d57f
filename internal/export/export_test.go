package export

import (
	"bytes"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SketchRoom/internal/state"
)

func sample() []state.Shape {
	return []state.Shape{
		&state.Rect{Frame: state.Frame{X: 10, Y: 10, Width: 100, Height: 50}},
		&state.Arrow{Segment: state.Segment{StartX: 0, StartY: 0, EndX: 60, EndY: 80}},
		&state.Text{X: 20, Y: 40, Content: "hello"},
		&state.Pencil{Points: []state.Point{{X: 1, Y: 1}, {X: 5, Y: 9}}},
	}
}

func TestPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, sample()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPDFEmptyBoard(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, nil))
	assert.NotZero(t, buf.Len())
}

func TestPNGSizedToExtent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, sample(), 2))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	// extent is 0..110 by 0..80, padded by 20 on each side
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 240, img.Bounds().Dy())
}

func TestPageIgnoresInvalidShapes(t *testing.T) {
	shapes := drawable(append(sample(), &state.Circle{CenterX: math.NaN(), Radius: 3}))
	w, h, panX, panY := page(shapes)
	assert.Equal(t, 150.0, w)
	assert.Equal(t, 120.0, h)
	assert.Equal(t, 20.0, panX)
	assert.Equal(t, 20.0, panY)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteFile(filepath.Join(dir, "board.pdf"), sample()))
	require.NoError(t, WriteFile(filepath.Join(dir, "board.PNG"), sample()))
	assert.ErrorIs(t, WriteFile(filepath.Join(dir, "board.svg"), sample()), ErrUnsupportedFormat)

	_, err := os.Stat(filepath.Join(dir, "board.svg"))
	assert.True(t, os.IsNotExist(err))
}
