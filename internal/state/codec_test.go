package state

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCarriesType(t *testing.T) {
	data, err := Encode(&Rect{Base: Base{ID: "r1"}, Frame: Frame{X: 10, Y: 10, Width: 100, Height: -50}})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "rect", doc["type"])
	assert.Equal(t, "r1", doc["id"])
	assert.EqualValues(t, 100, doc["width"])
	assert.EqualValues(t, -50, doc["height"])
}

func TestDecodeEachKind(t *testing.T) {
	cases := []struct {
		doc  string
		want Shape
	}{
		{
			doc:  `{"type":"rect","id":"a","x":1,"y":2,"width":3,"height":4}`,
			want: &Rect{Base: Base{ID: "a"}, Frame: Frame{X: 1, Y: 2, Width: 3, Height: 4}},
		},
		{
			doc:  `{"type":"diamond","id":"b","x":1,"y":2,"width":3,"height":4}`,
			want: &Diamond{Base: Base{ID: "b"}, Frame: Frame{X: 1, Y: 2, Width: 3, Height: 4}},
		},
		{
			doc:  `{"type":"circle","id":"c","centerX":5,"centerY":6,"radius":7}`,
			want: &Circle{Base: Base{ID: "c"}, CenterX: 5, CenterY: 6, Radius: 7},
		},
		{
			doc:  `{"type":"line","startX":1,"startY":2,"endX":3,"endY":4}`,
			want: &Line{Segment: Segment{StartX: 1, StartY: 2, EndX: 3, EndY: 4}},
		},
		{
			doc:  `{"type":"arrow","id":"e","startX":1,"startY":2,"endX":3,"endY":4}`,
			want: &Arrow{Base: Base{ID: "e"}, Segment: Segment{StartX: 1, StartY: 2, EndX: 3, EndY: 4}},
		},
		{
			doc:  `{"type":"pencil","id":"f","points":[{"x":1,"y":2},{"x":3,"y":4}]}`,
			want: &Pencil{Base: Base{ID: "f"}, Points: []Point{{1, 2}, {3, 4}}},
		},
		{
			doc:  `{"type":"text","id":"g","x":1,"y":2,"content":"hi","fontSize":20}`,
			want: &Text{Base: Base{ID: "g"}, X: 1, Y: 2, Content: "hi", FontSize: 20},
		},
	}
	for _, tc := range cases {
		got, err := Decode([]byte(tc.doc))
		require.NoError(t, err, tc.doc)
		assert.Equal(t, tc.want, got, tc.doc)
	}
}

func TestDecodeRejectsBadDocuments(t *testing.T) {
	_, err := Decode([]byte(`{"x":1}`))
	assert.True(t, errors.Is(err, ErrMissingKind))

	_, err = Decode([]byte(`{"type":"hexagon"}`))
	assert.True(t, errors.Is(err, ErrUnknownKind))

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"type":"rect","x":"wide"}`))
	assert.Error(t, err)
}

func TestTextSizeDefault(t *testing.T) {
	assert.Equal(t, float64(DefaultFontSize), (&Text{}).Size())
	assert.Equal(t, 30.0, (&Text{FontSize: 30}).Size())
}

func TestPencilCloneIsDeep(t *testing.T) {
	p := &Pencil{Points: []Point{{1, 1}}}
	c := p.Clone().(*Pencil)
	c.Points[0].X = 99
	assert.Equal(t, 1.0, p.Points[0].X)
}
