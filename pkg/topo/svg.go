package topo

import (
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/golang/geo/r3"
)

// svgCanvas is the output width and height in SVG user units.
const svgCanvas = 800

// svgMargin keeps strokes away from the canvas border.
const svgMargin = 20

// WriteSVG renders a top-down XY projection of the collection. Faces are
// drawn as polygons, edges and wires as lines, vertices as small circles.
// The drawing is scaled to fit the canvas and flipped so +y points up.
func WriteSVG(w io.Writer, c *Collection) error {
	box, err := c.BBox()
	if err != nil {
		return err
	}
	bounds := box.Bounds()
	spanX := bounds[1] - bounds[0]
	spanY := bounds[3] - bounds[2]
	span := math.Max(spanX, spanY)
	if span <= ShapeTolerance {
		span = 1
	}
	scale := float64(svgCanvas-2*svgMargin) / span

	toX := func(p r3.Vector) int {
		return svgMargin + int(math.Round((p.X-bounds[0])*scale))
	}
	toY := func(p r3.Vector) int {
		return svgCanvas - svgMargin - int(math.Round((p.Y-bounds[2])*scale))
	}

	canvas := svg.New(w)
	canvas.Start(svgCanvas, svgCanvas)

	for _, s := range c.shapes {
		switch v := s.(type) {
		case *Vertex:
			canvas.Circle(toX(v.P), toY(v.P), 3, "fill:black")
		case *Edge:
			canvas.Line(toX(v.A), toY(v.A), toX(v.B), toY(v.B), "stroke:black;stroke-width:1")
		case *Wire:
			for _, e := range v.Edges() {
				canvas.Line(toX(e.A), toY(e.A), toX(e.B), toY(e.B), "stroke:black;stroke-width:1")
			}
		default:
			for _, f := range s.Faces() {
				corners := f.Corners()
				xs := make([]int, len(corners))
				ys := make([]int, len(corners))
				for i, p := range corners {
					xs[i] = toX(p)
					ys[i] = toY(p)
				}
				canvas.Polygon(xs, ys, "fill:none;stroke:black;stroke-width:1")
			}
		}
	}

	canvas.End()
	return nil
}
