package hive

import "math"

// Point is a 2-D canvas position.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Axis describes one radial axis of the plot.
type Axis struct {
	Index int     `json:"index" bson:"index"`
	Angle float64 `json:"angle" bson:"angle"` // degrees, counter-clockwise from +x
	End   Point   `json:"end" bson:"end"`     // integer-rounded endpoint
	Scale Point   `json:"scale" bson:"scale"` // component-wise |End|
}

// Geometry returns the axes for a plot of numAxes axes on a canvas of the
// given radius. Axis x sits at 360°/numAxes·(x+1), so the last axis always
// points along +x. Endpoint components are rounded half-up.
func Geometry(numAxes int, radius float64) []Axis {
	if numAxes <= 0 {
		return nil
	}
	step := 360.0 / float64(numAxes)
	axes := make([]Axis, numAxes)
	for x := range axes {
		angle := step * float64(x+1)
		rad := angle * math.Pi / 180
		end := Point{
			X: roundHalfUp(radius * math.Cos(rad)),
			Y: roundHalfUp(radius * math.Sin(rad)),
		}
		axes[x] = Axis{
			Index: x,
			Angle: angle,
			End:   end,
			Scale: Point{X: math.Abs(end.X), Y: math.Abs(end.Y)},
		}
	}
	return axes
}

// roundHalfUp rounds to the nearest integer with ties toward +∞, so -2.5
// becomes -2 and 2.5 becomes 3.
func roundHalfUp(v float64) float64 {
	r := math.Floor(v + 0.5)
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
