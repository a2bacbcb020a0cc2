package hive

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	herrors "github.com/matzehuels/hiveplot/pkg/errors"
)

// Default option values.
const (
	DefaultCanvasRadius    = 5000.0
	DefaultNumAxes         = 3
	DefaultAxisMetric      = "betweenness"
	DefaultNodeOrderMetric = "degree"
)

var validate = validator.New()

// Options configures a layout pass. The zero value is invalid; start from
// [DefaultOptions].
type Options struct {
	// CanvasRadius is the length of each axis in canvas units.
	CanvasRadius float64 `json:"canvas_radius" toml:"canvas_radius" bson:"canvas_radius" validate:"gt=0"`
	// NumAxes is the number of radial axes.
	NumAxes int `json:"num_axes" toml:"num_axes" bson:"num_axes" validate:"gt=0"`
	// AxisMetric names the metric that assigns nodes to axes.
	AxisMetric string `json:"axis_metric" toml:"axis_metric" bson:"axis_metric" validate:"omitempty,max=128"`
	// NodeOrderMetric names the metric that positions nodes along an axis.
	NodeOrderMetric string `json:"node_order_metric" toml:"node_order_metric" bson:"node_order_metric" validate:"omitempty,max=128"`
	// SortWithinAxis re-sorts each axis group by the node-order metric
	// before placement.
	SortWithinAxis bool `json:"sort_within_axis" toml:"sort_within_axis" bson:"sort_within_axis"`
	// SortAscending selects ascending order when SortWithinAxis is set.
	SortAscending bool `json:"sort_ascending" toml:"sort_ascending" bson:"sort_ascending"`
}

// DefaultOptions returns the default layout configuration.
func DefaultOptions() Options {
	return Options{
		CanvasRadius:    DefaultCanvasRadius,
		NumAxes:         DefaultNumAxes,
		AxisMetric:      DefaultAxisMetric,
		NodeOrderMetric: DefaultNodeOrderMetric,
	}
}

// Order returns the within-axis ordering requested by o.
func (o Options) Order() Order {
	return Order{Sort: o.SortWithinAxis, Ascending: o.SortAscending}
}

// Validate reports an INVALID_CONFIG error if o cannot drive a layout.
func (o Options) Validate() error {
	if math.IsNaN(o.CanvasRadius) || math.IsInf(o.CanvasRadius, 0) {
		return herrors.New(herrors.ErrCodeInvalidConfig, "canvas_radius must be finite, got %v", o.CanvasRadius)
	}
	if err := validate.Struct(o); err != nil {
		return herrors.Wrap(herrors.ErrCodeInvalidConfig, err, "%s", formatValidationError(err))
	}
	return nil
}

// formatValidationError converts validator errors to a short message
// naming the first offending field.
func formatValidationError(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "invalid options"
	}
	e := verrs[0]
	switch e.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be greater than %s, got %v", e.Field(), e.Param(), e.Value())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s: validation failed (%s)", e.Field(), e.Tag())
	}
}
