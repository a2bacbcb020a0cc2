package cache

// Keyer generates cache keys.
type Keyer interface {
	// GraphKey returns the key for a parsed input graph with the given content hash.
	GraphKey(graphHash string) string
	// LayoutKey returns the key for a layout of the given graph under opts.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts lists every input besides the graph that changes a layout.
type LayoutKeyOpts struct {
	CanvasRadius    float64 `json:"r"`
	NumAxes         int     `json:"n"`
	AxisMetric      string  `json:"am"`
	NodeOrderMetric string  `json:"om"`
	SortWithinAxis  bool    `json:"s"`
	SortAscending   bool    `json:"a"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// GraphKey implements Keyer.
func (DefaultKeyer) GraphKey(graphHash string) string {
	return "graph:" + graphHash
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}
