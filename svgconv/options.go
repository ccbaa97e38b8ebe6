package svgconv

import "github.com/benoitkugler/svgcut/svgpath"

// DefaultMaxPatternTiles is the default limit on the number of
// tiles generated for one pattern fill.
const DefaultMaxPatternTiles = 10000

// Options tunes the conversion.
type Options struct {
	// FlattenTolerance is used when clipping pattern content,
	// in root units. Zero means svgpath.DefaultTolerance.
	FlattenTolerance float64
	// MaxPatternTiles stops pattern tiling when reached.
	// Zero means DefaultMaxPatternTiles.
	MaxPatternTiles int
}

func (o Options) withDefaults() Options {
	if o.FlattenTolerance <= 0 {
		o.FlattenTolerance = svgpath.DefaultTolerance
	}
	if o.MaxPatternTiles <= 0 {
		o.MaxPatternTiles = DefaultMaxPatternTiles
	}
	return o
}
