package svgdoc

import (
	"github.com/benoitkugler/svgcut/svgconv"
	"github.com/benoitkugler/svgcut/svgpath"
	"github.com/google/uuid"
)

// ErrorMode sets how the converter reacts to unsupported elements
// and malformed attributes.
type ErrorMode uint8

const (
	// IgnoreErrorMode skips unsupported elements and invalid values silently.
	IgnoreErrorMode ErrorMode = iota

	// WarnErrorMode logs a warning for unsupported elements and
	// invalid values, and skips them.
	WarnErrorMode

	// StrictErrorMode aborts the conversion.
	StrictErrorMode
)

func (m ErrorMode) String() string {
	switch m {
	case IgnoreErrorMode:
		return "ignore"
	case WarnErrorMode:
		return "warn"
	case StrictErrorMode:
		return "strict"
	default:
		return "<invalid error mode>"
	}
}

// Options configures a conversion.
type Options struct {
	ErrorMode ErrorMode

	// FlattenTolerance is the maximum distance, in root units, between
	// a curve and its approximation when pattern content is clipped.
	FlattenTolerance float64

	// MaxPatternTiles limits the tiles generated by one pattern fill.
	MaxPatternTiles int

	// JobID identifies the conversion in logs and exported metadata.
	// A random one is generated if nil.
	JobID uuid.UUID
}

// DefaultOptions returns the options used by the command line tool.
func DefaultOptions() Options {
	return Options{
		ErrorMode:        WarnErrorMode,
		FlattenTolerance: svgpath.DefaultTolerance,
		MaxPatternTiles:  svgconv.DefaultMaxPatternTiles,
	}
}

func (o Options) core() svgconv.Options {
	return svgconv.Options{
		FlattenTolerance: o.FlattenTolerance,
		MaxPatternTiles:  o.MaxPatternTiles,
	}
}

// Result describes a finished conversion.
type Result struct {
	JobID uuid.UUID
	// Page is the size of the outermost svg element, in user units
	// (CSS pixels).
	Page svgconv.Viewport
}
