package svgconv

import "github.com/benoitkugler/svgcut/svgpath"

// Exporter is the sink receiving the finished cut paths,
// in document order.
type Exporter interface {
	// Plot consumes a path expressed in root coordinates.
	// dash is the dash pattern (nil for a solid line), with lengths
	// in the coordinates of the element which produced the path.
	// inverse maps root coordinates back to these local coordinates.
	// Ownership of path and dash is transferred to the exporter.
	Plot(path svgpath.Path, dash []float64, inverse svgpath.Matrix2D)
}

// ExporterFunc adapts a function to the Exporter interface.
type ExporterFunc func(path svgpath.Path, dash []float64, inverse svgpath.Matrix2D)

func (f ExporterFunc) Plot(path svgpath.Path, dash []float64, inverse svgpath.Matrix2D) {
	f(path, dash, inverse)
}

// Node is an element of a Document, opaque to the contexts.
type Node interface {
	ID() string
}

// Document gives access to elements by id, independently of the
// current traversal position, and drives the loading of referenced
// elements.
type Document interface {
	// FindByID returns the element with the given id.
	FindByID(id string) (Node, bool)

	// LoadReferenced emits the events for node and its subtree,
	// using parent as the parent context: the context for node is
	// created with Enter(parent, kind). If node is not of one of the
	// expected kinds, an *UnexpectedElementError is returned and no
	// event is emitted.
	LoadReferenced(node Node, expected []ElementKind, parent Context) error
}
