package svgdoc

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/benoitkugler/svgcut/svgconv"
	"github.com/benoitkugler/svgcut/svgpath"
	"github.com/google/uuid"
)

// traversal walks a document, creating one context per element.
// It implements svgconv.Document for the references resolved by
// the contexts.
type traversal struct {
	doc  *Document
	opts Options
	// inherited presentation attributes (fill, stroke, stroke-dasharray)
	styles []map[string]string
	// first error raised in strict mode, possibly absorbed
	// by a context while loading a reference
	err error
}

// handleError reacts to a malformed attribute or an unsupported
// element, according to the error mode. A non nil error is only
// returned in strict mode.
func (t *traversal) handleError(err error) error {
	switch t.opts.ErrorMode {
	case StrictErrorMode:
		if t.err == nil {
			t.err = err
		}
		return err
	case WarnErrorMode:
		svgconv.Logger().Warn("Invalid svg content", slog.Any("error", err))
	default:
		svgconv.Logger().Debug("Invalid svg content", slog.Any("error", err))
	}
	return nil
}

func (t *traversal) pushStyle(n *Node) {
	current := make(map[string]string)
	if len(t.styles) != 0 {
		maps.Copy(current, t.styles[len(t.styles)-1])
	}
	for k, v := range styleDeclarations(n) {
		if v == "inherit" {
			if _, has := current[k]; has {
				continue
			}
		}
		current[k] = v
	}
	t.styles = append(t.styles, current) // Push style onto stack
}

func (t *traversal) popStyle() { t.styles = t.styles[:len(t.styles)-1] }

func (t *traversal) style() map[string]string { return t.styles[len(t.styles)-1] }

// emit sends path to ctx, if it accepts geometry.
func (t *traversal) emit(ctx svgconv.Context, path svgpath.Path) {
	if b, ok := ctx.(svgconv.PathBuilder); ok {
		replay(path, b)
	}
}

func (t *traversal) FindByID(id string) (svgconv.Node, bool) {
	n, ok := t.doc.FindByID(id)
	if !ok {
		return nil, false
	}
	return n, true
}

// LoadReferenced processes the subtree of node, as a child of parent.
// Patterns don't inherit the presentation attributes of the
// referencing shape.
func (t *traversal) LoadReferenced(node svgconv.Node, expected []svgconv.ElementKind, parent svgconv.Context) error {
	n, ok := node.(*Node)
	if !ok {
		return fmt.Errorf("unexpected node type %T", node)
	}
	el, ok := drawFuncs[n.Name]
	if !ok || !slices.Contains(expected, el.kind) {
		return &svgconv.UnexpectedElementError{ID: n.ID(), Name: n.Name, Expected: expected}
	}
	if el.kind == svgconv.KindPattern {
		saved := t.styles
		t.styles = nil
		defer func() { t.styles = saved }()
	}
	return t.loadElement(n, parent, true)
}

// loadElement emits the events for n and its subtree.
// Patterns and symbols are only loaded through references.
func (t *traversal) loadElement(n *Node, parent svgconv.Context, referenced bool) error {
	el, ok := drawFuncs[n.Name]
	if !ok || (referencedOnly[n.Name] && !referenced) {
		if skippedElements[n.Name] {
			return nil
		}
		return t.handleError(fmt.Errorf("%w %s", errUnsupportedElement, n.Name))
	}
	ctx, err := svgconv.Enter(parent, el.kind)
	if err != nil {
		return t.handleError(err)
	}

	t.pushStyle(n)
	defer t.popStyle()

	if err := t.commonAttributes(n, ctx); err != nil {
		return err
	}
	if el.decode != nil {
		if err := el.decode(t, n, ctx); err != nil {
			return err
		}
	}
	if el.container {
		children := n.Children
		if el.kind == svgconv.KindPattern {
			_, content := t.patternTemplate(n)
			children = content.Children
		}
		for _, child := range children {
			if err := t.loadElement(child, ctx, false); err != nil {
				return err
			}
		}
	}
	return ctx.OnExitElement()
}

// commonAttributes decodes the transform and the paint attributes.
func (t *traversal) commonAttributes(n *Node, ctx svgconv.Context) error {
	if tr, ok := ctx.(svgconv.Transformable); ok {
		if v, has := n.attr("transform"); has {
			m, err := parseTransform(v)
			if err != nil {
				if err := t.handleError(fmt.Errorf("<%s> attribute transform: %w", n.Name, err)); err != nil {
					return err
				}
			} else {
				tr.SetTransform(m)
			}
		}
	}

	p, ok := ctx.(svgconv.Painter)
	if !ok {
		return nil
	}
	style := t.style()
	if v, has := style["fill"]; has {
		p.SetFill(parsePaint(v))
	}
	if v, has := style["stroke"]; has {
		p.SetStroke(parsePaint(v))
	}
	if v, has := style["stroke-dasharray"]; has {
		dash, err := parseDashArray(v, ctx.Viewport())
		if err != nil {
			if err := t.handleError(fmt.Errorf("<%s> attribute stroke-dasharray: %w", n.Name, err)); err != nil {
				return err
			}
		} else {
			p.SetDashArray(dash)
		}
	}
	return nil
}

// Convert processes the document, sending the cut paths to exporter.
func (doc *Document) Convert(exporter svgconv.Exporter, opts Options) (Result, error) {
	if opts.JobID == uuid.Nil {
		opts.JobID = uuid.New()
	}
	logger := svgconv.Logger().With(slog.String("job", opts.JobID.String()))
	logger.Debug("Starting conversion", slog.String("errorMode", opts.ErrorMode.String()))

	t := &traversal{doc: doc, opts: opts}
	root := svgconv.NewRoot(exporter, t, opts.core())
	err := t.loadElement(doc.Root, root, false)
	if err == nil {
		err = t.err
	}
	res := Result{JobID: opts.JobID, Page: root.Viewport()}
	if err != nil {
		return res, err
	}
	logger.Debug("Conversion done", slog.Float64("width", res.Page.Width), slog.Float64("height", res.Page.Height))
	return res, nil
}

// Convert parses the SVG document read from r and
// converts it, see Document.Convert.
func Convert(r io.Reader, exporter svgconv.Exporter, opts Options) (Result, error) {
	doc, err := Parse(r)
	if err != nil {
		return Result{}, err
	}
	return doc.Convert(exporter, opts)
}

// ConvertFile parses and converts the named file.
func ConvertFile(filename string, exporter svgconv.Exporter, opts Options) (Result, error) {
	doc, err := ParseFile(filename)
	if err != nil {
		return Result{}, err
	}
	return doc.Convert(exporter, opts)
}
