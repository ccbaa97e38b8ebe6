package svgdoc

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/benoitkugler/svgcut/svgconv"
	"github.com/benoitkugler/svgcut/svgdraw"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	svgconv.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { svgconv.SetLogger(nil) })
	return &buf
}

func convertString(t *testing.T, src string, opts Options) (*svgdraw.Recorder, Result, error) {
	t.Helper()
	var rec svgdraw.Recorder
	res, err := Convert(strings.NewReader(src), &rec, opts)
	return &rec, res, err
}

func cutStrings(rec *svgdraw.Recorder) []string {
	var out []string
	for _, cut := range rec.Cuts {
		out = append(out, cut.Path.String())
	}
	return out
}

func TestParse(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, errEmptyDocument)

	_, err = Parse(strings.NewReader("<g/>"))
	assert.ErrorIs(t, err, errNotSVG)

	_, err = Parse(strings.NewReader("<svg><g></svg>"))
	assert.Error(t, err)

	doc, err := Parse(strings.NewReader(`<svg xmlns="http://www.w3.org/2000/svg">
		<rect id="a" width="1"/><circle id="a"/><g id="b"/>
	</svg>`))
	require.NoError(t, err)
	n, ok := doc.FindByID("a")
	require.True(t, ok)
	assert.Equal(t, "rect", n.Name) // first element wins
	_, ok = doc.FindByID("c")
	assert.False(t, ok)
}

func TestParseCharset(t *testing.T) {
	src := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<svg><title>caf\xe9</title><rect id=\"\xe9\"/></svg>"
	doc, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	_, ok := doc.FindByID("é")
	assert.True(t, ok)
}

func TestConvertShapes(t *testing.T) {
	rec, res, err := convertString(t, `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="50">
		<title>ignored</title>
		<g transform="translate(10,0)">
			<rect x="0" y="0" width="10" height="5"/>
			<line x1="0" y1="0" x2="5" y2="5" stroke="red"/>
			<polyline points="0,0 1,1 2,0 3"/>
			<polygon points="0,0 1,1 2,0"/>
			<rect width="0" height="5"/>
			<circle r="0"/>
		</g>
	</svg>`, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"M10,0 L20,0 L20,5 L10,5 Z",
		"M10,0 L15,5",
		"M10,0 L11,1 L12,0",
		"M10,0 L11,1 L12,0 Z",
	}, cutStrings(rec))
	assert.Equal(t, svgconv.Viewport{Width: 100, Height: 50}, res.Page)
	assert.NotEqual(t, uuid.Nil, res.JobID)
}

func TestConvertEmptyShapes(t *testing.T) {
	rec, _, err := convertString(t, `<svg width="10" height="10">
		<rect width="0" height="5"/>
		<circle r="0"/>
		<path/>
		<path d=""/>
		<polyline points="1,1"/>
	</svg>`, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, rec.Cuts)
}

func TestConvertCircle(t *testing.T) {
	rec, _, err := convertString(t, `<svg width="100" height="100">
		<circle cx="50" cy="50" r="10"/>
		<ellipse cx="50" cy="50" rx="20"/>
	</svg>`, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, rec.Cuts, 2)
	bbox, ok := rec.Cuts[0].Path.Bounds()
	require.True(t, ok)
	assert.InDelta(t, 40, bbox.MinX, 1e-9)
	assert.InDelta(t, 60, bbox.MaxY, 1e-9)
	bbox, _ = rec.Cuts[1].Path.Bounds()
	assert.InDelta(t, 30, bbox.MinX, 1e-9)
	assert.InDelta(t, 30, bbox.MinY, 1e-9)
}

func TestConvertStrokeInheritance(t *testing.T) {
	rec, _, err := convertString(t, `<svg width="100" height="100">
		<g style="stroke:none">
			<rect width="10" height="10"/>
			<rect width="10" height="10" stroke="black"/>
		</g>
		<rect width="10" height="10" stroke="none"/>
		<rect width="10" height="10" stroke-dasharray="5 2"/>
		<g stroke-dasharray="4"><line x2="10"/></g>
	</svg>`, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, rec.Cuts, 3)
	assert.Nil(t, rec.Cuts[0].Dash)
	assert.Equal(t, []float64{5, 2}, rec.Cuts[1].Dash)
	assert.Equal(t, []float64{4, 4}, rec.Cuts[2].Dash)
}

const hatchDocument = `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20">
	<defs>
		<pattern id="hatch" patternUnits="userSpaceOnUse" width="10" height="10">
			<line x1="0" y1="5" x2="10" y2="5"/>
		</pattern>
	</defs>
	<rect width="20" height="20" fill="url(#hatch)"/>
</svg>`

func TestConvertPattern(t *testing.T) {
	rec, _, err := convertString(t, hatchDocument, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"M0,5 L10,5", "M10,5 L20,5",
		"M0,15 L10,15", "M10,15 L20,15",
		"M0,0 L20,0 L20,20 L0,20 Z", // the outline comes last
	}, cutStrings(rec))
}

func TestConvertPatternTransform(t *testing.T) {
	for _, src := range []string{
		`<svg width="20" height="20">
			<pattern id="hatch" patternUnits="userSpaceOnUse" width="10" height="10" patternTransform="translate(0,2)">
				<line x1="0" y1="5" x2="10" y2="5"/>
			</pattern>
			<rect width="20" height="20" fill="url(#hatch)" stroke="none"/>
		</svg>`,
		// the view box overrides the content units
		`<svg width="20" height="20">
			<pattern id="hatch" patternUnits="userSpaceOnUse" patternContentUnits="objectBoundingBox"
				width="10" height="10" viewBox="0 0 1 1" patternTransform="translate(0,2)">
				<line x1="0" y1="0.5" x2="1" y2="0.5"/>
			</pattern>
			<rect width="20" height="20" fill="url(#hatch)" stroke="none"/>
		</svg>`,
	} {
		rec, _, err := convertString(t, src, DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, []string{
			"M0,7 L10,7", "M10,7 L20,7",
			"M0,17 L10,17", "M10,17 L20,17",
		}, cutStrings(rec))
	}
}

func TestConvertPatternInherited(t *testing.T) {
	rec, _, err := convertString(t, `<svg width="20" height="20">
		<pattern id="base" patternUnits="userSpaceOnUse" width="10" height="10">
			<line x1="0" y1="5" x2="10" y2="5"/>
		</pattern>
		<pattern id="hatch" href="#base"/>
		<g fill="url(#hatch)" stroke="none">
			<rect width="20" height="20"/>
		</g>
	</svg>`, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"M0,5 L10,5", "M10,5 L20,5",
		"M0,15 L10,15", "M10,15 L20,15",
	}, cutStrings(rec))
}

func TestConvertPatternDoesNotInheritShapeStyle(t *testing.T) {
	rec, _, err := convertString(t, `<svg width="20" height="20">
		<pattern id="hatch" patternUnits="userSpaceOnUse" width="10" height="10">
			<line x1="0" y1="5" x2="10" y2="5"/>
		</pattern>
		<rect width="20" height="20" fill="url(#hatch)" stroke="none"/>
	</svg>`, DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, rec.Cuts, 4)
}

func TestConvertWrongReference(t *testing.T) {
	logs := captureLogs(t)
	rec, _, err := convertString(t, `<svg width="20" height="20">
		<defs><circle id="c" r="5"/></defs>
		<rect width="20" height="20" fill="url(#c)"/>
		<rect width="20" height="20" fill="url(#missing)"/>
	</svg>`, Options{ErrorMode: StrictErrorMode})
	require.NoError(t, err)
	assert.Len(t, rec.Cuts, 2)
	assert.Contains(t, logs.String(), "Invalid referenced element")
}

func TestConvertUse(t *testing.T) {
	rec, _, err := convertString(t, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="100" height="100">
		<defs><rect id="r" width="10" height="10"/></defs>
		<use href="#r" x="5" y="5"/>
		<use xlink:href="#r" x="20" stroke-dasharray="2"/>
	</svg>`, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"M5,5 L15,5 L15,15 L5,15 Z",
		"M20,0 L30,0 L30,10 L20,10 Z",
	}, cutStrings(rec))
	// referenced content inherits from the use element
	assert.Equal(t, []float64{2, 2}, rec.Cuts[1].Dash)
}

func TestConvertUseSymbol(t *testing.T) {
	rec, _, err := convertString(t, `<svg width="100" height="100">
		<symbol id="icon" viewBox="0 0 1 1">
			<rect width="1" height="1"/>
		</symbol>
		<use href="#icon" x="5" width="10" height="10"/>
		<use href="#icon" x="50" y="50" width="20" height="20"/>
	</svg>`, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"M5,0 L15,0 L15,10 L5,10 Z",
		"M50,50 L70,50 L70,70 L50,70 Z",
	}, cutStrings(rec))
}

func TestConvertUseCycle(t *testing.T) {
	logs := captureLogs(t)
	rec, _, err := convertString(t, `<svg width="100" height="100">
		<g id="a">
			<rect width="10" height="10"/>
			<use href="#a" x="10"/>
		</g>
	</svg>`, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"M0,0 L10,0 L10,10 L0,10 Z",
		"M10,0 L20,0 L20,10 L10,10 Z",
	}, cutStrings(rec))
	assert.Contains(t, logs.String(), "Cyclic reference")
}

func TestConvertViewBox(t *testing.T) {
	rec, res, err := convertString(t, `<svg width="200" height="100" viewBox="0 0 20 10">
		<rect width="10" height="10"/>
	</svg>`, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"M0,0 L100,0 L100,100 L0,100 Z"}, cutStrings(rec))
	assert.Equal(t, svgconv.Viewport{Width: 200, Height: 100}, res.Page)

	// the view box gives the size
	_, res, err = convertString(t, `<svg width="100%" viewBox="0 0 50 40"/>`, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, svgconv.Viewport{Width: 50, Height: 40}, res.Page)

	_, res, err = convertString(t, `<svg width="1in" height="2in"/>`, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, svgconv.Viewport{Width: 96, Height: 192}, res.Page)
}

func TestConvertNestedSVG(t *testing.T) {
	rec, _, err := convertString(t, `<svg width="100" height="100">
		<svg x="10" y="20" width="50" height="50" viewBox="0 0 5 5">
			<rect width="50%" height="1"/>
		</svg>
	</svg>`, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"M10,20 L35,20 L35,30 L10,30 Z"}, cutStrings(rec))
}

func TestConvertMalformedPath(t *testing.T) {
	logs := captureLogs(t)
	rec, _, err := convertString(t, `<svg width="100" height="100">
		<path d="M0,0 L10,10 L5"/>
	</svg>`, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"M0,0 L10,10"}, cutStrings(rec))
	assert.Contains(t, logs.String(), "level=WARN")

	_, _, err = convertString(t, `<svg><path d="M0,0 L10,10 L5"/></svg>`, Options{ErrorMode: StrictErrorMode})
	assert.Error(t, err)
}

func TestConvertErrorModes(t *testing.T) {
	const src = `<svg width="100" height="100">
		<foo/>
		<rect width="abc" height="10"/>
		<rect width="10" height="10"/>
	</svg>`

	logs := captureLogs(t)
	rec, _, err := convertString(t, src, Options{ErrorMode: IgnoreErrorMode})
	require.NoError(t, err)
	assert.Len(t, rec.Cuts, 1)
	assert.NotContains(t, logs.String(), "level=WARN")

	rec, _, err = convertString(t, src, Options{ErrorMode: WarnErrorMode})
	require.NoError(t, err)
	assert.Len(t, rec.Cuts, 1)
	assert.Contains(t, logs.String(), "cannot process svg element foo")

	_, _, err = convertString(t, src, Options{ErrorMode: StrictErrorMode})
	assert.ErrorIs(t, err, errUnsupportedElement)

	_, _, err = convertString(t, `<svg><rect width="abc" height="10"/></svg>`, Options{ErrorMode: StrictErrorMode})
	assert.ErrorIs(t, err, errInvalidLength)
}

func TestConvertColorFill(t *testing.T) {
	logs := captureLogs(t)
	rec, _, err := convertString(t, `<svg width="10" height="10">
		<rect width="5" height="5" fill="rgba(255,0,0,0.5)"/>
		<rect width="5" height="5" fill="hsl(120, 100%, 50%)" stroke="transparent"/>
	</svg>`, DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, rec.Cuts, 2)
	assert.Contains(t, logs.String(), "Ignoring color value")
	assert.NotContains(t, logs.String(), "level=WARN")
}

func TestConvertJobID(t *testing.T) {
	id := uuid.New()
	opts := DefaultOptions()
	opts.JobID = id
	_, res, err := convertString(t, `<svg/>`, opts)
	require.NoError(t, err)
	assert.Equal(t, id, res.JobID)
}
