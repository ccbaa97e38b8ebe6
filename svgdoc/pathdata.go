package svgdoc

import (
	"fmt"

	"github.com/benoitkugler/svgcut/svgconv"
	"github.com/benoitkugler/svgcut/svgpath"
	numparse "github.com/tdewolff/parse/v2/strconv"
)

// number of arguments of each path command
var cmdLens = map[byte]int{
	'M': 2,
	'Z': 0,
	'L': 2,
	'H': 1,
	'V': 1,
	'C': 6,
	'S': 4,
	'Q': 4,
	'T': 2,
	'A': 7,
}

// parsePathData reads the d attribute of a path element, reducing
// it to absolute move, line, cubic and close commands.
// On error, the commands read before the error are returned.
func parsePathData(d string) (svgpath.Path, error) {
	path := []byte(d)
	i := skipCommaWhitespace(path)
	if i == len(path) {
		return nil, nil
	}
	if path[i] != 'M' && path[i] != 'm' {
		return nil, fmt.Errorf("bad path: path should start with a moveto command")
	}

	var (
		out      svgpath.Path
		f        [7]float64
		p0, p1   svgpath.Point // current point, before and after a command
		start    svgpath.Point // start of the current subpath
		c, q     svgpath.Point // last control points, for reflections
		closed   bool
		prevCmd  = byte('z')
		ensureMv = func() {
			// a command following a close starts a new subpath
			if closed {
				out.Start(start)
				closed = false
			}
		}
	)
	for {
		i += skipCommaWhitespace(path[i:])
		if len(path) <= i {
			break
		}

		cmd := prevCmd
		repeat := true
		if cmd == 'z' || cmd == 'Z' || !(path[i] >= '0' && path[i] <= '9' || path[i] == '.' || path[i] == '-' || path[i] == '+') {
			cmd = path[i]
			repeat = false
			i++
			i += skipCommaWhitespace(path[i:])
		}

		CMD := cmd
		if 'a' <= cmd && cmd <= 'z' {
			CMD -= 'a' - 'A'
		}
		argc, known := cmdLens[CMD]
		if !known {
			return out, fmt.Errorf("bad path: unknown command '%c' at position %d", cmd, i)
		}
		for j := 0; j < argc; j++ {
			if CMD == 'A' && (j == 3 || j == 4) {
				// flags are a single character, possibly not separated
				if i < len(path) && path[i] == '1' {
					f[j] = 1.0
				} else if i < len(path) && path[i] == '0' {
					f[j] = 0.0
				} else {
					return out, fmt.Errorf("bad path: largeArc and sweep flags should be 0 or 1 in command '%c' at position %d", cmd, i+1)
				}
				i++
			} else {
				num, n := numparse.ParseFloat(path[i:])
				if n == 0 {
					if repeat && j == 0 && i < len(path) {
						return out, fmt.Errorf("bad path: unknown command '%c' at position %d", path[i], i+1)
					}
					return out, fmt.Errorf("bad path: sets of %d numbers should follow command '%c' at position %d", argc, cmd, i+1)
				}
				f[j] = num
				i += n
			}
			i += skipCommaWhitespace(path[i:])
		}

		switch cmd {
		case 'M', 'm':
			p1 = svgpath.Point{X: f[0], Y: f[1]}
			if cmd == 'm' {
				p1 = p1.Add(p0)
				cmd = 'l'
			} else {
				cmd = 'L'
			}
			out.Start(p1)
			start, closed = p1, false
		case 'Z', 'z':
			p1 = start
			if !closed {
				out.Stop(true)
				closed = true
			}
		case 'L', 'l':
			ensureMv()
			p1 = svgpath.Point{X: f[0], Y: f[1]}
			if cmd == 'l' {
				p1 = p1.Add(p0)
			}
			out.Line(p1)
		case 'H', 'h':
			ensureMv()
			p1.X = f[0]
			if cmd == 'h' {
				p1.X += p0.X
			}
			out.Line(p1)
		case 'V', 'v':
			ensureMv()
			p1.Y = f[0]
			if cmd == 'v' {
				p1.Y += p0.Y
			}
			out.Line(p1)
		case 'C', 'c':
			ensureMv()
			cp1 := svgpath.Point{X: f[0], Y: f[1]}
			cp2 := svgpath.Point{X: f[2], Y: f[3]}
			p1 = svgpath.Point{X: f[4], Y: f[5]}
			if cmd == 'c' {
				cp1 = cp1.Add(p0)
				cp2 = cp2.Add(p0)
				p1 = p1.Add(p0)
			}
			out.CubeBezier(cp1, cp2, p1)
			c = cp2
		case 'S', 's':
			ensureMv()
			cp1 := p0
			cp2 := svgpath.Point{X: f[0], Y: f[1]}
			p1 = svgpath.Point{X: f[2], Y: f[3]}
			if cmd == 's' {
				cp2 = cp2.Add(p0)
				p1 = p1.Add(p0)
			}
			if prevCmd == 'C' || prevCmd == 'c' || prevCmd == 'S' || prevCmd == 's' {
				cp1 = p0.Mul(2.0).Sub(c)
			}
			out.CubeBezier(cp1, cp2, p1)
			c = cp2
		case 'Q', 'q':
			ensureMv()
			cp := svgpath.Point{X: f[0], Y: f[1]}
			p1 = svgpath.Point{X: f[2], Y: f[3]}
			if cmd == 'q' {
				cp = cp.Add(p0)
				p1 = p1.Add(p0)
			}
			quadTo(&out, p0, cp, p1)
			q = cp
		case 'T', 't':
			ensureMv()
			cp := p0
			p1 = svgpath.Point{X: f[0], Y: f[1]}
			if cmd == 't' {
				p1 = p1.Add(p0)
			}
			if prevCmd == 'Q' || prevCmd == 'q' || prevCmd == 'T' || prevCmd == 't' {
				cp = p0.Mul(2.0).Sub(q)
			}
			quadTo(&out, p0, cp, p1)
			q = cp
		case 'A', 'a':
			ensureMv()
			p1 = svgpath.Point{X: f[5], Y: f[6]}
			if cmd == 'a' {
				p1 = p1.Add(p0)
			}
			out.AddArc(p0, f[0], f[1], f[2], f[3] == 1.0, f[4] == 1.0, p1)
		}
		prevCmd = cmd
		p0 = p1
	}
	return out, nil
}

// quadTo elevates the quadratic curve (p0, cp, p1) to a cubic one.
func quadTo(out *svgpath.Path, p0, cp, p1 svgpath.Point) {
	c1 := p0.Add(cp.Sub(p0).Mul(2. / 3))
	c2 := p1.Add(cp.Sub(p1).Mul(2. / 3))
	out.CubeBezier(c1, c2, p1)
}

// replay sends the commands of path to b.
func replay(path svgpath.Path, b svgconv.PathBuilder) {
	for _, op := range path {
		switch op := op.(type) {
		case svgpath.MoveTo:
			b.MoveTo(svgpath.Point(op))
		case svgpath.LineTo:
			b.LineTo(svgpath.Point(op))
		case svgpath.CubicTo:
			b.CubicTo(op[0], op[1], op[2])
		case svgpath.Close:
			b.ClosePath()
		}
	}
}
