package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/golang/geo/r3"

	"github.com/chazu/kerf/pkg/topo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms Kerf Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: rect-face -> rect_face
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator).
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when the hyphen sits between identifier characters.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps an r3.Vector.
type sexpVec3 struct {
	vec r3.Vector
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.1f %.1f %.1f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpShape wraps a topo.Shape so it can be passed between builtins.
type sexpShape struct {
	shape topo.Shape
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	return s.shape.String()
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument
// list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value, treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toAxis converts a keyword or string to a topo.Axis.
func toAxis(s zygo.Sexp) (topo.Axis, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return topo.AxisNone, fmt.Errorf("expected axis keyword (:x, :y, :z): %w", err)
	}
	switch name {
	case "x":
		return topo.AxisX, nil
	case "y":
		return topo.AxisY, nil
	case "z":
		return topo.AxisZ, nil
	}
	return topo.AxisNone, fmt.Errorf("invalid axis %q, expected x, y, or z", name)
}

// toVec3 extracts an r3.Vector from a sexpVec3.
func toVec3(s zygo.Sexp) (r3.Vector, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return r3.Vector{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toShape extracts a topo.Shape from a sexpShape.
func toShape(s zygo.Sexp) (topo.Shape, error) {
	if v, ok := s.(*sexpShape); ok {
		return v.shape, nil
	}
	return nil, fmt.Errorf("expected shape, got %T (%s)", s, s.SexpString(nil))
}

// pivotFor resolves the pivot for a transform builtin: the explicit :pivot
// keyword when given, otherwise the shape's own center.
func pivotFor(pa kwArgs, s topo.Shape) (r3.Vector, error) {
	if v, ok := pa.kw["pivot"]; ok {
		return toVec3(v)
	}
	center, err := s.Center()
	if err != nil {
		return r3.Vector{}, fmt.Errorf("no center for %v: %w", s, err)
	}
	return center, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the Kerf shape DSL builtins into a zygomys
// environment. Builtins construct shapes against env and populate out.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens are converted to recognizable string
// literals.
func registerBuiltins(zenv *zygo.Zlisp, env *topo.Env, out *topo.Collection) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	zenv.AddFunction("vec3", func(zenv *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}
		return &sexpVec3{vec: r3.Vector{X: x, Y: y, Z: z}}, nil
	})

	// -----------------------------------------------------------------------
	// (vertex 1 2 3) or (vertex (vec3 1 2 3))
	// -----------------------------------------------------------------------
	zenv.AddFunction("vertex", func(zenv *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		switch len(args) {
		case 1:
			p, err := toVec3(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vertex: %w", err)
			}
			return &sexpShape{shape: topo.NewVertexFromPoint(p)}, nil
		case 3:
			x, err := toFloat64(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vertex: x: %w", err)
			}
			y, err := toFloat64(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vertex: y: %w", err)
			}
			z, err := toFloat64(args[2])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vertex: z: %w", err)
			}
			return &sexpShape{shape: topo.NewVertex(x, y, z)}, nil
		}
		return zygo.SexpNull, fmt.Errorf("vertex requires 3 numbers or one vec3, got %d arguments", len(args))
	})

	// -----------------------------------------------------------------------
	// (edge (vec3 0 0 0) (vec3 10 0 0))
	// -----------------------------------------------------------------------
	zenv.AddFunction("edge", func(zenv *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("edge requires two vec3 arguments, got %d", len(args))
		}
		a, err := toVec3(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("edge: from: %w", err)
		}
		b, err := toVec3(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("edge: to: %w", err)
		}
		return &sexpShape{shape: topo.NewEdge(a, b)}, nil
	})

	// -----------------------------------------------------------------------
	// (wire (edge ...) (edge ...) ...)
	// -----------------------------------------------------------------------
	zenv.AddFunction("wire", func(zenv *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) == 0 {
			return zygo.SexpNull, fmt.Errorf("wire requires at least one edge")
		}
		edges := make([]*topo.Edge, 0, len(args))
		for i, a := range args {
			s, err := toShape(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("wire: member %d: %w", i, err)
			}
			e, ok := s.(*topo.Edge)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("wire: member %d: expected edge, got %s", i, s.Kind())
			}
			edges = append(edges, e)
		}
		return &sexpShape{shape: topo.NewWire(edges...)}, nil
	})

	// -----------------------------------------------------------------------
	// (plane :from (vec3 0 0 0) :to (vec3 10 20 0))
	// -----------------------------------------------------------------------
	zenv.AddFunction("plane", func(zenv *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		from, to, err := cornerArgs(pa, "plane")
		if err != nil {
			return zygo.SexpNull, err
		}
		f, err := topo.NewRectFace(from, to)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("plane: %w", err)
		}
		return &sexpShape{shape: f}, nil
	})

	// -----------------------------------------------------------------------
	// (box :from (vec3 0 0 0) :to (vec3 10 20 30))
	// -----------------------------------------------------------------------
	zenv.AddFunction("box", func(zenv *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		from, to, err := cornerArgs(pa, "box")
		if err != nil {
			return zygo.SexpNull, err
		}
		s, err := topo.NewBoxSolid(env, from, to)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: %w", err)
		}
		return &sexpShape{shape: s}, nil
	})

	// -----------------------------------------------------------------------
	// (move shape (vec3 5 0 0))
	// -----------------------------------------------------------------------
	zenv.AddFunction("move", func(zenv *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("move requires a shape and a vec3, got %d arguments", len(args))
		}
		s, err := toShape(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("move: %w", err)
		}
		d, err := toVec3(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("move: %w", err)
		}
		return &sexpShape{shape: s.Moved(d)}, nil
	})

	// -----------------------------------------------------------------------
	// (rotate shape :axis :z :degrees 90 [:pivot (vec3 ...)])
	// -----------------------------------------------------------------------
	zenv.AddFunction("rotate", func(zenv *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("rotate requires a shape argument")
		}
		s, err := toShape(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		axisArg, ok := pa.kw["axis"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("rotate: missing :axis")
		}
		axis, err := toAxis(axisArg)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: axis: %w", err)
		}
		degArg, ok := pa.kw["degrees"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("rotate: missing :degrees")
		}
		degrees, err := toFloat64(degArg)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: degrees: %w", err)
		}
		pivot, err := pivotFor(pa, s)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: pivot: %w", err)
		}
		return &sexpShape{shape: s.Rotated(axis, degrees, pivot)}, nil
	})

	// -----------------------------------------------------------------------
	// (mirror shape :axis :x [:pivot (vec3 ...)])
	// -----------------------------------------------------------------------
	zenv.AddFunction("mirror", func(zenv *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("mirror requires a shape argument")
		}
		s, err := toShape(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mirror: %w", err)
		}
		axisArg, ok := pa.kw["axis"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("mirror: missing :axis")
		}
		axis, err := toAxis(axisArg)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mirror: axis: %w", err)
		}
		pivot, err := pivotFor(pa, s)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mirror: pivot: %w", err)
		}
		return &sexpShape{shape: s.Mirrored(axis, pivot)}, nil
	})

	// -----------------------------------------------------------------------
	// (scale shape 2.0 [:pivot (vec3 ...)])
	// -----------------------------------------------------------------------
	zenv.AddFunction("scale", func(zenv *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("scale requires a shape and a factor")
		}
		s, err := toShape(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scale: %w", err)
		}
		factor, err := toFloat64(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scale: factor: %w", err)
		}
		pivot, err := pivotFor(pa, s)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scale: pivot: %w", err)
		}
		return &sexpShape{shape: s.Scaled(factor, pivot)}, nil
	})

	// -----------------------------------------------------------------------
	// (collect shape ...) adds shapes to the evaluation result.
	// -----------------------------------------------------------------------
	zenv.AddFunction("collect", func(zenv *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		for i, a := range args {
			s, err := toShape(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("collect: argument %d: %w", i, err)
			}
			out.Add(s)
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (group "name" shape ...) adds shapes to the result under a group.
	// -----------------------------------------------------------------------
	zenv.AddFunction("group", func(zenv *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("group requires a name argument")
		}
		groupName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("group: name: %w", err)
		}
		for i, a := range args[1:] {
			s, err := toShape(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("group: member %d: %w", i, err)
			}
			out.AddToGroup(groupName, s)
		}
		return zygo.SexpNull, nil
	})
}

// cornerArgs extracts the :from and :to corner keywords shared by the box
// and plane builtins.
func cornerArgs(pa kwArgs, builtin string) (r3.Vector, r3.Vector, error) {
	fromArg, ok := pa.kw["from"]
	if !ok {
		return r3.Vector{}, r3.Vector{}, fmt.Errorf("%s: missing :from", builtin)
	}
	from, err := toVec3(fromArg)
	if err != nil {
		return r3.Vector{}, r3.Vector{}, fmt.Errorf("%s: from: %w", builtin, err)
	}
	toArg, ok := pa.kw["to"]
	if !ok {
		return r3.Vector{}, r3.Vector{}, fmt.Errorf("%s: missing :to", builtin)
	}
	to, err := toVec3(toArg)
	if err != nil {
		return r3.Vector{}, r3.Vector{}, fmt.Errorf("%s: to: %w", builtin, err)
	}
	return from, to, nil
}
