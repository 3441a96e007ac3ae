package geometry

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// TransformParts is the composed result of an SVG-style transform string.
// Each field is nil when the string contains no corresponding function.
type TransformParts struct {
	Translate     *Vec2
	RotateDegrees *float64
	Scale         *float64
}

// transformLexer tokenizes SVG transform attribute values, e.g.
// "translate(10,20) rotate(30) scale(2)".
var transformLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[\s]+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Value", Pattern: `[^(),\s]+`},
})

// transformList is the parsed form of a transform string: a sequence of
// function calls, optionally separated by commas.
type transformList struct {
	Calls []transformCall `parser:"( @@ | Comma )*"`
}

// transformCall is one function call. Arguments are captured as raw tokens;
// numeric conversion happens during composition so that a single malformed
// call can be skipped without failing the whole string.
type transformCall struct {
	Name string   `parser:"@Ident"`
	Args []string `parser:"LParen ( @(Ident | Value) ( Comma? @(Ident | Value) )* )? RParen"`
}

var transformParser = participle.MustBuild[transformList](
	participle.Lexer(transformLexer),
	participle.Elide("Whitespace"),
)

// ParseTransform parses an SVG-style transform string and composes it:
// repeated translate() calls accumulate additively, repeated rotate() calls
// keep only the last angle (rotation centers are ignored), and repeated
// scale() calls multiply. Unknown function names are ignored, a call with a
// malformed numeric argument is skipped, and an empty or unparseable string
// yields an empty result.
func ParseTransform(s string) TransformParts {
	var result TransformParts

	s = strings.TrimSpace(s)
	if s == "" {
		return result
	}

	list, err := transformParser.ParseString("", s)
	if err != nil {
		return result
	}

	for _, call := range list.Calls {
		args, ok := parseArgs(call.Args)
		if !ok || len(args) == 0 {
			continue
		}

		switch strings.ToLower(call.Name) {
		case "translate":
			x := args[0]
			y := 0.0
			if len(args) > 1 {
				y = args[1]
			}
			if result.Translate == nil {
				result.Translate = &Vec2{}
			}
			result.Translate.X += x
			result.Translate.Y += y

		case "rotate":
			angle := args[0]
			result.RotateDegrees = &angle

		case "scale":
			sx := args[0]
			if result.Scale == nil {
				one := 1.0
				result.Scale = &one
			}
			*result.Scale *= sx
		}
	}

	return result
}

// parseArgs converts raw argument tokens to floats. A single bad argument
// invalidates the whole call.
func parseArgs(raw []string) ([]float64, bool) {
	args := make([]float64, 0, len(raw))
	for _, r := range raw {
		f, err := strconv.ParseFloat(r, 64)
		if err != nil {
			return nil, false
		}
		args = append(args, f)
	}
	return args, true
}
