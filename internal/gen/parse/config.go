package parse

import (
	"errors"
	"go/ast"
	"go/token"
	"strconv"
	"strings"

	"github.com/mgjm/newtype-enum/internal/vis"
)

// parseConfig parses the argument list of a union directive. Errors are
// attached to the directive comment.
func (p *Parser) parseConfig(args string, at *ast.Comment) (Config, error) {
	var cfg Config
	var errs error

	for _, tok := range splitArgs(args) {
		key, value, hasValue := strings.Cut(tok, "=")

		switch key {
		case "variants":
			if !hasValue {
				errs = errors.Join(errs, p.fmt.Errorf(at, "variants needs a value"))
				continue
			}
			spec, err := strconv.Unquote(value)
			if err != nil {
				errs = errors.Join(errs, p.fmt.Errorf(at, "variants needs a quoted string, got %s", value))
				continue
			}
			if err := p.parseVariantsSpec(&cfg, spec, at); err != nil {
				errs = errors.Join(errs, err)
			}

		case "unstable_self_test":
			if hasValue {
				errs = errors.Join(errs, p.fmt.Errorf(at, "unstable_self_test takes no value"))
				continue
			}
			cfg.SelfTest = true

		default:
			errs = errors.Join(errs, p.fmt.Errorf(at, "unknown argument"))
		}
	}

	return cfg, errs
}

// parseVariantsSpec parses the value of the variants argument: an optional
// visibility prefix split at the last space, then the companion block
// identifier.
func (p *Parser) parseVariantsSpec(cfg *Config, spec string, at *ast.Comment) error {
	name := spec
	if i := strings.LastIndex(spec, " "); i >= 0 {
		v, err := vis.Parse(spec[:i])
		if err != nil {
			return p.fmt.Errorf(at, "%s", err.Error())
		}
		cfg.VariantsVis = v
		cfg.VariantsVisSet = true
		name = spec[i+1:]
	}

	if !token.IsIdentifier(name) {
		return p.fmt.Errorf(at, "expected identifier, got %q", name)
	}
	cfg.Variants = name
	return nil
}

// splitArgs splits the directive argument string on spaces, keeping quoted
// values intact.
func splitArgs(args string) []string {
	var toks []string
	var b strings.Builder
	quoted := false

	flush := func() {
		if b.Len() != 0 {
			toks = append(toks, b.String())
			b.Reset()
		}
	}

	for i := 0; i < len(args); i++ {
		c := args[i]
		switch {
		case c == '"':
			quoted = !quoted
			b.WriteByte(c)
		case c == '\\' && quoted && i+1 < len(args):
			b.WriteByte(c)
			i++
			b.WriteByte(args[i])
		case (c == ' ' || c == '\t') && !quoted:
			flush()
		default:
			b.WriteByte(c)
		}
	}
	flush()

	return toks
}
