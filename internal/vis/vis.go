// Package vis parses, prints, and projects declared visibilities.
//
// The grammar follows the declaration language of the union prototypes:
//
//	""                 inherited (private to the enclosing scope)
//	"pub"              public
//	"pub(crate)"       restricted to the compilation unit
//	"pub(self)"        restricted to the enclosing scope
//	"pub(super)"       restricted to the parent scope
//	"pub(in a::b)"     restricted to the named scope
//	"pub(in ::a::b)"   restricted to the named absolute scope
package vis

import (
	"errors"
	"fmt"
	"strings"
)

// Kind discriminates the visibility forms.
type Kind int

const (
	// Inherited is the default visibility, private to the immediate
	// enclosing scope.
	Inherited Kind = iota

	// Public is unrestricted visibility.
	Public

	// Restricted limits visibility to a scope named by a path.
	Restricted
)

// Vis is a declared visibility.
type Vis struct {
	Kind Kind

	// In reports that the restriction was written in the qualified
	// "pub(in path)" form. Only meaningful for Restricted.
	In bool

	// Path holds the restriction path segments. Only meaningful for
	// Restricted.
	Path []string

	// Abs reports that the restriction path is fully rooted with a
	// leading "::". Only meaningful for Restricted.
	Abs bool
}

// Pub returns the public visibility.
func Pub() Vis {
	return Vis{Kind: Public}
}

// PubCrate returns the visibility restricted to the compilation unit.
func PubCrate() Vis {
	return Vis{Kind: Restricted, Path: []string{"crate"}}
}

// PubSuper returns the visibility restricted to the parent scope.
func PubSuper() Vis {
	return Vis{Kind: Restricted, Path: []string{"super"}}
}

// PubIn returns the qualified visibility restricted to the given path.
func PubIn(abs bool, path ...string) Vis {
	return Vis{Kind: Restricted, In: true, Path: path, Abs: abs}
}

// Parse parses a declared visibility. The empty string is the inherited
// visibility.
func Parse(s string) (Vis, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Vis{}, nil
	}
	if s == "pub" {
		return Pub(), nil
	}

	rest, ok := strings.CutPrefix(s, "pub(")
	if !ok {
		return Vis{}, fmt.Errorf("expected visibility, got %q", s)
	}
	inner, ok := strings.CutSuffix(rest, ")")
	if !ok {
		return Vis{}, fmt.Errorf("expected visibility, got %q", s)
	}
	inner = strings.TrimSpace(inner)

	v := Vis{Kind: Restricted}
	if inner == "in" {
		return Vis{}, fmt.Errorf("expected path in %q", s)
	}
	if path, ok := strings.CutPrefix(inner, "in "); ok {
		v.In = true
		inner = strings.TrimSpace(path)
	}
	if rooted, ok := strings.CutPrefix(inner, "::"); ok {
		v.Abs = true
		inner = rooted
	}

	if inner == "" {
		return Vis{}, fmt.Errorf("expected path in %q", s)
	}
	for _, seg := range strings.Split(inner, "::") {
		if !isIdent(seg) {
			return Vis{}, fmt.Errorf("malformed path segment %q in %q", seg, s)
		}
		v.Path = append(v.Path, seg)
	}
	if v.Abs && !v.In {
		return Vis{}, fmt.Errorf("absolute path requires the `in` form in %q", s)
	}
	return v, nil
}

// String renders the visibility back into the declaration grammar. The
// inherited visibility renders as the empty string.
func (v Vis) String() string {
	switch v.Kind {
	case Inherited:
		return ""
	case Public:
		return "pub"
	case Restricted:
		var b strings.Builder
		b.WriteString("pub(")
		if v.In {
			b.WriteString("in ")
		}
		if v.Abs {
			b.WriteString("::")
		}
		b.WriteString(strings.Join(v.Path, "::"))
		b.WriteString(")")
		return b.String()
	}
	return ""
}

// Super maps a visibility declared in some scope to the equivalent
// visibility one nesting level deeper, so that it still refers to the same
// absolute accessibility boundary. The fallback is substituted for the
// inherited visibility before projecting; it must already be expressed
// relative to the deeper scope.
func Super(v, fallback Vis) (Vis, error) {
	switch v.Kind {
	case Inherited:
		return fallback, nil

	case Public:
		return v, nil

	case Restricted:
		if v.In {
			if v.Abs {
				// Already names an absolute boundary.
				return v, nil
			}
			return PubIn(false, append([]string{"super"}, v.Path...)...), nil
		}

		if len(v.Path) != 1 {
			return Vis{}, errors.New("path without `in` token")
		}
		switch v.Path[0] {
		case "crate":
			return v, nil
		case "self":
			return PubSuper(), nil
		case "super":
			// The plain keyword form cannot express two levels up.
			return PubIn(false, "super", "super"), nil
		default:
			return Vis{}, errors.New("unknown identifier")
		}
	}
	return Vis{}, fmt.Errorf("invalid visibility kind %d", v.Kind)
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case '0' <= r && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
