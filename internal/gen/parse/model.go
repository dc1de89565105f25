package parse

import (
	"go/ast"
	"go/token"

	"github.com/mgjm/newtype-enum/internal/vis"
)

// Shape classifies the declared payload shape of a variant.
type Shape int

const (
	// Unit is a variant without a payload.
	Unit Shape = iota

	// Wrapper is a variant that already wraps exactly one payload type.
	Wrapper

	// Named is a variant declared with named fields.
	Named
)

// Union is a parsed union prototype declaration.
type Union struct {
	// Name is the declared name of the union type.
	Name string

	// Vis is the declared visibility of the union, derived from the
	// casing of its name.
	Vis vis.Vis

	// Doc is the doc comment text of the declaration, with directive
	// comments stripped. Empty if there is none.
	Doc string

	// Markers holds the non-doc directive comments of the declaration,
	// excluding the union directive itself.
	Markers []string

	// Variants holds the declared variants in declaration order.
	Variants []*Variant

	// Config holds the parsed directive arguments.
	Config Config

	spec *ast.TypeSpec
	decl *ast.GenDecl
}

func (u *Union) Pos() token.Pos { return u.spec.Pos() }
func (u *Union) End() token.Pos { return u.spec.End() }

// Decl returns the declaration the union was parsed from.
func (u *Union) Decl() *ast.GenDecl { return u.decl }

// Variant is one declared variant of a union prototype.
type Variant struct {
	// Name is the variant name.
	Name string

	// Shape is the declared payload shape.
	Shape Shape

	// Payload is the payload type expression of a Wrapper variant. It is
	// nil for other shapes.
	Payload ast.Expr

	// Fields holds the declared fields of a Named variant in declaration
	// order. It is nil for other shapes.
	Fields []*Field

	// Doc is the variant's doc comment text without directives.
	Doc string

	// Markers holds the variant's directive comments.
	Markers []string

	// Discriminant is the raw discriminant value declared in the
	// prototype, or empty. It is dropped from the rewritten union.
	Discriminant string

	field *ast.Field
	name  *ast.Ident
}

func (v *Variant) Pos() token.Pos { return v.name.Pos() }
func (v *Variant) End() token.Pos { return v.field.End() }

// Field is one declared field of a Named variant.
type Field struct {
	// Name is the field name.
	Name string

	// Type is the field type expression.
	Type ast.Expr

	// Vis is the declared visibility from the field's vis tag.
	Vis vis.Vis

	// Tag is the residual struct tag with the vis key removed. Empty if
	// nothing remains.
	Tag string

	// Doc is the field's doc comment text.
	Doc string

	field *ast.Field
	name  *ast.Ident
}

func (f *Field) Pos() token.Pos { return f.name.Pos() }
func (f *Field) End() token.Pos { return f.field.End() }

// Config holds the parsed arguments of a union directive.
type Config struct {
	// Variants is the configured companion block identifier. Empty means
	// the default, the union name with a "_variants" suffix.
	Variants string

	// VariantsVis is the configured companion block visibility. Only
	// meaningful when VariantsVisSet is true; the default is the union's
	// own declared visibility.
	VariantsVis    vis.Vis
	VariantsVisSet bool

	// SelfTest makes the generated code refer to the runtime package
	// without a qualifier. Internal use only.
	SelfTest bool
}
