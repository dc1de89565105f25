package parse

import (
	"errors"
	"fmt"
	"go/ast"
	"go/build/constraint"
	"go/token"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"golang.org/x/tools/go/packages"

	"github.com/mgjm/newtype-enum/internal/codefmt"
	"github.com/mgjm/newtype-enum/internal/vis"
)

const (
	// RuntimePath is the import path of the runtime package the generated
	// code depends on.
	RuntimePath = "github.com/mgjm/newtype-enum"

	// RuntimeName is the name used to refer to the runtime package when
	// the target package gives no other hint.
	RuntimeName = "newtypeenum"

	// BuildTag constrains the files holding union prototypes.
	BuildTag = "newtypeenum"

	directive = "newtypeenum:union"
)

// IsRuntimeImport reports whether the path imports the runtime package,
// also when vendored.
func IsRuntimeImport(path string) bool {
	const vendorPart = "vendor/"
	if i := strings.LastIndex(path, vendorPart); i != -1 && (i == 0 || path[i-1] == '/') {
		path = path[i+len(vendorPart):]
	}
	return path == RuntimePath
}

// Parser parses union prototype declarations from the build-tagged files
// of one package.
type Parser struct {
	fset  *token.FileSet
	name  string
	files []*ast.File
	fmt   codefmt.Formatter
}

// New creates a new [Parser] for a loaded package. The package must have
// its name, file set, and syntax.
func New(pkg *packages.Package) (*Parser, error) {
	if pkg.Name == "" {
		return nil, fmt.Errorf("need pkg name")
	}
	if pkg.Fset == nil {
		return nil, fmt.Errorf("need pkg fset")
	}
	if pkg.Syntax == nil {
		return nil, fmt.Errorf("need pkg syntax")
	}
	return NewFromFiles(pkg.Fset, pkg.Name, pkg.Syntax...), nil
}

// NewFromFiles creates a new [Parser] from already parsed files.
func NewFromFiles(fset *token.FileSet, name string, files ...*ast.File) *Parser {
	return &Parser{
		fset:  fset,
		name:  name,
		files: files,
		fmt:   codefmt.New(fset),
	}
}

// Fset returns the file set of the parsed files.
func (p *Parser) Fset() *token.FileSet { return p.fset }

// PkgName returns the package name.
func (p *Parser) PkgName() string { return p.name }

// TaggedFiles returns the files constrained by the newtypeenum build tag.
func (p *Parser) TaggedFiles() []*ast.File {
	var files []*ast.File
	for _, file := range p.files {
		if hasBuildTag(file, BuildTag) {
			files = append(files, file)
		}
	}
	return files
}

// hasBuildTag checks if the file has a "//go:build tag" constraint.
func hasBuildTag(file *ast.File, tag string) bool {
	ok := false
	for _, group := range file.Comments {
		for _, comment := range group.List {
			if constraint.IsGoBuild(comment.Text) {
				expr, _ := constraint.Parse(comment.Text)
				expr.Eval(func(t string) bool {
					if t == tag {
						ok = true
					}
					return true
				})
			}
		}
	}
	return ok
}

// TopLevelNames returns the names declared at the top level of all files.
// The generator reserves them against name conflicts.
func (p *Parser) TopLevelNames() []string {
	var names []string
	for _, file := range p.files {
		for _, decl := range file.Decls {
			switch decl := decl.(type) {
			case *ast.FuncDecl:
				if decl.Recv == nil {
					names = append(names, decl.Name.Name)
				}
			case *ast.GenDecl:
				for _, spec := range decl.Specs {
					switch spec := spec.(type) {
					case *ast.TypeSpec:
						names = append(names, spec.Name.Name)
					case *ast.ValueSpec:
						for _, name := range spec.Names {
							names = append(names, name.Name)
						}
					}
				}
			}
		}
	}
	return names
}

// RuntimeImportName resolves the local name of the runtime package as seen
// by the target package. If any file already imports the runtime package,
// its local name is reused; otherwise the fixed default is returned. The
// second result reports whether the name is an explicit alias.
func (p *Parser) RuntimeImportName() (string, bool) {
	for _, file := range p.files {
		for _, imp := range file.Imports {
			path, err := strconv.Unquote(imp.Path.Value)
			if err != nil || !IsRuntimeImport(path) {
				continue
			}
			if imp.Name != nil && imp.Name.Name != "_" && imp.Name.Name != "." {
				return imp.Name.Name, true
			}
			return RuntimeName, false
		}
	}
	return RuntimeName, false
}

// ParseUnions parses all union prototypes from the tagged files. The
// returned map holds *Union values keyed by name in declaration order. A
// failed declaration is reported and skipped without aborting the others.
func (p *Parser) ParseUnions() (*linkedhashmap.Map, error) {
	unions := linkedhashmap.New()
	var errs error

	for _, file := range p.TaggedFiles() {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}

			for _, spec := range gen.Specs {
				spec := spec.(*ast.TypeSpec)

				doc := spec.Doc
				if doc == nil {
					doc = gen.Doc
				}
				args, at, ok := unionDirective(doc)
				if !ok {
					continue
				}

				u, err := p.parseUnion(gen, spec, doc, args, at)
				if err != nil {
					errs = errors.Join(errs, err)
					continue
				}

				if prev, ok := unions.Get(u.Name); ok {
					err := p.fmt.Errorf(spec.Name, "union %s redeclared\n\tprevious declaration at %b",
						u.Name, prev.(*Union).Pos())
					errs = errors.Join(errs, err)
					continue
				}
				unions.Put(u.Name, u)
			}
		}
	}

	return unions, errs
}

// IsUnionDecl reports whether the declaration holds at least one union
// prototype.
func (p *Parser) IsUnionDecl(decl ast.Decl) bool {
	gen, ok := decl.(*ast.GenDecl)
	if !ok || gen.Tok != token.TYPE {
		return false
	}
	for _, spec := range gen.Specs {
		spec := spec.(*ast.TypeSpec)
		doc := spec.Doc
		if doc == nil {
			doc = gen.Doc
		}
		if _, _, ok := unionDirective(doc); ok {
			return true
		}
	}
	return false
}

// unionDirective finds the union directive in a comment group and returns
// its argument string and the directive comment.
func unionDirective(group *ast.CommentGroup) (string, *ast.Comment, bool) {
	if group == nil {
		return "", nil, false
	}
	for _, comment := range group.List {
		rest, ok := strings.CutPrefix(comment.Text, "//"+directive)
		if !ok {
			continue
		}
		if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
			continue
		}
		return strings.TrimSpace(rest), comment, true
	}
	return "", nil, false
}

// isDirectiveComment reports whether a comment line is a directive in the
// "//tool:name" form rather than documentation text.
func isDirectiveComment(text string) bool {
	c, ok := strings.CutPrefix(text, "//")
	if !ok || c == "" {
		return false
	}
	colon := strings.Index(c, ":")
	if colon <= 0 {
		return false
	}
	for _, r := range c[:colon] {
		if !('a' <= r && r <= 'z' || '0' <= r && r <= '9') {
			return false
		}
	}
	return colon+1 < len(c) && c[colon+1] != ' ' && c[colon+1] != '\t'
}

// docAndMarkers splits a comment group into documentation text and
// directive comments, skipping the union directive itself.
func docAndMarkers(group *ast.CommentGroup) (string, []string) {
	if group == nil {
		return "", nil
	}

	var markers []string
	for _, comment := range group.List {
		if !isDirectiveComment(comment.Text) {
			continue
		}
		if strings.HasPrefix(comment.Text, "//"+directive) {
			continue
		}
		markers = append(markers, comment.Text)
	}

	return strings.TrimSpace(group.Text()), markers
}

func (p *Parser) parseUnion(gen *ast.GenDecl, spec *ast.TypeSpec, doc *ast.CommentGroup, args string, at *ast.Comment) (*Union, error) {
	st, ok := spec.Type.(*ast.StructType)
	if !ok {
		return nil, p.fmt.Errorf(spec, "union prototype must be a struct")
	}

	cfg, err := p.parseConfig(args, at)
	if err != nil {
		return nil, err
	}

	docText, markers := docAndMarkers(doc)

	u := &Union{
		Name:    spec.Name.Name,
		Vis:     declVis(spec.Name.Name),
		Doc:     docText,
		Markers: markers,
		Config:  cfg,
		spec:    spec,
		decl:    gen,
	}

	var errs error
	for _, field := range st.Fields.List {
		variants, err := p.parseVariants(field)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		u.Variants = append(u.Variants, variants...)
	}
	if errs != nil {
		return nil, errs
	}

	return u, nil
}

// declVis derives the declared visibility of a union from the casing of
// its name.
func declVis(name string) vis.Vis {
	if token.IsExported(name) {
		return vis.Pub()
	}
	return vis.Vis{}
}

// parseVariants parses one prototype field into variants. A field with
// multiple names declares one variant per name, all sharing the payload
// shape.
func (p *Parser) parseVariants(field *ast.Field) ([]*Variant, error) {
	if len(field.Names) == 0 {
		return nil, p.fmt.Errorf(field, "variant must be named")
	}

	raw := fieldTag(field)
	if _, ok := tagValue(raw, "vis"); ok {
		return nil, p.fmt.Errorf(field, "visibility is not allowed on a variant")
	}
	discriminant, _ := tagValue(raw, "discriminant")

	doc, markers := docAndMarkers(field.Doc)

	var variants []*Variant
	for _, name := range field.Names {
		v := &Variant{
			Name:         name.Name,
			Doc:          doc,
			Markers:      markers,
			Discriminant: discriminant,
			field:        field,
			name:         name,
		}
		if err := p.parseShape(v, field.Type); err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, nil
}

// parseShape classifies the payload shape of a variant from its declared
// type expression.
func (p *Parser) parseShape(v *Variant, typ ast.Expr) error {
	st, ok := typ.(*ast.StructType)
	if !ok {
		v.Shape = Wrapper
		v.Payload = typ
		return nil
	}

	if st.Fields == nil || len(st.Fields.List) == 0 {
		v.Shape = Unit
		return nil
	}

	named, embedded := 0, 0
	for _, field := range st.Fields.List {
		if len(field.Names) == 0 {
			embedded++
		} else {
			named += len(field.Names)
		}
	}

	switch {
	case embedded == 0:
		v.Shape = Named
		return p.parseFields(v, st)

	case named == 0 && embedded == 1:
		// The explicit single-payload wrapper form.
		v.Shape = Wrapper
		v.Payload = st.Fields.List[0].Type
		return nil

	default:
		return p.fmt.Errorf(v, "unsupported variant type")
	}
}

// parseFields parses the named fields of a Named variant.
func (p *Parser) parseFields(v *Variant, st *ast.StructType) error {
	var errs error
	for _, field := range st.Fields.List {
		raw := fieldTag(field)

		fieldVis, err := parseVisTag(raw)
		if err != nil {
			errs = errors.Join(errs, p.fmt.Errorf(field, "%s", err.Error()))
			continue
		}

		doc, _ := docAndMarkers(field.Doc)
		for _, name := range field.Names {
			v.Fields = append(v.Fields, &Field{
				Name:  name.Name,
				Type:  field.Type,
				Vis:   fieldVis,
				Tag:   dropTag(raw, "vis"),
				Doc:   doc,
				field: field,
				name:  name,
			})
		}
	}
	return errs
}

// parseVisTag parses the vis key of a raw struct tag. A missing key is the
// inherited visibility.
func parseVisTag(raw string) (vis.Vis, error) {
	s, ok := tagValue(raw, "vis")
	if !ok {
		return vis.Vis{}, nil
	}
	return vis.Parse(s)
}

// fieldTag returns the raw struct tag of a field, without backquotes.
func fieldTag(field *ast.Field) string {
	if field.Tag == nil {
		return ""
	}
	raw, err := strconv.Unquote(field.Tag.Value)
	if err != nil {
		return ""
	}
	return raw
}
