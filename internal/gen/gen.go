// Package gen drives code generation for packages holding union
// prototypes. It rewrites every union prototype into its fully wrapped
// form and merges the remaining declarations of the build-tagged files
// into one generated file per package.
package gen

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/printer"
	"go/token"
	"maps"
	"path/filepath"
	"slices"
	"strconv"

	"golang.org/x/tools/go/packages"

	"github.com/mgjm/newtype-enum/internal/codefmt"
	"github.com/mgjm/newtype-enum/internal/gen/parse"
	"github.com/mgjm/newtype-enum/internal/gen/transform"
)

// Generator generates the wrapped form of one package. Call [Generator.Build]
// and then [Generator.Generate] to get the generated code. All potential
// errors of the input are returned by Build.
type Generator struct {
	p   *parse.Parser
	ns  codefmt.NS
	buf *bytes.Buffer
	w   *codefmt.Writer

	transforms []*transform.Transform
	merged     []mergedImport
}

// mergedImport is an import carried over from a build-tagged input file.
type mergedImport struct {
	name string
	path string
}

// New creates a new [Generator] for the given package. The package must
// have its name, file set, and syntax.
func New(pkg *packages.Package) (*Generator, error) {
	p, err := parse.New(pkg)
	if err != nil {
		return nil, err
	}
	return newGenerator(p), nil
}

// NewFromParser creates a new [Generator] on an existing parser.
func NewFromParser(p *parse.Parser) *Generator {
	return newGenerator(p)
}

func newGenerator(p *parse.Parser) *Generator {
	var buf bytes.Buffer
	ns := codefmt.NewNS(p.TopLevelNames()...)
	return &Generator{
		p:   p,
		ns:  ns,
		buf: &buf,
		w:   codefmt.NewWriter(&buf, p.Fset()).WithNS(ns),
	}
}

// Build parses the union prototypes and computes their rewritten form. All
// potential errors are returned by this method. A failed union is reported
// and skipped without aborting the others.
func (g *Generator) Build() error {
	runtimeName, _ := g.p.RuntimeImportName()

	unions, errs := g.p.ParseUnions()

	it := unions.Iterator()
	for it.Next() {
		u := it.Value().(*parse.Union)

		tr, err := transform.Build(u, g.ns, codefmt.New(g.p.Fset()), runtimeName)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		g.transforms = append(g.transforms, tr)
	}

	return errs
}

// Generate generates the output file for the package. It returns nil if
// the package has no build-tagged input files. It must be called after
// [Generator.Build] succeeds.
func (g *Generator) Generate() ([]byte, error) {
	files := g.p.TaggedFiles()
	if len(files) == 0 {
		return nil, nil
	}

	for _, tr := range g.transforms {
		tr.Generate(g.w)
	}
	g.mergeCode(files)
	return g.frameCode()
}

// mergeCode copies the declarations of the build-tagged files that are not
// union prototypes. Their imports are collected for the frame.
func (g *Generator) mergeCode(files []*ast.File) {
	for _, file := range files {
		name := filepath.Base(g.p.Fset().File(file.Pos()).Name())
		first := true

		for _, imp := range file.Imports {
			path, err := strconv.Unquote(imp.Path.Value)
			if err != nil {
				continue
			}
			mi := mergedImport{path: path}
			if imp.Name != nil {
				mi.name = imp.Name.Name
			}
			g.merged = append(g.merged, mi)
		}

		for _, decl := range file.Decls {
			if gen, ok := decl.(*ast.GenDecl); ok && gen.Tok == token.IMPORT {
				continue
			}
			if g.p.IsUnionDecl(decl) {
				continue
			}

			if first {
				fmt.Fprintf(g.buf, "// %s:\n\n", name)
				first = false
			}

			printer.Fprint(g.buf, g.p.Fset(), &printer.CommentedNode{
				Node:     decl,
				Comments: file.Comments,
			})
			fmt.Fprintf(g.buf, "\n\n")
		}
	}
}

// frameCode frames the generated code with the build constraint, the
// generated-code header, the package clause, and the import block, then
// applies gofmt.
func (g *Generator) frameCode() ([]byte, error) {
	versionSuffix := ""
	if Version != "" {
		versionSuffix = "@" + Version
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "//go:build !%s\n", parse.BuildTag)
	fmt.Fprintf(&buf, "// Code generated by github.com/mgjm/newtype-enum%s. DO NOT EDIT.\n", versionSuffix)
	fmt.Fprintf(&buf, "package %s\n", g.p.PkgName())

	g.writeImports(&buf)

	_, _ = buf.Write(g.buf.Bytes())
	code := buf.Bytes()

	fmtCode, err := format.Source(code)
	if err != nil {
		// The raw code is still returned so the caller can dump it for
		// debugging.
		return code, fmt.Errorf("gofmt: %w", err)
	}
	return fmtCode, nil
}

// writeImports writes the import block: the imports the generated code
// itself introduced, then the merged files' imports deduplicated by path.
func (g *Generator) writeImports(buf *bytes.Buffer) {
	type imp struct {
		name  string
		alias bool
		path  string
	}
	var imps []imp

	// Two files may import one path under different local names, and the
	// merged declarations of each keep their own qualifiers, so imports
	// are deduplicated on the (alias, path) pair rather than the path.
	seen := make(map[mergedImport]bool)

	names := slices.Sorted(maps.Keys(g.w.Imports()))
	for _, name := range names {
		i := g.w.Imports()[name]
		imps = append(imps, imp{name: i.Name, alias: i.HasAlias, path: i.Path})
		key := mergedImport{path: i.Path}
		if i.HasAlias {
			key.name = i.Name
		}
		seen[key] = true
	}

	for _, mi := range g.merged {
		if seen[mi] {
			continue
		}
		seen[mi] = true
		imps = append(imps, imp{name: mi.name, alias: mi.name != "", path: mi.path})
	}

	if len(imps) == 0 {
		return
	}

	fmt.Fprintf(buf, "import (\n")
	for _, i := range imps {
		if i.alias {
			fmt.Fprintf(buf, "%s %q\n", i.name, i.path)
		} else {
			fmt.Fprintf(buf, "%q\n", i.path)
		}
	}
	fmt.Fprintf(buf, ")\n")
}
