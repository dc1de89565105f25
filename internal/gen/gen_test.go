package gen

import (
	"errors"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgjm/newtype-enum/internal/gen/parse"
)

func TestGenerate(t *testing.T) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "input.go", `//go:build newtypeenum

package messages

import (
	"fmt"

	nte "github.com/mgjm/newtype-enum"
)

//newtypeenum:union
type Event struct {
	Ping struct{}

	Text struct {
		Body string
	}
}

// Describe renders an event for logs.
func Describe(e Event) string {
	if nte.Is(EventPing, &e) {
		return "ping"
	}
	return fmt.Sprint("event")
}
`, parser.ParseComments)
	require.NoError(t, err)

	g := NewFromParser(parse.NewFromFiles(fset, "messages", file))
	require.NoError(t, g.Build())
	out, err := g.Generate()
	require.NoError(t, err)
	code := string(out)

	// The output is framed and valid Go.
	_, err = parser.ParseFile(token.NewFileSet(), "out.go", code, parser.ParseComments)
	require.NoError(t, err, "generated code must parse:\n%s", code)

	assert.Contains(t, code, "//go:build !newtypeenum")
	assert.Contains(t, code, "// Code generated by github.com/mgjm/newtype-enum. DO NOT EDIT.")
	assert.Contains(t, code, "package messages")

	// Imports keep the aliases of the input file.
	assert.Contains(t, code, `nte "github.com/mgjm/newtype-enum"`)
	assert.Contains(t, code, `"fmt"`)

	// The union is rewritten in place of its prototype.
	assert.Contains(t, code, "type Event struct {")
	assert.Contains(t, code, "tag eventTag")
	assert.Contains(t, code, "type Event_variants_Ping struct{}")
	assert.Contains(t, code, "type Event_variants_Text struct {")
	assert.Contains(t, code, "var EventPing nte.Variant[Event, Event_variants_Ping] = eventPingVariant{}")
	assert.NotContains(t, code, "//newtypeenum:union")

	// The remaining declarations of the input file are merged.
	assert.Contains(t, code, "// input.go:")
	assert.Contains(t, code, "// Describe renders an event for logs.")
	assert.Contains(t, code, "func Describe(e Event) string {")
}

func TestGenerateVersionHeader(t *testing.T) {
	Version = "1.2.3"
	defer func() { Version = "" }()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "input.go", `//go:build newtypeenum

package messages

//newtypeenum:union
type Event struct {
	Ping struct{}
}
`, parser.ParseComments)
	require.NoError(t, err)

	g := NewFromParser(parse.NewFromFiles(fset, "messages", file))
	require.NoError(t, g.Build())
	out, err := g.Generate()
	require.NoError(t, err)

	assert.Contains(t, string(out), "// Code generated by github.com/mgjm/newtype-enum@1.2.3. DO NOT EDIT.")
}

func TestGenerateNoTaggedFiles(t *testing.T) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "input.go", `package messages

type Event struct{}
`, parser.ParseComments)
	require.NoError(t, err)

	g := NewFromParser(parse.NewFromFiles(fset, "messages", file))
	require.NoError(t, g.Build())
	out, err := g.Generate()
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestGenerateKeywordVariantName(t *testing.T) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "input.go", `//go:build newtypeenum

package messages

//newtypeenum:union
type Event struct {
	Map struct{}
}
`, parser.ParseComments)
	require.NoError(t, err)

	g := NewFromParser(parse.NewFromFiles(fset, "messages", file))
	require.NoError(t, g.Build())
	out, err := g.Generate()
	require.NoError(t, err)
	code := string(out)

	_, err = parser.ParseFile(token.NewFileSet(), "out.go", code, parser.ParseComments)
	require.NoError(t, err, "generated code must parse:\n%s", code)
	assert.Contains(t, code, "map2 Event_variants_Map")
}

func TestGenerateMergedImportAliases(t *testing.T) {
	fset := token.NewFileSet()
	a, err := parser.ParseFile(fset, "a.go", `//go:build newtypeenum

package messages

import f "fmt"

//newtypeenum:union
type Event struct {
	Ping struct{}
}

func printA() {
	f.Println("a")
}
`, parser.ParseComments)
	require.NoError(t, err)

	b, err := parser.ParseFile(fset, "b.go", `//go:build newtypeenum

package messages

import "fmt"

func printB() {
	fmt.Println("b")
}
`, parser.ParseComments)
	require.NoError(t, err)

	g := NewFromParser(parse.NewFromFiles(fset, "messages", a, b))
	require.NoError(t, g.Build())
	out, err := g.Generate()
	require.NoError(t, err)
	code := string(out)

	// Both spellings of the fmt import survive the merge so each file's
	// declarations keep working with their own qualifier.
	gen, err := parser.ParseFile(token.NewFileSet(), "out.go", code, parser.ParseComments)
	require.NoError(t, err, "generated code must parse:\n%s", code)

	var aliased, plain bool
	for _, imp := range gen.Imports {
		if imp.Path.Value != `"fmt"` {
			continue
		}
		if imp.Name != nil && imp.Name.Name == "f" {
			aliased = true
		}
		if imp.Name == nil {
			plain = true
		}
	}
	assert.True(t, aliased, "aliased fmt import missing:\n%s", code)
	assert.True(t, plain, "plain fmt import missing:\n%s", code)
}

func TestBuildReportsAllUnions(t *testing.T) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "input.go", `//go:build newtypeenum

package messages

//newtypeenum:union frobnicate
type Event struct {
	Ping struct{}
}

//newtypeenum:union
type broken int
`, parser.ParseComments)
	require.NoError(t, err)

	g := NewFromParser(parse.NewFromFiles(fset, "messages", file))
	err = g.Build()
	assert.ErrorContains(t, err, "unknown argument")
	assert.ErrorContains(t, err, "union prototype must be a struct")
}

func TestReorderErrors(t *testing.T) {
	err := errors.Join(
		errors.New("b.go:2:1: second"),
		errors.Join(
			errors.New("c.go:9:1: third"),
			errors.New("a.go:1:1: first"),
		),
	)

	got := reorderErrors(err)
	assert.Equal(t, "a.go:1:1: first\nb.go:2:1: second\nc.go:9:1: third", got.Error())

	assert.NoError(t, reorderErrors(nil))
}
