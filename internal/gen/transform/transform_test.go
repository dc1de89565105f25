package transform

import (
	"bytes"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgjm/newtype-enum/internal/codefmt"
	"github.com/mgjm/newtype-enum/internal/gen/parse"
)

// buildSrc parses one union prototype and builds its transform together
// with a writer collecting the emitted code.
func buildSrc(t *testing.T, src string) (*Transform, *codefmt.Writer, *bytes.Buffer) {
	t.Helper()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "union.go", src, parser.ParseComments)
	require.NoError(t, err)

	p := parse.NewFromFiles(fset, file.Name.Name, file)
	unions, err := p.ParseUnions()
	require.NoError(t, err)
	require.Equal(t, 1, unions.Size())

	it := unions.Iterator()
	require.True(t, it.Next())
	u := it.Value().(*parse.Union)

	ns := codefmt.NewNS(p.TopLevelNames()...)
	tr, err := Build(u, ns, codefmt.New(fset), parse.RuntimeName)
	require.NoError(t, err)

	var buf bytes.Buffer
	w := codefmt.NewWriter(&buf, fset)
	return tr, w, &buf
}

const eventSrc = `//go:build newtypeenum

package messages

// Event is something that happened.
//
//newtypeenum:union
//json:generate
type Event struct {
	// Ping checks liveness.
	Ping struct{}

	// Lines is raw output.
	Lines int

	// Text carries a message.
	Text struct {
		Body string ` + "`vis:\"pub\" json:\"body\"`" + `
		at   int64
	}
}
`

func TestDefineUnion(t *testing.T) {
	tr, w, buf := buildSrc(t, eventSrc)
	tr.DefineUnion(w)

	assert.Equal(t, `// Event is something that happened.
//
//json:generate
type Event struct {
	tag eventTag

	// See Event_variants_Ping.
	ping Event_variants_Ping

	// Lines is raw output.
	lines int

	// See Event_variants_Text.
	text Event_variants_Text
}

type eventTag uint8

const (
	eventTagPing eventTag = iota
	eventTagLines
	eventTagText
)

`, buf.String())
}

func TestDefineVariants(t *testing.T) {
	tr, w, buf := buildSrc(t, eventSrc)
	tr.DefineVariants(w)

	assert.Equal(t, `// Event_variants scopes the generated variants of the Event enum.
//
//vis:pub

// Ping checks liveness.
//
//vis:pub
//json:generate
type Event_variants_Ping struct{}

// Text carries a message.
//
//vis:pub
//json:generate
type Event_variants_Text struct {
	Body string `+"`vis:\"pub\" json:\"body\"`"+`
	at int64 `+"`vis:\"pub\"`"+`
}

`, buf.String())
}

func TestImplementVariants(t *testing.T) {
	tr, w, buf := buildSrc(t, `//go:build newtypeenum

package messages

//newtypeenum:union
type Event struct {
	Ping struct{}
}
`)
	tr.ImplementVariants(w)

	assert.Equal(t, `type eventPingVariant struct{}

func (eventPingVariant) IntoEnum(v Event_variants_Ping) Event {
	return Event{tag: eventTagPing, ping: v}
}

func (eventPingVariant) FromEnum(e Event) (Event_variants_Ping, bool) {
	switch e.tag {
	case eventTagPing:
		return e.ping, true
	default:
		var zero Event_variants_Ping
		return zero, false
	}
}

func (eventPingVariant) RefEnum(e *Event) *Event_variants_Ping {
	switch e.tag {
	case eventTagPing:
		return &e.ping
	default:
		return nil
	}
}

func (eventPingVariant) IsEnumVariant(e *Event) bool {
	return e.tag == eventTagPing
}

func (eventPingVariant) FromEnumUnwrap(e Event) Event_variants_Ping {
	switch e.tag {
	case eventTagPing:
		return e.ping
	default:
		panic("newtypeenum: called FromEnumUnwrap on another enum variant")
	}
}

func (eventPingVariant) FromEnumUnchecked(e Event) Event_variants_Ping {
	return e.ping
}

func (eventPingVariant) RefEnumUnchecked(e *Event) *Event_variants_Ping {
	return &e.ping
}

// EventPing is the Ping variant of the Event enum.
var EventPing newtypeenum.Variant[Event, Event_variants_Ping] = eventPingVariant{}

`, buf.String())

	imports := w.Imports()
	require.Len(t, imports, 1)
	assert.Equal(t, parse.RuntimePath, imports["newtypeenum"].Path)
	assert.False(t, imports["newtypeenum"].HasAlias)
}

func TestImplementVariantsWrapperPayload(t *testing.T) {
	tr, w, buf := buildSrc(t, `//go:build newtypeenum

package messages

//newtypeenum:union
type Event struct {
	Lines int
}
`)
	tr.ImplementVariants(w)

	code := buf.String()
	assert.Contains(t, code, "func (eventLinesVariant) IntoEnum(v int) Event {")
	assert.Contains(t, code, "var EventLines newtypeenum.Variant[Event, int] = eventLinesVariant{}")
}

func TestImplementVariantsSelfTest(t *testing.T) {
	tr, w, buf := buildSrc(t, `//go:build newtypeenum

package newtypeenum

//newtypeenum:union unstable_self_test
type Event struct {
	Ping struct{}
}
`)
	tr.ImplementVariants(w)

	assert.Contains(t, buf.String(), "var EventPing Variant[Event, Event_variants_Ping] = eventPingVariant{}")
	assert.Empty(t, w.Imports())
}

func TestImplementVariantsAliasedRuntime(t *testing.T) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "union.go", `//go:build newtypeenum

package messages

//newtypeenum:union
type Event struct {
	Ping struct{}
}
`, parser.ParseComments)
	require.NoError(t, err)

	p := parse.NewFromFiles(fset, "messages", file)
	unions, err := p.ParseUnions()
	require.NoError(t, err)
	it := unions.Iterator()
	require.True(t, it.Next())

	tr, err := Build(it.Value().(*parse.Union), codefmt.NewNS(), codefmt.New(fset), "nte")
	require.NoError(t, err)

	var buf bytes.Buffer
	w := codefmt.NewWriter(&buf, fset)
	tr.ImplementVariants(w)

	assert.Contains(t, buf.String(), "var EventPing nte.Variant[Event, Event_variants_Ping] = eventPingVariant{}")

	// The local name is not the default package name, so the import must
	// keep the explicit alias.
	imp, ok := w.Imports()["nte"]
	require.True(t, ok)
	assert.True(t, imp.HasAlias)
	assert.Equal(t, parse.RuntimePath, imp.Path)
}

func TestWrapperOnlyUnionHasNoCompanion(t *testing.T) {
	tr, w, buf := buildSrc(t, `//go:build newtypeenum

package messages

//newtypeenum:union
type Event struct {
	Lines int
	Err   error
}
`)
	tr.DefineVariants(w)
	assert.Empty(t, buf.String())
}

func TestCustomVariantsName(t *testing.T) {
	tr, w, buf := buildSrc(t, `//go:build newtypeenum

package messages

//newtypeenum:union variants="pub(crate) test"
type Event struct {
	Ping struct{}
}
`)
	tr.DefineVariants(w)

	code := buf.String()
	assert.Contains(t, code, "// test scopes the generated variants of the Event enum.\n//\n//vis:pub(crate)\n")
	assert.Contains(t, code, "type test_Ping struct{}")
}

func TestUnexportedUnionVisibilities(t *testing.T) {
	tr, w, buf := buildSrc(t, `//go:build newtypeenum

package messages

//newtypeenum:union
type event struct {
	Ping struct{}
}
`)
	tr.DefineVariants(w)

	code := buf.String()
	// The union itself is private, so the companion heading carries no
	// visibility and the payload types default one level more private.
	assert.Contains(t, code, "// event_variants scopes the generated variants of the event enum.\n\n")
	assert.Contains(t, code, "//vis:pub(super)\ntype event_variants_Ping struct{}")
}

func TestKeywordVariantNames(t *testing.T) {
	tr, w, buf := buildSrc(t, `//go:build newtypeenum

package messages

//newtypeenum:union
type Event struct {
	Map struct{}

	Range int
}
`)
	tr.DefineUnion(w)

	// Lowercasing the variant name for its storage field must not produce
	// a Go keyword.
	code := buf.String()
	assert.Contains(t, code, "map2 Event_variants_Map")
	assert.Contains(t, code, "range2 int")
	assert.NotContains(t, code, "\tmap Event")
	assert.NotContains(t, code, "\trange int")
}

func TestBuildRejectsUnknownVisibilityScope(t *testing.T) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "union.go", `//go:build newtypeenum

package messages

//newtypeenum:union
type Event struct {
	Text struct {
		Body string `+"`vis:\"pub(nowhere)\"`"+`
	}
}
`, parser.ParseComments)
	require.NoError(t, err)

	p := parse.NewFromFiles(fset, "messages", file)
	unions, err := p.ParseUnions()
	require.NoError(t, err)
	it := unions.Iterator()
	require.True(t, it.Next())

	_, err = Build(it.Value().(*parse.Union), codefmt.NewNS(), codefmt.New(fset), parse.RuntimeName)
	assert.ErrorContains(t, err, "unknown identifier")
	assert.ErrorContains(t, err, "union.go:8:3")
}

func TestGeneratedNameCollision(t *testing.T) {
	tr, w, buf := buildSrc(t, `//go:build newtypeenum

package messages

//newtypeenum:union
type Event struct {
	Ping struct{}
}

type eventTag struct{}

var EventPing int
`)
	tr.DefineUnion(w)
	tr.ImplementVariants(w)

	code := buf.String()
	assert.Contains(t, code, "type eventTag2 uint8")
	assert.Contains(t, code, "var EventPing2 newtypeenum.Variant[Event, Event_variants_Ping] = eventPingVariant{}")
}
