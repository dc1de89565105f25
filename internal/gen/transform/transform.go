// Package transform rewrites parsed union prototypes into their fully
// wrapped form.
//
// Every variant of the rewritten union wraps exactly one payload type.
// Variants that already wrap a single payload pass through; unit and
// named-field variants get a synthesized payload struct in the companion
// block. For every variant a caster implementing the runtime contract is
// emitted alongside.
package transform

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mgjm/newtype-enum/internal/codefmt"
	"github.com/mgjm/newtype-enum/internal/gen/parse"
	"github.com/mgjm/newtype-enum/internal/vis"
)

// Transform holds one union prototype together with the names and
// visibilities computed for its rewritten form. Build resolves everything
// that can fail; the Define and Implement methods only write code.
type Transform struct {
	u *parse.Union

	// runtime is the local name of the runtime package. Empty in
	// self-test mode, where references are emitted unqualified.
	runtime string

	nsName   string
	nsVis    vis.Vis
	itemVis  vis.Vis
	tagType  string
	variants []*variant
	synth    int
}

// variant is one variant of the rewritten union.
type variant struct {
	src *parse.Variant

	// payload is the name of the synthesized payload type, or empty for
	// a wrapper variant that keeps its original payload expression.
	payload string

	// fieldVis holds the projected visibility per synthesized field, in
	// the order of src.Fields.
	fieldVis []vis.Vis

	storage    string
	tagConst   string
	casterType string
	casterVar  string
}

func (v *variant) synthesized() bool { return v.payload != "" }

// Build computes the rewritten form of a union prototype. Generated
// top-level names are reserved in ns. runtimeName is the local name of the
// runtime package for the target package.
func Build(u *parse.Union, ns codefmt.NS, fmt codefmt.Formatter, runtimeName string) (*Transform, error) {
	t := &Transform{
		u:       u,
		runtime: runtimeName,
	}
	if u.Config.SelfTest {
		t.runtime = ""
	}

	t.nsName = u.Config.Variants
	if t.nsName == "" {
		t.nsName = u.Name + "_variants"
	}

	t.nsVis = u.Vis
	if u.Config.VariantsVisSet {
		t.nsVis = u.Config.VariantsVis
	}

	// The synthesized payload types default to one level more private
	// than the union itself.
	itemVis, err := vis.Super(u.Vis, vis.PubSuper())
	if err != nil {
		return nil, fmt.Errorf(u, "%s", err.Error())
	}
	t.itemVis = itemVis

	t.tagType = ns.Name(lowerFirst(u.Name) + "Tag")

	fieldNS := codefmt.NewNS("tag")
	for _, src := range u.Variants {
		v := &variant{
			src:        src,
			storage:    fieldNS.Name(lowerFirst(src.Name)),
			tagConst:   ns.Name(t.tagType + src.Name),
			casterType: ns.Name(lowerFirst(u.Name) + src.Name + "Variant"),
			casterVar:  ns.Name(u.Name + src.Name),
		}

		if src.Shape != parse.Wrapper {
			v.payload = ns.Name(t.nsName + "_" + src.Name)
			t.synth++

			for _, f := range src.Fields {
				// Fields without a declared visibility inherit the
				// visibility of the payload type itself.
				fv, err := vis.Super(f.Vis, t.itemVis)
				if err != nil {
					return nil, fmt.Errorf(f, "%s", err.Error())
				}
				v.fieldVis = append(v.fieldVis, fv)
			}
		}

		t.variants = append(t.variants, v)
	}

	return t, nil
}

// Union returns the parsed union prototype.
func (t *Transform) Union() *parse.Union { return t.u }

// Generate writes the complete replacement for the union declaration: the
// rewritten union, the companion block, and the caster implementations.
func (t *Transform) Generate(w *codefmt.Writer) {
	t.DefineUnion(w)
	t.DefineVariants(w)
	t.ImplementVariants(w)
}

// DefineUnion writes the rewritten union declaration together with its tag
// type and tag constants.
func (t *Transform) DefineUnion(w *codefmt.Writer) {
	writeDoc(w, "", t.u.Doc, t.u.Markers)
	w.Printf("type %s struct {\n", t.u.Name)
	w.Printf("\ttag %s\n", t.tagType)

	for _, v := range t.variants {
		w.Printf("\n")
		if v.synthesized() {
			w.Printf("\t// See %s.\n", v.payload)
			w.Printf("\t%s %s\n", v.storage, v.payload)
		} else {
			writeDoc(w, "\t", v.src.Doc, v.src.Markers)
			w.Printf("\t%s %c\n", v.storage, v.src.Payload)
		}
	}

	w.Printf("}\n\n")

	w.Printf("type %s uint8\n\n", t.tagType)
	w.Printf("const (\n")
	for i, v := range t.variants {
		if i == 0 {
			w.Printf("\t%s %s = iota\n", v.tagConst, t.tagType)
		} else {
			w.Printf("\t%s\n", v.tagConst)
		}
	}
	w.Printf(")\n\n")
}

// DefineVariants writes the companion block holding the synthesized
// payload types. Nothing is written if every variant already wraps a
// single payload type.
func (t *Transform) DefineVariants(w *codefmt.Writer) {
	if t.synth == 0 {
		return
	}

	w.Printf("// %s scopes the generated variants of the %s enum.\n", t.nsName, t.u.Name)
	if s := t.nsVis.String(); s != "" {
		w.Printf("//\n//vis:%s\n", s)
	}
	w.Printf("\n")

	for _, v := range t.variants {
		if !v.synthesized() {
			continue
		}

		markers := []string{"//vis:" + t.itemVis.String()}
		markers = append(markers, t.u.Markers...)
		markers = append(markers, v.src.Markers...)
		writeDoc(w, "", v.src.Doc, markers)

		switch v.src.Shape {
		case parse.Unit:
			w.Printf("type %s struct{}\n\n", v.payload)

		case parse.Named:
			w.Printf("type %s struct {\n", v.payload)
			for i, f := range v.src.Fields {
				writeDoc(w, "\t", f.Doc, nil)
				tag := "vis:" + quote(v.fieldVis[i].String())
				if f.Tag != "" {
					tag += " " + f.Tag
				}
				w.Printf("\t%s %c `%s`\n", f.Name, f.Type, tag)
			}
			w.Printf("}\n\n")
		}
	}
}

// ImplementVariants writes one caster per variant. The caster is a
// zero-size type whose methods match the enum tag structurally, plus a
// package-level handle implementing the runtime contract.
func (t *Transform) ImplementVariants(w *codefmt.Writer) {
	contract := "Variant"
	if t.runtime != "" {
		// Any local name other than the default package name needs an
		// explicit alias in the import block.
		alias := t.runtime != parse.RuntimeName
		contract = w.ImportAliased(parse.RuntimePath, t.runtime, alias) + ".Variant"
	}

	e := t.u.Name
	for _, v := range t.variants {
		payload := v.payload
		if payload == "" {
			payload = w.Sprintf("%c", v.src.Payload)
		}

		w.Printf("type %s struct{}\n\n", v.casterType)

		w.Printf("func (%s) IntoEnum(v %s) %s {\n", v.casterType, payload, e)
		w.Printf("\treturn %s{tag: %s, %s: v}\n", e, v.tagConst, v.storage)
		w.Printf("}\n\n")

		w.Printf("func (%s) FromEnum(e %s) (%s, bool) {\n", v.casterType, e, payload)
		w.Printf("\tswitch e.tag {\n")
		w.Printf("\tcase %s:\n", v.tagConst)
		w.Printf("\t\treturn e.%s, true\n", v.storage)
		w.Printf("\tdefault:\n")
		w.Printf("\t\tvar zero %s\n", payload)
		w.Printf("\t\treturn zero, false\n")
		w.Printf("\t}\n")
		w.Printf("}\n\n")

		w.Printf("func (%s) RefEnum(e *%s) *%s {\n", v.casterType, e, payload)
		w.Printf("\tswitch e.tag {\n")
		w.Printf("\tcase %s:\n", v.tagConst)
		w.Printf("\t\treturn &e.%s\n", v.storage)
		w.Printf("\tdefault:\n")
		w.Printf("\t\treturn nil\n")
		w.Printf("\t}\n")
		w.Printf("}\n\n")

		w.Printf("func (%s) IsEnumVariant(e *%s) bool {\n", v.casterType, e)
		w.Printf("\treturn e.tag == %s\n", v.tagConst)
		w.Printf("}\n\n")

		w.Printf("func (%s) FromEnumUnwrap(e %s) %s {\n", v.casterType, e, payload)
		w.Printf("\tswitch e.tag {\n")
		w.Printf("\tcase %s:\n", v.tagConst)
		w.Printf("\t\treturn e.%s\n", v.storage)
		w.Printf("\tdefault:\n")
		w.Printf("\t\tpanic(\"newtypeenum: called FromEnumUnwrap on another enum variant\")\n")
		w.Printf("\t}\n")
		w.Printf("}\n\n")

		w.Printf("func (%s) FromEnumUnchecked(e %s) %s {\n", v.casterType, e, payload)
		w.Printf("\treturn e.%s\n", v.storage)
		w.Printf("}\n\n")

		w.Printf("func (%s) RefEnumUnchecked(e *%s) *%s {\n", v.casterType, e, payload)
		w.Printf("\treturn &e.%s\n", v.storage)
		w.Printf("}\n\n")

		w.Printf("// %s is the %s variant of the %s enum.\n", v.casterVar, v.src.Name, e)
		w.Printf("var %s %s[%s, %s] = %s{}\n\n", v.casterVar, contract, e, payload, v.casterType)
	}
}

// writeDoc writes a doc comment block followed by directive comments. A
// blank comment line separates the two when both are present.
func writeDoc(w *codefmt.Writer, indent, doc string, markers []string) {
	if doc != "" {
		for _, line := range strings.Split(strings.TrimRight(doc, "\n"), "\n") {
			if line == "" {
				w.Printf("%s//\n", indent)
			} else {
				w.Printf("%s// %s\n", indent, line)
			}
		}
	}
	if len(markers) != 0 {
		if doc != "" {
			w.Printf("%s//\n", indent)
		}
		for _, marker := range markers {
			w.Printf("%s%s\n", indent, marker)
		}
	}
}

func lowerFirst(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToLower(r)) + name[size:]
}

func quote(s string) string {
	return "\"" + s + "\""
}
