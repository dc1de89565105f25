// Package newtypeenum provides the runtime contract for newtype enums.
//
// A newtype enum is a tagged union where every variant wraps exactly one
// payload type and the payload type uniquely identifies the variant. Enums
// are declared as prototype structs in files constrained by
//
//	//go:build newtypeenum
//
// and carry a directive comment on the type declaration:
//
//	//newtypeenum:union
//	type Test struct {
//		Ping   struct{}              // unit variant
//		Number int                   // newtype variant
//		Hello  struct{ Name string } // struct variant
//	}
//
// Running the generator rewrites every declared enum into its fully wrapped
// form and emits it into newtypeenum_gen.go for the package:
//
//	go run github.com/mgjm/newtype-enum/cmd/newtypeenum
//
// Unit and struct variants are converted to generated payload structs in a
// companion block named after the enum (Test_variants by default). Variants
// that already wrap a single payload type keep it as is. For every variant
// the generator also emits a caster value, a zero-size handle implementing
// [Variant] for the enum and payload pair:
//
//	test := newtypeenum.From(TestHello, Test_variants_Hello{Name: "Tester"})
//
//	if hello, ok := newtypeenum.Into(TestHello, test); ok {
//		fmt.Println(hello.Name)
//	}
//
// # Directive arguments
//
// The companion block name and its declared visibility can be configured
// with the variants argument:
//
//	//newtypeenum:union variants="pub(crate) test"
//
// The string holds an optional visibility prefix followed by the block
// identifier. Without a prefix the block visibility defaults to the enum's
// own declared visibility.
//
// The unstable_self_test argument makes the generated code refer to this
// package without an import path. It exists only for the generator's own
// test suite and may change at any time.
package newtypeenum

// Variant relates an enum type E to one of its payload types V. The
// generator implements it for every variant of a declared enum, matching
// the enum tag structurally in every method.
type Variant[E, V any] interface {
	// IntoEnum wraps a payload value into the matching variant of E.
	IntoEnum(V) E

	// FromEnum unwraps the payload value. It reports false if the enum
	// currently holds another variant.
	FromEnum(E) (V, bool)

	// RefEnum returns a pointer to the payload value stored inside the
	// enum, or nil if the enum currently holds another variant. The
	// pointee may be mutated in place.
	RefEnum(*E) *V

	// IsEnumVariant reports whether the enum currently holds this
	// variant. If it reports true, it is safe to call FromEnumUnchecked
	// as long as the enum is not reassigned in between.
	IsEnumVariant(*E) bool

	// FromEnumUnwrap unwraps the payload value and panics if the enum
	// currently holds another variant.
	FromEnumUnwrap(E) V

	// FromEnumUnchecked unwraps the payload value without checking the
	// tag. The caller must have established the tag with IsEnumVariant
	// first; otherwise the result is the zero value of a slot that was
	// never written, and the call must be considered meaningless.
	FromEnumUnchecked(E) V

	// RefEnumUnchecked returns a pointer to the payload slot inside the
	// enum without checking the tag. The same contract as
	// FromEnumUnchecked applies, and writing through the pointer while
	// the enum holds another variant leaves the written value invisible.
	RefEnumUnchecked(*E) *V
}

// From constructs an enum from one of its payload values.
func From[E, V any](c Variant[E, V], v V) E {
	return c.IntoEnum(v)
}

// Into converts an enum into one of its payload values. It reports false
// if the enum currently holds another variant.
func Into[E, V any](c Variant[E, V], e E) (V, bool) {
	return c.FromEnum(e)
}

// Ref returns a pointer to the payload value stored inside the enum, or
// nil if the enum currently holds another variant.
func Ref[E, V any](c Variant[E, V], e *E) *V {
	return c.RefEnum(e)
}

// Is reports whether the enum currently holds the variant of c.
func Is[E, V any](c Variant[E, V], e *E) bool {
	return c.IsEnumVariant(e)
}

// Set replaces the enum with the variant wrapping v and returns the old
// enum value.
func Set[E, V any](c Variant[E, V], e *E, v V) E {
	old := *e
	*e = c.IntoEnum(v)
	return old
}

// Unwrap converts an enum into one of its payload values and panics if
// the enum currently holds another variant.
func Unwrap[E, V any](c Variant[E, V], e E) V {
	return c.FromEnumUnwrap(e)
}

// Unchecked converts an enum into one of its payload values without
// checking the tag. See [Variant.FromEnumUnchecked] for the contract.
func Unchecked[E, V any](c Variant[E, V], e E) V {
	return c.FromEnumUnchecked(e)
}

// RefUnchecked returns a pointer to the payload slot inside the enum
// without checking the tag. See [Variant.RefEnumUnchecked] for the
// contract.
func RefUnchecked[E, V any](c Variant[E, V], e *E) *V {
	return c.RefEnumUnchecked(e)
}
