package codefmt

import (
	"go/token"
	"io"
)

// Writer is a writer for generated code.
type Writer struct {
	w       io.Writer
	fmt     Formatter
	imports map[string]Import
	ns      NS
}

// NewWriter creates a new [Writer]. It does not initialize the namespace. To
// specify a namespace, use [Writer.WithNS].
func NewWriter(w io.Writer, fset *token.FileSet) *Writer {
	return &Writer{
		w:       w,
		fmt:     New(fset),
		imports: make(map[string]Import),
		ns:      nil,
	}
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	return w.w.Write(p)
}

// Printf writes a formatted string to the underlying writer using
// [Formatter.Fprintf].
func (w *Writer) Printf(format string, args ...any) (int, error) {
	return w.fmt.Fprintf(w.w, format, args...)
}

// Sprintf creates a formatted string using [Formatter.Sprintf].
func (w *Writer) Sprintf(format string, args ...any) string {
	return w.fmt.Sprintf(format, args...)
}

// Errorf formats a positional error using [Formatter.Errorf].
func (w *Writer) Errorf(poser Poser, format string, args ...any) error {
	return w.fmt.Errorf(poser, format, args...)
}

// Name returns a unique name in the namespace of the writer.
func (w *Writer) Name(name string) string {
	return w.ns.Name(name)
}

// Reserve marks a name as used in the namespace of the writer.
func (w *Writer) Reserve(name string) bool {
	return w.ns.Reserve(name)
}

// WithBuf copies the writer and sets a new write buffer.
func (w *Writer) WithBuf(buf io.Writer) *Writer {
	return &Writer{
		w:       buf,
		fmt:     w.fmt,
		imports: w.imports,
		ns:      w.ns,
	}
}

// WithNS copies the writer and sets a new namespace.
func (w *Writer) WithNS(ns NS) *Writer {
	return &Writer{
		w:       w.w,
		fmt:     w.fmt,
		imports: w.imports,
		ns:      ns,
	}
}

// Import is an import of the generated file.
type Import struct {
	// Path is the import path of the package.
	Path string

	// Name is the local name the generated code uses to refer to the
	// package.
	Name string

	// HasAlias indicates that the import needs an explicit alias because
	// the local name differs from the default package name.
	HasAlias bool
}

// Imports returns the collected imports. Imports are collected by
// [Writer.Import].
func (w *Writer) Imports() map[string]Import {
	return w.imports
}

// Import adds an import for the package with the given path and default
// name. It returns the local name the generated code must use to refer to
// the package. The name might be different if it has tried to resolve name
// conflicts.
//
//	fmtName := w.Import("fmt", "fmt")
//	w.Printf("%s.Println(\"Hello, World!\")", fmtName)
func (w *Writer) Import(path, name string) string {
	return w.ImportAliased(path, name, false)
}

// ImportAliased is like [Writer.Import] for a local name that is already
// known to be an explicit alias rather than the package's default name.
// The import then keeps the alias in the generated import block even when
// the name needs no disambiguation.
func (w *Writer) ImportAliased(path, name string, alias bool) string {
	for candidate := range DisambiguateName(name) {
		prev, ok := w.imports[candidate]
		if ok && prev.Path == path {
			// Already imported with the same name.
			return candidate
		}
		if !ok && (w.ns == nil || w.ns.Reserve(candidate)) {
			w.imports[candidate] = Import{
				Path:     path,
				Name:     candidate,
				HasAlias: alias || candidate != name,
			}
			return candidate
		}
	}

	panic("unreachable")
}
