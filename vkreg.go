// Package vkreg turns a Vulkan-style XML registry into a resolved,
// deduplicated, strongly-typed model for binding generators.
//
// The registry format mixes free-form C declarator fragments with
// nested XML, relies on forward references, and spreads one logical
// entity (a bitmask, say) across up to three dispersed records. vkreg
// runs a small compiler front end over it: a pull tokenizer, a
// speculative grammar parser, a type database with deferred name
// resolution, and a merge pass that folds extension contributions into
// the base enum and bitmask definitions.
//
// Example usage:
//
//	model, err := vkreg.Parse(string(source))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	h, _ := model.Type("VkInstanceCreateInfo")
//	fmt.Println(model.TypeString(h))
//	for _, name := range model.Unresolved {
//	    fmt.Println("external:", name)
//	}
//
// Code emission is out of scope: the model answers queries by name or
// handle and the caller renders declarations in its target language.
package vkreg

import (
	"github.com/gogpu/vkreg/registry"
	"github.com/gogpu/vkreg/typedb"
)

// Options configures a parse run.
type Options struct {
	// APIs lists the accepted API variant names. Records restricted to
	// other variants are skipped.
	APIs []string

	// Builtins is the immutable builtin name table seeded into the type
	// database.
	Builtins []typedb.Builtin
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		APIs:     []string{"vulkan"},
		Builtins: typedb.DefaultBuiltins(),
	}
}

// Model is the resolved registry: the type database plus the metadata
// records the database does not hold. It is immutable after Parse and
// lives for one generation run.
type Model struct {
	DB *typedb.DB

	Platforms         []registry.Platform
	Tags              []registry.Tag
	Extensions        []registry.ExtensionBlock
	SPIRVExtensions   []registry.SPIRVRequirement
	SPIRVCapabilities []registry.SPIRVRequirement

	// Unresolved lists every name referenced but never defined, sorted.
	// These are externally supplied types the emission layer must
	// declare itself.
	Unresolved []string
}

// Parse runs the full pipeline over one registry document with default
// options.
func Parse(source string) (*Model, error) {
	return ParseWithOptions(source, DefaultOptions())
}

// ParseWithOptions runs the tokenize, parse, resolve and merge stages
// and returns
// the queryable model. The only parse-time failure is a malformed
// numeric literal; structural problems degrade to a partial model and
// unknown names surface in Model.Unresolved.
func ParseWithOptions(source string, opts Options) (*Model, error) {
	doc, err := registry.ParseDocument(source, registry.ParseOptions{APIs: opts.APIs})
	if err != nil {
		return nil, err
	}

	db := typedb.New(opts.Builtins)
	registry.Resolve(doc, db)
	registry.Merge(doc, db)

	return &Model{
		DB:                db,
		Platforms:         doc.Platforms,
		Tags:              doc.Tags,
		Extensions:        doc.Blocks,
		SPIRVExtensions:   doc.SPIRVExtensions,
		SPIRVCapabilities: doc.SPIRVCapabilities,
		Unresolved:        db.Unresolved(),
	}, nil
}

// Type returns the handle bound to a name.
func (m *Model) Type(name string) (typedb.Handle, bool) {
	return m.DB.LookupName(name)
}

// TypeString renders a handle as a C-like type expression.
func (m *Model) TypeString(h typedb.Handle) string {
	return m.DB.TypeString(h)
}

// TypeName returns the declared name of the type a handle denotes,
// chasing aliases.
func (m *Model) TypeName(h typedb.Handle) string {
	return m.DB.TypeName(h)
}

// Struct returns the struct or union entity bound to a name.
func (m *Model) Struct(name string) (*typedb.Struct, bool) {
	cat, ok := m.category(name)
	if !ok {
		return nil, false
	}
	switch cat.Kind {
	case typedb.CategoryStruct:
		return &m.DB.Structs[cat.Index], true
	case typedb.CategoryUnion:
		return &m.DB.Unions[cat.Index], true
	}
	return nil, false
}

// Enum returns the enum entity bound to a name.
func (m *Model) Enum(name string) (*typedb.Enum, bool) {
	cat, ok := m.category(name)
	if !ok || cat.Kind != typedb.CategoryEnum {
		return nil, false
	}
	return &m.DB.Enums[cat.Index], true
}

// Bitfield returns the bitfield entity bound to a name, which may be
// either the flags typedef name or the flag-bits enum name.
func (m *Model) Bitfield(name string) (*typedb.Bitfield, bool) {
	cat, ok := m.category(name)
	if !ok || cat.Kind != typedb.CategoryBitfield {
		return nil, false
	}
	return &m.DB.Bitfields[cat.Index], true
}

// Command returns the function entity bound to a name.
func (m *Model) Command(name string) (*typedb.Function, bool) {
	cat, ok := m.category(name)
	if !ok || cat.Kind != typedb.CategoryFunction {
		return nil, false
	}
	return &m.DB.Functions[cat.Index], true
}

// Constant returns the constant entity bound to a name.
func (m *Model) Constant(name string) (*typedb.Constant, bool) {
	cat, ok := m.category(name)
	if !ok || cat.Kind != typedb.CategoryConstant {
		return nil, false
	}
	return &m.DB.Constants[cat.Index], true
}

// Handle returns the handle entity bound to a name.
func (m *Model) Handle(name string) (*typedb.HandleType, bool) {
	cat, ok := m.category(name)
	if !ok || cat.Kind != typedb.CategoryHandle {
		return nil, false
	}
	return &m.DB.Handles[cat.Index], true
}

func (m *Model) category(name string) (typedb.Category, bool) {
	h, ok := m.DB.LookupName(name)
	if !ok {
		return typedb.Category{}, false
	}
	in, ok := m.DB.Lookup(m.DB.Chase(h))
	if !ok {
		return typedb.Category{}, false
	}
	cat, ok := in.(typedb.Category)
	return cat, ok
}
