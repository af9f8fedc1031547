package typedb

import "github.com/gogpu/vkreg/cdecl"

// DB is the type interner and database for one generation run.
//
// All types live in one unified, append-only table indexed by Handle;
// category entries additionally live in per-kind tables with stable
// 1-based indices. Resolving a name that has no definition yet yields a
// Placeholder slot which a later definition rewrites in place, so every
// handle handed out stays valid.
//
// A DB is single-threaded state owned by one run; it is not safe for
// concurrent use.
type DB struct {
	// Types is the unified type table. Index 0 is the null handle and
	// holds nil.
	Types []Inner

	// Per-category tables. Index 0 of each is a reserved zero entry so
	// that Category indices are 1-based and 0 means null.
	Constants []Constant
	Handles   []HandleType
	Structs   []Struct
	Bitfields []Bitfield
	Enums     []Enum
	Unions    []Struct
	Functions []Function

	names  map[string]Handle
	void   Handle
	opaque Handle
}

// New creates a database seeded with the given immutable builtin table.
func New(builtins []Builtin) *DB {
	db := &DB{
		Types:     make([]Inner, 1, 64),
		Constants: make([]Constant, 1),
		Handles:   make([]HandleType, 1),
		Structs:   make([]Struct, 1),
		Bitfields: make([]Bitfield, 1),
		Enums:     make([]Enum, 1),
		Unions:    make([]Struct, 1),
		Functions: make([]Function, 1),
		names:     make(map[string]Handle, len(builtins)+64),
	}
	for _, b := range builtins {
		h := db.appendType(b)
		db.names[b.Name] = h
		switch b.Kind {
		case BuiltinVoid:
			db.void = h
		case BuiltinOpaque:
			db.opaque = h
		}
	}
	if db.opaque == Null {
		// Not nameable from the registry, but needed as the pointee of
		// element-less pointer data.
		db.opaque = db.appendType(Builtin{Name: "opaque", Kind: BuiltinOpaque})
	}
	return db
}

func (db *DB) appendType(in Inner) Handle {
	db.Types = append(db.Types, in)
	return Handle(len(db.Types) - 1)
}

// Lookup returns the slot for a handle.
func (db *DB) Lookup(h Handle) (Inner, bool) {
	if h == Null || int(h) >= len(db.Types) {
		return nil, false
	}
	return db.Types[h], true
}

// ResolveName returns the handle for a name, creating a Placeholder slot
// if the name has not been defined yet. Resolution is idempotent: the
// same name always yields the same handle.
func (db *DB) ResolveName(name string) Handle {
	if h, ok := db.names[name]; ok {
		return h
	}
	h := db.appendType(Placeholder{Name: name})
	db.names[name] = h
	return h
}

// defineNamed binds name to the given slot contents. If a Placeholder
// for the name exists its slot is rewritten in place, preserving the
// handle; if the name is already defined the existing handle wins.
func (db *DB) defineNamed(name string, in Inner) Handle {
	if h, ok := db.names[name]; ok {
		if _, pending := db.Types[h].(Placeholder); pending {
			db.Types[h] = in
		}
		return h
	}
	h := db.appendType(in)
	db.names[name] = h
	return h
}

// DefineAlias binds name as an alias of target.
func (db *DB) DefineAlias(name string, target Handle) Handle {
	return db.defineNamed(name, Alias{Name: name, Target: target})
}

// DefineConstant appends to the constants table and binds the name.
func (db *DB) DefineConstant(c Constant) Handle {
	db.Constants = append(db.Constants, c)
	return db.defineNamed(c.Name, Category{Kind: CategoryConstant, Index: uint32(len(db.Constants) - 1)})
}

// DefineHandleType appends to the handles table and binds the name.
func (db *DB) DefineHandleType(h HandleType) Handle {
	db.Handles = append(db.Handles, h)
	return db.defineNamed(h.Name, Category{Kind: CategoryHandle, Index: uint32(len(db.Handles) - 1)})
}

// DefineStruct appends to the structs table and binds the name.
func (db *DB) DefineStruct(s Struct) Handle {
	db.Structs = append(db.Structs, s)
	return db.defineNamed(s.Name, Category{Kind: CategoryStruct, Index: uint32(len(db.Structs) - 1)})
}

// DefineUnion appends to the unions table and binds the name.
func (db *DB) DefineUnion(s Struct) Handle {
	s.Union = true
	db.Unions = append(db.Unions, s)
	return db.defineNamed(s.Name, Category{Kind: CategoryUnion, Index: uint32(len(db.Unions) - 1)})
}

// DefineEnum appends to the enums table and binds the name.
func (db *DB) DefineEnum(e Enum) Handle {
	db.Enums = append(db.Enums, e)
	return db.defineNamed(e.Name, Category{Kind: CategoryEnum, Index: uint32(len(db.Enums) - 1)})
}

// DefineBitfield appends to the bitfields table and binds both the
// typedef name and, when present, the bits enum name.
func (db *DB) DefineBitfield(b Bitfield) Handle {
	db.Bitfields = append(db.Bitfields, b)
	h := db.defineNamed(b.Name, Category{Kind: CategoryBitfield, Index: uint32(len(db.Bitfields) - 1)})
	if b.BitsName != "" && b.BitsName != b.Name {
		db.defineNamed(b.BitsName, Alias{Name: b.BitsName, Target: h})
	}
	return h
}

// DefineFunction appends to the functions table and binds the name.
func (db *DB) DefineFunction(f Function) Handle {
	db.Functions = append(db.Functions, f)
	return db.defineNamed(f.Name, Category{Kind: CategoryFunction, Index: uint32(len(db.Functions) - 1)})
}

// InternPointer returns the handle for a pointer shape, reusing an
// existing slot when an identical shape was interned before.
//
// A slice of void elements is not representable downstream; such a shape
// canonicalizes to a single pointer at the opaque builtin.
func (db *DB) InternPointer(base Handle, constQ bool, mult cdecl.Multiplicity, zeroTerminated bool) Handle {
	if base == db.void && db.void != Null && mult == cdecl.Slice {
		base = db.opaque
		mult = cdecl.Single
		zeroTerminated = false
	}
	want := Pointer{Base: base, Mult: mult, Const: constQ, ZeroTerminated: zeroTerminated}
	for i, in := range db.Types {
		if p, ok := in.(Pointer); ok && p == want {
			return Handle(i)
		}
	}
	return db.appendType(want)
}

// InternArray returns the handle for a fixed-array shape, reusing an
// existing slot when an identical shape was interned before.
func (db *DB) InternArray(base Handle, length ArrayLen) Handle {
	want := Array{Base: base, Len: length}
	for i, in := range db.Types {
		if a, ok := in.(Array); ok && a == want {
			return Handle(i)
		}
	}
	return db.appendType(want)
}

// InternShape applies a decoded declarator shape to a base type,
// interning array dimensions innermost first and pointer levels from the
// base type outward.
func (db *DB) InternShape(base Handle, s cdecl.Shape) Handle {
	h := base
	for i := len(s.Arrays) - 1; i >= 0; i-- {
		h = db.InternArray(h, db.arrayLen(s.Arrays[i]))
	}
	for i := len(s.Levels) - 1; i >= 0; i-- {
		lv := s.Levels[i]
		h = db.InternPointer(h, lv.Const, lv.Mult, lv.ZeroTerminated)
	}
	return h
}

func (db *DB) arrayLen(dim cdecl.ArraySize) ArrayLen {
	if dim.Constant != "" {
		return ArrayLen{Constant: db.ResolveName(dim.Constant)}
	}
	return ArrayLen{Expr: dim.Expr}
}
