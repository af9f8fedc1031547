package typedb

import (
	"sort"
	"strconv"
)

// LookupName returns the handle bound to a name, without creating a
// placeholder on a miss. Query-time counterpart of ResolveName.
func (db *DB) LookupName(name string) (Handle, bool) {
	h, ok := db.names[name]
	return h, ok
}

// Chase follows alias slots until it reaches a non-alias type.
func (db *DB) Chase(h Handle) Handle {
	for {
		in, ok := db.Lookup(h)
		if !ok {
			return h
		}
		a, ok := in.(Alias)
		if !ok {
			return h
		}
		h = a.Target
	}
}

// TypeName returns the declared name of the type a handle denotes,
// chasing aliases to the defining entity. Anonymous pointer and array
// shapes render structurally.
func (db *DB) TypeName(h Handle) string {
	in, ok := db.Lookup(h)
	if !ok {
		return "?"
	}
	switch t := in.(type) {
	case Builtin:
		return t.Name
	case Alias:
		return db.TypeName(t.Target)
	case Placeholder:
		return t.Name
	case Category:
		return db.categoryName(t)
	default:
		return db.TypeString(h)
	}
}

// TypeString renders a handle as a C-like type expression. Aliases are
// chased to their targets.
func (db *DB) TypeString(h Handle) string {
	in, ok := db.Lookup(h)
	if !ok {
		return "?"
	}
	switch t := in.(type) {
	case Builtin:
		return t.Name
	case Alias:
		return db.TypeString(t.Target)
	case Placeholder:
		return t.Name
	case Category:
		return db.categoryName(t)
	case Pointer:
		base := db.TypeString(t.Base)
		if t.Const {
			return "const " + base + "*"
		}
		return base + "*"
	case Array:
		return db.TypeString(t.Base) + "[" + db.lenString(t.Len) + "]"
	default:
		return "?"
	}
}

func (db *DB) lenString(l ArrayLen) string {
	if l.Constant != Null {
		return db.TypeName(l.Constant)
	}
	return l.Expr
}

func (db *DB) categoryName(c Category) string {
	i := int(c.Index)
	switch c.Kind {
	case CategoryConstant:
		if i < len(db.Constants) {
			return db.Constants[i].Name
		}
	case CategoryHandle:
		if i < len(db.Handles) {
			return db.Handles[i].Name
		}
	case CategoryStruct:
		if i < len(db.Structs) {
			return db.Structs[i].Name
		}
	case CategoryBitfield:
		if i < len(db.Bitfields) {
			return db.Bitfields[i].Name
		}
	case CategoryEnum:
		if i < len(db.Enums) {
			return db.Enums[i].Name
		}
	case CategoryUnion:
		if i < len(db.Unions) {
			return db.Unions[i].Name
		}
	case CategoryFunction:
		if i < len(db.Functions) {
			return db.Functions[i].Name
		}
	}
	return "<" + c.Kind.String() + " " + strconv.Itoa(i) + ">"
}

// Unresolved returns the sorted names of every slot still holding a
// Placeholder: names that were referenced during the run but never
// defined. The emission layer treats these as externally supplied types.
func (db *DB) Unresolved() []string {
	var names []string
	for _, in := range db.Types {
		if p, ok := in.(Placeholder); ok {
			names = append(names, p.Name)
		}
	}
	sort.Strings(names)
	return names
}
