package registry

import (
	"sort"

	"github.com/gogpu/vkreg/typedb"
)

// extensionBase is the first value of the extension-reserved number
// range; each extension owns a block of 1000 values addressed by its
// extension number and a relative offset.
const extensionBase = 1_000_000_000

// offsetValue computes the absolute value of an offset-classified
// contribution.
func offsetValue(extNumber, offset int, negative bool) int64 {
	v := int64(extensionBase) + int64(extNumber-1)*1000 + int64(offset)
	if negative {
		v = -v
	}
	return v
}

// contribution is one extension/feature enum item targeting an entity,
// paired with the number of the block that contributed it.
type contribution struct {
	item      RequireItem
	extNumber int
}

// Merge reconciles base enum/bitmask item lists with the Require-block
// contributions of every feature and extension, in declaration order.
// Merged item lists are written into the database entities: sorted
// ascending by value (or bit position), with same-valued duplicates
// collapsed into the first entry and recorded as alias annotations.
//
// Require items that do not extend an entity define extension-scoped
// constants (spec version, extension name string) instead.
func Merge(doc *Document, db *typedb.DB) {
	byTarget := make(map[string][]contribution)
	for _, blk := range doc.Blocks {
		for _, rb := range blk.Requires {
			for _, item := range rb.Enums {
				if item.Extends == "" {
					defineFreeItem(db, item)
					continue
				}
				byTarget[item.Extends] = append(byTarget[item.Extends], contribution{
					item:      item,
					extNumber: blk.Number,
				})
			}
		}
	}

	merged := make(map[string]bool, len(doc.EnumBlocks))
	for _, blk := range doc.EnumBlocks {
		switch blk.Type {
		case "enum":
			mergeEnum(db, blk.Name, blk.Items, byTarget[blk.Name])
		case "bitmask":
			mergeBits(db, blk.Name, blk.Items, byTarget[blk.Name])
		default:
			continue
		}
		merged[blk.Name] = true
	}

	// Entities extended by capabilities without a base block of their
	// own merge against an empty base list.
	leftovers := make([]string, 0, len(byTarget))
	for name := range byTarget {
		if !merged[name] {
			leftovers = append(leftovers, name)
		}
	}
	sort.Strings(leftovers)
	for _, name := range leftovers {
		if _, ok := bitfieldCategory(db, name); ok {
			mergeBits(db, name, nil, byTarget[name])
		} else {
			mergeEnum(db, name, nil, byTarget[name])
		}
	}
}

func defineFreeItem(db *typedb.DB, item RequireItem) {
	if item.Name == "" {
		return
	}
	if _, exists := db.LookupName(item.Name); exists {
		return
	}
	switch {
	case item.Alias != "":
		db.DefineAlias(item.Name, db.ResolveName(item.Alias))
	case item.HasValue:
		db.DefineConstant(typedb.Constant{Name: item.Name, Type: item.Type, Value: item.Value})
	}
}

type aliasNote struct {
	name   string
	target string
}

func mergeEnum(db *typedb.DB, name string, base []EnumItem, contribs []contribution) {
	type entry struct {
		name  string
		value int64
	}
	var entries []entry
	var notes []aliasNote
	seen := make(map[string]bool)
	add := func(n string, v int64) {
		if n == "" || seen[n] {
			return
		}
		seen[n] = true
		entries = append(entries, entry{name: n, value: v})
	}

	for _, item := range base {
		if item.Alias != "" {
			notes = append(notes, aliasNote{name: item.Name, target: item.Alias})
			continue
		}
		if item.HasValue {
			add(item.Name, item.Value.Int)
		}
	}
	for _, c := range contribs {
		it := c.item
		switch {
		case it.Alias != "":
			notes = append(notes, aliasNote{name: it.Name, target: it.Alias})
		case it.HasValue:
			add(it.Name, it.Value.Int)
		case it.HasBitPos:
			add(it.Name, 1<<it.BitPos)
		case it.HasOffset:
			extNumber := c.extNumber
			if it.ExtNumber != 0 {
				extNumber = it.ExtNumber
			}
			add(it.Name, offsetValue(extNumber, it.Offset, it.Negative))
		default:
			// Bare reference to an existing name; nothing to merge.
		}
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].value < entries[j].value })

	fields := make([]typedb.EnumField, 0, len(entries))
	for _, e := range entries {
		if n := len(fields); n > 0 && fields[n-1].Value == e.value {
			fields[n-1].Aliases = append(fields[n-1].Aliases, e.name)
			continue
		}
		fields = append(fields, typedb.EnumField{Name: e.name, Value: e.value})
	}
	attachEnumAliases(fields, notes)

	if cat, ok := enumCategory(db, name); ok {
		db.Enums[cat.Index].Fields = fields
	}
}

func mergeBits(db *typedb.DB, name string, base []EnumItem, contribs []contribution) {
	type entry struct {
		name     string
		value    uint64
		multibit bool
	}
	var entries []entry
	var notes []aliasNote
	seen := make(map[string]bool)
	add := func(n string, v uint64, multi bool) {
		if n == "" || seen[n] {
			return
		}
		seen[n] = true
		entries = append(entries, entry{name: n, value: v, multibit: multi})
	}

	for _, item := range base {
		switch {
		case item.Alias != "":
			notes = append(notes, aliasNote{name: item.Name, target: item.Alias})
		case item.HasBitPos:
			add(item.Name, 1<<item.BitPos, false)
		case item.HasValue:
			add(item.Name, maskOf(item.Value), multibit(item.Value))
		}
	}
	for _, c := range contribs {
		it := c.item
		switch {
		case it.Alias != "":
			notes = append(notes, aliasNote{name: it.Name, target: it.Alias})
		case it.HasBitPos:
			add(it.Name, 1<<it.BitPos, false)
		case it.HasValue:
			add(it.Name, maskOf(it.Value), multibit(it.Value))
		}
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].value < entries[j].value })

	bits := make([]typedb.Bit, 0, len(entries))
	for _, e := range entries {
		if n := len(bits); n > 0 && bits[n-1].Value == e.value {
			bits[n-1].Aliases = append(bits[n-1].Aliases, e.name)
			continue
		}
		bits = append(bits, typedb.Bit{Name: e.name, Value: e.value, Multibit: e.multibit})
	}
	attachBitAliases(bits, notes)

	if cat, ok := bitfieldCategory(db, name); ok {
		db.Bitfields[cat.Index].Bits = bits
	}
}

// maskOf returns a literal flag value as a full mask.
func maskOf(v typedb.ConstantValue) uint64 {
	if v.Kind == typedb.ConstUint {
		return v.Uint
	}
	return uint64(v.Int)
}

// multibit reports whether a literal flag value covers more than one
// bit (or none).
func multibit(v typedb.ConstantValue) bool {
	u := maskOf(v)
	return u&(u-1) != 0 || u == 0
}

func attachEnumAliases(fields []typedb.EnumField, notes []aliasNote) {
	for _, note := range notes {
		for i := range fields {
			if fields[i].Name == note.target || containsName(fields[i].Aliases, note.target) {
				if fields[i].Name != note.name && !containsName(fields[i].Aliases, note.name) {
					fields[i].Aliases = append(fields[i].Aliases, note.name)
				}
				break
			}
		}
	}
}

func attachBitAliases(bits []typedb.Bit, notes []aliasNote) {
	for _, note := range notes {
		for i := range bits {
			if bits[i].Name == note.target || containsName(bits[i].Aliases, note.target) {
				if bits[i].Name != note.name && !containsName(bits[i].Aliases, note.name) {
					bits[i].Aliases = append(bits[i].Aliases, note.name)
				}
				break
			}
		}
	}
}

func containsName(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}

func enumCategory(db *typedb.DB, name string) (typedb.Category, bool) {
	h, ok := db.LookupName(name)
	if !ok {
		return typedb.Category{}, false
	}
	in, ok := db.Lookup(db.Chase(h))
	if !ok {
		return typedb.Category{}, false
	}
	cat, ok := in.(typedb.Category)
	if !ok || cat.Kind != typedb.CategoryEnum {
		return typedb.Category{}, false
	}
	return cat, true
}

func bitfieldCategory(db *typedb.DB, name string) (typedb.Category, bool) {
	h, ok := db.LookupName(name)
	if !ok {
		return typedb.Category{}, false
	}
	in, ok := db.Lookup(db.Chase(h))
	if !ok {
		return typedb.Category{}, false
	}
	cat, ok := in.(typedb.Category)
	if !ok || cat.Kind != typedb.CategoryBitfield {
		return typedb.Category{}, false
	}
	return cat, true
}
