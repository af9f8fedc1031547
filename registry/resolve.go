package registry

import (
	"strings"

	"github.com/gogpu/vkreg/cdecl"
	"github.com/gogpu/vkreg/typedb"
)

// Resolve lowers the parsed records into the type database. Order
// within the document does not matter: references to names defined
// later land on placeholder slots that the later definition fills in
// place.
func Resolve(doc *Document, db *typedb.DB) {
	for _, b := range doc.Basetypes {
		if b.Type == "" {
			// Opaque forward declaration; left undefined so it surfaces
			// in the unresolved report as an external type.
			continue
		}
		db.DefineAlias(b.Name, db.ResolveName(b.Type))
	}

	for _, h := range doc.HandleDefs {
		if h.Alias != "" {
			db.DefineAlias(h.Name, db.ResolveName(h.Alias))
			continue
		}
		ht := typedb.HandleType{
			Name:         h.Name,
			Dispatchable: h.Dispatchable,
			ObjTypeEnum:  h.ObjTypeEnum,
		}
		if h.Parent != "" {
			ht.Parent = db.ResolveName(h.Parent)
		}
		db.DefineHandleType(ht)
	}

	for _, bm := range doc.BitmaskDefs {
		if bm.Alias != "" {
			db.DefineAlias(bm.Name, db.ResolveName(bm.Alias))
			continue
		}
		width := 32
		if strings.HasSuffix(bm.Type, "64") {
			width = 64
		}
		db.DefineBitfield(typedb.Bitfield{Name: bm.Name, BitsName: bm.Bits, BitWidth: width})
	}

	for _, e := range doc.EnumDecls {
		if e.Alias != "" {
			db.DefineAlias(e.Name, db.ResolveName(e.Alias))
			continue
		}
		// Declaration only; the enums block defines the entity.
		db.ResolveName(e.Name)
	}

	for _, fp := range doc.FuncPointers {
		f := typedb.Function{Name: fp.Name, FuncPointer: true}
		if fp.Return != "" {
			f.Return = db.ResolveName(fp.Return)
		}
		db.DefineFunction(f)
	}

	for i := range doc.EnumBlocks {
		resolveEnumBlock(db, &doc.EnumBlocks[i])
	}

	for i := range doc.Structs {
		resolveStruct(db, &doc.Structs[i])
	}

	for i := range doc.Commands {
		resolveCommand(db, &doc.Commands[i])
	}
}

func resolveEnumBlock(db *typedb.DB, blk *EnumBlock) {
	switch blk.Type {
	case "enum":
		db.DefineEnum(typedb.Enum{Name: blk.Name, BitWidth: blk.BitWidth})
	case "bitmask":
		// The flags typedef usually defined this entity already under
		// its typedef name with the block name as the bits alias; the
		// block then only sets the width.
		if h, ok := db.LookupName(blk.Name); ok {
			if cat, isCat := db.Types[db.Chase(h)].(typedb.Category); isCat && cat.Kind == typedb.CategoryBitfield {
				db.Bitfields[cat.Index].BitWidth = blk.BitWidth
				return
			}
		}
		db.DefineBitfield(typedb.Bitfield{Name: blk.Name, BitWidth: blk.BitWidth})
	default:
		// Free constants.
		for _, item := range blk.Items {
			if item.Alias != "" {
				db.DefineAlias(item.Name, db.ResolveName(item.Alias))
				continue
			}
			db.DefineConstant(typedb.Constant{Name: item.Name, Type: item.Type, Value: item.Value})
		}
	}
}

func resolveStruct(db *typedb.DB, def *StructDef) {
	if def.Alias != "" {
		db.DefineAlias(def.Name, db.ResolveName(def.Alias))
		return
	}
	s := typedb.Struct{
		Name:           def.Name,
		ReturnedOnly:   def.ReturnedOnly,
		AllowDuplicate: def.AllowDuplicate,
	}
	for _, ext := range def.Extends {
		s.Extends = append(s.Extends, db.ResolveName(strings.TrimSpace(ext)))
	}
	for _, m := range def.Members {
		member := typedb.Member{
			Name:       m.Name,
			Type:       memberType(db, &m, false),
			Len:        m.Len,
			Optional:   m.Optional,
			ExternSync: m.ExternSync,
			Selector:   m.Selector,
			BitWidth:   m.BitWidth,
			LimitType:  m.LimitType,
			Values:     m.Values,
		}
		if m.Selection != "" {
			member.Selection = splitList(m.Selection)
		}
		if m.Name == "sType" && m.Values != "" {
			s.SType = m.Values
		}
		s.Members = append(s.Members, member)
	}
	if def.Union {
		db.DefineUnion(s)
	} else {
		db.DefineStruct(s)
	}
}

func resolveCommand(db *typedb.DB, cmd *CommandDef) {
	if cmd.Alias != "" {
		db.DefineAlias(cmd.Name, db.ResolveName(cmd.Alias))
		return
	}
	f := typedb.Function{
		Name:           cmd.Name,
		Return:         memberType(db, &cmd.Proto, false),
		SuccessCodes:   cmd.SuccessCodes,
		ErrorCodes:     cmd.ErrorCodes,
		Queues:         cmd.Queues,
		RenderPass:     cmd.RenderPass,
		CmdBufferLevel: cmd.CmdBufferLevel,
	}
	for _, prm := range cmd.Params {
		f.Params = append(f.Params, typedb.Param{
			Name:       prm.Name,
			Type:       memberType(db, &prm, true),
			Len:        prm.Len,
			Optional:   prm.Optional,
			ExternSync: prm.ExternSync,
		})
	}
	db.DefineFunction(f)
}

// memberType decodes a member's declarator fragments and interns the
// resulting shape over the resolved base type.
func memberType(db *typedb.DB, m *MemberDef, arg bool) typedb.Handle {
	if m.Type == "" {
		return typedb.Null
	}
	length := m.Len
	if m.AltLen != "" {
		length = m.AltLen
	}
	shape := cdecl.Decode(m.Prefix, m.Type, m.Suffix, m.Dims, length, arg)
	return db.InternShape(db.ResolveName(m.Type), shape)
}
