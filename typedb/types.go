package typedb

import "github.com/gogpu/vkreg/cdecl"

// Handle references a slot in the unified type table. Handle 0 is the
// reserved null handle. Handles are stable for the lifetime of a run:
// a slot may be rewritten in place when a forward reference is defined,
// but handles are never renumbered or reused.
type Handle uint32

// Null is the reserved zero handle.
const Null Handle = 0

// Inner is the inner representation of a type table slot.
type Inner interface {
	inner()
}

// BuiltinKind identifies a fundamental scalar type of the source
// language dialect.
type BuiltinKind uint8

const (
	BuiltinVoid BuiltinKind = iota
	// BuiltinOpaque is the pointee of a pointer whose element type has no
	// size ("void*" data). It is never referenced by name in a registry.
	BuiltinOpaque
	BuiltinChar
	BuiltinInt
	BuiltinInt8
	BuiltinUint8
	BuiltinInt16
	BuiltinUint16
	BuiltinInt32
	BuiltinUint32
	BuiltinInt64
	BuiltinUint64
	BuiltinFloat32
	BuiltinFloat64
	BuiltinSize
)

// Builtin is a fundamental type known to the database up front.
type Builtin struct {
	Name string
	Kind BuiltinKind
}

// Alias names another type.
type Alias struct {
	Name   string
	Target Handle
}

// Pointer is one structurally deduplicated pointer shape.
type Pointer struct {
	Base           Handle
	Mult           cdecl.Multiplicity
	Const          bool
	ZeroTerminated bool
}

// ArrayLen is a fixed array length: either a literal expression or a
// reference to a named constant.
type ArrayLen struct {
	Expr     string
	Constant Handle
}

// Array is one structurally deduplicated fixed-array shape.
type Array struct {
	Base Handle
	Len  ArrayLen
}

// CategoryKind identifies which category table a Category slot points
// into.
type CategoryKind uint8

const (
	CategoryConstant CategoryKind = iota
	CategoryHandle
	CategoryStruct
	CategoryBitfield
	CategoryEnum
	CategoryUnion
	CategoryFunction
)

// String returns a human-readable name for the category kind.
func (k CategoryKind) String() string {
	switch k {
	case CategoryConstant:
		return "constant"
	case CategoryHandle:
		return "handle"
	case CategoryStruct:
		return "struct"
	case CategoryBitfield:
		return "bitfield"
	case CategoryEnum:
		return "enum"
	case CategoryUnion:
		return "union"
	case CategoryFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Category points at an entry of one of the per-kind tables. Index is
// 1-based; index 0 of every table is the reserved null entry.
type Category struct {
	Kind  CategoryKind
	Index uint32
}

// Placeholder stands in for a name that has been referenced but not yet
// defined. Defining the name rewrites the slot in place.
type Placeholder struct {
	Name string
}

func (Builtin) inner()     {}
func (Alias) inner()       {}
func (Pointer) inner()     {}
func (Array) inner()       {}
func (Category) inner()    {}
func (Placeholder) inner() {}

// ConstantKind identifies the representation of a constant value.
type ConstantKind uint8

const (
	ConstInt ConstantKind = iota
	ConstUint
	ConstFloat
	ConstString
)

// ConstantValue is a decoded registry constant.
type ConstantValue struct {
	Kind  ConstantKind
	Int   int64
	Uint  uint64
	Float float64
	Str   string
}

// Constant is an entry of the constants table.
type Constant struct {
	Name  string
	Type  string // C type name the registry declared, "" if untyped
	Value ConstantValue
}

// HandleType is an entry of the handles table.
type HandleType struct {
	Name         string
	Parent       Handle
	Dispatchable bool
	ObjTypeEnum  string
}

// Member is one field of a struct or union.
type Member struct {
	Name       string
	Type       Handle
	Len        string
	Optional   string
	ExternSync string
	Selector   string
	Selection  []string
	BitWidth   int
	LimitType  string
	Values     string
}

// Struct is an entry of the structs or unions table.
type Struct struct {
	Name           string
	Union          bool
	Members        []Member
	Extends        []Handle
	SType          string
	ReturnedOnly   bool
	AllowDuplicate bool
}

// EnumField is one value of an enum after merging. Aliases lists the
// secondary names that collapsed onto this field.
type EnumField struct {
	Name    string
	Value   int64
	Aliases []string
}

// Enum is an entry of the enums table. Fields is populated by the
// extension merge pass, sorted by value ascending.
type Enum struct {
	Name     string
	BitWidth int
	Fields   []EnumField
}

// Bit is one flag of a bitfield after merging. Value is the full mask
// (a single bit unless Multibit is set).
type Bit struct {
	Name     string
	Value    uint64
	Multibit bool
	Aliases  []string
}

// Bitfield is an entry of the bitfields table. It fuses the registry's
// dispersed flags-typedef and flag-bits records: Name is the typedef
// name, BitsName the bits enum name ("" when the registry declares no
// bits block). Bits is populated by the merge pass, sorted ascending.
type Bitfield struct {
	Name     string
	BitsName string
	BitWidth int
	Bits     []Bit
}

// Param is one parameter of a function.
type Param struct {
	Name       string
	Type       Handle
	Len        string
	Optional   string
	ExternSync string
}

// Function is an entry of the functions table: a registry command or a
// declared function pointer type.
type Function struct {
	Name           string
	Return         Handle
	Params         []Param
	SuccessCodes   []string
	ErrorCodes     []string
	Queues         []string
	RenderPass     string
	CmdBufferLevel string
	FuncPointer    bool
}

// DefaultBuiltins returns the builtin name table for the C dialect the
// registry format embeds.
func DefaultBuiltins() []Builtin {
	return []Builtin{
		{Name: "void", Kind: BuiltinVoid},
		{Name: "char", Kind: BuiltinChar},
		{Name: "int", Kind: BuiltinInt},
		{Name: "int8_t", Kind: BuiltinInt8},
		{Name: "uint8_t", Kind: BuiltinUint8},
		{Name: "int16_t", Kind: BuiltinInt16},
		{Name: "uint16_t", Kind: BuiltinUint16},
		{Name: "int32_t", Kind: BuiltinInt32},
		{Name: "uint32_t", Kind: BuiltinUint32},
		{Name: "int64_t", Kind: BuiltinInt64},
		{Name: "uint64_t", Kind: BuiltinUint64},
		{Name: "float", Kind: BuiltinFloat32},
		{Name: "double", Kind: BuiltinFloat64},
		{Name: "size_t", Kind: BuiltinSize},
	}
}
