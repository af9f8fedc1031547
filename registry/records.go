package registry

import "github.com/gogpu/vkreg/typedb"

// Document holds the raw records of one parsed registry, in declaration
// order. Records are immutable once parsed; resolution and merging read
// them into the type database.
type Document struct {
	Platforms    []Platform
	Tags         []Tag
	Basetypes    []Basetype
	HandleDefs   []HandleDef
	BitmaskDefs  []BitmaskDef
	EnumDecls    []EnumDecl
	FuncPointers []FuncPointer
	Structs      []StructDef
	Commands     []CommandDef
	EnumBlocks   []EnumBlock

	// Blocks lists features and extensions together, in document order.
	// The merge pass consumes their Require sections in this order.
	Blocks []ExtensionBlock

	SPIRVExtensions   []SPIRVRequirement
	SPIRVCapabilities []SPIRVRequirement
}

// Platform is one entry of the platforms section.
type Platform struct {
	Name    string
	Protect string
}

// Tag is one registered vendor tag.
type Tag struct {
	Name    string
	Author  string
	Contact string
}

// Basetype is a typedef of a fundamental type, e.g. a 32-bit boolean.
// Type is empty for opaque forward declarations.
type Basetype struct {
	Name string
	Type string
}

// HandleDef declares an API object handle.
type HandleDef struct {
	Name         string
	Alias        string
	Parent       string
	ObjTypeEnum  string
	Dispatchable bool
}

// BitmaskDef declares a flags typedef. Bits names the flag-bits enum
// block that carries the values, "" when none exists yet. Type is the
// underlying flags type name (a 64-bit variant widens the bitfield).
type BitmaskDef struct {
	Name  string
	Alias string
	Type  string
	Bits  string
}

// EnumDecl declares an enum type name, optionally as an alias of
// another. The values arrive separately in an EnumBlock.
type EnumDecl struct {
	Name  string
	Alias string
}

// FuncPointer declares a function pointer type.
type FuncPointer struct {
	Name   string
	Return string
}

// MemberDef carries the raw declarator fragments of one struct member,
// command parameter or command prototype, exactly as split by the
// registry format.
type MemberDef struct {
	Prefix string
	Type   string
	Suffix string
	Name   string
	Dims   string

	Len        string
	AltLen     string
	Optional   string
	ExternSync string
	Selector   string
	Selection  string
	Values     string
	LimitType  string
	API        string
	BitWidth   int
}

// StructDef is a struct or union record.
type StructDef struct {
	Name           string
	Alias          string
	Union          bool
	Extends        []string
	ReturnedOnly   bool
	AllowDuplicate bool
	Members        []MemberDef
}

// CommandDef is a command record. Proto holds the return type and
// command name fragments.
type CommandDef struct {
	Name           string
	Alias          string
	Proto          MemberDef
	Params         []MemberDef
	SuccessCodes   []string
	ErrorCodes     []string
	Queues         []string
	RenderPass     string
	CmdBufferLevel string
}

// EnumItem is one entry of an EnumBlock.
type EnumItem struct {
	Name      string
	Value     typedb.ConstantValue
	HasValue  bool
	BitPos    int
	HasBitPos bool
	Alias     string
	Type      string
	API       string
}

// EnumBlock is a block of enum values, bitmask positions or free
// constants. Type is "enum", "bitmask" or "constants".
type EnumBlock struct {
	Name     string
	Type     string
	BitWidth int
	Items    []EnumItem
}

// RequireItem is one enum contribution inside a Require section.
// Exactly one of Value, BitPos, Offset or Alias is meaningful; a bare
// item (none set) merely references an existing name.
type RequireItem struct {
	Name      string
	Extends   string
	Value     typedb.ConstantValue
	HasValue  bool
	BitPos    int
	HasBitPos bool
	Offset    int
	HasOffset bool
	Negative  bool
	ExtNumber int
	Alias     string
	Type      string
	API       string
	Protect   string
}

// FeatureReq records a feature-structure requirement of an extension.
type FeatureReq struct {
	Struct  string
	Field   string
	Depends string
}

// RequireBlock is one ordered Require section of a feature or extension.
type RequireBlock struct {
	Depends  string
	Enums    []RequireItem
	Types    []string
	Commands []string
	Features []FeatureReq
}

// ExtensionBlock is a feature (core version) or extension record with
// its metadata and ordered Require sections.
type ExtensionBlock struct {
	Feature bool
	Name    string
	Number  int
	Version string
	API     string

	Type         string
	Depends      string
	Platform     string
	Protect      string
	Author       string
	Provisional  bool
	PromotedTo   string
	DeprecatedBy string
	ObsoletedBy  string
	SpecialUse   []string

	Requires []RequireBlock
}

// SPIRVEnable is one way a SPIR-V extension or capability is enabled.
type SPIRVEnable struct {
	Version   string
	Extension string
	Struct    string
	Feature   string
	Requires  string
	Property  string
	Member    string
	Value     string
}

// SPIRVRequirement is one entry of the SPIR-V extension or capability
// sections.
type SPIRVRequirement struct {
	Name    string
	Enables []SPIRVEnable
}
