// Package typedb is the type interner and database of the registry
// front end.
//
// Every type lives in one unified, append-only table addressed by
// Handle. Named entities additionally live in per-category tables
// (constants, handles, structs, bitfields, enums, unions, functions)
// with stable 1-based indices; index 0 is the reserved null entry.
//
// The database supports forward references: resolving an undefined name
// creates a Placeholder slot, and the eventual definition rewrites that
// slot in place. Handles are never renumbered, so a handle obtained
// before the definition observes the defined type afterwards. Pointer
// and array shapes are structurally deduplicated on interning.
package typedb
