// Package schema declares records from TOML files.
//
// A file lists records in order. Each record gets its own fields and may
// name earlier records as bases. Pointer fields may target the record
// itself ("self"), an earlier record, or a record declared further down
// the file; the latter are forward-declared and resolved when the record
// appears. A file whose forward references are not all resolved fails to
// load.
//
//	[target]
//	pointer_size = 4
//
//	[[record]]
//	name = "Node"
//	  [[record.field]]
//	  name = "value"
//	  type = "int32_t"
//	  [[record.field]]
//	  name = "next"
//	  pointer = "self"
//
// Every file is built with its own record.Builder, so files never see
// each other's records.
package schema
