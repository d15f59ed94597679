// Package witabi projects compiled record layouts onto WIT records.
//
// A bitfield-free record whose fields use natural alignment has the same
// memory image as a WIT record under the Component Model Canonical ABI.
// Project builds that record type, Calculate lays it out the canonical
// way, and Check compares both layouts field by field. Pointer slots
// become u32 or u64 addresses depending on the record's ABI.
package witabi
