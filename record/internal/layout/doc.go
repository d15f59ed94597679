// Package layout compiles an ordered field list into a physical layout.
//
// # Layout Rules
//
//   - A full-width field starts at the next offset aligned to its natural
//     alignment.
//   - Consecutive bitfields pack back to back with no realignment; the
//     first bitfield of a run still aligns to its own storage type.
//   - Field order is input order.
//   - Total size is the final offset rounded up to whole bytes and then to
//     the largest field alignment.
//
// Offsets are in bits.
//
// # Usage
//
//	info, err := layout.Compute(specs)
//	// info.Size, info.Align, info.Offsets available
//
// This package is internal to record.
package layout
