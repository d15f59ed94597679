// Package record declares fixed-layout memory records and computes their
// physical layout.
//
// # Declaring Records
//
// A Builder compiles ordered field declarations into a Record:
//
//	b := record.NewBuilder(record.WithABI(record.Wasm32()))
//	hdr, _ := b.Declare("Header", nil,
//	    record.Field("magic", record.Char),
//	    record.Field("page_size", record.Uint16),
//	)
//	prop, _ := b.Declare("Props", []*record.Record{hdr},
//	    record.Bits("packed", record.Uint16, 1),
//	    record.Bits("ctor", record.Uint16, 1),
//	)
//
// Base record fields come first, in their own order. Full-width fields align
// to their natural alignment; consecutive bitfields pack without gaps.
//
// # Pointer Fields
//
// Ptr declares a pointer. Its target is Self, a record declared earlier, or
// a Placeholder from ForwardDeclare. The field is stored in an opaque slot
// named with a leading underscore ("_next") whose width comes from the ABI,
// so the target's size is never needed. A typed PointerField accessor is
// attached under the original name:
//
//	dsa := b.ForwardDeclare("Dsa")
//	asd, _ := b.Declare("Asd", nil,
//	    record.Ptr("asd", record.Self),
//	    record.Ptr("dsa", dsa),
//	)
//	_, _ = b.DeclareFor(dsa, "Dsa", nil, record.Ptr("next", record.Self))
//
// Until dsa is resolved, reading or writing asd.dsa fails with
// unresolved_target. Resolving a placeholder twice fails with
// already_resolved. Builder.Finish reports placeholders never resolved.
//
// # Offsets
//
// Offsetof returns the bit offset of a field by name from a *Layout,
// *Record or *Instance.
//
// # Instances
//
// Record.At views caller-owned memory as an instance. Accessors read and
// write memory directly; this package never allocates instances.
package record
