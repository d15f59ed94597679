// Package structlayout declares fixed-layout native memory records and
// computes their physical layout for a target ABI.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	structlayout/        Root package with core Memory and Allocator interfaces
//	├── record/          Declarations, pointer binding, forward references, offsets
//	├── memory/          wazero-backed linear memory for record instances
//	├── format/          Enum, flag-set and record formatting
//	├── witabi/          WIT projection and Canonical ABI cross-check
//	├── schema/          TOML schema files
//	├── errors/          Structured error types for debugging
//	└── cmd/structlayout CLI and interactive layout browser
//
// # Quick Start
//
// Declare a linked list node and walk it:
//
//	b := record.NewBuilder()
//	node, err := b.Declare("Node", nil,
//	    record.Field("value", record.Int32),
//	    record.Ptr("next", record.Self),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	mem, err := memory.NewLinear(ctx, 1)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer mem.Close(ctx)
//
//	a1, _ := mem.Alloc(node.Size(), node.Align())
//	a2, _ := mem.Alloc(node.Size(), node.Align())
//	n1, n2 := node.At(mem, a1), node.At(mem, a2)
//	_ = n1.SetPointer("next", n2)
//
//	off, _ := record.Offsetof(node, "next") // 64 on a 64-bit target
//
// # Forward References
//
// Records may point at records declared later:
//
//	dsa := b.ForwardDeclare("Dsa")
//	asd, _ := b.Declare("Asd", nil,
//	    record.Ptr("asd", record.Self),
//	    record.Ptr("dsa", dsa),
//	)
//	_, _ = b.DeclareFor(dsa, "Dsa", nil,
//	    record.Ptr("next", record.Self),
//	    record.Ptr("asd", asd),
//	)
//	if err := b.Finish(); err != nil {
//	    log.Fatal(err) // dangling forward reference
//	}
//
// # Thread Safety
//
// Declaration, binding and resolution run during single-threaded
// initialization and are not synchronized. Instance accessors perform raw
// reads and writes; concurrent access to one instance must be synchronized by
// the caller.
package structlayout
