// Package memory provides linear memories record instances can live in.
//
// # Memory Wrapper
//
// Wraps any wazero api.Memory so record accessors can read and write it:
//
//	mem := memory.Wrap(module.Memory())
//	// mem implements structlayout.Memory
//
// # Linear Memory
//
// NewLinear instantiates a module that only exports a memory and pairs it
// with a bump allocator:
//
//	lin, err := memory.NewLinear(ctx, 1)
//	defer lin.Close(ctx)
//	addr, err := lin.Alloc(node.Size(), node.Align())
//	inst := node.At(lin, addr)
//
// Address 0 is never handed out, so a zero pointer slot always means null.
// Linear memory only grows. Free only reclaims the most recent allocation.
//
// Neither type is safe for concurrent use.
package memory
