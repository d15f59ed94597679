// Package format renders record values for humans.
//
// Nothing here changes a layout: the formatters only read instances
// through the record accessors.
//
//	e, _ := format.NewEnum("Mode", format.Auto("Default"), format.Auto("Always"), format.Value("Never", 10))
//	e.String(1)            // "Always"
//	format.Flags(inst)     // "packed | overloaded_operators"
//	format.Dump(inst)      // "Node{value: 1, next: 0x10}"
package format
