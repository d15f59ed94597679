// Package abi provides the alignment and overflow arithmetic shared by the
// layout compiler and the offset resolver.
//
// Offsets are tracked in bits so bitfields and byte-aligned fields use the
// same running counter. Alignments are given in bytes and converted with
// BitAlign.
//
// This package is internal to record.
package abi
