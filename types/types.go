//
// Copyright (c) 2024 gatec authors
//
// All rights reserved.
//

// Package types describes the width and signedness of compiled values.
//
// Go has no compile-time generic constant for bit width, so N is carried
// as a runtime field everywhere a value, wire range, or circuit IO flows
// through the compiler, instead of as a type parameter.
package types

import "fmt"

// Kind identifies the high level shape of a type.
type Kind int

// Supported kinds.
const (
	Undefined Kind = iota
	Bool
	Uint
	Int
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Uint:
		return "uint"
	case Int:
		return "int"
	default:
		return "undefined"
	}
}

// Info describes the type of a compiled value: its kind and bit width.
type Info struct {
	Kind Kind
	Bits int
}

// String implements fmt.Stringer.
func (i Info) String() string {
	if i.Kind == Bool {
		return "bool"
	}
	return fmt.Sprintf("%s%d", i.Kind, i.Bits)
}

// Signed reports whether the type's values are interpreted as two's
// complement signed integers.
func (i Info) Signed() bool {
	return i.Kind == Int
}

// Valid reports whether i names a width with a native-integer conversion
// path. Bit vectors of any width can be built and synthesized in gates;
// this check only gates the conversions to and from uintN/intN, which are
// defined for widths {1,2,4,8,16,32,64,128}.
func (i Info) Valid() bool {
	switch i.Bits {
	case 1, 2, 4, 8, 16, 32, 64, 128:
		return true
	default:
		return false
	}
}

// UintN returns the unsigned type of the given width.
func UintN(bits int) Info {
	return Info{Kind: Uint, Bits: bits}
}

// IntN returns the signed type of the given width.
func IntN(bits int) Info {
	return Info{Kind: Int, Bits: bits}
}

// BoolType is the 1-bit predicate/mux-condition type.
var BoolType = Info{Kind: Bool, Bits: 1}
