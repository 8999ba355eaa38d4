//
// Copyright (c) 2024 gatec authors
//
// All rights reserved.
//

package ast

// Builtin describes a predeclared front-end function: the `size` width
// query, the `native` sub-circuit splice, and the context.xxx constant
// arithmetic escape hatch.
type Builtin struct {
	Name string
	Type BuiltinType

	// Args is the required argument count, or -1 for variadic
	// (`native` takes one argument per embedded-circuit input).
	Args int
}

// BuiltinType identifies the builtin's kind.
type BuiltinType int

// Builtin kinds.
const (
	BuiltinFunc BuiltinType = iota
)

// Predeclared identifiers.
var builtins = []Builtin{
	{
		Name: "native",
		Type: BuiltinFunc,
		Args: -1,
	},
	{
		Name: "size",
		Type: BuiltinFunc,
		Args: 1,
	},
	{
		Name: "add",
		Type: BuiltinFunc,
		Args: 2,
	},
	{
		Name: "sub",
		Type: BuiltinFunc,
		Args: 2,
	},
	{
		Name: "mul",
		Type: BuiltinFunc,
		Args: 2,
	},
	{
		Name: "div",
		Type: BuiltinFunc,
		Args: 2,
	},
	{
		Name: "mod",
		Type: BuiltinFunc,
		Args: 2,
	},
}

// LookupBuiltin resolves a builtin by name.
func LookupBuiltin(name string) (Builtin, bool) {
	for _, b := range builtins {
		if b.Name == name {
			return b, true
		}
	}
	return Builtin{}, false
}
