//
// Copyright (c) 2024 gatec authors
//
// All rights reserved.
//

package circuits

// NewMux is the sole branch-selection primitive: for every bit i,
// out[i] = f[i] XOR (c AND (t[i] XOR f[i])). Both t and f must already be
// fully synthesized before NewMux is called — if/else lowering evaluates
// both branches unconditionally so that gate count never depends on the
// runtime value of c.
func NewMux(b *Builder, c Wire, t, f []Wire) []Wire {
	t, f = b.ZeroPad(t, f)
	out := make([]Wire, len(t))
	for i := range t {
		out[i] = muxBit(b, c, t[i], f[i])
	}
	return out
}
