//
// Copyright (c) 2024 gatec authors
//
// All rights reserved.
//

// Package utils holds the small cross-cutting pieces shared by the
// compiler/ast and compiler/builder packages: compile-time parameters
// and source locations.
package utils

import (
	"io"
)

// Params specifies builder parameters.
type Params struct {
	// Verbose turns on the gate-count trace printed while lowering.
	Verbose bool

	// MaxWireBits bounds the width any single Value may declare.
	MaxWireBits int

	CircOut    io.WriteCloser
	CircDotOut io.WriteCloser
	CircFormat string
}

// NewParams returns new builder params with default limits.
func NewParams() *Params {
	return &Params{
		MaxWireBits: 0x20000,
	}
}

// Close closes all open resources.
func (p *Params) Close() {
	if p.CircOut != nil {
		p.CircOut.Close()
		p.CircOut = nil
	}
	if p.CircDotOut != nil {
		p.CircDotOut.Close()
		p.CircDotOut = nil
	}
}
