//
// Copyright (c) 2024 gatec authors
//
// All rights reserved.
//

package ot

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Label is a 128-bit wire label. The most significant bit is the S
// (point-and-permute select) bit.
type Label struct {
	D0 uint64
	D1 uint64
}

// LabelData is a label's serialized form.
type LabelData [16]byte

// Wire holds a garbled wire's two labels: L0 carries the semantic false
// value, L1 the semantic true value.
type Wire struct {
	L0 Label
	L1 Label
}

func (w Wire) String() string {
	return fmt.Sprintf("%s/%s", w.L0, w.L1)
}

func (l Label) String() string {
	return fmt.Sprintf("%016x%016x", l.D0, l.D1)
}

// NewLabel creates a random label.
func NewLabel(rand io.Reader) (Label, error) {
	var buf LabelData
	if _, err := io.ReadFull(rand, buf[:]); err != nil {
		return Label{}, err
	}
	var l Label
	l.SetData(&buf)
	return l, nil
}

// NewTweak returns a label encoding the gate-unique tweak value.
func NewTweak(t uint32) Label {
	return Label{
		D1: uint64(t),
	}
}

// S returns the label's select bit.
func (l Label) S() bool {
	return l.D0&0x8000000000000000 != 0
}

// SetS sets the label's select bit.
func (l *Label) SetS(set bool) {
	if set {
		l.D0 |= 0x8000000000000000
	} else {
		l.D0 &^= 0x8000000000000000
	}
}

// Mul2 multiplies the label by 2 in GF(2^128) (shift left by one).
func (l *Label) Mul2() {
	l.D0 <<= 1
	l.D0 |= l.D1 >> 63
	l.D1 <<= 1
}

// Mul4 multiplies the label by 4 in GF(2^128) (shift left by two).
func (l *Label) Mul4() {
	l.D0 <<= 2
	l.D0 |= l.D1 >> 62
	l.D1 <<= 2
}

// Xor xors the label with o.
func (l *Label) Xor(o Label) {
	l.D0 ^= o.D0
	l.D1 ^= o.D1
}

// Bytes serializes the label into buf and returns the byte slice.
func (l Label) Bytes(buf *LabelData) []byte {
	l.GetData(buf)
	return buf[:]
}

// GetData serializes the label into data.
func (l Label) GetData(data *LabelData) {
	binary.BigEndian.PutUint64(data[0:8], l.D0)
	binary.BigEndian.PutUint64(data[8:16], l.D1)
}

// SetData deserializes the label from data.
func (l *Label) SetData(data *LabelData) {
	l.D0 = binary.BigEndian.Uint64(data[0:8])
	l.D1 = binary.BigEndian.Uint64(data[8:16])
}

// SetBytes deserializes the label from a 16-byte slice.
func (l *Label) SetBytes(data []byte) error {
	if len(data) != len(LabelData{}) {
		return fmt.Errorf("ot: invalid label length %d", len(data))
	}
	var buf LabelData
	copy(buf[:], data)
	l.SetData(&buf)
	return nil
}
