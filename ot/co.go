//
// Copyright (c) 2024 gatec authors
//
// All rights reserved.
//

package ot

import (
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"
)

// The Chou-Orlandi "simplest OT" protocol: the sender publishes A = aG,
// the receiver answers B = bG (choice 0) or A + bG (choice 1), and the
// two encryption keys k0 = H(aB), k1 = H(a(B - A)) collapse so that the
// receiver can derive exactly the key of its chosen message as H(bA).

// COSender is the sending endpoint of a Chou-Orlandi transfer.
type COSender struct {
	curve elliptic.Curve
}

// NewCOSender creates a sender over NIST P-256.
func NewCOSender() *COSender {
	return &COSender{
		curve: elliptic.P256(),
	}
}

// Curve returns the sender's curve, for constructing the matching
// receiver.
func (s *COSender) Curve() elliptic.Curve {
	return s.curve
}

// COSenderXfer holds one transfer's sender state.
type COSenderXfer struct {
	curve  elliptic.Curve
	a      []byte
	ax, ay *big.Int
	e0, e1 []byte
}

// NewTransfer starts a transfer of the two messages m0, m1.
func (s *COSender) NewTransfer(m0, m1 []byte) (*COSenderXfer, error) {
	if len(m0) != len(m1) {
		return nil, errors.New("ot: message length mismatch")
	}
	a, ax, ay, err := elliptic.GenerateKey(s.curve, rand.Reader)
	if err != nil {
		return nil, err
	}
	return &COSenderXfer{
		curve: s.curve,
		a:     a,
		ax:    ax,
		ay:    ay,
		e0:    append([]byte(nil), m0...),
		e1:    append([]byte(nil), m1...),
	}, nil
}

// A returns the sender's public point A = aG.
func (x *COSenderXfer) A() []byte {
	return elliptic.Marshal(x.curve, x.ax, x.ay)
}

// ReceiveB consumes the receiver's point B and encrypts both messages:
// e0 = m0 xor H(aB), e1 = m1 xor H(a(B - A)).
func (x *COSenderXfer) ReceiveB(data []byte) error {
	bx, by := elliptic.Unmarshal(x.curve, data)
	if bx == nil {
		return errors.New("ot: invalid point B")
	}

	abx, aby := x.curve.ScalarMult(bx, by, x.a)
	xorKey(x.curve, abx, aby, x.e0)

	// B - A: add the negation of A, then scale by a.
	nay := new(big.Int).Sub(x.curve.Params().P, x.ay)
	dx, dy := x.curve.Add(bx, by, x.ax, nay)
	dx, dy = x.curve.ScalarMult(dx, dy, x.a)
	xorKey(x.curve, dx, dy, x.e1)

	return nil
}

// E returns the two encrypted messages.
func (x *COSenderXfer) E() [][]byte {
	return [][]byte{x.e0, x.e1}
}

// COReceiver is the receiving endpoint of a Chou-Orlandi transfer.
type COReceiver struct {
	curve elliptic.Curve
}

// NewCOReceiver creates a receiver over the sender's curve.
func NewCOReceiver(curve elliptic.Curve) *COReceiver {
	return &COReceiver{
		curve: curve,
	}
}

// COReceiverXfer holds one transfer's receiver state.
type COReceiverXfer struct {
	curve  elliptic.Curve
	bit    uint
	b      []byte
	ax, ay *big.Int
	bx, by *big.Int
}

// NewTransfer starts a transfer with the given choice bit.
func (r *COReceiver) NewTransfer(bit uint) (*COReceiverXfer, error) {
	b, bx, by, err := elliptic.GenerateKey(r.curve, rand.Reader)
	if err != nil {
		return nil, err
	}
	return &COReceiverXfer{
		curve: r.curve,
		bit:   bit & 1,
		b:     b,
		bx:    bx,
		by:    by,
	}, nil
}

// ReceiveA consumes the sender's point A and fixes the receiver's reply:
// B = bG for choice 0, B = A + bG for choice 1.
func (x *COReceiverXfer) ReceiveA(data []byte) error {
	ax, ay := elliptic.Unmarshal(x.curve, data)
	if ax == nil {
		return errors.New("ot: invalid point A")
	}
	x.ax = ax
	x.ay = ay
	if x.bit != 0 {
		x.bx, x.by = x.curve.Add(x.ax, x.ay, x.bx, x.by)
	}
	return nil
}

// B returns the receiver's point.
func (x *COReceiverXfer) B() []byte {
	return elliptic.Marshal(x.curve, x.bx, x.by)
}

// ReceiveE decrypts the chosen message with H(bA).
func (x *COReceiverXfer) ReceiveE(e [][]byte) []byte {
	result := append([]byte(nil), e[x.bit]...)
	kx, ky := x.curve.ScalarMult(x.ax, x.ay, x.b)
	xorKey(x.curve, kx, ky, result)
	return result
}

// xorKey xors data in place with a key stream derived from the point.
func xorKey(curve elliptic.Curve, px, py *big.Int, data []byte) {
	point := elliptic.Marshal(curve, px, py)
	var counter [1]byte
	for off := 0; off < len(data); off += sha256.Size {
		d := sha256.New()
		d.Write(counter[:])
		d.Write(point)
		digest := d.Sum(nil)
		for i := 0; i < len(digest) && off+i < len(data); i++ {
			data[off+i] ^= digest[i]
		}
		counter[0]++
	}
}

// CO runs batched Chou-Orlandi transfers over an IO channel,
// implementing the OT interface.
type CO struct {
	io       IO
	sender   *COSender
	receiver *COReceiver
}

// NewCO creates a new Chou-Orlandi OT protocol instance.
func NewCO() *CO {
	return &CO{}
}

// InitSender implements OT.
func (co *CO) InitSender(io IO) error {
	co.io = io
	co.sender = NewCOSender()
	return io.SendData([]byte(co.sender.Curve().Params().Name))
}

// InitReceiver implements OT.
func (co *CO) InitReceiver(io IO) error {
	co.io = io
	name, err := io.ReceiveData()
	if err != nil {
		return err
	}
	curve := elliptic.P256()
	if string(name) != curve.Params().Name {
		return fmt.Errorf("ot: unsupported curve %q", name)
	}
	co.receiver = NewCOReceiver(curve)
	return nil
}

// Send implements OT: one transfer per wire, L0 for choice 0, L1 for
// choice 1.
func (co *CO) Send(wires []Wire) error {
	if co.sender == nil {
		return errors.New("ot: sender not initialized")
	}
	var b0, b1 LabelData
	for _, w := range wires {
		xfer, err := co.sender.NewTransfer(w.L0.Bytes(&b0), w.L1.Bytes(&b1))
		if err != nil {
			return err
		}
		if err := co.io.SendData(xfer.A()); err != nil {
			return err
		}
		b, err := co.io.ReceiveData()
		if err != nil {
			return err
		}
		if err := xfer.ReceiveB(b); err != nil {
			return err
		}
		for _, e := range xfer.E() {
			if err := co.io.SendData(e); err != nil {
				return err
			}
		}
	}
	return nil
}

// Receive implements OT: flags are the receiver's choice bits, result
// receives the chosen labels.
func (co *CO) Receive(flags []bool, result []Label) error {
	if co.receiver == nil {
		return errors.New("ot: receiver not initialized")
	}
	if len(flags) != len(result) {
		return errors.New("ot: flags/result length mismatch")
	}
	for i, flag := range flags {
		var bit uint
		if flag {
			bit = 1
		}
		xfer, err := co.receiver.NewTransfer(bit)
		if err != nil {
			return err
		}
		a, err := co.io.ReceiveData()
		if err != nil {
			return err
		}
		if err := xfer.ReceiveA(a); err != nil {
			return err
		}
		if err := co.io.SendData(xfer.B()); err != nil {
			return err
		}
		e0, err := co.io.ReceiveData()
		if err != nil {
			return err
		}
		e1, err := co.io.ReceiveData()
		if err != nil {
			return err
		}
		if err := result[i].SetBytes(xfer.ReceiveE([][]byte{e0, e1})); err != nil {
			return err
		}
	}
	return nil
}
