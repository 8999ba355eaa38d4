//
// Copyright (c) 2024 gatec authors
//
// All rights reserved.
//

// Package ot implements 1-out-of-2 oblivious transfer: the mechanism by
// which the evaluator learns the garbled-circuit labels of its own input
// bits without the contributor learning the bits or the evaluator
// learning the unused labels. The transfer is the Chou-Orlandi
// Diffie-Hellman construction over NIST P-256.
package ot

import (
	"encoding/binary"
	"errors"
	"io"
)

// IO is the message channel between the two OT endpoints. Messages are
// framed: a ReceiveData returns exactly what one SendData sent.
type IO interface {
	SendByte(val byte) error
	SendData(val []byte) error
	ReceiveByte() (byte, error)
	ReceiveData() ([]byte, error)
}

// OT is an oblivious-transfer protocol instance. The sender holds both
// labels of every wire; the receiver holds one choice bit per wire and
// learns exactly the chosen label.
type OT interface {
	InitSender(io IO) error
	InitReceiver(io IO) error
	Send(wires []Wire) error
	Receive(flags []bool, result []Label) error
}

// Pipe is an in-memory IO endpoint, used by tests and by the in-process
// garbled-circuit executor to connect the two parties.
type Pipe struct {
	out chan<- []byte
	in  <-chan []byte
}

// NewPipe creates a connected pair of in-memory IO endpoints.
func NewPipe() (*Pipe, *Pipe) {
	ab := make(chan []byte, 64)
	ba := make(chan []byte, 64)
	return &Pipe{out: ab, in: ba}, &Pipe{out: ba, in: ab}
}

// SendByte implements IO.
func (p *Pipe) SendByte(val byte) error {
	return p.SendData([]byte{val})
}

// SendData implements IO.
func (p *Pipe) SendData(val []byte) error {
	p.out <- append([]byte(nil), val...)
	return nil
}

// ReceiveByte implements IO.
func (p *Pipe) ReceiveByte() (byte, error) {
	data, err := p.ReceiveData()
	if err != nil {
		return 0, err
	}
	if len(data) != 1 {
		return 0, errors.New("ot: expected single byte frame")
	}
	return data[0], nil
}

// ReceiveData implements IO.
func (p *Pipe) ReceiveData() ([]byte, error) {
	data, ok := <-p.in
	if !ok {
		return nil, io.EOF
	}
	return data, nil
}

// Close closes the sending direction of the pipe.
func (p *Pipe) Close() {
	close(p.out)
}

// SendUint32 writes a framed big-endian uint32.
func SendUint32(io IO, val int) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(val))
	return io.SendData(buf[:])
}

// ReceiveUint32 reads a framed big-endian uint32.
func ReceiveUint32(io IO) (int, error) {
	data, err := io.ReceiveData()
	if err != nil {
		return 0, err
	}
	if len(data) != 4 {
		return 0, errors.New("ot: truncated uint32 frame")
	}
	return int(binary.BigEndian.Uint32(data)), nil
}
