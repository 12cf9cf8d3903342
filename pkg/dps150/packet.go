// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Voltbench

package dps150

import "time"

// Packet represents one validated wire frame.
type Packet struct {
	header    byte
	command   byte
	fieldID   byte
	payload   []byte
	checksum  byte
	timestamp time.Time
}

// NewPacket creates a packet with the checksum computed from its fields.
func NewPacket(header, command, fieldID byte, payload []byte) *Packet {
	return &Packet{
		header:    header,
		command:   command,
		fieldID:   fieldID,
		payload:   payload,
		checksum:  Checksum(fieldID, payload),
		timestamp: time.Now(),
	}
}

// Header returns the frame header byte.
func (p *Packet) Header() byte {
	return p.header
}

// Command returns the command byte.
func (p *Packet) Command() byte {
	return p.command
}

// FieldID returns the field identifier the packet carries.
func (p *Packet) FieldID() byte {
	return p.fieldID
}

// Payload returns the raw payload bytes.
func (p *Packet) Payload() []byte {
	return p.payload
}

// Checksum returns the frame checksum byte.
func (p *Packet) Checksum() byte {
	return p.checksum
}

// Timestamp returns the packet's decode timestamp.
func (p *Packet) Timestamp() time.Time {
	return p.timestamp
}
