// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Voltbench

package dps150

import "time"

// Stats holds decoder counters since the last Reset.
type Stats struct {
	Packets          uint64 // frames decoded and validated
	ChecksumFailures uint64 // frames dropped on checksum mismatch
	BytesDiscarded   uint64 // noise bytes skipped during resynchronization
}

// Decoder reassembles DPS-150 telemetry frames from a fragmented byte
// stream. The transport may deliver partial frames, several frames per read,
// or noise between frames; Feed handles all three.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	buf   []byte
	stats Stats
}

// NewDecoder creates a protocol decoder with an empty accumulation buffer.
func NewDecoder() *Decoder {
	return &Decoder{buf: make([]byte, 0, 512)}
}

// Reset discards any buffered bytes and clears the counters.
func (d *Decoder) Reset() {
	d.buf = d.buf[:0]
	d.stats = Stats{}
}

// Stats returns a copy of the decoder counters.
func (d *Decoder) Stats() Stats {
	return d.stats
}

// Pending returns the number of buffered bytes awaiting frame completion.
func (d *Decoder) Pending() int {
	return len(d.buf)
}

// Feed appends data to the accumulation buffer and extracts every complete
// frame from it. Frames failing checksum validation are dropped and scanning
// continues; a trailing partial frame is retained for the next call.
//
// The scanner resynchronizes byte-by-byte: any byte that cannot start a
// frame (no 0xF0 0xA1 marker pair) is skipped. There is no other resync
// token in the protocol.
func (d *Decoder) Feed(data []byte) []*Packet {
	d.buf = append(d.buf, data...)

	var packets []*Packet
	i := 0
	for i+MinFrameSize <= len(d.buf) {
		if d.buf[i] != HeaderDevice || d.buf[i+1] != CmdGet {
			i++
			continue
		}

		fieldID := d.buf[i+2]
		length := int(d.buf[i+3])
		end := i + 4 + length + 1 // payload end plus checksum byte
		if end > len(d.buf) {
			break // incomplete frame, keep from the marker onward
		}

		payload := d.buf[i+4 : i+4+length]
		sum := d.buf[i+4+length]

		// Consume through the checksum byte and restart the scan.
		d.stats.BytesDiscarded += uint64(i)
		d.buf = d.buf[end:]
		i = 0

		if sum != Checksum(fieldID, payload) {
			d.stats.ChecksumFailures++
			continue
		}

		d.stats.Packets++
		packets = append(packets, &Packet{
			header:    HeaderDevice,
			command:   CmdGet,
			fieldID:   fieldID,
			payload:   append([]byte(nil), payload...),
			checksum:  sum,
			timestamp: time.Now(),
		})
	}

	// Bytes before i were checked and can never start a frame.
	if i > 0 {
		d.stats.BytesDiscarded += uint64(i)
		d.buf = append(d.buf[:0], d.buf[i:]...)
	}

	return packets
}
