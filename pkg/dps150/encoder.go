package dps150

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeCommand builds a complete wire frame: header, command, field id,
// payload length, payload, checksum. The payload may be nil for commands
// that carry no data.
func EncodeCommand(header, command, fieldID byte, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrPayloadTooLarge, len(payload), MaxPayloadSize)
	}

	frame := make([]byte, 0, len(payload)+frameOverhead)
	frame = append(frame, header, command, fieldID, byte(len(payload)))
	frame = append(frame, payload...)
	frame = append(frame, Checksum(fieldID, payload))
	return frame, nil
}

// EncodeFloat builds a frame whose payload is the 4-byte little-endian
// IEEE-754 encoding of value.
func EncodeFloat(header, command, fieldID byte, value float32) ([]byte, error) {
	var payload [4]byte
	binary.LittleEndian.PutUint32(payload[:], math.Float32bits(value))
	return EncodeCommand(header, command, fieldID, payload[:])
}

// EncodeByte builds a frame with a single-byte payload.
func EncodeByte(header, command, fieldID, value byte) ([]byte, error) {
	return EncodeCommand(header, command, fieldID, []byte{value})
}
