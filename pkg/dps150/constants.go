// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Voltbench

// Package dps150 implements the byte-stream protocol of the FNIRSI DPS-150
// bench power supply.
//
// The package frames outbound command packets, reassembles and validates
// inbound telemetry packets from a possibly fragmented byte stream, and maps
// decoded fields onto a typed device snapshot. Transports (serial port,
// USB-CDC, or anything else satisfying the Transport interface) are supplied
// by the caller.
package dps150

import "time"

// Frame headers
const (
	HeaderDevice = 0xF0 // device → host
	HeaderHost   = 0xF1 // host → device
)

// Command bytes
const (
	CmdGet    = 0xA1 // request a field / marks inbound telemetry
	CmdBaud   = 0xB0 // select baud rate by table index
	CmdSet    = 0xB1 // write a field
	CmdXXX192 = 0xC0 // observed on the wire, purpose unknown
	CmdStream = 0xC1 // telemetry stream on/off toggle
)

// Frame geometry. A frame is header, command, field id, length, payload,
// checksum, so the smallest possible frame carries an empty payload.
const (
	frameOverhead  = 5
	MinFrameSize   = frameOverhead
	MaxPayloadSize = 255 // length is a single byte
)

// Writable field identifiers. These numeric values are part of the wire
// contract and must not be renumbered.
const (
	FieldVoltageSet = 193
	FieldCurrentSet = 194

	FieldGroup1VoltageSet = 197
	FieldGroup1CurrentSet = 198
	FieldGroup2VoltageSet = 199
	FieldGroup2CurrentSet = 200
	FieldGroup3VoltageSet = 201
	FieldGroup3CurrentSet = 202
	FieldGroup4VoltageSet = 203
	FieldGroup4CurrentSet = 204
	FieldGroup5VoltageSet = 205
	FieldGroup5CurrentSet = 206
	FieldGroup6VoltageSet = 207
	FieldGroup6CurrentSet = 208

	FieldOVP = 209
	FieldOCP = 210
	FieldOPP = 211
	FieldOTP = 212
	FieldLVP = 213

	FieldBrightness     = 214
	FieldVolume         = 215
	FieldMeteringEnable = 216
	FieldOutputEnable   = 219
)

// Telemetry-only field identifiers.
const (
	FieldInputVoltage    = 192
	FieldOutputStatus    = 195 // output voltage, current, power (three floats)
	FieldTemperature     = 196
	FieldOutputCapacity  = 217
	FieldOutputEnergy    = 218
	FieldOutputClosed    = 219 // same slot as FieldOutputEnable, inbound
	FieldProtectionState = 220
	FieldMode            = 221

	FieldModelName         = 222
	FieldHardwareVersion   = 223
	FieldFirmwareVersion   = 224
	FieldUpperLimitVoltage = 226
	FieldUpperLimitCurrent = 227

	FieldAll = 255 // bulk snapshot, fixed 119-byte payload
)

// bulkPayloadSize is the payload length of a FieldAll telemetry frame.
const bulkPayloadSize = 119

// DefaultSettleDelay is the pause required after each write before the next
// command may be issued. The device receive buffer needs the inter-command
// spacing.
const DefaultSettleDelay = 50 * time.Millisecond

// DefaultBaudRate is the rate the device ships with.
const DefaultBaudRate = 115200

// baudIndexes maps supported baud rates to the index expected by CmdBaud.
var baudIndexes = map[int]byte{
	9600:   1,
	19200:  2,
	38400:  3,
	57600:  4,
	115200: 5,
}

// BaudIndex returns the CmdBaud table index for a baud rate.
func BaudIndex(rate int) (byte, bool) {
	idx, ok := baudIndexes[rate]
	return idx, ok
}
