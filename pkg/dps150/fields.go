// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Voltbench

package dps150

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Key names a measurement or setting in the device snapshot.
type Key string

// Snapshot keys. The set is closed: every key a telemetry frame can produce
// is listed here.
const (
	KeyInputVoltage  Key = "inputVoltage"
	KeySetVoltage    Key = "setVoltage"
	KeySetCurrent    Key = "setCurrent"
	KeyOutputVoltage Key = "outputVoltage"
	KeyOutputCurrent Key = "outputCurrent"
	KeyOutputPower   Key = "outputPower"
	KeyTemperature   Key = "temperature"

	KeyGroup1SetVoltage Key = "group1setVoltage"
	KeyGroup1SetCurrent Key = "group1setCurrent"
	KeyGroup2SetVoltage Key = "group2setVoltage"
	KeyGroup2SetCurrent Key = "group2setCurrent"
	KeyGroup3SetVoltage Key = "group3setVoltage"
	KeyGroup3SetCurrent Key = "group3setCurrent"
	KeyGroup4SetVoltage Key = "group4setVoltage"
	KeyGroup4SetCurrent Key = "group4setCurrent"
	KeyGroup5SetVoltage Key = "group5setVoltage"
	KeyGroup5SetCurrent Key = "group5setCurrent"
	KeyGroup6SetVoltage Key = "group6setVoltage"
	KeyGroup6SetCurrent Key = "group6setCurrent"

	KeyOverVoltageProtection     Key = "overVoltageProtection"
	KeyOverCurrentProtection     Key = "overCurrentProtection"
	KeyOverPowerProtection       Key = "overPowerProtection"
	KeyOverTemperatureProtection Key = "overTemperatureProtection"
	KeyLowVoltageProtection      Key = "lowVoltageProtection"

	KeyBrightness     Key = "brightness"
	KeyVolume         Key = "volume"
	KeyMeteringClosed Key = "meteringClosed"

	KeyOutputCapacity Key = "outputCapacity"
	KeyOutputEnergy   Key = "outputEnergy"

	KeyOutputClosed    Key = "outputClosed"
	KeyProtectionState Key = "protectionState"
	KeyMode            Key = "mode"

	KeyModelName       Key = "modelName"
	KeyHardwareVersion Key = "hardwareVersion"
	KeyFirmwareVersion Key = "firmwareVersion"

	KeyUpperLimitVoltage Key = "upperLimitVoltage"
	KeyUpperLimitCurrent Key = "upperLimitCurrent"
)

// Update is the batch of snapshot values decoded from one telemetry frame.
// Values are float64, uint8, bool, string, Mode, or ProtectionState
// depending on the key.
type Update map[Key]interface{}

// DecodeField maps a field identifier and its raw payload to snapshot
// updates. It is a pure function of its arguments.
//
// Decoding is best effort: for the bulk field a locally undecodable
// sub-field (for example an out-of-range protection index) is skipped while
// the remaining sub-fields still decode. In that case both a non-empty
// Update and a *DecodeError are returned.
func DecodeField(fieldID byte, payload []byte) (Update, error) {
	switch fieldID {
	case FieldInputVoltage:
		return decodeSingleFloat(fieldID, payload, KeyInputVoltage)

	case FieldOutputStatus:
		if len(payload) < 12 {
			return nil, decodeErrorf(fieldID, "output status payload too short: %d bytes", len(payload))
		}
		return Update{
			KeyOutputVoltage: floatAt(payload, 0),
			KeyOutputCurrent: floatAt(payload, 4),
			KeyOutputPower:   floatAt(payload, 8),
		}, nil

	case FieldTemperature:
		return decodeSingleFloat(fieldID, payload, KeyTemperature)
	case FieldOutputCapacity:
		return decodeSingleFloat(fieldID, payload, KeyOutputCapacity)
	case FieldOutputEnergy:
		return decodeSingleFloat(fieldID, payload, KeyOutputEnergy)
	case FieldUpperLimitVoltage:
		return decodeSingleFloat(fieldID, payload, KeyUpperLimitVoltage)
	case FieldUpperLimitCurrent:
		return decodeSingleFloat(fieldID, payload, KeyUpperLimitCurrent)

	case FieldOutputClosed:
		if len(payload) < 1 {
			return nil, decodeErrorf(fieldID, "empty payload")
		}
		return Update{KeyOutputClosed: payload[0] == 1}, nil

	case FieldProtectionState:
		if len(payload) < 1 {
			return nil, decodeErrorf(fieldID, "empty payload")
		}
		state, ok := ProtectionStateFromByte(payload[0])
		if !ok {
			return nil, decodeErrorf(fieldID, "protection state index %d out of range", payload[0])
		}
		return Update{KeyProtectionState: state}, nil

	case FieldMode:
		if len(payload) < 1 {
			return nil, decodeErrorf(fieldID, "empty payload")
		}
		return Update{KeyMode: modeFromByte(payload[0])}, nil

	case FieldModelName:
		return decodeString(fieldID, payload, KeyModelName)
	case FieldHardwareVersion:
		return decodeString(fieldID, payload, KeyHardwareVersion)
	case FieldFirmwareVersion:
		return decodeString(fieldID, payload, KeyFirmwareVersion)

	case FieldAll:
		return decodeBulk(payload)

	default:
		return nil, decodeErrorf(fieldID, "unknown field")
	}
}

// decodeBulk slices the fixed-layout 119-byte bulk payload into its ~30
// sub-fields. The offsets match the device firmware and must not change.
func decodeBulk(payload []byte) (Update, error) {
	if len(payload) < bulkPayloadSize {
		return nil, decodeErrorf(FieldAll, "bulk payload too short: %d bytes (want %d)", len(payload), bulkPayloadSize)
	}

	u := Update{
		KeyInputVoltage:  floatAt(payload, 0),
		KeySetVoltage:    floatAt(payload, 4),
		KeySetCurrent:    floatAt(payload, 8),
		KeyOutputVoltage: floatAt(payload, 12),
		KeyOutputCurrent: floatAt(payload, 16),
		KeyOutputPower:   floatAt(payload, 20),
		KeyTemperature:   floatAt(payload, 24),

		KeyGroup1SetVoltage: floatAt(payload, 28),
		KeyGroup1SetCurrent: floatAt(payload, 32),
		KeyGroup2SetVoltage: floatAt(payload, 36),
		KeyGroup2SetCurrent: floatAt(payload, 40),
		KeyGroup3SetVoltage: floatAt(payload, 44),
		KeyGroup3SetCurrent: floatAt(payload, 48),
		KeyGroup4SetVoltage: floatAt(payload, 52),
		KeyGroup4SetCurrent: floatAt(payload, 56),
		KeyGroup5SetVoltage: floatAt(payload, 60),
		KeyGroup5SetCurrent: floatAt(payload, 64),
		KeyGroup6SetVoltage: floatAt(payload, 68),
		KeyGroup6SetCurrent: floatAt(payload, 72),

		KeyOverVoltageProtection:     floatAt(payload, 76),
		KeyOverCurrentProtection:     floatAt(payload, 80),
		KeyOverPowerProtection:       floatAt(payload, 84),
		KeyOverTemperatureProtection: floatAt(payload, 88),
		KeyLowVoltageProtection:      floatAt(payload, 92),

		KeyBrightness:     payload[96],
		KeyVolume:         payload[97],
		KeyMeteringClosed: payload[98] == 0,

		KeyOutputCapacity: floatAt(payload, 99),
		KeyOutputEnergy:   floatAt(payload, 103),

		KeyOutputClosed: payload[107] == 1,
		KeyMode:         modeFromByte(payload[109]),

		KeyUpperLimitVoltage: floatAt(payload, 111),
		KeyUpperLimitCurrent: floatAt(payload, 115),
	}

	// Best effort: an out-of-range protection index skips only that key.
	var err error
	if state, ok := ProtectionStateFromByte(payload[108]); ok {
		u[KeyProtectionState] = state
	} else {
		err = decodeErrorf(FieldAll, "protection state index %d out of range", payload[108])
	}

	return u, err
}

func decodeSingleFloat(fieldID byte, payload []byte, key Key) (Update, error) {
	if len(payload) < 4 {
		return nil, decodeErrorf(fieldID, "float payload too short: %d bytes", len(payload))
	}
	return Update{key: floatAt(payload, 0)}, nil
}

// decodeString maps an ASCII payload to a string key. Non-ASCII payloads
// are rejected rather than guessed at.
func decodeString(fieldID byte, payload []byte, key Key) (Update, error) {
	for _, b := range payload {
		if b > 0x7F {
			return nil, decodeErrorf(fieldID, "non-ASCII byte 0x%02X in string payload", b)
		}
	}
	s := strings.TrimRight(string(payload), "\x00")
	return Update{key: s}, nil
}

// floatAt reads a 4-byte little-endian IEEE-754 float at the given offset.
func floatAt(payload []byte, offset int) float64 {
	bits := binary.LittleEndian.Uint32(payload[offset : offset+4])
	return float64(math.Float32frombits(bits))
}

// FormatValue renders an update value for display, with the unit implied by
// its key.
func FormatValue(key Key, value interface{}) string {
	switch v := value.(type) {
	case float64:
		return fmt.Sprintf("%.3f%s", v, unitFor(key))
	case uint8:
		return fmt.Sprintf("%d", v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case fmt.Stringer:
		return v.String()
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func unitFor(key Key) string {
	switch key {
	case KeyInputVoltage, KeySetVoltage, KeyOutputVoltage, KeyUpperLimitVoltage,
		KeyOverVoltageProtection, KeyLowVoltageProtection,
		KeyGroup1SetVoltage, KeyGroup2SetVoltage, KeyGroup3SetVoltage,
		KeyGroup4SetVoltage, KeyGroup5SetVoltage, KeyGroup6SetVoltage:
		return " V"
	case KeySetCurrent, KeyOutputCurrent, KeyUpperLimitCurrent,
		KeyOverCurrentProtection,
		KeyGroup1SetCurrent, KeyGroup2SetCurrent, KeyGroup3SetCurrent,
		KeyGroup4SetCurrent, KeyGroup5SetCurrent, KeyGroup6SetCurrent:
		return " A"
	case KeyOutputPower, KeyOverPowerProtection:
		return " W"
	case KeyTemperature, KeyOverTemperatureProtection:
		return " °C"
	case KeyOutputCapacity:
		return " Ah"
	case KeyOutputEnergy:
		return " Wh"
	default:
		return ""
	}
}
