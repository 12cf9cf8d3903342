// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Voltbench

package dps150

import (
	"errors"
	"testing"
)

func TestDecodeField_SingleFloats(t *testing.T) {
	tests := []struct {
		name    string
		fieldID byte
		key     Key
		value   float32
	}{
		{"input voltage", FieldInputVoltage, KeyInputVoltage, 12.0},
		{"temperature", FieldTemperature, KeyTemperature, 28.5},
		{"output capacity", FieldOutputCapacity, KeyOutputCapacity, 0.123},
		{"output energy", FieldOutputEnergy, KeyOutputEnergy, 1.5},
		{"upper limit voltage", FieldUpperLimitVoltage, KeyUpperLimitVoltage, 30.2},
		{"upper limit current", FieldUpperLimitCurrent, KeyUpperLimitCurrent, 5.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := make([]byte, 4)
			putFloat(payload, 0, tt.value)

			update, err := DecodeField(tt.fieldID, payload)
			if err != nil {
				t.Fatalf("DecodeField failed: %v", err)
			}
			if len(update) != 1 {
				t.Fatalf("update has %d keys, want 1", len(update))
			}
			got, ok := update[tt.key].(float64)
			if !ok || !floatEquals(got, float64(tt.value)) {
				t.Errorf("%s = %v, want %v", tt.key, update[tt.key], tt.value)
			}
		})
	}
}

func TestDecodeField_OutputStatusTriple(t *testing.T) {
	payload := make([]byte, 12)
	putFloat(payload, 0, 5.004)
	putFloat(payload, 4, 1.002)
	putFloat(payload, 8, 5.014)

	update, err := DecodeField(FieldOutputStatus, payload)
	if err != nil {
		t.Fatalf("DecodeField failed: %v", err)
	}

	if v := update[KeyOutputVoltage].(float64); !floatEquals(v, 5.004) {
		t.Errorf("outputVoltage = %v", v)
	}
	if v := update[KeyOutputCurrent].(float64); !floatEquals(v, 1.002) {
		t.Errorf("outputCurrent = %v", v)
	}
	if v := update[KeyOutputPower].(float64); !floatEquals(v, 5.014) {
		t.Errorf("outputPower = %v", v)
	}
}

func TestDecodeField_ShortFloatPayload(t *testing.T) {
	var decodeErr *DecodeError
	_, err := DecodeField(FieldInputVoltage, []byte{0x00, 0x00})
	if !errors.As(err, &decodeErr) {
		t.Errorf("expected DecodeError, got %v", err)
	}
}

func TestDecodeField_OutputClosed(t *testing.T) {
	update, err := DecodeField(FieldOutputClosed, []byte{1})
	if err != nil {
		t.Fatalf("DecodeField failed: %v", err)
	}
	if v, ok := update[KeyOutputClosed].(bool); !ok || !v {
		t.Errorf("outputClosed = %v, want true", update[KeyOutputClosed])
	}
}

func TestDecodeField_Mode(t *testing.T) {
	update, err := DecodeField(FieldMode, []byte{0})
	if err != nil {
		t.Fatalf("DecodeField failed: %v", err)
	}
	if update[KeyMode] != ModeConstantCurrent {
		t.Errorf("mode = %v, want CC", update[KeyMode])
	}

	update, _ = DecodeField(FieldMode, []byte{1})
	if update[KeyMode] != ModeConstantVoltage {
		t.Errorf("mode = %v, want CV", update[KeyMode])
	}
}

func TestDecodeField_ProtectionStateBounds(t *testing.T) {
	// Index 0 is "no protection"
	update, err := DecodeField(FieldProtectionState, []byte{0})
	if err != nil {
		t.Fatalf("DecodeField failed: %v", err)
	}
	if update[KeyProtectionState] != ProtectionNone {
		t.Errorf("state = %v, want ProtectionNone", update[KeyProtectionState])
	}

	// Index 6 is the last table entry, "REP"
	update, err = DecodeField(FieldProtectionState, []byte{6})
	if err != nil {
		t.Fatalf("DecodeField failed: %v", err)
	}
	state := update[KeyProtectionState].(ProtectionState)
	if state != ProtectionReverse || state.String() != "REP" {
		t.Errorf("state = %v (%q), want ProtectionReverse (REP)", state, state.String())
	}

	// Index 7 and beyond is outside the firmware table
	for _, idx := range []byte{7, 8, 255} {
		var decodeErr *DecodeError
		if _, err := DecodeField(FieldProtectionState, []byte{idx}); !errors.As(err, &decodeErr) {
			t.Errorf("index %d: expected DecodeError, got %v", idx, err)
		}
	}
}

func TestDecodeField_Strings(t *testing.T) {
	update, err := DecodeField(FieldModelName, []byte("DPS-150\x00"))
	if err != nil {
		t.Fatalf("DecodeField failed: %v", err)
	}
	if update[KeyModelName] != "DPS-150" {
		t.Errorf("modelName = %q, want DPS-150", update[KeyModelName])
	}

	// Non-ASCII bytes are rejected, not guessed at
	var decodeErr *DecodeError
	if _, err := DecodeField(FieldFirmwareVersion, []byte{'V', 0xC3, 0xA9}); !errors.As(err, &decodeErr) {
		t.Errorf("expected DecodeError for non-ASCII payload, got %v", err)
	}
}

func TestDecodeField_UnknownField(t *testing.T) {
	var decodeErr *DecodeError
	if _, err := DecodeField(42, []byte{0}); !errors.As(err, &decodeErr) {
		t.Errorf("expected DecodeError, got %v", err)
	}
}

// buildBulkPayload constructs a 119-byte bulk payload with known values
func buildBulkPayload() []byte {
	payload := make([]byte, bulkPayloadSize)

	putFloat(payload, 0, 12.0)   // inputVoltage
	putFloat(payload, 4, 5.0)    // setVoltage
	putFloat(payload, 8, 2.0)    // setCurrent
	putFloat(payload, 12, 5.004) // outputVoltage
	putFloat(payload, 16, 1.002) // outputCurrent
	putFloat(payload, 20, 5.014) // outputPower
	putFloat(payload, 24, 28.5)  // temperature

	for g := 0; g < 6; g++ {
		putFloat(payload, 28+8*g, float32(g+1))   // group voltage
		putFloat(payload, 32+8*g, float32(g)+0.5) // group current
	}

	putFloat(payload, 76, 31.0)  // OVP
	putFloat(payload, 80, 5.2)   // OCP
	putFloat(payload, 84, 155.0) // OPP
	putFloat(payload, 88, 80.0)  // OTP
	putFloat(payload, 92, 4.5)   // LVP

	payload[96] = 8 // brightness
	payload[97] = 3 // volume
	payload[98] = 1 // metering running

	putFloat(payload, 99, 0.123)  // outputCapacity
	putFloat(payload, 103, 0.456) // outputEnergy

	payload[107] = 1 // output on
	payload[108] = 0 // no protection
	payload[109] = 1 // CV

	putFloat(payload, 111, 30.2) // upperLimitVoltage
	putFloat(payload, 115, 5.1)  // upperLimitCurrent

	return payload
}

func TestDecodeField_Bulk(t *testing.T) {
	update, err := DecodeField(FieldAll, buildBulkPayload())
	if err != nil {
		t.Fatalf("DecodeField failed: %v", err)
	}

	if len(update) != 34 {
		t.Errorf("update has %d keys, want 34", len(update))
	}

	floats := map[Key]float64{
		KeyInputVoltage:              12.0,
		KeySetVoltage:                5.0,
		KeySetCurrent:                2.0,
		KeyOutputVoltage:             5.004,
		KeyOutputCurrent:             1.002,
		KeyOutputPower:               5.014,
		KeyTemperature:               28.5,
		KeyGroup3SetVoltage:          3.0,
		KeyGroup3SetCurrent:          2.5,
		KeyOverVoltageProtection:     31.0,
		KeyOverCurrentProtection:     5.2,
		KeyOverPowerProtection:       155.0,
		KeyOverTemperatureProtection: 80.0,
		KeyLowVoltageProtection:      4.5,
		KeyOutputCapacity:            0.123,
		KeyOutputEnergy:              0.456,
		KeyUpperLimitVoltage:         30.2,
		KeyUpperLimitCurrent:         5.1,
	}
	for key, want := range floats {
		got, ok := update[key].(float64)
		if !ok || !floatEquals(got, want) {
			t.Errorf("%s = %v, want %v", key, update[key], want)
		}
	}

	if update[KeyBrightness] != uint8(8) {
		t.Errorf("brightness = %v, want 8", update[KeyBrightness])
	}
	if update[KeyVolume] != uint8(3) {
		t.Errorf("volume = %v, want 3", update[KeyVolume])
	}
	if update[KeyMeteringClosed] != false {
		t.Errorf("meteringClosed = %v, want false", update[KeyMeteringClosed])
	}
	if update[KeyOutputClosed] != true {
		t.Errorf("outputClosed = %v, want true", update[KeyOutputClosed])
	}
	if update[KeyProtectionState] != ProtectionNone {
		t.Errorf("protectionState = %v, want none", update[KeyProtectionState])
	}
	if update[KeyMode] != ModeConstantVoltage {
		t.Errorf("mode = %v, want CV", update[KeyMode])
	}
}

func TestDecodeField_BulkBestEffortProtection(t *testing.T) {
	payload := buildBulkPayload()
	payload[108] = 9 // outside the firmware table

	update, err := DecodeField(FieldAll, payload)

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if _, present := update[KeyProtectionState]; present {
		t.Error("protectionState should be skipped on out-of-range index")
	}
	// Every other field still decodes
	if len(update) != 33 {
		t.Errorf("update has %d keys, want 33", len(update))
	}
	if v := update[KeyOutputVoltage].(float64); !floatEquals(v, 5.004) {
		t.Errorf("outputVoltage = %v, bulk decode should continue past bad field", v)
	}
}

func TestDecodeField_BulkTooShort(t *testing.T) {
	var decodeErr *DecodeError
	if _, err := DecodeField(FieldAll, make([]byte, 100)); !errors.As(err, &decodeErr) {
		t.Errorf("expected DecodeError, got %v", err)
	}
}
