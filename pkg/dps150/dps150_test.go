// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Voltbench

package dps150

import (
	"encoding/binary"
	"math"
	"testing"
)

// ============================================================
// Test Helpers
// ============================================================

// mustEncode builds a frame or fails the test
func mustEncode(t *testing.T, header, command, fieldID byte, payload []byte) []byte {
	t.Helper()
	frame, err := EncodeCommand(header, command, fieldID, payload)
	if err != nil {
		t.Fatalf("EncodeCommand failed: %v", err)
	}
	return frame
}

// putFloat writes the little-endian float32 encoding of v at offset
func putFloat(buf []byte, offset int, v float32) {
	binary.LittleEndian.PutUint32(buf[offset:offset+4], math.Float32bits(v))
}

// floatEquals compares with the precision a float32 round trip allows
func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < 0.0001
}

// ============================================================
// Checksum Tests
// ============================================================

func TestChecksum_Empty(t *testing.T) {
	if sum := Checksum(0, nil); sum != 0 {
		t.Errorf("Checksum(0, nil) = %d, want 0", sum)
	}
}

func TestChecksum_KnownValues(t *testing.T) {
	tests := []struct {
		name     string
		fieldID  byte
		payload  []byte
		expected byte
	}{
		{
			name:     "voltage set 5.0",
			fieldID:  FieldVoltageSet,
			payload:  []byte{0x00, 0x00, 0xA0, 0x40},
			expected: 0xA5, // (193 + 4 + 0 + 0 + 160 + 64) mod 256
		},
		{
			name:     "single byte payload",
			fieldID:  FieldOutputEnable,
			payload:  []byte{1},
			expected: 221, // 219 + 1 + 1
		},
		{
			name:     "wraps modulo 256",
			fieldID:  FieldAll,
			payload:  []byte{0},
			expected: 0, // 255 + 1 + 0 = 256
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if sum := Checksum(tt.fieldID, tt.payload); sum != tt.expected {
				t.Errorf("Checksum = 0x%02X, want 0x%02X", sum, tt.expected)
			}
		})
	}
}

func TestChecksum_Deterministic(t *testing.T) {
	payload := []byte{0x10, 0x30, 0x01, 0x02}
	if Checksum(200, payload) != Checksum(200, payload) {
		t.Error("Checksum should be deterministic")
	}
}

// ============================================================
// Baud Table Tests
// ============================================================

func TestBaudIndex(t *testing.T) {
	tests := []struct {
		rate  int
		index byte
		ok    bool
	}{
		{9600, 1, true},
		{19200, 2, true},
		{38400, 3, true},
		{57600, 4, true},
		{115200, 5, true},
		{230400, 0, false},
		{0, 0, false},
	}

	for _, tt := range tests {
		idx, ok := BaudIndex(tt.rate)
		if idx != tt.index || ok != tt.ok {
			t.Errorf("BaudIndex(%d) = %d, %v; want %d, %v", tt.rate, idx, ok, tt.index, tt.ok)
		}
	}
}
