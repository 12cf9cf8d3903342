// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Voltbench

package dps150

// Checksum computes the additive frame checksum over the field id, the
// declared payload length, and the payload bytes, modulo 256. The frame
// header and command bytes are not covered.
func Checksum(fieldID byte, payload []byte) byte {
	sum := uint(fieldID) + uint(len(payload))
	for _, b := range payload {
		sum += uint(b)
	}
	return byte(sum % 0x100)
}
