// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Voltbench

package dps150

import (
	"bytes"
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"
)

// getFuzzRounds returns the number of fuzz rounds from FUZZ_ROUNDS env var, default 1000
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 1000
}

// getFuzzSeed returns the seed from FUZZ_SEED env var, or generates one from current time
func getFuzzSeed() int64 {
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if seed, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			return seed
		}
	}
	return time.Now().UnixNano()
}

// newFuzzRng creates a new random number generator and logs the seed for reproducibility
func newFuzzRng(t *testing.T) *rand.Rand {
	seed := getFuzzSeed()
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

// randomFrame builds a valid telemetry frame with random field and payload
func randomFrame(rng *rand.Rand) ([]byte, byte, []byte) {
	fieldID := byte(rng.Intn(256))
	payload := make([]byte, rng.Intn(MaxPayloadSize+1))
	rng.Read(payload)

	frame := make([]byte, 0, len(payload)+frameOverhead)
	frame = append(frame, HeaderDevice, CmdGet, fieldID, byte(len(payload)))
	frame = append(frame, payload...)
	frame = append(frame, Checksum(fieldID, payload))
	return frame, fieldID, payload
}

// randomNoise builds inter-frame garbage that cannot contain the marker pair
func randomNoise(rng *rand.Rand) []byte {
	noise := make([]byte, rng.Intn(16))
	for i := range noise {
		noise[i] = byte(rng.Intn(0x80)) // stays below both marker bytes
	}
	return noise
}

func TestFuzz_DecoderRecoversAllFrames(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for round := 0; round < rounds; round++ {
		numFrames := 1 + rng.Intn(5)

		var stream []byte
		var fieldIDs []byte
		var payloads [][]byte

		stream = append(stream, randomNoise(rng)...)
		for i := 0; i < numFrames; i++ {
			frame, fieldID, payload := randomFrame(rng)
			stream = append(stream, frame...)
			stream = append(stream, randomNoise(rng)...)
			fieldIDs = append(fieldIDs, fieldID)
			payloads = append(payloads, payload)
		}

		// Feed in random-sized chunks
		d := NewDecoder()
		var packets []*Packet
		for len(stream) > 0 {
			n := 1 + rng.Intn(len(stream))
			packets = append(packets, d.Feed(stream[:n])...)
			stream = stream[n:]
		}

		if len(packets) != numFrames {
			t.Fatalf("round %d: decoded %d packets, want %d", round, len(packets), numFrames)
		}
		for i, p := range packets {
			if p.FieldID() != fieldIDs[i] {
				t.Fatalf("round %d: packet %d fieldID = %d, want %d", round, i, p.FieldID(), fieldIDs[i])
			}
			if !bytes.Equal(p.Payload(), payloads[i]) {
				t.Fatalf("round %d: packet %d payload mismatch", round, i)
			}
		}
	}
}

func TestFuzz_DecoderSurvivesRandomBytes(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	d := NewDecoder()
	for round := 0; round < rounds; round++ {
		chunk := make([]byte, rng.Intn(64))
		rng.Read(chunk)
		d.Feed(chunk) // must not panic, whatever arrives
	}

	// After a reset, a valid frame still decodes
	d.Reset()
	frame := []byte{HeaderDevice, CmdGet, FieldMode, 1, 0, Checksum(FieldMode, []byte{0})}
	packets := d.Feed(frame)
	if len(packets) != 1 {
		t.Fatalf("decoded %d packets after noise, want 1", len(packets))
	}
}

func TestFuzz_EncodeDecodeRoundTrip(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	d := NewDecoder()
	for round := 0; round < rounds; round++ {
		fieldID := byte(rng.Intn(256))
		payload := make([]byte, rng.Intn(MaxPayloadSize+1))
		rng.Read(payload)

		frame, err := EncodeCommand(HeaderDevice, CmdGet, fieldID, payload)
		if err != nil {
			t.Fatalf("round %d: encode failed: %v", round, err)
		}

		packets := d.Feed(frame)
		if len(packets) != 1 {
			t.Fatalf("round %d: decoded %d packets, want 1", round, len(packets))
		}
		if packets[0].FieldID() != fieldID || !bytes.Equal(packets[0].Payload(), payload) {
			t.Fatalf("round %d: round trip mismatch", round)
		}
	}
}
